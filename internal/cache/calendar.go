// Package cache provides an optional Redis-backed cache for calendar reads.
// Reads are unlocked and eventually consistent with in-flight writes; every
// successful write to a room bumps the room's version, orphaning old entries.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Calendar caches room calendar responses.
type Calendar struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCalendar creates a calendar cache. A nil client disables caching; all
// operations become no-ops.
func NewCalendar(rdb *redis.Client, ttl time.Duration) *Calendar {
	return &Calendar{rdb: rdb, ttl: ttl}
}

// Enabled reports whether a Redis client is configured.
func (c *Calendar) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get reads a cached calendar payload into dest. Returns false on miss or any
// Redis error; cache failures never fail the read path.
func (c *Calendar) Get(ctx context.Context, roomID int64, from, to time.Time, dest any) bool {
	if !c.Enabled() {
		return false
	}
	key, err := c.key(ctx, roomID, from, to)
	if err != nil {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// Set stores a calendar payload under the room's current version.
func (c *Calendar) Set(ctx context.Context, roomID int64, from, to time.Time, value any) {
	if !c.Enabled() {
		return
	}
	key, err := c.key(ctx, roomID, from, to)
	if err != nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, data, c.ttl).Err()
}

// InvalidateRoom bumps the room's cache version after a successful write.
func (c *Calendar) InvalidateRoom(ctx context.Context, roomID int64) {
	if !c.Enabled() {
		return
	}
	_ = c.rdb.Incr(ctx, versionKey(roomID)).Err()
}

func (c *Calendar) key(ctx context.Context, roomID int64, from, to time.Time) (string, error) {
	ver, err := c.rdb.Get(ctx, versionKey(roomID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("calendar:%d:%d:%d:%d", roomID, ver, from.Unix(), to.Unix()), nil
}

func versionKey(roomID int64) string {
	return fmt.Sprintf("calendar:ver:%d", roomID)
}
