package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Titles []string `json:"titles"`
}

func newTestCalendar(t *testing.T) *Calendar {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewCalendar(rdb, time.Minute)
}

func window() (time.Time, time.Time) {
	from := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}

func TestCalendarGetSet(t *testing.T) {
	c := newTestCalendar(t)
	ctx := context.Background()
	from, to := window()

	var got payload
	assert.False(t, c.Get(ctx, 1, from, to, &got), "cold cache misses")

	c.Set(ctx, 1, from, to, payload{Titles: []string{"standup"}})

	require.True(t, c.Get(ctx, 1, from, to, &got))
	assert.Equal(t, []string{"standup"}, got.Titles)

	// A different room or range is a separate entry.
	assert.False(t, c.Get(ctx, 2, from, to, &got))
	assert.False(t, c.Get(ctx, 1, from.Add(time.Hour), to, &got))
}

func TestCalendarInvalidateRoom(t *testing.T) {
	c := newTestCalendar(t)
	ctx := context.Background()
	from, to := window()

	c.Set(ctx, 1, from, to, payload{Titles: []string{"stale"}})
	c.Set(ctx, 2, from, to, payload{Titles: []string{"other room"}})

	c.InvalidateRoom(ctx, 1)

	var got payload
	assert.False(t, c.Get(ctx, 1, from, to, &got), "version bump orphans the old entry")
	assert.True(t, c.Get(ctx, 2, from, to, &got), "other rooms are untouched")

	// The next write lands under the new version.
	c.Set(ctx, 1, from, to, payload{Titles: []string{"fresh"}})
	require.True(t, c.Get(ctx, 1, from, to, &got))
	assert.Equal(t, []string{"fresh"}, got.Titles)
}

func TestCalendarDisabledIsNoop(t *testing.T) {
	c := NewCalendar(nil, time.Minute)
	ctx := context.Background()
	from, to := window()

	assert.False(t, c.Enabled())

	var got payload
	c.Set(ctx, 1, from, to, payload{Titles: []string{"x"}})
	assert.False(t, c.Get(ctx, 1, from, to, &got))
	c.InvalidateRoom(ctx, 1) // must not panic
}
