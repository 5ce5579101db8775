// Package store persists rooms, users, equipment and bookings in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// DB wraps sql.DB for the reservation engine.
type DB struct {
	*sql.DB
}

// New opens the database at path and runs migrations. Write transactions are
// opened in immediate mode so the conflict-check-then-insert sequence of two
// concurrent creation calls serializes instead of racing.
func New(path string) (*DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		// DSN parameters apply to every pooled connection; a plain PRAGMA
		// would only reach the connection that ran it.
		dsn += "?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on&_loc=UTC"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			display_name TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS rooms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			location TEXT,
			capacity INTEGER NOT NULL CHECK (capacity >= 1),
			approver_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			maint_start DATETIME,
			maint_end DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS equipment (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			description TEXT
		)`,

		// Deleting a room deletes its bookings; deleting a user keeps the
		// booking with a null owner.
		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			room_id INTEGER NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
			series_id TEXT NOT NULL,
			title TEXT NOT NULL,
			start_time DATETIME NOT NULL,
			end_time DATETIME NOT NULL,
			participants INTEGER NOT NULL DEFAULT 1,
			chairman TEXT,
			department TEXT,
			description TEXT,
			extra_requests TEXT,
			notes TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			notified BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS booking_equipment (
			booking_id INTEGER NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
			equipment_id INTEGER NOT NULL REFERENCES equipment(id) ON DELETE CASCADE,
			PRIMARY KEY (booking_id, equipment_id)
		)`,

		`CREATE TABLE IF NOT EXISTS push_subscriptions (
			endpoint TEXT PRIMARY KEY,
			p256dh TEXT NOT NULL,
			auth TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_room_times ON bookings(room_id, start_time, end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_series ON bookings(series_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_notified ON bookings(notified, start_time)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}

// querier is satisfied by both *sql.DB and *sql.Tx so conflict checks can run
// inside or outside a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WithTx runs fn inside a transaction, rolling back on error.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
