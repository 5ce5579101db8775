package store

import (
	"context"
	"database/sql"
	"time"

	"meetroom/internal/model"
)

// CreateUser inserts a user and sets its ID.
func (db *DB) CreateUser(ctx context.Context, u *model.User) error {
	now := time.Now()
	res, err := db.ExecContext(ctx,
		"INSERT INTO users (display_name, is_admin, created_at, updated_at) VALUES (?, ?, ?, ?)",
		u.DisplayName, u.IsAdmin, now, now,
	)
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	u.CreatedAt = now
	u.UpdatedAt = now
	return err
}

// GetUser returns a user by id.
func (db *DB) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := db.QueryRowContext(ctx,
		"SELECT id, display_name, is_admin, created_at, updated_at FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.DisplayName, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes a user. Bookings they own survive with a null owner.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}
