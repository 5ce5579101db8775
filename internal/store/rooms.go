package store

import (
	"context"
	"database/sql"
	"time"

	"meetroom/internal/model"
)

// CreateRoom inserts a room and sets its ID.
func (db *DB) CreateRoom(ctx context.Context, r *model.Room) error {
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO rooms (name, location, capacity, approver_id, maint_start, maint_end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.Location, r.Capacity, r.ApproverID, utcOrNil(r.MaintStart), utcOrNil(r.MaintEnd), now, now,
	)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	r.CreatedAt = now
	r.UpdatedAt = now
	return err
}

// GetRoom returns a room by id.
func (db *DB) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	return scanRoom(db.QueryRowContext(ctx, `
		SELECT id, name, location, capacity, approver_id, maint_start, maint_end, created_at, updated_at
		FROM rooms WHERE id = ?`, id))
}

// ListRooms returns all rooms ordered by name.
func (db *DB) ListRooms(ctx context.Context) ([]model.Room, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, location, capacity, approver_id, maint_start, maint_end, created_at, updated_at
		FROM rooms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *r)
	}
	return rooms, rows.Err()
}

// UpdateRoom updates the mutable room attributes.
func (db *DB) UpdateRoom(ctx context.Context, r *model.Room) error {
	res, err := db.ExecContext(ctx, `
		UPDATE rooms
		SET name = ?, location = ?, capacity = ?, approver_id = ?, maint_start = ?, maint_end = ?, updated_at = ?
		WHERE id = ?`,
		r.Name, r.Location, r.Capacity, r.ApproverID, utcOrNil(r.MaintStart), utcOrNil(r.MaintEnd), time.Now(), r.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// DeleteRoom removes a room. Its bookings cascade away with it.
func (db *DB) DeleteRoom(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func utcOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func scanRoom(row rowScanner) (*model.Room, error) {
	var r model.Room
	var location sql.NullString
	var approver sql.NullInt64
	var maintStart, maintEnd sql.NullTime
	err := row.Scan(&r.ID, &r.Name, &location, &r.Capacity, &approver, &maintStart, &maintEnd, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if location.Valid {
		r.Location = location.String
	}
	if approver.Valid {
		r.ApproverID = &approver.Int64
	}
	if maintStart.Valid {
		t := maintStart.Time
		r.MaintStart = &t
	}
	if maintEnd.Valid {
		t := maintEnd.Time
		r.MaintEnd = &t
	}
	return &r, nil
}
