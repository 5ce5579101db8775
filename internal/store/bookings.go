package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"meetroom/internal/model"
)

const bookingColumns = `
	b.id, b.user_id, u.display_name, b.room_id, r.name, b.series_id, b.title,
	b.start_time, b.end_time, b.participants, b.chairman, b.department,
	b.description, b.extra_requests, b.notes, b.status, b.notified,
	b.created_at, b.updated_at`

const bookingFrom = `
	FROM bookings b
	JOIN rooms r ON r.id = b.room_id
	LEFT JOIN users u ON u.id = b.user_id`

// Instants are stored and compared as UTC text. Normalizing at this boundary
// keeps the SQL range comparisons correct for callers in any zone; a value
// bound with its original offset would compare lexicographically, not
// chronologically.

// HasConflict reports whether any active booking in the room overlaps the
// half-open range [start, end). Touching endpoints do not conflict.
// excludeID skips the booking being edited; pass 0 for creations.
func (db *DB) HasConflict(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error) {
	return hasConflict(ctx, db.DB, roomID, start, end, excludeID)
}

// HasConflictTx is HasConflict inside an open transaction, observing the
// transaction's snapshot.
func (db *DB) HasConflictTx(ctx context.Context, tx *sql.Tx, roomID int64, start, end time.Time, excludeID int64) (bool, error) {
	return hasConflict(ctx, tx, roomID, start, end, excludeID)
}

func hasConflict(ctx context.Context, q querier, roomID int64, start, end time.Time, excludeID int64) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE room_id = ?
		AND start_time < ? AND end_time > ?
		AND status IN ('pending', 'approved')
		AND id != ?`,
		roomID, end.UTC(), start.UTC(), excludeID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertBookingTx inserts a booking row and its equipment links inside an
// open transaction, setting the booking's ID and timestamps.
func (db *DB) InsertBookingTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (
			user_id, room_id, series_id, title, start_time, end_time,
			participants, chairman, department, description, extra_requests,
			notes, status, notified, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		b.UserID, b.RoomID, b.SeriesID, b.Title, b.StartTime.UTC(), b.EndTime.UTC(),
		b.Participants, b.Chairman, b.Department, b.Description, b.ExtraRequests,
		b.Notes, b.Status, now, now,
	)
	if err != nil {
		return err
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	b.CreatedAt = now
	b.UpdatedAt = now

	for _, e := range b.Equipment {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO booking_equipment (booking_id, equipment_id) VALUES (?, ?)",
			b.ID, e.ID,
		); err != nil {
			return err
		}
	}
	return nil
}

// UpdateBookingTx rewrites the mutable booking fields inside an open
// transaction, replacing the equipment links.
func (db *DB) UpdateBookingTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET title = ?, start_time = ?, end_time = ?, participants = ?,
		    chairman = ?, department = ?, description = ?, extra_requests = ?,
		    notes = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		b.Title, b.StartTime.UTC(), b.EndTime.UTC(), b.Participants,
		b.Chairman, b.Department, b.Description, b.ExtraRequests,
		b.Notes, b.Status, now, b.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	b.UpdatedAt = now

	if _, err := tx.ExecContext(ctx, "DELETE FROM booking_equipment WHERE booking_id = ?", b.ID); err != nil {
		return err
	}
	for _, e := range b.Equipment {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO booking_equipment (booking_id, equipment_id) VALUES (?, ?)",
			b.ID, e.ID,
		); err != nil {
			return err
		}
	}
	return nil
}

// UpdateBookingStatusIf sets the status only while the current status is one
// of from, reporting whether the row changed. The single guarded UPDATE closes
// the window between reading a booking and deciding it: of two concurrent
// decisions one changes nothing.
func (db *DB) UpdateBookingStatusIf(ctx context.Context, id int64, to model.Status, from ...model.Status) (bool, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(from)), ",")
	args := []any{to, time.Now(), id}
	for _, s := range from {
		args = append(args, s)
	}
	res, err := db.ExecContext(ctx,
		fmt.Sprintf("UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status IN (%s)", placeholders),
		args...,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetBooking returns a booking by id with its equipment loaded.
func (db *DB) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	row := db.QueryRowContext(ctx, "SELECT"+bookingColumns+bookingFrom+" WHERE b.id = ?", id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, err
	}
	if b.Equipment, err = db.loadEquipment(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// ListRoomBookings returns the active bookings of a room overlapping the
// half-open range [from, to), ordered by start. This is the unlocked calendar
// read path.
func (db *DB) ListRoomBookings(ctx context.Context, roomID int64, from, to time.Time) ([]model.Booking, error) {
	rows, err := db.QueryContext(ctx, "SELECT"+bookingColumns+bookingFrom+`
		WHERE b.room_id = ?
		AND b.start_time < ? AND b.end_time > ?
		AND b.status IN ('pending', 'approved')
		ORDER BY b.start_time`,
		roomID, to.UTC(), from.UTC(),
	)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListSeriesActive returns the still-active occurrences of a recurring batch.
func (db *DB) ListSeriesActive(ctx context.Context, seriesID string) ([]model.Booking, error) {
	rows, err := db.QueryContext(ctx, "SELECT"+bookingColumns+bookingFrom+`
		WHERE b.series_id = ?
		AND b.status IN ('pending', 'approved')
		ORDER BY b.start_time`,
		seriesID,
	)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListUnnotifiedUpcoming returns approved bookings starting in [now, now+within)
// whose reminder has not been sent yet.
func (db *DB) ListUnnotifiedUpcoming(ctx context.Context, now time.Time, within time.Duration) ([]model.Booking, error) {
	rows, err := db.QueryContext(ctx, "SELECT"+bookingColumns+bookingFrom+`
		WHERE b.status = 'approved'
		AND b.notified = 0
		AND b.start_time >= ? AND b.start_time < ?
		ORDER BY b.start_time`,
		now.UTC(), now.Add(within).UTC(),
	)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// MarkNotified flags a booking's reminder as sent.
func (db *DB) MarkNotified(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx,
		"UPDATE bookings SET notified = 1, updated_at = ? WHERE id = ?",
		time.Now(), id,
	)
	return err
}

func (db *DB) loadEquipment(ctx context.Context, bookingID int64) ([]model.Equipment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT e.id, e.name, e.description
		FROM equipment e
		JOIN booking_equipment be ON be.equipment_id = e.id
		WHERE be.booking_id = ?
		ORDER BY e.name`,
		bookingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Equipment
	for rows.Next() {
		var e model.Equipment
		if err := rows.Scan(&e.ID, &e.Name, &e.Description); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	defer rows.Close()
	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var b model.Booking
	var userID sql.NullInt64
	var userName, chairman, department, description, extraRequests, notes sql.NullString
	err := row.Scan(
		&b.ID, &userID, &userName, &b.RoomID, &b.RoomName, &b.SeriesID, &b.Title,
		&b.StartTime, &b.EndTime, &b.Participants, &chairman, &department,
		&description, &extraRequests, &notes, &b.Status, &b.Notified,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		b.UserID = &userID.Int64
	}
	if userName.Valid {
		b.UserName = userName.String
	}
	if chairman.Valid {
		b.Chairman = chairman.String
	}
	if department.Valid {
		b.Department = department.String
	}
	if description.Valid {
		b.Description = description.String
	}
	if extraRequests.Valid {
		b.ExtraRequests = extraRequests.String
	}
	if notes.Valid {
		b.Notes = notes.String
	}
	return &b, nil
}
