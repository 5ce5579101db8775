package store

import (
	"context"
	"fmt"
	"strings"

	"meetroom/internal/model"
)

// CreateEquipment inserts an equipment item and sets its ID.
func (db *DB) CreateEquipment(ctx context.Context, e *model.Equipment) error {
	res, err := db.ExecContext(ctx,
		"INSERT INTO equipment (name, description) VALUES (?, ?)",
		e.Name, e.Description,
	)
	if err != nil {
		return err
	}
	e.ID, err = res.LastInsertId()
	return err
}

// ListEquipment returns every equipment item ordered by name.
func (db *DB) ListEquipment(ctx context.Context) ([]model.Equipment, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, name, description FROM equipment ORDER BY name")
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

// GetEquipmentByIDs resolves equipment ids, failing with ErrNotFound when any
// id is unknown.
func (db *DB) GetEquipmentByIDs(ctx context.Context, ids []int64) ([]model.Equipment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, name, description FROM equipment WHERE id IN (%s) ORDER BY name", placeholders),
		args...,
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
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) != len(ids) {
		return nil, ErrNotFound
	}
	return items, nil
}
