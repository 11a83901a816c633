package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mzajc/homevault/internal/model"
)

// CreateRoom creates a user-defined room.
func CreateRoom(ctx context.Context, db *sql.DB, name, icon string, sortOrder int) (*model.Room, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: room name required", ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO rooms (name, icon, sort_order, system) VALUES (?, ?, ?, 0)`,
		name, icon, sortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting room id: %w", err)
	}

	return GetRoom(ctx, db, id)
}

// GetRoom returns a room by ID.
func GetRoom(ctx context.Context, db *sql.DB, id int64) (*model.Room, error) {
	r := &model.Room{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, icon, sort_order, system, created_at
		 FROM rooms WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.Icon, &r.SortOrder, &r.System, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting room: %w", err)
	}
	return r, nil
}

// ListRooms returns all rooms ordered by sort order, then name.
func ListRooms(ctx context.Context, db DBTX) ([]model.Room, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, icon, sort_order, system, created_at
		 FROM rooms ORDER BY sort_order, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var r model.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Icon, &r.SortOrder, &r.System, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// UpdateRoom updates a user-defined room. System rooms are immutable.
func UpdateRoom(ctx context.Context, db *sql.DB, id int64, name, icon string, sortOrder int) error {
	if name == "" {
		return fmt.Errorf("%w: room name required", ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE rooms SET name = ?, icon = ?, sort_order = ? WHERE id = ? AND system = 0`,
		name, icon, sortOrder, id,
	)
	if err != nil {
		return fmt.Errorf("updating room: %w", err)
	}
	return requireChange(ctx, db, result, `SELECT system FROM rooms WHERE id = ?`, id)
}

// DeleteRoom deletes a user-defined room. Fails with ErrInUse while any item
// references it and with ErrSystemRecord for seeded defaults.
func DeleteRoom(ctx context.Context, db *sql.DB, id int64) error {
	var system bool
	err := db.QueryRowContext(ctx,
		`SELECT system FROM rooms WHERE id = ?`, id,
	).Scan(&system)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking room: %w", err)
	}
	if system {
		return ErrSystemRecord
	}

	var count int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE room_id = ?`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking room references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d items use this room", ErrInUse, count)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting room: %w", err)
	}
	return nil
}
