package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mzajc/homevault/internal/model"
)

// CreateCategory creates a user-defined category.
func CreateCategory(ctx context.Context, db *sql.DB, name, icon string, sortOrder int) (*model.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name required", ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (name, icon, sort_order, system) VALUES (?, ?, ?, 0)`,
		name, icon, sortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID.
func GetCategory(ctx context.Context, db *sql.DB, id int64) (*model.Category, error) {
	c := &model.Category{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, icon, sort_order, system, created_at
		 FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Icon, &c.SortOrder, &c.System, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// ListCategories returns all categories ordered by sort order, then name.
func ListCategories(ctx context.Context, db DBTX) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, icon, sort_order, system, created_at
		 FROM categories ORDER BY sort_order, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.SortOrder, &c.System, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory updates a user-defined category. System categories are
// immutable.
func UpdateCategory(ctx context.Context, db *sql.DB, id int64, name, icon string, sortOrder int) error {
	if name == "" {
		return fmt.Errorf("%w: category name required", ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE categories SET name = ?, icon = ?, sort_order = ? WHERE id = ? AND system = 0`,
		name, icon, sortOrder, id,
	)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return requireChange(ctx, db, result, `SELECT system FROM categories WHERE id = ?`, id)
}

// DeleteCategory deletes a user-defined category. Fails with ErrInUse while
// any item references it and with ErrSystemRecord for seeded defaults.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) error {
	var system bool
	err := db.QueryRowContext(ctx,
		`SELECT system FROM categories WHERE id = ?`, id,
	).Scan(&system)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking category: %w", err)
	}
	if system {
		return ErrSystemRecord
	}

	var count int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE category_id = ?`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking category references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d items use this category", ErrInUse, count)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return nil
}

// requireChange maps a zero-row update to ErrNotFound or ErrSystemRecord,
// depending on whether the row exists as a system record.
func requireChange(ctx context.Context, db *sql.DB, result sql.Result, systemQuery string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	var system bool
	err = db.QueryRowContext(ctx, systemQuery, id).Scan(&system)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking record: %w", err)
	}
	if system {
		return ErrSystemRecord
	}
	return nil
}
