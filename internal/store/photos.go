package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mzajc/homevault/internal/model"
)

// AddPhoto attaches a stored asset to an item. The first photo of an item
// becomes primary automatically; a later primary photo demotes the previous
// one. Adding a photo counts as an item mutation and refreshes updated_at.
func AddPhoto(ctx context.Context, db *sql.DB, itemID int64, assetID, caption string, primary bool) (*model.ItemPhoto, error) {
	if assetID == "" {
		return nil, fmt.Errorf("%w: asset id required", ErrValidation)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE id = ?)`, itemID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM item_photos WHERE item_id = ?`, itemID,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("counting item photos: %w", err)
	}
	if count == 0 {
		primary = true
	}

	if primary {
		if _, err := tx.ExecContext(ctx,
			`UPDATE item_photos SET is_primary = 0 WHERE item_id = ?`, itemID,
		); err != nil {
			return nil, fmt.Errorf("demoting primary photo: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO item_photos (item_id, asset_id, sort_order, is_primary, caption)
		 VALUES (?, ?, ?, ?, ?)`,
		itemID, assetID, count, primary, caption,
	)
	if err != nil {
		return nil, fmt.Errorf("adding photo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting photo id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, itemID,
	); err != nil {
		return nil, fmt.Errorf("touching item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing photo: %w", err)
	}

	return &model.ItemPhoto{
		ID:        id,
		ItemID:    itemID,
		AssetID:   assetID,
		SortOrder: count,
		Primary:   primary,
		Caption:   caption,
	}, nil
}

// ListPhotos returns an item's photos in sort order, primary first on ties.
func ListPhotos(ctx context.Context, db *sql.DB, itemID int64) ([]model.ItemPhoto, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, asset_id, sort_order, is_primary, caption
		 FROM item_photos WHERE item_id = ?
		 ORDER BY sort_order, is_primary DESC, id`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing photos: %w", err)
	}
	defer rows.Close()

	var photos []model.ItemPhoto
	for rows.Next() {
		var p model.ItemPhoto
		if err := rows.Scan(&p.ID, &p.ItemID, &p.AssetID, &p.SortOrder, &p.Primary, &p.Caption); err != nil {
			return nil, fmt.Errorf("scanning photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// DeletePhoto removes a photo row and returns its asset ID for
// garbage collection.
func DeletePhoto(ctx context.Context, db *sql.DB, id int64) (string, error) {
	var assetID string
	err := db.QueryRowContext(ctx,
		`SELECT asset_id FROM item_photos WHERE id = ?`, id,
	).Scan(&assetID)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting photo: %w", err)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM item_photos WHERE id = ?`, id); err != nil {
		return "", fmt.Errorf("deleting photo: %w", err)
	}
	return assetID, nil
}

// SetPrimaryPhoto marks one of an item's photos as primary.
func SetPrimaryPhoto(ctx context.Context, db *sql.DB, itemID, photoID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE item_photos SET is_primary = 1 WHERE id = ? AND item_id = ?`,
		photoID, itemID,
	)
	if err != nil {
		return fmt.Errorf("setting primary photo: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE item_photos SET is_primary = 0 WHERE item_id = ? AND id != ?`,
		itemID, photoID,
	); err != nil {
		return fmt.Errorf("demoting other photos: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing primary photo: %w", err)
	}
	return nil
}
