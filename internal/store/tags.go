package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mzajc/homevault/internal/model"
)

// CreateTag creates a tag. Tag names are unique; creating an existing name
// returns the existing tag.
func CreateTag(ctx context.Context, db *sql.DB, name, color string) (*model.Tag, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: tag name required", ErrValidation)
	}

	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tags (name, color) VALUES (?, ?)`,
		name, color,
	); err != nil {
		return nil, fmt.Errorf("creating tag: %w", err)
	}

	t := &model.Tag{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, color, favorite FROM tags WHERE name = ?`, name,
	).Scan(&t.ID, &t.Name, &t.Color, &t.Favorite)
	if err != nil {
		return nil, fmt.Errorf("getting tag: %w", err)
	}
	return t, nil
}

// ListTags returns all tags, favorites first.
func ListTags(ctx context.Context, db DBTX) ([]model.Tag, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, color, favorite FROM tags ORDER BY favorite DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Favorite); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ItemTags returns the tags associated with an item.
func ItemTags(ctx context.Context, db *sql.DB, itemID int64) ([]model.Tag, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT t.id, t.name, t.color, t.favorite
		 FROM tags t
		 JOIN item_tags it ON it.tag_id = t.id
		 WHERE it.item_id = ?
		 ORDER BY t.name`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Favorite); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// TagItem associates a tag with an item. Tagging twice is a no-op.
func TagItem(ctx context.Context, db *sql.DB, itemID, tagID int64) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO item_tags (item_id, tag_id) VALUES (?, ?)`,
		itemID, tagID,
	)
	if err != nil {
		return fmt.Errorf("tagging item: %w", err)
	}
	return nil
}

// UntagItem removes a tag association from an item.
func UntagItem(ctx context.Context, db *sql.DB, itemID, tagID int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM item_tags WHERE item_id = ? AND tag_id = ?`,
		itemID, tagID,
	)
	if err != nil {
		return fmt.Errorf("untagging item: %w", err)
	}
	return nil
}

// SetTagFavorite toggles a tag's favorite flag.
func SetTagFavorite(ctx context.Context, db *sql.DB, tagID int64, favorite bool) error {
	result, err := db.ExecContext(ctx,
		`UPDATE tags SET favorite = ? WHERE id = ?`, favorite, tagID,
	)
	if err != nil {
		return fmt.Errorf("setting tag favorite: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTag removes a tag and all its item associations.
func DeleteTag(ctx context.Context, db *sql.DB, tagID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE tag_id = ?`, tagID); err != nil {
		return fmt.Errorf("deleting tag associations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, tagID); err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tag deletion: %w", err)
	}
	return nil
}
