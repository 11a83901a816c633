package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mzajc/homevault/internal/model"
)

// itemColumns is the shared select list for item queries, including the
// joined reference names and presence flags.
const itemColumns = `
	i.id, i.name, i.brand, i.model_number, i.serial_number,
	i.price_cents, i.purchase_date, i.warranty_until, i.condition, i.notes,
	i.category_id, i.room_id, i.created_at, i.updated_at,
	c.name AS category_name, r.name AS room_name,
	EXISTS (SELECT 1 FROM item_photos p WHERE p.item_id = i.id) AS has_photo,
	EXISTS (SELECT 1 FROM receipts rc WHERE rc.item_id = i.id) AS has_receipt`

const itemJoins = `
	FROM items i
	JOIN categories c ON c.id = i.category_id
	JOIN rooms r ON r.id = i.room_id`

func scanItem(s interface{ Scan(...any) error }) (*model.Item, error) {
	item := &model.Item{}
	var price sql.NullInt64
	var purchase, warranty sql.NullTime
	err := s.Scan(
		&item.ID, &item.Name, &item.Brand, &item.ModelNumber, &item.SerialNumber,
		&price, &purchase, &warranty, &item.Condition, &item.Notes,
		&item.CategoryID, &item.RoomID, &item.CreatedAt, &item.UpdatedAt,
		&item.CategoryName, &item.RoomName, &item.HasPhoto, &item.HasReceipt,
	)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		item.PriceCents = &price.Int64
	}
	if purchase.Valid {
		t := purchase.Time
		item.PurchaseDate = &t
	}
	if warranty.Valid {
		t := warranty.Time
		item.WarrantyUntil = &t
	}
	return item, nil
}

// validateItem checks the save-boundary invariants before any mutation.
func validateItem(item *model.Item) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: item name required", ErrValidation)
	}
	if item.Condition == "" {
		item.Condition = model.ConditionGood
	}
	if !model.ValidCondition(item.Condition) {
		return fmt.Errorf("%w: unknown condition %q", ErrValidation, item.Condition)
	}
	if item.CategoryID == 0 {
		return fmt.Errorf("%w: category required", ErrValidation)
	}
	if item.RoomID == 0 {
		return fmt.Errorf("%w: room required", ErrValidation)
	}
	return nil
}

// CreateItem creates a new item. Validation failures are rejected before any
// store mutation.
func CreateItem(ctx context.Context, db *sql.DB, item *model.Item) (*model.Item, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, brand, model_number, serial_number, price_cents,
		                    purchase_date, warranty_until, condition, notes, category_id, room_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Name, item.Brand, item.ModelNumber, item.SerialNumber, item.PriceCents,
		item.PurchaseDate, item.WarrantyUntil, item.Condition, item.Notes,
		item.CategoryID, item.RoomID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, with reference names and presence flags
// populated.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT`+itemColumns+itemJoins+` WHERE i.id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ItemFilter narrows and orders ListItems results. Zero values mean no
// filtering.
type ItemFilter struct {
	CategoryID int64
	RoomID     int64
	Condition  string
	TagID      int64
	Sort       string // one of "name", "newest", "value"
}

// ListItems returns items matching the filter. An empty result is a valid
// empty slice, never an error.
func ListItems(ctx context.Context, db DBTX, filter ItemFilter) ([]model.Item, error) {
	var where []string
	var args []any

	if filter.CategoryID != 0 {
		where = append(where, "i.category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.RoomID != 0 {
		where = append(where, "i.room_id = ?")
		args = append(args, filter.RoomID)
	}
	if filter.Condition != "" {
		where = append(where, "i.condition = ?")
		args = append(args, filter.Condition)
	}
	if filter.TagID != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM item_tags it WHERE it.item_id = i.id AND it.tag_id = ?)")
		args = append(args, filter.TagID)
	}

	query := `SELECT` + itemColumns + itemJoins
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	switch filter.Sort {
	case "newest":
		query += " ORDER BY i.created_at DESC, i.id DESC"
	case "value":
		query += " ORDER BY i.price_cents IS NULL, i.price_cents DESC, i.name"
	default:
		query += " ORDER BY i.name, i.id"
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem updates all editable fields and refreshes updated_at.
func UpdateItem(ctx context.Context, db *sql.DB, item *model.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, brand = ?, model_number = ?, serial_number = ?,
		        price_cents = ?, purchase_date = ?, warranty_until = ?, condition = ?,
		        notes = ?, category_id = ?, room_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		item.Name, item.Brand, item.ModelNumber, item.SerialNumber, item.PriceCents,
		item.PurchaseDate, item.WarrantyUntil, item.Condition, item.Notes,
		item.CategoryID, item.RoomID, item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
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

// DeleteItem removes an item and applies the declared cascade policy in a
// single transaction: owned photos are deleted, linked receipts are unlinked
// but kept, tag associations are removed. It returns the asset IDs of the
// deleted photos so the caller can garbage-collect the asset store.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) ([]string, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT asset_id FROM item_photos WHERE item_id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item photo assets: %w", err)
	}
	var assetIDs []string
	for rows.Next() {
		var assetID string
		if err := rows.Scan(&assetID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning asset id: %w", err)
		}
		assetIDs = append(assetIDs, assetID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("listing item photo assets: %w", err)
	}
	rows.Close()

	// Cascade policy, in the order declared by model.CascadeRules.
	if _, err := tx.ExecContext(ctx, `DELETE FROM item_photos WHERE item_id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting item photos: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE receipts SET item_id = NULL WHERE item_id = ?`, id); err != nil {
		return nil, fmt.Errorf("unlinking receipts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting tag associations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item deletion: %w", err)
	}
	return assetIDs, nil
}

// CountItems returns the number of catalogued items, consulted by the tier
// gate before inserts.
func CountItems(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return count, nil
}

// CountAssetRefs returns how many photo and receipt rows reference an asset.
// Content-addressed assets can be shared, so callers must check this before
// deleting a binary.
func CountAssetRefs(ctx context.Context, db *sql.DB, assetID string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM item_photos WHERE asset_id = ?)
		      + (SELECT COUNT(*) FROM receipts WHERE asset_id = ?)`,
		assetID, assetID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting asset references: %w", err)
	}
	return count, nil
}
