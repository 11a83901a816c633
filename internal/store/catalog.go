package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mzajc/homevault/internal/model"
)

// DumpCatalog reads every entity into a single snapshot, preserving IDs. The
// reads run in one transaction so a mutation cannot interleave mid-dump and
// produce a snapshot that fails its own validation.
func DumpCatalog(ctx context.Context, db *sql.DB) (*model.Catalog, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning snapshot: %w", err)
	}
	defer tx.Rollback()

	catalog := &model.Catalog{}

	if catalog.Categories, err = ListCategories(ctx, tx); err != nil {
		return nil, err
	}
	if catalog.Rooms, err = ListRooms(ctx, tx); err != nil {
		return nil, err
	}
	if catalog.Items, err = ListItems(ctx, tx, ItemFilter{}); err != nil {
		return nil, err
	}
	if catalog.Receipts, err = ListReceipts(ctx, tx, nil); err != nil {
		return nil, err
	}
	if catalog.Tags, err = ListTags(ctx, tx); err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, item_id, asset_id, sort_order, is_primary, caption
		 FROM item_photos ORDER BY item_id, sort_order, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("dumping photos: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p model.ItemPhoto
		if err := rows.Scan(&p.ID, &p.ItemID, &p.AssetID, &p.SortOrder, &p.Primary, &p.Caption); err != nil {
			return nil, fmt.Errorf("scanning photo: %w", err)
		}
		catalog.Photos = append(catalog.Photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dumping photos: %w", err)
	}

	linkRows, err := tx.QueryContext(ctx,
		`SELECT item_id, tag_id FROM item_tags ORDER BY item_id, tag_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("dumping tag associations: %w", err)
	}
	defer linkRows.Close()
	for linkRows.Next() {
		var it model.ItemTag
		if err := linkRows.Scan(&it.ItemID, &it.TagID); err != nil {
			return nil, fmt.Errorf("scanning tag association: %w", err)
		}
		catalog.ItemTags = append(catalog.ItemTags, it)
	}
	if err := linkRows.Err(); err != nil {
		return nil, fmt.Errorf("dumping tag associations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing snapshot: %w", err)
	}
	return catalog, nil
}

// ValidateCatalog checks a snapshot's internal references before a restore.
// Any violation fails the whole restore; nothing is written.
func ValidateCatalog(catalog *model.Catalog) error {
	categories := make(map[int64]bool, len(catalog.Categories))
	for _, c := range catalog.Categories {
		if c.Name == "" {
			return fmt.Errorf("%w: category %d has no name", ErrValidation, c.ID)
		}
		categories[c.ID] = true
	}
	rooms := make(map[int64]bool, len(catalog.Rooms))
	for _, r := range catalog.Rooms {
		if r.Name == "" {
			return fmt.Errorf("%w: room %d has no name", ErrValidation, r.ID)
		}
		rooms[r.ID] = true
	}
	items := make(map[int64]bool, len(catalog.Items))
	for _, i := range catalog.Items {
		if i.Name == "" {
			return fmt.Errorf("%w: item %d has no name", ErrValidation, i.ID)
		}
		if !categories[i.CategoryID] {
			return fmt.Errorf("%w: item %d references unknown category %d", ErrValidation, i.ID, i.CategoryID)
		}
		if !rooms[i.RoomID] {
			return fmt.Errorf("%w: item %d references unknown room %d", ErrValidation, i.ID, i.RoomID)
		}
		items[i.ID] = true
	}
	for _, p := range catalog.Photos {
		if !items[p.ItemID] {
			return fmt.Errorf("%w: photo %d references unknown item %d", ErrValidation, p.ID, p.ItemID)
		}
		if p.AssetID == "" {
			return fmt.Errorf("%w: photo %d has no asset id", ErrValidation, p.ID)
		}
	}
	for _, r := range catalog.Receipts {
		if r.ItemID != nil && !items[*r.ItemID] {
			return fmt.Errorf("%w: receipt %d references unknown item %d", ErrValidation, r.ID, *r.ItemID)
		}
	}
	tags := make(map[int64]bool, len(catalog.Tags))
	for _, t := range catalog.Tags {
		if t.Name == "" {
			return fmt.Errorf("%w: tag %d has no name", ErrValidation, t.ID)
		}
		tags[t.ID] = true
	}
	for _, it := range catalog.ItemTags {
		if !items[it.ItemID] || !tags[it.TagID] {
			return fmt.Errorf("%w: tag association %d/%d references unknown rows", ErrValidation, it.ItemID, it.TagID)
		}
	}
	return nil
}

// ReplaceCatalog swaps the entire store contents for the given snapshot in
// one transaction. IDs are preserved. All-or-nothing: any failure leaves the
// previous contents untouched.
func ReplaceCatalog(ctx context.Context, db *sql.DB, catalog *model.Catalog) error {
	if err := ValidateCatalog(catalog); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Children first, FK order.
	for _, table := range []string{"item_tags", "item_photos", "receipts", "items", "tags", "categories", "rooms"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, c := range catalog.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, icon, sort_order, system, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Icon, c.SortOrder, c.System, c.CreatedAt,
		); err != nil {
			return fmt.Errorf("restoring category %d: %w", c.ID, err)
		}
	}
	for _, r := range catalog.Rooms {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rooms (id, name, icon, sort_order, system, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Icon, r.SortOrder, r.System, r.CreatedAt,
		); err != nil {
			return fmt.Errorf("restoring room %d: %w", r.ID, err)
		}
	}
	for _, i := range catalog.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items (id, name, brand, model_number, serial_number, price_cents,
			                    purchase_date, warranty_until, condition, notes,
			                    category_id, room_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i.ID, i.Name, i.Brand, i.ModelNumber, i.SerialNumber, i.PriceCents,
			i.PurchaseDate, i.WarrantyUntil, i.Condition, i.Notes,
			i.CategoryID, i.RoomID, i.CreatedAt, i.UpdatedAt,
		); err != nil {
			return fmt.Errorf("restoring item %d: %w", i.ID, err)
		}
	}
	for _, p := range catalog.Photos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_photos (id, item_id, asset_id, sort_order, is_primary, caption)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.ItemID, p.AssetID, p.SortOrder, p.Primary, p.Caption,
		); err != nil {
			return fmt.Errorf("restoring photo %d: %w", p.ID, err)
		}
	}
	for _, r := range catalog.Receipts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO receipts (id, vendor, total_cents, tax_cents, purchase_date,
			                       asset_id, raw_text, ocr_confidence, item_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Vendor, r.TotalCents, r.TaxCents, r.PurchaseDate,
			r.AssetID, r.RawText, r.OCRConfidence, r.ItemID, r.CreatedAt,
		); err != nil {
			return fmt.Errorf("restoring receipt %d: %w", r.ID, err)
		}
	}
	for _, t := range catalog.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tags (id, name, color, favorite) VALUES (?, ?, ?, ?)`,
			t.ID, t.Name, t.Color, t.Favorite,
		); err != nil {
			return fmt.Errorf("restoring tag %d: %w", t.ID, err)
		}
	}
	for _, it := range catalog.ItemTags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_tags (item_id, tag_id) VALUES (?, ?)`,
			it.ItemID, it.TagID,
		); err != nil {
			return fmt.Errorf("restoring tag association %d/%d: %w", it.ItemID, it.TagID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing restore: %w", err)
	}
	return nil
}
