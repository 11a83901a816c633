package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mzajc/homevault/internal/model"
)

// CreateReceipt stores a scanned receipt. The item link is optional and may
// be set or cleared later without affecting the receipt itself.
func CreateReceipt(ctx context.Context, db *sql.DB, receipt *model.Receipt) (*model.Receipt, error) {
	if receipt.OCRConfidence < 0 || receipt.OCRConfidence > 1 {
		return nil, fmt.Errorf("%w: ocr confidence must be within [0,1]", ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO receipts (vendor, total_cents, tax_cents, purchase_date, asset_id,
		                       raw_text, ocr_confidence, item_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.Vendor, receipt.TotalCents, receipt.TaxCents, receipt.PurchaseDate,
		receipt.AssetID, receipt.RawText, receipt.OCRConfidence, receipt.ItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating receipt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting receipt id: %w", err)
	}

	return GetReceipt(ctx, db, id)
}

func scanReceipt(s interface{ Scan(...any) error }) (*model.Receipt, error) {
	r := &model.Receipt{}
	var total, tax, itemID sql.NullInt64
	var purchase sql.NullTime
	err := s.Scan(&r.ID, &r.Vendor, &total, &tax, &purchase, &r.AssetID,
		&r.RawText, &r.OCRConfidence, &itemID, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if total.Valid {
		r.TotalCents = &total.Int64
	}
	if tax.Valid {
		r.TaxCents = &tax.Int64
	}
	if purchase.Valid {
		t := purchase.Time
		r.PurchaseDate = &t
	}
	if itemID.Valid {
		r.ItemID = &itemID.Int64
	}
	return r, nil
}

// GetReceipt returns a receipt by ID.
func GetReceipt(ctx context.Context, db *sql.DB, id int64) (*model.Receipt, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, vendor, total_cents, tax_cents, purchase_date, asset_id,
		        raw_text, ocr_confidence, item_id, created_at
		 FROM receipts WHERE id = ?`, id,
	)
	r, err := scanReceipt(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return r, nil
}

// ListReceipts returns all receipts, newest first. If itemID is non-nil only
// receipts linked to that item are returned.
func ListReceipts(ctx context.Context, db DBTX, itemID *int64) ([]model.Receipt, error) {
	query := `SELECT id, vendor, total_cents, tax_cents, purchase_date, asset_id,
	                 raw_text, ocr_confidence, item_id, created_at
	          FROM receipts`
	var args []any
	if itemID != nil {
		query += ` WHERE item_id = ?`
		args = append(args, *itemID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	defer rows.Close()

	var receipts []model.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning receipt: %w", err)
		}
		receipts = append(receipts, *r)
	}
	return receipts, rows.Err()
}

// UpdateReceipt updates a receipt's manually editable fields.
func UpdateReceipt(ctx context.Context, db *sql.DB, receipt *model.Receipt) error {
	result, err := db.ExecContext(ctx,
		`UPDATE receipts SET vendor = ?, total_cents = ?, tax_cents = ?, purchase_date = ?
		 WHERE id = ?`,
		receipt.Vendor, receipt.TotalCents, receipt.TaxCents, receipt.PurchaseDate, receipt.ID,
	)
	if err != nil {
		return fmt.Errorf("updating receipt: %w", err)
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

// LinkReceipt points a receipt at an item. Relinking replaces the previous
// link; the receipt keeps its identity either way.
func LinkReceipt(ctx context.Context, db *sql.DB, receiptID, itemID int64) error {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE id = ?)`, itemID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking item: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	result, err := db.ExecContext(ctx,
		`UPDATE receipts SET item_id = ? WHERE id = ?`, itemID, receiptID,
	)
	if err != nil {
		return fmt.Errorf("linking receipt: %w", err)
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

// UnlinkReceipt clears a receipt's item link.
func UnlinkReceipt(ctx context.Context, db *sql.DB, receiptID int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE receipts SET item_id = NULL WHERE id = ?`, receiptID,
	)
	if err != nil {
		return fmt.Errorf("unlinking receipt: %w", err)
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

// DeleteReceipt removes a receipt and returns its asset ID (empty if the
// receipt had no scan) for garbage collection.
func DeleteReceipt(ctx context.Context, db *sql.DB, id int64) (string, error) {
	var assetID string
	err := db.QueryRowContext(ctx,
		`SELECT asset_id FROM receipts WHERE id = ?`, id,
	).Scan(&assetID)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting receipt: %w", err)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM receipts WHERE id = ?`, id); err != nil {
		return "", fmt.Errorf("deleting receipt: %w", err)
	}
	return assetID, nil
}
