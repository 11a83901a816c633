package model

import "time"

// Receipt is a scanned purchase receipt. It may be linked to an item,
// but keeps its identity when the link is cleared or the item is deleted.
type Receipt struct {
	ID            int64      `json:"id"`
	Vendor        string     `json:"vendor,omitempty"`
	TotalCents    *int64     `json:"total_cents,omitempty"`
	TaxCents      *int64     `json:"tax_cents,omitempty"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty"`
	AssetID       string     `json:"asset_id,omitempty"`
	RawText       string     `json:"raw_text,omitempty"`
	OCRConfidence float64    `json:"ocr_confidence"`
	ItemID        *int64     `json:"item_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
