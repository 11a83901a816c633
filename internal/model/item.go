package model

import "time"

// Item represents a single catalogued possession.
type Item struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Brand         string     `json:"brand,omitempty"`
	ModelNumber   string     `json:"model_number,omitempty"`
	SerialNumber  string     `json:"serial_number,omitempty"`
	PriceCents    *int64     `json:"price_cents,omitempty"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty"`
	WarrantyUntil *time.Time `json:"warranty_until,omitempty"`
	Condition     string     `json:"condition"`
	Notes         string     `json:"notes,omitempty"`
	CategoryID    int64      `json:"category_id"`
	RoomID        int64      `json:"room_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Joined fields (not always populated).
	CategoryName string `json:"category_name,omitempty"`
	RoomName     string `json:"room_name,omitempty"`
	HasPhoto     bool   `json:"has_photo,omitempty"`
	HasReceipt   bool   `json:"has_receipt,omitempty"`
}

// Item conditions.
const (
	ConditionNew     = "new"
	ConditionLikeNew = "like_new"
	ConditionGood    = "good"
	ConditionFair    = "fair"
)

// ValidCondition reports whether c is a known item condition.
func ValidCondition(c string) bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair:
		return true
	}
	return false
}
