package model

import "time"

// Category is a lightweight reference entity grouping items by type.
// System-seeded categories are immutable and cannot be deleted.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	SortOrder int       `json:"sort_order"`
	System    bool      `json:"system"`
	CreatedAt time.Time `json:"created_at"`
}

// Room is a lightweight reference entity locating items in the home.
// System-seeded rooms are immutable and cannot be deleted.
type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	SortOrder int       `json:"sort_order"`
	System    bool      `json:"system"`
	CreatedAt time.Time `json:"created_at"`
}
