package model

// Tag is a free-form label with a many-to-many association to items.
type Tag struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Favorite bool   `json:"favorite"`
}
