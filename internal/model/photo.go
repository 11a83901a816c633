package model

// ItemPhoto links an item to a stored binary asset.
// Photos are owned by exactly one item and are removed with it.
type ItemPhoto struct {
	ID        int64  `json:"id"`
	ItemID    int64  `json:"item_id"`
	AssetID   string `json:"asset_id"`
	SortOrder int    `json:"sort_order"`
	Primary   bool   `json:"primary"`
	Caption   string `json:"caption,omitempty"`
}
