package model

// ItemTag is a single item/tag association row.
type ItemTag struct {
	ItemID int64 `json:"item_id"`
	TagID  int64 `json:"tag_id"`
}

// Catalog is a full snapshot of every entity, used by backup and restore.
type Catalog struct {
	Categories []Category  `json:"categories"`
	Rooms      []Room      `json:"rooms"`
	Items      []Item      `json:"items"`
	Photos     []ItemPhoto `json:"photos"`
	Receipts   []Receipt   `json:"receipts"`
	Tags       []Tag       `json:"tags"`
	ItemTags   []ItemTag   `json:"item_tags"`
}

// AssetIDs returns the distinct binary-asset identifiers referenced by the
// catalog, in stable order.
func (c *Catalog) AssetIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, p := range c.Photos {
		add(p.AssetID)
	}
	for _, r := range c.Receipts {
		add(r.AssetID)
	}
	return ids
}
