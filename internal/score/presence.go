package score

import "github.com/mzajc/homevault/internal/model"

// PresenceOf derives the presence vector from a stored item. The item must
// carry its joined presence flags (HasPhoto, HasReceipt), as returned by the
// store's item queries.
func PresenceOf(item model.Item) Presence {
	return Presence{
		HasPhoto:        item.HasPhoto,
		HasValue:        item.PriceCents != nil,
		HasCategory:     item.CategoryID != 0,
		HasRoom:         item.RoomID != 0,
		HasReceipt:      item.HasReceipt,
		HasSerialNumber: item.SerialNumber != "",
	}
}
