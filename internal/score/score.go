// Package score computes documentation-completeness scores for items.
// Everything here is pure: scores are derived on demand and never persisted.
package score

// Presence records which documentation fields an item has filled in.
type Presence struct {
	HasPhoto        bool
	HasValue        bool
	HasCategory     bool
	HasRoom         bool
	HasReceipt      bool
	HasSerialNumber bool
}

// Extended-score weights. Fixed by design, sum to 1.0, and never
// renormalized: an absent field simply contributes zero.
const (
	WeightPhoto    = 0.30
	WeightValue    = 0.25
	WeightRoom     = 0.15
	WeightCategory = 0.10
	WeightReceipt  = 0.10
	WeightSerial   = 0.10
)

// Documentation levels classified from the core score.
const (
	LevelComplete = "complete"
	LevelGood     = "good"
	LevelPartial  = "partial"
	LevelMinimal  = "minimal"
)

// Core returns the unweighted average over the four core fields
// (photo, value, category, room). The result is always one of
// 0, 0.25, 0.5, 0.75 or 1.
func Core(p Presence) float64 {
	n := 0
	if p.HasPhoto {
		n++
	}
	if p.HasValue {
		n++
	}
	if p.HasCategory {
		n++
	}
	if p.HasRoom {
		n++
	}
	return float64(n) / 4
}

// Extended returns the weighted sum over all six fields.
func Extended(p Presence) float64 {
	s := 0.0
	if p.HasPhoto {
		s += WeightPhoto
	}
	if p.HasValue {
		s += WeightValue
	}
	if p.HasRoom {
		s += WeightRoom
	}
	if p.HasCategory {
		s += WeightCategory
	}
	if p.HasReceipt {
		s += WeightReceipt
	}
	if p.HasSerialNumber {
		s += WeightSerial
	}
	return s
}

// IsFullyDocumented reports whether all four core fields are present.
func IsFullyDocumented(p Presence) bool {
	return Core(p) == 1
}

// Level classifies the core score.
func Level(p Presence) string {
	switch c := Core(p); {
	case c == 1:
		return LevelComplete
	case c >= 0.75:
		return LevelGood
	case c >= 0.5:
		return LevelPartial
	default:
		return LevelMinimal
	}
}

// MissingFields returns the names of absent documentation fields in fixed
// declaration order.
func MissingFields(p Presence) []string {
	var missing []string
	if !p.HasPhoto {
		missing = append(missing, "Photo")
	}
	if !p.HasValue {
		missing = append(missing, "Value")
	}
	if !p.HasCategory {
		missing = append(missing, "Category")
	}
	if !p.HasRoom {
		missing = append(missing, "Room")
	}
	if !p.HasReceipt {
		missing = append(missing, "Receipt")
	}
	if !p.HasSerialNumber {
		missing = append(missing, "Serial number")
	}
	return missing
}
