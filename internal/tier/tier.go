// Package tier implements the free/pro catalog-size gate. It is purely
// advisory: callers consult it before committing an insert and surface the
// upgrade prompt themselves, keeping any in-progress form state.
package tier

import "errors"

// ErrLimitReached is returned by callers when an insert is rejected at the
// free-tier ceiling. The insert must not happen; nothing is truncated.
var ErrLimitReached = errors.New("free tier item limit reached")

// Limits holds the entitlement ceilings. They are injected from
// configuration, never hardcoded at call sites.
type Limits struct {
	MaxFreeItems         int
	MaxFreeLossListItems int
}

// DefaultLimits returns the published free-tier ceilings.
func DefaultLimits() Limits {
	return Limits{
		MaxFreeItems:         100,
		MaxFreeLossListItems: 20,
	}
}

// Warning levels for the approaching-limit banner.
type Warning string

const (
	WarningNone         Warning = "none"
	WarningApproaching  Warning = "approaching"
	WarningLimitReached Warning = "limit_reached"
)

// CanInsert reports whether one more item may be added to a catalog that
// currently holds count items. Checked at insert time only: catalogs already
// over the ceiling (after a downgrade) stay readable but block new inserts.
func (l Limits) CanInsert(count int, pro bool) bool {
	if pro {
		return true
	}
	return count < l.MaxFreeItems
}

// WarningLevel classifies how close a free catalog is to its ceiling.
// The approaching threshold sits at 80% of the ceiling.
func (l Limits) WarningLevel(count int, pro bool) Warning {
	if pro {
		return WarningNone
	}
	switch {
	case count >= l.MaxFreeItems:
		return WarningLimitReached
	case count >= l.MaxFreeItems*4/5:
		return WarningApproaching
	default:
		return WarningNone
	}
}

// LossListCap returns the maximum number of items included in a loss-list
// report, or 0 for unlimited.
func (l Limits) LossListCap(pro bool) int {
	if pro {
		return 0
	}
	return l.MaxFreeLossListItems
}

// CanExportCSV reports whether tabular CSV export is available.
func CanExportCSV(pro bool) bool {
	return pro
}
