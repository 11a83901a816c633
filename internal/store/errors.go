package store

import "errors"

// Sentinel errors returned by store operations. Callers match with errors.Is.
var (
	// ErrNotFound is returned by mutations targeting a missing row.
	// Fetches of missing rows return (nil, nil) instead.
	ErrNotFound = errors.New("record not found")

	// ErrInUse is returned when deleting a category or room that is still
	// referenced by at least one item.
	ErrInUse = errors.New("record is still referenced by items")

	// ErrSystemRecord is returned when modifying or deleting a seeded
	// system category or room.
	ErrSystemRecord = errors.New("system record cannot be changed")

	// ErrValidation wraps rejections that happen before any mutation.
	ErrValidation = errors.New("validation failed")
)
