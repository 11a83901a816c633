package db

import (
	"database/sql"
	"testing"
)

// NewTestDB creates a fresh in-memory catalog database with the full schema
// and migrations applied. Test stores differ from the production store only
// in durability, never in schema.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
