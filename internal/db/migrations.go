package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Migrations must be idempotent and additive; append new ones
// at the end.
var migrations = []string{
	// Migration 1: lookup indexes for the item list filters.
	`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_room ON items(room_id)`,
	// Migration 2: receipts are looked up by linked item.
	`CREATE INDEX IF NOT EXISTS idx_receipts_item ON receipts(item_id)`,
}

// Migrate ensures the schema exists and runs all migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
