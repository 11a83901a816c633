// Package store persists the catalog entities in SQLite. Functions are
// package-level over the database handle; multi-row mutations run in
// transactions with the cascade policy declared in model.CascadeRules.
package store

import (
	"context"
	"database/sql"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx. Read helpers take
// it so they can run standalone or inside a snapshot transaction.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
