package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// GetInstallID returns this catalog's stable installation identifier,
// generating and persisting one on first call. Backup manifests embed it so
// an archive can be traced back to its source catalog.
// Uses INSERT OR IGNORE + re-SELECT to avoid a TOCTOU race on concurrent startup.
func GetInstallID(ctx context.Context, db *sql.DB) (string, error) {
	candidate := uuid.New().String()

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('install_id', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing install id: %w", err)
	}

	// Always read back (either our insert or the existing value).
	var id string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'install_id'`,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("querying install id: %w", err)
	}

	return id, nil
}

// GetSetting returns a settings value, or "" if the key is unset.
func GetSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting stores a settings value, replacing any existing one.
func SetSetting(ctx context.Context, db *sql.DB, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storing setting %q: %w", key, err)
	}
	return nil
}
