// Package backup serializes the whole catalog to a single self-describing
// zip archive and restores it atomically. Archives always carry entity rows
// and asset references; asset binaries are bundled only on request, keeping
// routine backups small while allowing fully portable archives.
package backup

import (
	"archive/zip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mzajc/homevault/internal/assets"
	"github.com/mzajc/homevault/internal/db"
	"github.com/mzajc/homevault/internal/model"
	"github.com/mzajc/homevault/internal/store"
)

// Archive entry names.
const (
	manifestName = "manifest.json"
	catalogName  = "catalog.json"
	assetPrefix  = "assets/"
)

var (
	// ErrIncompatible is returned when an archive was written by a newer
	// schema than this build understands.
	ErrIncompatible = errors.New("archive schema version not supported")

	// ErrCorrupt is returned for archives missing required entries or
	// carrying unparseable payloads. Nothing is restored from them.
	ErrCorrupt = errors.New("archive is corrupt")
)

// Manifest is the archive's self-description, written first.
type Manifest struct {
	SchemaVersion  int            `json:"schema_version"`
	App            string         `json:"app"`
	InstallID      string         `json:"install_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	Counts         map[string]int `json:"counts"`
	IncludesAssets bool           `json:"includes_assets"`
}

// ExportOptions controls archive contents.
type ExportOptions struct {
	// IncludeAssets bundles photo and receipt binaries into the archive.
	IncludeAssets bool
}

// Service exports and restores catalog archives. It owns no state; both
// operations run in the caller's goroutine and honor ctx cancellation.
type Service struct {
	DB     *sql.DB
	Assets *assets.Store
}

// Export writes a catalog archive to w.
func (s *Service) Export(ctx context.Context, w io.Writer, opts ExportOptions) error {
	catalog, err := store.DumpCatalog(ctx, s.DB)
	if err != nil {
		return err
	}
	installID, err := store.GetInstallID(ctx, s.DB)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	manifest := Manifest{
		SchemaVersion: db.SchemaVersion,
		App:           "homevault",
		InstallID:     installID,
		CreatedAt:     time.Now().UTC(),
		Counts: map[string]int{
			"categories": len(catalog.Categories),
			"rooms":      len(catalog.Rooms),
			"items":      len(catalog.Items),
			"photos":     len(catalog.Photos),
			"receipts":   len(catalog.Receipts),
			"tags":       len(catalog.Tags),
		},
		IncludesAssets: opts.IncludeAssets,
	}
	if err := writeJSON(zw, manifestName, manifest); err != nil {
		return err
	}
	if err := writeJSON(zw, catalogName, catalog); err != nil {
		return err
	}

	if opts.IncludeAssets {
		for _, id := range catalog.AssetIDs() {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := s.Assets.Load(ctx, id)
			if err != nil {
				return err
			}
			if data == nil {
				// Dangling reference; the archive stays restorable.
				slog.Warn("asset missing during export", "asset", id)
				continue
			}
			f, err := zw.Create(assetPrefix + id)
			if err != nil {
				return fmt.Errorf("creating archive entry: %w", err)
			}
			if _, err := f.Write(data); err != nil {
				return fmt.Errorf("writing archive entry: %w", err)
			}
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}

	slog.Info("catalog exported", "items", len(catalog.Items), "assets_bundled", opts.IncludeAssets)
	return nil
}

func writeJSON(zw *zip.Writer, name string, v any) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return nil
}

// Restore replaces the catalog with an archive's contents. All-or-nothing:
// a partially invalid archive leaves the store untouched. Bundled assets are
// written back after the entity transaction commits; asset writes are
// idempotent, so a failed asset only leaves a reportable dangling reference.
func (s *Service) Restore(ctx context.Context, r io.ReaderAt, size int64) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var manifest Manifest
	if err := readJSON(zr, manifestName, &manifest); err != nil {
		return err
	}
	if manifest.SchemaVersion > db.SchemaVersion {
		return fmt.Errorf("%w: archive is v%d, this build understands v%d",
			ErrIncompatible, manifest.SchemaVersion, db.SchemaVersion)
	}

	var catalog model.Catalog
	if err := readJSON(zr, catalogName, &catalog); err != nil {
		return err
	}

	// Entry names become filesystem paths in the asset store. Reject
	// malformed ones before anything is written, so a crafted archive
	// (zip-slip) fails the same all-or-nothing way an invalid catalog does.
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, assetPrefix) {
			continue
		}
		if !assets.ValidID(f.Name[len(assetPrefix):]) {
			return fmt.Errorf("%w: unsafe asset entry %q", ErrCorrupt, f.Name)
		}
	}

	if err := store.ReplaceCatalog(ctx, s.DB, &catalog); err != nil {
		return err
	}

	restored := 0
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, assetPrefix) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		id := f.Name[len(assetPrefix):]
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("%w: opening asset %s: %v", ErrCorrupt, id, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("%w: reading asset %s: %v", ErrCorrupt, id, err)
		}
		if err := s.Assets.Put(ctx, id, data); err != nil {
			return err
		}
		restored++
	}

	slog.Info("catalog restored",
		"items", len(catalog.Items), "assets", restored, "archive_version", manifest.SchemaVersion)
	return nil
}

func readJSON(zr *zip.Reader, name string, v any) error {
	f, err := zr.Open(name)
	if err != nil {
		return fmt.Errorf("%w: missing %s", ErrCorrupt, name)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrCorrupt, name, err)
	}
	return nil
}
