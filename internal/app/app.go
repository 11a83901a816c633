// Package app wires the services together and coordinates them. The App is
// built once at startup and passed down explicitly; there are no ambient
// globals. It is also the catalog's single writer: services hand results
// back here and only the App applies them to the entity store.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mzajc/homevault/internal/assets"
	"github.com/mzajc/homevault/internal/backup"
	"github.com/mzajc/homevault/internal/config"
	"github.com/mzajc/homevault/internal/db"
	"github.com/mzajc/homevault/internal/model"
	"github.com/mzajc/homevault/internal/ocr"
	"github.com/mzajc/homevault/internal/report"
	"github.com/mzajc/homevault/internal/score"
	"github.com/mzajc/homevault/internal/store"
	"github.com/mzajc/homevault/internal/tier"
)

// App is the constructed dependency graph.
type App struct {
	Config  *config.Config
	DB      *sql.DB
	Assets  *assets.Store
	OCR     *ocr.Service
	Reports *report.Generator
	Backup  *backup.Service
	Limits  tier.Limits

	// mu serializes catalog mutations. Reads are snapshot queries and
	// take no lock.
	mu sync.Mutex
}

// New builds the full service graph, opening the database, running
// migrations and seeding the system reference entities.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, err
	}
	if err := store.SeedDefaults(ctx, database); err != nil {
		database.Close()
		return nil, err
	}

	assetStore, err := assets.NewStore(cfg.AssetsDir)
	if err != nil {
		database.Close()
		return nil, err
	}
	if err := os.MkdirAll(cfg.ReportsDir, 0o755); err != nil {
		database.Close()
		return nil, fmt.Errorf("creating reports directory: %w", err)
	}

	limits := tier.Limits{
		MaxFreeItems:         cfg.MaxFreeItems,
		MaxFreeLossListItems: cfg.MaxFreeLossListItems,
	}

	return &App{
		Config: cfg,
		DB:     database,
		Assets: assetStore,
		OCR:    ocr.NewService(&ocr.TesseractEngine{Binary: cfg.OCRBinary}, cfg.OCRConcurrency),
		Reports: &report.Generator{
			DB:     database,
			Dir:    cfg.ReportsDir,
			Limits: limits,
			Pro:    cfg.ProUnlocked,
		},
		Backup: &backup.Service{DB: database, Assets: assetStore},
		Limits: limits,
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// AddItem checks the tier gate and inserts a new item. At the ceiling the
// insert is rejected with tier.ErrLimitReached before any mutation, so the
// caller keeps the in-progress form state and can surface an upgrade prompt.
func (a *App) AddItem(ctx context.Context, item *model.Item) (*model.Item, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	count, err := store.CountItems(ctx, a.DB)
	if err != nil {
		return nil, err
	}
	if !a.Limits.CanInsert(count, a.Config.ProUnlocked) {
		return nil, tier.ErrLimitReached
	}

	created, err := store.CreateItem(ctx, a.DB, item)
	if err != nil {
		return nil, err
	}
	slog.Info("item added", "item", created.ID, "name", created.Name)
	return created, nil
}

// UpdateItem applies an edit.
func (a *App) UpdateItem(ctx context.Context, item *model.Item) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return store.UpdateItem(ctx, a.DB, item)
}

// DeleteItem removes an item with its cascade (photos deleted, receipts
// unlinked) and garbage-collects photo assets no longer referenced by any
// row. Asset deletion failures are logged, not fatal: the catalog mutation
// has already committed and a leftover blob is harmless.
func (a *App) DeleteItem(ctx context.Context, id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	assetIDs, err := store.DeleteItem(ctx, a.DB, id)
	if err != nil {
		return err
	}

	for _, assetID := range assetIDs {
		refs, err := store.CountAssetRefs(ctx, a.DB, assetID)
		if err != nil {
			slog.Warn("asset refcount failed", "asset", assetID, "error", err)
			continue
		}
		if refs > 0 {
			continue
		}
		if err := a.Assets.Delete(ctx, assetID); err != nil {
			slog.Warn("asset delete failed", "asset", assetID, "error", err)
		}
	}

	slog.Info("item deleted", "item", id, "photos", len(assetIDs))
	return nil
}

// AttachPhoto stores the image binary and links it to the item.
func (a *App) AttachPhoto(ctx context.Context, itemID int64, image []byte, caption string, primary bool) (*model.ItemPhoto, error) {
	assetID, err := a.Assets.Save(ctx, image, fmt.Sprintf("item-%d", itemID))
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return store.AddPhoto(ctx, a.DB, itemID, assetID, caption, primary)
}

// ScanReceipt stores the receipt image, extracts its text and creates the
// receipt record prefilled with the parsed fields. A receipt below
// ocr.LowConfidence is still saved; the caller flags it for manual review.
func (a *App) ScanReceipt(ctx context.Context, image []byte, itemID *int64) (*model.Receipt, error) {
	assetID, err := a.Assets.Save(ctx, image, "receipt")
	if err != nil {
		return nil, err
	}

	result, err := a.OCR.ExtractText(ctx, image)
	if err != nil {
		return nil, err
	}
	fields := ocr.ParseFields(result.RawText)

	a.mu.Lock()
	defer a.mu.Unlock()
	return store.CreateReceipt(ctx, a.DB, &model.Receipt{
		Vendor:        fields.Vendor,
		TotalCents:    fields.TotalCents,
		TaxCents:      fields.TaxCents,
		PurchaseDate:  fields.PurchaseDate,
		AssetID:       assetID,
		RawText:       result.RawText,
		OCRConfidence: result.Confidence,
		ItemID:        itemID,
	})
}

// ItemScore derives the documentation score for a stored item.
func (a *App) ItemScore(ctx context.Context, id int64) (score.Presence, error) {
	item, err := store.GetItem(ctx, a.DB, id)
	if err != nil {
		return score.Presence{}, err
	}
	if item == nil {
		return score.Presence{}, store.ErrNotFound
	}
	return score.PresenceOf(*item), nil
}

// InsertWarning reports how close the catalog is to the free-tier ceiling.
func (a *App) InsertWarning(ctx context.Context) (tier.Warning, error) {
	count, err := store.CountItems(ctx, a.DB)
	if err != nil {
		return tier.WarningNone, err
	}
	return a.Limits.WarningLevel(count, a.Config.ProUnlocked), nil
}

// MissingAssets lists dangling asset references: identifiers the catalog
// knows that no longer resolve to a stored binary. Reported, never
// auto-deleted.
func (a *App) MissingAssets(ctx context.Context) ([]string, error) {
	refs, err := store.ListAssetIDs(ctx, a.DB)
	if err != nil {
		return nil, err
	}
	return a.Assets.Missing(refs), nil
}

// ExportCSV streams the pro-gated tabular export.
func (a *App) ExportCSV(ctx context.Context, w io.Writer) error {
	if !tier.CanExportCSV(a.Config.ProUnlocked) {
		return fmt.Errorf("csv export requires pro")
	}
	items, err := store.ListItems(ctx, a.DB, store.ItemFilter{})
	if err != nil {
		return err
	}
	return report.WriteCSV(w, items)
}
