package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mzajc/homevault/internal/config"
	"github.com/mzajc/homevault/internal/model"
	"github.com/mzajc/homevault/internal/ocr"
	"github.com/mzajc/homevault/internal/store"
	"github.com/mzajc/homevault/internal/tier"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DataDir:              dir,
		DBPath:               filepath.Join(dir, "test.sqlite3"),
		AssetsDir:            filepath.Join(dir, "assets"),
		ReportsDir:           filepath.Join(dir, "reports"),
		MaxFreeItems:         100,
		MaxFreeLossListItems: 20,
		OCRConcurrency:       1,
	}
	if mutate != nil {
		mutate(cfg)
	}

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// testRefs returns a seeded system category and room to hang items on.
func testRefs(t *testing.T, a *App) (categoryID, roomID int64) {
	t.Helper()
	ctx := context.Background()

	categories, err := store.ListCategories(ctx, a.DB)
	if err != nil || len(categories) == 0 {
		t.Fatalf("expected seeded categories, got %d (%v)", len(categories), err)
	}
	rooms, err := store.ListRooms(ctx, a.DB)
	if err != nil || len(rooms) == 0 {
		t.Fatalf("expected seeded rooms, got %d (%v)", len(rooms), err)
	}
	return categories[0].ID, rooms[0].ID
}

func testPhoto(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 48, 48)), nil); err != nil {
		t.Fatalf("encoding test photo: %v", err)
	}
	return buf.Bytes()
}

type fakeOCR struct {
	result ocr.Result
}

func (f *fakeOCR) Recognize(ctx context.Context, image []byte) (ocr.Result, error) {
	return f.result, nil
}

func TestAddItemGate(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) { cfg.MaxFreeItems = 2 })
	ctx := context.Background()
	categoryID, roomID := testRefs(t, a)

	for i := 0; i < 2; i++ {
		_, err := a.AddItem(ctx, &model.Item{Name: "Item", CategoryID: categoryID, RoomID: roomID})
		if err != nil {
			t.Fatalf("AddItem %d: %v", i, err)
		}
	}

	_, err := a.AddItem(ctx, &model.Item{Name: "One too many", CategoryID: categoryID, RoomID: roomID})
	if !errors.Is(err, tier.ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached at ceiling, got %v", err)
	}

	// Rejected before any mutation.
	count, _ := store.CountItems(ctx, a.DB)
	if count != 2 {
		t.Errorf("expected 2 items after rejected insert, got %d", count)
	}

	warning, err := a.InsertWarning(ctx)
	if err != nil {
		t.Fatalf("InsertWarning: %v", err)
	}
	if warning != tier.WarningLimitReached {
		t.Errorf("expected limit-reached warning, got %v", warning)
	}
}

func TestAddItemGateLiftedForPro(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.MaxFreeItems = 1
		cfg.ProUnlocked = true
	})
	ctx := context.Background()
	categoryID, roomID := testRefs(t, a)

	for i := 0; i < 3; i++ {
		if _, err := a.AddItem(ctx, &model.Item{Name: "Item", CategoryID: categoryID, RoomID: roomID}); err != nil {
			t.Fatalf("AddItem %d: %v", i, err)
		}
	}
}

func TestAttachPhotoAndScore(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()
	categoryID, roomID := testRefs(t, a)

	price := int64(50000)
	item, err := a.AddItem(ctx, &model.Item{
		Name: "Camera", CategoryID: categoryID, RoomID: roomID, PriceCents: &price,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	photo, err := a.AttachPhoto(ctx, item.ID, testPhoto(t), "front", false)
	if err != nil {
		t.Fatalf("AttachPhoto: %v", err)
	}
	if !photo.Primary {
		t.Error("first photo should be primary")
	}
	if !a.Assets.Exists(photo.AssetID) {
		t.Error("expected photo binary stored")
	}

	presence, err := a.ItemScore(ctx, item.ID)
	if err != nil {
		t.Fatalf("ItemScore: %v", err)
	}
	if !presence.HasPhoto || !presence.HasValue {
		t.Errorf("expected photo and value present, got %+v", presence)
	}
}

func TestDeleteItemCollectsAssets(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()
	categoryID, roomID := testRefs(t, a)

	item, _ := a.AddItem(ctx, &model.Item{Name: "Camera", CategoryID: categoryID, RoomID: roomID})
	photo, err := a.AttachPhoto(ctx, item.ID, testPhoto(t), "", false)
	if err != nil {
		t.Fatalf("AttachPhoto: %v", err)
	}

	if err := a.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if a.Assets.Exists(photo.AssetID) {
		t.Error("expected unreferenced asset garbage-collected")
	}

	if err := a.DeleteItem(ctx, item.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestDeleteItemKeepsSharedAssets(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()
	categoryID, roomID := testRefs(t, a)

	first, _ := a.AddItem(ctx, &model.Item{Name: "First", CategoryID: categoryID, RoomID: roomID})
	second, _ := a.AddItem(ctx, &model.Item{Name: "Second", CategoryID: categoryID, RoomID: roomID})

	// Same bytes, same content address, two referencing rows.
	photo := testPhoto(t)
	p1, err := a.AttachPhoto(ctx, first.ID, photo, "", false)
	if err != nil {
		t.Fatalf("AttachPhoto: %v", err)
	}
	if _, err := a.AttachPhoto(ctx, second.ID, photo, "", false); err != nil {
		t.Fatalf("AttachPhoto: %v", err)
	}

	if err := a.DeleteItem(ctx, first.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if !a.Assets.Exists(p1.AssetID) {
		t.Error("asset still referenced by the second item must survive")
	}
}

func TestScanReceipt(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()
	categoryID, roomID := testRefs(t, a)

	item, _ := a.AddItem(ctx, &model.Item{Name: "Drill", CategoryID: categoryID, RoomID: roomID})

	a.OCR = ocr.NewService(&fakeOCR{result: ocr.Result{
		RawText:    "BAUHAUS\nTOTAL 89.99",
		Confidence: 0.93,
	}}, 1)

	receipt, err := a.ScanReceipt(ctx, testPhoto(t), &item.ID)
	if err != nil {
		t.Fatalf("ScanReceipt: %v", err)
	}
	if receipt.Vendor != "BAUHAUS" {
		t.Errorf("expected parsed vendor, got %q", receipt.Vendor)
	}
	if receipt.TotalCents == nil || *receipt.TotalCents != 8999 {
		t.Errorf("expected total 8999, got %v", receipt.TotalCents)
	}
	if receipt.OCRConfidence != 0.93 {
		t.Errorf("expected confidence 0.93, got %v", receipt.OCRConfidence)
	}
	if receipt.ItemID == nil || *receipt.ItemID != item.ID {
		t.Errorf("expected receipt linked to item, got %v", receipt.ItemID)
	}
	if !a.Assets.Exists(receipt.AssetID) {
		t.Error("expected receipt scan stored")
	}
}

func TestMissingAssets(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()
	categoryID, roomID := testRefs(t, a)

	item, _ := a.AddItem(ctx, &model.Item{Name: "Camera", CategoryID: categoryID, RoomID: roomID})
	photo, _ := a.AttachPhoto(ctx, item.ID, testPhoto(t), "", false)

	missing, err := a.MissingAssets(ctx)
	if err != nil {
		t.Fatalf("MissingAssets: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("expected no dangling refs, got %v", missing)
	}

	// Simulate external drift: blob vanishes, row stays.
	if err := a.Assets.Delete(ctx, photo.AssetID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	missing, _ = a.MissingAssets(ctx)
	if len(missing) != 1 || missing[0] != photo.AssetID {
		t.Errorf("expected dangling ref reported, got %v", missing)
	}
}

func TestExportCSVGated(t *testing.T) {
	a := newTestApp(t, nil)

	var buf bytes.Buffer
	if err := a.ExportCSV(context.Background(), &buf); err == nil {
		t.Fatal("expected csv export rejected for free tier")
	}
}

func TestExportCSVPro(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) { cfg.ProUnlocked = true })
	ctx := context.Background()
	categoryID, roomID := testRefs(t, a)

	a.AddItem(ctx, &model.Item{Name: "Camera", CategoryID: categoryID, RoomID: roomID})

	var buf bytes.Buffer
	if err := a.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if !strings.Contains(buf.String(), "Camera") {
		t.Errorf("expected item in export, got %q", buf.String())
	}
}
