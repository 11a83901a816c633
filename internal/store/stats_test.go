package store

import (
	"context"
	"testing"

	"github.com/mzajc/homevault/internal/db"
	"github.com/mzajc/homevault/internal/model"
)

func TestGetSummary(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	categoryID, roomID := testRefs(t, database)

	// Documented: has price and photo.
	documented := testItem(t, database, "TV", categoryID, roomID, cents(100000))
	AddPhoto(ctx, database, documented.ID, "asset-1", "", false)

	// Priced but no photo.
	testItem(t, database, "Sofa", categoryID, roomID, cents(50000))

	// Neither.
	testItem(t, database, "Plant", categoryID, roomID, nil)

	summary, err := GetSummary(ctx, database)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.ItemCount != 3 {
		t.Errorf("expected 3 items, got %d", summary.ItemCount)
	}
	if summary.TotalCents != 150000 {
		t.Errorf("expected total 150000, got %d", summary.TotalCents)
	}
	if summary.Documented != 1 {
		t.Errorf("expected 1 documented item, got %d", summary.Documented)
	}
}

func TestStatsByRoom(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	categoryID, roomID := testRefs(t, database)
	garage, _ := CreateRoom(ctx, database, "Garage", "car", 2)
	// Empty rooms do not appear in stats.
	CreateRoom(ctx, database, "Attic", "box", 3)

	testItem(t, database, "TV", categoryID, roomID, cents(100000))
	testItem(t, database, "Lamp", categoryID, roomID, nil)
	testItem(t, database, "Bike", categoryID, garage.ID, cents(40000))

	stats, err := StatsByRoom(ctx, database)
	if err != nil {
		t.Fatalf("StatsByRoom: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 rooms with items, got %d", len(stats))
	}
	if stats[0].Name != "Living Room" || stats[0].Count != 2 || stats[0].TotalCents != 100000 {
		t.Errorf("unexpected living room stats: %+v", stats[0])
	}
	if stats[1].Name != "Garage" || stats[1].Count != 1 || stats[1].TotalCents != 40000 {
		t.Errorf("unexpected garage stats: %+v", stats[1])
	}
}

func TestStatsByCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	categoryID, roomID := testRefs(t, database)
	tools, _ := CreateCategory(ctx, database, "Tools", "wrench", 2)

	testItem(t, database, "TV", categoryID, roomID, cents(100000))
	testItem(t, database, "Drill", tools.ID, roomID, cents(15000))

	stats, err := StatsByCategory(ctx, database)
	if err != nil {
		t.Fatalf("StatsByCategory: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 categories with items, got %d", len(stats))
	}
	if stats[0].Name != "Electronics" || stats[1].Name != "Tools" {
		t.Errorf("unexpected category order: %q, %q", stats[0].Name, stats[1].Name)
	}
}

func TestListAssetIDs(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	categoryID, roomID := testRefs(t, database)

	item := testItem(t, database, "Camera", categoryID, roomID, nil)
	AddPhoto(ctx, database, item.ID, "photo-asset", "", false)
	// Shared asset on two items dedupes.
	other := testItem(t, database, "Tripod", categoryID, roomID, nil)
	AddPhoto(ctx, database, other.ID, "photo-asset", "", false)

	CreateReceipt(ctx, database, &model.Receipt{Vendor: "Shop", AssetID: "receipt-asset"})
	// Receipts without scans contribute nothing.
	CreateReceipt(ctx, database, &model.Receipt{Vendor: "Manual"})

	ids, err := ListAssetIDs(ctx, database)
	if err != nil {
		t.Fatalf("ListAssetIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 distinct asset ids, got %v", ids)
	}
	if ids[0] != "photo-asset" || ids[1] != "receipt-asset" {
		t.Errorf("unexpected asset ids: %v", ids)
	}
}
