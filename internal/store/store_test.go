package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mzajc/homevault/internal/model"
)

// testRefs creates a user category and room for item tests.
func testRefs(t *testing.T, db *sql.DB) (categoryID, roomID int64) {
	t.Helper()
	ctx := context.Background()

	category, err := CreateCategory(ctx, db, "Electronics", "tv", 1)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	room, err := CreateRoom(ctx, db, "Living Room", "sofa", 1)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	return category.ID, room.ID
}

// testItem inserts an item with the given name and price.
func testItem(t *testing.T, db *sql.DB, name string, categoryID, roomID int64, priceCents *int64) *model.Item {
	t.Helper()

	item, err := CreateItem(context.Background(), db, &model.Item{
		Name:       name,
		CategoryID: categoryID,
		RoomID:     roomID,
		PriceCents: priceCents,
	})
	if err != nil {
		t.Fatalf("CreateItem(%q): %v", name, err)
	}
	return item
}

func cents(v int64) *int64 { return &v }
