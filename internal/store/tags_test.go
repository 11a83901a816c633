package store

import (
	"context"
	"errors"
	"testing"

	"github.com/mzajc/homevault/internal/db"
)

func TestCreateTagDeduplicates(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := CreateTag(ctx, database, "fragile", "#ff0000")
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	second, err := CreateTag(ctx, database, "fragile", "#00ff00")
	if err != nil {
		t.Fatalf("CreateTag (duplicate): %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same tag for same name, got %d and %d", first.ID, second.ID)
	}
	if second.Color != "#ff0000" {
		t.Errorf("duplicate create should keep the original color, got %q", second.Color)
	}
}

func TestCreateTagEmptyName(t *testing.T) {
	database := db.NewTestDB(t)

	if _, err := CreateTag(context.Background(), database, "", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty tag name, got %v", err)
	}
}

func TestTagAndUntagItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	categoryID, roomID := testRefs(t, database)

	item := testItem(t, database, "Vase", categoryID, roomID, nil)
	tag, _ := CreateTag(ctx, database, "fragile", "")

	if err := TagItem(ctx, database, item.ID, tag.ID); err != nil {
		t.Fatalf("TagItem: %v", err)
	}
	// Tagging twice is a no-op.
	if err := TagItem(ctx, database, item.ID, tag.ID); err != nil {
		t.Fatalf("TagItem (repeat): %v", err)
	}

	tags, err := ItemTags(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("ItemTags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "fragile" {
		t.Errorf("expected single 'fragile' tag, got %v", tags)
	}

	if err := UntagItem(ctx, database, item.ID, tag.ID); err != nil {
		t.Fatalf("UntagItem: %v", err)
	}
	tags, _ = ItemTags(ctx, database, item.ID)
	if len(tags) != 0 {
		t.Errorf("expected no tags after untag, got %v", tags)
	}
}

func TestListTagsFavoritesFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateTag(ctx, database, "alpha", "")
	starred, _ := CreateTag(ctx, database, "zulu", "")
	if err := SetTagFavorite(ctx, database, starred.ID, true); err != nil {
		t.Fatalf("SetTagFavorite: %v", err)
	}

	tags, err := ListTags(ctx, database)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 2 || tags[0].Name != "zulu" {
		t.Errorf("expected favorite 'zulu' first, got %v", tags)
	}
}

func TestDeleteTagRemovesAssociations(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	categoryID, roomID := testRefs(t, database)

	item := testItem(t, database, "Vase", categoryID, roomID, nil)
	tag, _ := CreateTag(ctx, database, "fragile", "")
	TagItem(ctx, database, item.ID, tag.ID)

	if err := DeleteTag(ctx, database, tag.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	tags, _ := ItemTags(ctx, database, item.ID)
	if len(tags) != 0 {
		t.Errorf("expected item untagged after tag deletion, got %v", tags)
	}
	// Item itself is untouched.
	got, _ := GetItem(ctx, database, item.ID)
	if got == nil {
		t.Error("item disappeared with its tag")
	}
}
