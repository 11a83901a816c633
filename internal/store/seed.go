package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mzajc/homevault/internal/model"
)

// Seeded system reference entities. These are created on first run, are
// immutable and cannot be deleted.
var (
	defaultCategories = []model.Category{
		{Name: "Electronics", Icon: "tv", SortOrder: 1},
		{Name: "Furniture", Icon: "sofa", SortOrder: 2},
		{Name: "Appliances", Icon: "washer", SortOrder: 3},
		{Name: "Jewelry", Icon: "diamond", SortOrder: 4},
		{Name: "Clothing", Icon: "tshirt", SortOrder: 5},
		{Name: "Tools", Icon: "wrench", SortOrder: 6},
		{Name: "Sports", Icon: "bicycle", SortOrder: 7},
		{Name: "Other", Icon: "box", SortOrder: 8},
	}

	defaultRooms = []model.Room{
		{Name: "Living Room", Icon: "sofa", SortOrder: 1},
		{Name: "Bedroom", Icon: "bed", SortOrder: 2},
		{Name: "Kitchen", Icon: "fork", SortOrder: 3},
		{Name: "Bathroom", Icon: "bath", SortOrder: 4},
		{Name: "Office", Icon: "desk", SortOrder: 5},
		{Name: "Garage", Icon: "car", SortOrder: 6},
		{Name: "Basement", Icon: "stairs", SortOrder: 7},
		{Name: "Attic", Icon: "roof", SortOrder: 8},
	}
)

// SeedDefaults inserts the system categories and rooms. Idempotent; existing
// names are left untouched.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	for _, c := range defaultCategories {
		if _, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (name, icon, sort_order, system) VALUES (?, ?, ?, 1)`,
			c.Name, c.Icon, c.SortOrder,
		); err != nil {
			return fmt.Errorf("seeding category %q: %w", c.Name, err)
		}
	}
	for _, r := range defaultRooms {
		if _, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO rooms (name, icon, sort_order, system) VALUES (?, ?, ?, 1)`,
			r.Name, r.Icon, r.SortOrder,
		); err != nil {
			return fmt.Errorf("seeding room %q: %w", r.Name, err)
		}
	}
	return nil
}

// SeedDemo creates a handful of demo items for development and manual
// testing. Requires SeedDefaults to have run.
func SeedDemo(ctx context.Context, db *sql.DB) error {
	categories, err := ListCategories(ctx, db)
	if err != nil {
		return err
	}
	rooms, err := ListRooms(ctx, db)
	if err != nil {
		return err
	}
	if len(categories) == 0 || len(rooms) == 0 {
		return fmt.Errorf("seeding demo items: defaults not seeded")
	}

	byCategory := make(map[string]int64)
	for _, c := range categories {
		byCategory[c.Name] = c.ID
	}
	byRoom := make(map[string]int64)
	for _, r := range rooms {
		byRoom[r.Name] = r.ID
	}

	cents := func(v int64) *int64 { return &v }
	demo := []model.Item{
		{Name: "55\" OLED TV", Brand: "LG", ModelNumber: "OLED55C3", SerialNumber: "TV-8842",
			PriceCents: cents(129900), Condition: model.ConditionLikeNew,
			CategoryID: byCategory["Electronics"], RoomID: byRoom["Living Room"]},
		{Name: "Espresso Machine", Brand: "Gaggia", ModelNumber: "Classic Pro",
			PriceCents: cents(44900), Condition: model.ConditionGood,
			CategoryID: byCategory["Appliances"], RoomID: byRoom["Kitchen"]},
		{Name: "Standing Desk", Brand: "Fully",
			PriceCents: cents(59500), Condition: model.ConditionGood,
			CategoryID: byCategory["Furniture"], RoomID: byRoom["Office"]},
		{Name: "Road Bike", Brand: "Canyon", SerialNumber: "CYN-2211",
			Condition:  model.ConditionFair,
			CategoryID: byCategory["Sports"], RoomID: byRoom["Garage"]},
	}

	for i := range demo {
		if _, err := CreateItem(ctx, db, &demo[i]); err != nil {
			return fmt.Errorf("seeding demo item %q: %w", demo[i].Name, err)
		}
	}
	return nil
}
