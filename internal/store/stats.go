package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Summary holds catalog-wide aggregates for reports and dashboards.
type Summary struct {
	ItemCount  int
	TotalCents int64
	// Documented counts items whose core documentation score is complete
	// (photo present and value recorded; category and room are always set).
	Documented int
}

// GroupStat is a per-room or per-category aggregate.
type GroupStat struct {
	ID         int64
	Name       string
	Count      int
	TotalCents int64
	Documented int
}

// GetSummary returns catalog-wide totals.
func GetSummary(ctx context.Context, db *sql.DB) (Summary, error) {
	var s Summary
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(price_cents), 0),
		        COALESCE(SUM(
		            price_cents IS NOT NULL
		            AND EXISTS (SELECT 1 FROM item_photos p WHERE p.item_id = items.id)
		        ), 0)
		 FROM items`,
	).Scan(&s.ItemCount, &s.TotalCents, &s.Documented)
	if err != nil {
		return Summary{}, fmt.Errorf("getting summary: %w", err)
	}
	return s, nil
}

// StatsByRoom returns per-room aggregates for rooms that contain items.
func StatsByRoom(ctx context.Context, db *sql.DB) ([]GroupStat, error) {
	return groupStats(ctx, db,
		`SELECT r.id, r.name, COUNT(i.id),
		        COALESCE(SUM(i.price_cents), 0),
		        COALESCE(SUM(
		            i.price_cents IS NOT NULL
		            AND EXISTS (SELECT 1 FROM item_photos p WHERE p.item_id = i.id)
		        ), 0)
		 FROM rooms r
		 JOIN items i ON i.room_id = r.id
		 GROUP BY r.id, r.name
		 ORDER BY r.sort_order, r.name`,
	)
}

// StatsByCategory returns per-category aggregates for categories that
// contain items.
func StatsByCategory(ctx context.Context, db *sql.DB) ([]GroupStat, error) {
	return groupStats(ctx, db,
		`SELECT c.id, c.name, COUNT(i.id),
		        COALESCE(SUM(i.price_cents), 0),
		        COALESCE(SUM(
		            i.price_cents IS NOT NULL
		            AND EXISTS (SELECT 1 FROM item_photos p WHERE p.item_id = i.id)
		        ), 0)
		 FROM categories c
		 JOIN items i ON i.category_id = c.id
		 GROUP BY c.id, c.name
		 ORDER BY c.sort_order, c.name`,
	)
}

func groupStats(ctx context.Context, db *sql.DB, query string) ([]GroupStat, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("getting group stats: %w", err)
	}
	defer rows.Close()

	var stats []GroupStat
	for rows.Next() {
		var g GroupStat
		if err := rows.Scan(&g.ID, &g.Name, &g.Count, &g.TotalCents, &g.Documented); err != nil {
			return nil, fmt.Errorf("scanning group stats: %w", err)
		}
		stats = append(stats, g)
	}
	return stats, rows.Err()
}

// ListAssetIDs returns every asset identifier the catalog references, for
// integrity checks and backup bundling.
func ListAssetIDs(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT asset_id FROM item_photos
		 UNION
		 SELECT DISTINCT asset_id FROM receipts WHERE asset_id != ''
		 ORDER BY 1`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing asset ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning asset id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
