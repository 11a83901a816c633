package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mzajc/homevault/internal/model"
	"github.com/mzajc/homevault/internal/score"
)

// WriteCSV streams the tabular item export. The pro gate is enforced by the
// caller (tier.CanExportCSV) before this is reached.
func WriteCSV(w io.Writer, items []model.Item) error {
	cw := csv.NewWriter(w)

	header := []string{
		"ID", "Name", "Brand", "Model", "Serial",
		"Category", "Room", "Condition", "Value",
		"Purchase Date", "Documentation",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, item := range items {
		value := ""
		if item.PriceCents != nil {
			value = formatCents(*item.PriceCents)
		}
		purchased := ""
		if item.PurchaseDate != nil {
			purchased = item.PurchaseDate.Format("2006-01-02")
		}
		p := score.PresenceOf(item)
		row := []string{
			fmt.Sprintf("%d", item.ID),
			item.Name,
			item.Brand,
			item.ModelNumber,
			item.SerialNumber,
			item.CategoryName,
			item.RoomName,
			item.Condition,
			value,
			purchased,
			fmt.Sprintf("%.0f%%", score.Extended(p)*100),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
