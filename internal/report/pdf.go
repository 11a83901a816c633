package report

import (
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/mzajc/homevault/internal/model"
	"github.com/mzajc/homevault/internal/score"
	"github.com/mzajc/homevault/internal/store"
)

// itemRow is one line of the item table, with the documentation score
// already derived.
type itemRow struct {
	item     model.Item
	extended float64
	level    string
}

func newItemRow(item model.Item) itemRow {
	p := score.PresenceOf(item)
	return itemRow{
		item:     item,
		extended: score.Extended(p),
		level:    score.Level(p),
	}
}

func formatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

func formatPercent(part, whole int) string {
	if whole == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", part*100/whole)
}

var titles = map[Kind]string{
	KindFullInventory: "Home Inventory Report",
	KindLossList:      "Loss List",
}

// renderPDF writes the document to path, reporting progress per item row and
// checking for cancellation between rows.
func renderPDF(ctx context.Context, doc *document, path string, progress func(float64)) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(titles[doc.kind], false)
	pdf.AddPage()

	// Header.
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, titles[doc.kind])
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.Cell(0, 6, "Generated "+doc.created.Format("2 January 2006 15:04"))
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(12)

	// Summary block.
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	summaryRows := [][2]string{
		{"Items", fmt.Sprintf("%d", doc.summary.ItemCount)},
		{"Total value", formatCents(doc.summary.TotalCents)},
		{"Fully documented", formatPercent(doc.summary.Documented, doc.summary.ItemCount)},
	}
	for _, row := range summaryRows {
		pdf.CellFormat(50, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	writeGroup(pdf, "By room", doc.rooms)
	writeGroup(pdf, "By category", doc.categories)

	// Item table.
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Items")
	pdf.Ln(8)
	writeItemHeader(pdf)

	for i, row := range doc.items {
		if err := ctx.Err(); err != nil {
			return err
		}
		writeItemRow(pdf, row, doc.kind)
		progress(float64(i+1) / float64(len(doc.items)))
	}
	if len(doc.items) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Cell(0, 6, "No items catalogued.")
		pdf.Ln(6)
		progress(1)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func writeGroup(pdf *fpdf.Fpdf, title string, stats []store.GroupStat) {
	if len(stats) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(70, 6, "Name", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 6, "Items", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, "Value", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, "Documented", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, g := range stats {
		pdf.CellFormat(70, 6, g.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", g.Count), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, formatCents(g.TotalCents), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, formatPercent(g.Documented, g.Count), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}

func writeItemHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(55, 6, "Name", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Room", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Category", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Serial", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 6, "Value", "B", 0, "R", false, 0, "")
	pdf.CellFormat(20, 6, "Doc", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
}

func writeItemRow(pdf *fpdf.Fpdf, row itemRow, kind Kind) {
	item := row.item
	value := ""
	if item.PriceCents != nil {
		value = formatCents(*item.PriceCents)
	}
	pdf.CellFormat(55, 6, item.Name, "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, item.RoomName, "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, item.CategoryName, "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, item.SerialNumber, "", 0, "L", false, 0, "")
	pdf.CellFormat(25, 6, value, "", 0, "R", false, 0, "")
	pdf.CellFormat(20, 6, fmt.Sprintf("%.0f%%", row.extended*100), "", 1, "R", false, 0, "")

	// Loss lists carry the evidence trail for the claim.
	if kind == KindLossList && (item.Brand != "" || item.ModelNumber != "") {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(110, 110, 110)
		detail := item.Brand
		if item.ModelNumber != "" {
			if detail != "" {
				detail += " "
			}
			detail += item.ModelNumber
		}
		pdf.CellFormat(190, 5, "    "+detail, "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)
	}
}
