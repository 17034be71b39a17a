package render

import (
	"fmt"
	"strings"

	"github.com/noah-isme/backend-quote/internal/pricing"
	"github.com/noah-isme/backend-quote/internal/quote"
)

// Row is an ordered sequence of mixed text/number cells.
type Row = []any

// Grid is the spreadsheet-shaped view of a quote: header row, one row per
// line item, a blank separator, then summary rows. The spreadsheet encoder
// consumes it as-is, so the layout here is the layout of the file.
type Grid struct {
	Rows []Row
	// ColumnWidths carries preferred widths (in characters) for the encoder.
	ColumnWidths []float64
}

// GridOptions selects between the two header layouts used by the export paths.
type GridOptions struct {
	// IncludeDiscountedPriceColumn switches to the layout that keeps the full
	// item name in one cell and adds a discounted-price column, instead of
	// splitting the name into item and description columns.
	IncludeDiscountedPriceColumn bool
}

// ToGrid lays out the document and its computed summary as rows of cells.
func ToGrid(doc quote.Document, summary pricing.Summary, opts GridOptions) Grid {
	var rows []Row
	if opts.IncludeDiscountedPriceColumn {
		rows = append(rows, Row{"#", "Item", "Base Price", "Qty", "Disc %", "Disc Price", "Total"})
	} else {
		rows = append(rows, Row{"#", "Item", "Description", "Base Price", "Qty", "Disc %", "Total"})
	}

	for i, item := range doc.LineItems {
		line := item.PricingItem()
		if opts.IncludeDiscountedPriceColumn {
			rows = append(rows, Row{
				i + 1,
				item.Name,
				amount(item.UnitPrice),
				item.Quantity,
				amount(item.DiscountPercentage),
				amount(line.DiscountedUnitPrice()),
				amount(line.LineTotal()),
			})
			continue
		}
		name, description := splitName(item.Name)
		if description == "" {
			description = item.Description
		}
		rows = append(rows, Row{
			i + 1,
			name,
			description,
			amount(item.UnitPrice),
			item.Quantity,
			amount(item.DiscountPercentage),
			amount(line.LineTotal()),
		})
	}

	rows = append(rows, Row{})
	rows = append(rows, summaryRow("Subtotal", amount(summary.Subtotal)))
	if summary.HasCouponDiscount {
		label := fmt.Sprintf("Discount (%s%%)", doc.CouponDiscountPercentage.String())
		rows = append(rows, summaryRow(label, -amount(summary.CouponDiscountAmount)))
	}
	rows = append(rows, summaryRow(fmt.Sprintf("GST (%s%%)", doc.GSTPercentage.String()), amount(summary.GSTAmount)))
	rows = append(rows, summaryRow("Grand Total", amount(summary.GrandTotal)))

	widths := []float64{5, 30, 40, 15, 5, 10, 15}
	if opts.IncludeDiscountedPriceColumn {
		// No description column; the full name lives in one wider cell.
		widths = []float64{5, 40, 15, 5, 10, 15, 15}
	}
	return Grid{
		Rows:         rows,
		ColumnWidths: widths,
	}
}

// summaryRow right-aligns a label/value pair under the last two columns.
func summaryRow(label string, value float64) Row {
	return Row{"", "", "", "", "", label, value}
}

// splitName breaks a display name of the form "name, description" on the
// first comma.
func splitName(name string) (string, string) {
	base, rest, found := strings.Cut(name, ", ")
	if !found {
		return name, ""
	}
	return base, rest
}
