package render

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-quote/internal/quote"
)

func sampleDocument() quote.Document {
	return quote.Document{
		QuoteNumber: "Q-1700000000000",
		ClientName:  "Acme Traders",
		LineItems: []quote.LineItem{
			{
				Name:               "Widget, Large",
				Description:        "A widget",
				UnitPrice:          decimal.NewFromInt(100),
				Quantity:           2,
				DiscountPercentage: decimal.NewFromInt(10),
			},
			{
				Name:      "Gadget",
				UnitPrice: decimal.RequireFromString("49.50"),
				Quantity:  1,
			},
		},
		CouponCode:               "SAVE20",
		CouponDiscountPercentage: decimal.NewFromInt(20),
		GSTPercentage:            decimal.NewFromInt(18),
		CreatedAt:                time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestToGridSplitNameLayout(t *testing.T) {
	doc := sampleDocument()
	summary, err := doc.Totals()
	if err != nil {
		t.Fatal(err)
	}

	grid := ToGrid(doc, summary, GridOptions{})

	header := grid.Rows[0]
	want := Row{"#", "Item", "Description", "Base Price", "Qty", "Disc %", "Total"}
	if len(header) != len(want) {
		t.Fatalf("header has %d cells, want %d", len(header), len(want))
	}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d] = %v, want %v", i, header[i], want[i])
		}
	}

	// "Widget, Large" splits at the first comma; "Gadget" falls back to its
	// stored description (empty here).
	first := grid.Rows[1]
	if first[1] != "Widget" || first[2] != "Large" {
		t.Errorf("split name = %v / %v, want Widget / Large", first[1], first[2])
	}
	second := grid.Rows[2]
	if second[1] != "Gadget" || second[2] != "" {
		t.Errorf("unsplit name = %v / %v", second[1], second[2])
	}

	if len(grid.ColumnWidths) != 7 || grid.ColumnWidths[2] != 40 {
		t.Fatalf("column widths = %v", grid.ColumnWidths)
	}
}

func TestToGridDiscountedPriceLayout(t *testing.T) {
	doc := sampleDocument()
	summary, err := doc.Totals()
	if err != nil {
		t.Fatal(err)
	}

	grid := ToGrid(doc, summary, GridOptions{IncludeDiscountedPriceColumn: true})

	header := grid.Rows[0]
	if header[1] != "Item" || header[5] != "Disc Price" {
		t.Fatalf("unexpected header %v", header)
	}
	first := grid.Rows[1]
	if first[1] != "Widget, Large" {
		t.Errorf("name kept whole, got %v", first[1])
	}
	if first[5] != 90.0 {
		t.Errorf("discounted price = %v, want 90", first[5])
	}

	// Item column keeps the unsplit name, so it takes the wide slot.
	if len(grid.ColumnWidths) != 7 || grid.ColumnWidths[1] != 40 {
		t.Errorf("column widths = %v", grid.ColumnWidths)
	}
}

func TestToGridSummaryRows(t *testing.T) {
	doc := sampleDocument()
	summary, err := doc.Totals()
	if err != nil {
		t.Fatal(err)
	}

	grid := ToGrid(doc, summary, GridOptions{})
	rows := grid.Rows

	// items, blank separator, then four summary rows.
	if len(rows) != 1+2+1+4 {
		t.Fatalf("row count = %d", len(rows))
	}
	if len(rows[3]) != 0 {
		t.Errorf("separator row not blank: %v", rows[3])
	}
	if rows[4][5] != "Subtotal" || rows[4][6] != 229.5 {
		t.Errorf("subtotal row = %v", rows[4])
	}
	if rows[5][5] != "Discount (20%)" || rows[5][6] != -45.9 {
		t.Errorf("discount row = %v", rows[5])
	}
	if rows[6][5] != "GST (18%)" {
		t.Errorf("gst row = %v", rows[6])
	}
	if rows[7][5] != "Grand Total" {
		t.Errorf("grand total row = %v", rows[7])
	}
}

func TestToGridOmitsDiscountRowWithoutCoupon(t *testing.T) {
	doc := sampleDocument()
	doc.CouponCode = ""
	doc.CouponDiscountPercentage = decimal.Zero
	summary, err := doc.Totals()
	if err != nil {
		t.Fatal(err)
	}

	grid := ToGrid(doc, summary, GridOptions{})
	for _, row := range grid.Rows {
		for _, cell := range row {
			if s, ok := cell.(string); ok && s == "Discount (0%)" {
				t.Fatal("discount row rendered for zero discount")
			}
		}
	}
}
