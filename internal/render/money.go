// Package render turns a quote document into presentation artifacts: a
// spreadsheet-style cell grid and printable/emailable HTML. All money shown
// here comes from the pricing engine; renderers never re-derive totals.
package render

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-quote/internal/pricing"
)

// rupee prefixes an amount with the INR symbol at exactly two decimal places.
func rupee(d decimal.Decimal) string {
	return "₹" + pricing.Round2(d).StringFixed(2)
}

// amount renders a plain two-decimal value for grid cells.
func amount(d decimal.Decimal) float64 {
	v, _ := pricing.Round2(d).Float64()
	return v
}

// dateLayout is the fixed DD/MM/YYYY business format, independent of the
// viewer's locale.
const dateLayout = "02/01/2006"
