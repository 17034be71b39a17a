// Package pricing computes quotation totals. The same computation runs on
// every surface that shows money (live display, spreadsheet, PDF, email), so
// it must stay pure and deterministic: identical inputs always produce
// identical totals.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeUnitPrice is returned when a line carries a unit price below zero.
	ErrNegativeUnitPrice = errors.New("pricing: unit price must not be negative")
	// ErrInvalidQuantity is returned when a line quantity is below one.
	ErrInvalidQuantity = errors.New("pricing: quantity must be at least 1")
	// ErrInvalidDiscount is returned when a discount percentage falls outside [0,100].
	ErrInvalidDiscount = errors.New("pricing: discount percentage must be between 0 and 100")
)

var hundred = decimal.NewFromInt(100)

// LineItem carries the pricing inputs of one quote line.
type LineItem struct {
	UnitPrice          decimal.Decimal
	Quantity           int
	DiscountPercentage decimal.Decimal
}

// Validate checks the line against the pricing invariants.
func (li LineItem) Validate() error {
	if li.UnitPrice.IsNegative() {
		return ErrNegativeUnitPrice
	}
	if li.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if li.DiscountPercentage.IsNegative() || li.DiscountPercentage.GreaterThan(hundred) {
		return ErrInvalidDiscount
	}
	return nil
}

// DiscountedUnitPrice returns unitPrice × (1 − discount/100) at full precision.
func (li LineItem) DiscountedUnitPrice() decimal.Decimal {
	factor := hundred.Sub(li.DiscountPercentage).Div(hundred)
	return li.UnitPrice.Mul(factor)
}

// LineTotal returns discountedUnitPrice × quantity at full precision.
// Rounding to two places happens at presentation time only, never here, so
// rounding error cannot compound across lines.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.DiscountedUnitPrice().Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Summary aggregates the computed pricing components of a quote.
type Summary struct {
	Subtotal             decimal.Decimal
	CouponDiscountAmount decimal.Decimal
	GSTAmount            decimal.Decimal
	GrandTotal           decimal.Decimal

	// HasCouponDiscount is the single source of truth for whether renderers
	// emit a discount row. Both the tabular and the document renderer consume
	// this flag so the surfaces can never disagree.
	HasCouponDiscount bool
}

// Compute derives subtotal, coupon discount, GST, and grand total from the
// given lines. Line order does not affect the sums but is preserved by the
// caller for rendering. An empty line sequence yields an all-zero summary.
func Compute(items []LineItem, couponDiscountPct, gstPct decimal.Decimal) (Summary, error) {
	if couponDiscountPct.IsNegative() || couponDiscountPct.GreaterThan(hundred) {
		return Summary{}, fmt.Errorf("coupon: %w", ErrInvalidDiscount)
	}
	if gstPct.IsNegative() {
		return Summary{}, fmt.Errorf("gst: %w", ErrInvalidDiscount)
	}

	subtotal := decimal.Zero
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return Summary{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		subtotal = subtotal.Add(item.LineTotal())
	}

	couponDiscount := subtotal.Mul(couponDiscountPct).Div(hundred)
	taxable := subtotal.Sub(couponDiscount)
	gst := taxable.Mul(gstPct).Div(hundred)

	return Summary{
		Subtotal:             subtotal,
		CouponDiscountAmount: couponDiscount,
		GSTAmount:            gst,
		GrandTotal:           taxable.Add(gst),
		HasCouponDiscount:    couponDiscountPct.IsPositive(),
	}, nil
}

// Round2 rounds a full-precision amount to two decimal places for
// presentation or persistence.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
