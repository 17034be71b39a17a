package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestLineTotalWithDiscount(t *testing.T) {
	line := LineItem{UnitPrice: d("100"), Quantity: 2, DiscountPercentage: d("10")}
	if got := Round2(line.LineTotal()); !got.Equal(d("180.00")) {
		t.Fatalf("expected line total 180.00, got %s", got)
	}
}

func TestComputeCouponAndGST(t *testing.T) {
	items := []LineItem{{UnitPrice: d("1000"), Quantity: 1, DiscountPercentage: decimal.Zero}}
	summary, err := Compute(items, d("20"), d("18"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Subtotal.Equal(d("1000")) {
		t.Fatalf("expected subtotal 1000, got %s", summary.Subtotal)
	}
	if !Round2(summary.CouponDiscountAmount).Equal(d("200.00")) {
		t.Fatalf("expected coupon discount 200.00, got %s", summary.CouponDiscountAmount)
	}
	if !Round2(summary.GSTAmount).Equal(d("144.00")) {
		t.Fatalf("expected gst 144.00, got %s", summary.GSTAmount)
	}
	if !Round2(summary.GrandTotal).Equal(d("944.00")) {
		t.Fatalf("expected grand total 944.00, got %s", summary.GrandTotal)
	}
	if !summary.HasCouponDiscount {
		t.Fatal("expected HasCouponDiscount to be set")
	}
}

func TestComputeEmptyLines(t *testing.T) {
	summary, err := Compute(nil, decimal.Zero, d("18"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Subtotal.IsZero() || !summary.GSTAmount.IsZero() || !summary.GrandTotal.IsZero() {
		t.Fatalf("expected all-zero summary, got %+v", summary)
	}
	if summary.HasCouponDiscount {
		t.Fatal("zero coupon percentage must not flag a discount row")
	}
}

func TestComputeDeterministic(t *testing.T) {
	items := []LineItem{
		{UnitPrice: d("33.33"), Quantity: 3, DiscountPercentage: d("7.5")},
		{UnitPrice: d("199.99"), Quantity: 2, DiscountPercentage: d("12")},
		{UnitPrice: d("0.01"), Quantity: 1000, DiscountPercentage: decimal.Zero},
	}
	first, err := Compute(items, d("5"), d("18"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Compute(items, d("5"), d("18"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Subtotal.Equal(second.Subtotal) || !first.GrandTotal.Equal(second.GrandTotal) ||
		!first.CouponDiscountAmount.Equal(second.CouponDiscountAmount) || !first.GSTAmount.Equal(second.GSTAmount) {
		t.Fatalf("recomputation drifted: %+v vs %+v", first, second)
	}
}

func TestComputeAccumulatesFullPrecision(t *testing.T) {
	// 3 × (10.005 × 1) would lose a cent if each line were rounded first.
	items := []LineItem{
		{UnitPrice: d("10.005"), Quantity: 1, DiscountPercentage: decimal.Zero},
		{UnitPrice: d("10.005"), Quantity: 1, DiscountPercentage: decimal.Zero},
		{UnitPrice: d("10.005"), Quantity: 1, DiscountPercentage: decimal.Zero},
	}
	summary, err := Compute(items, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Subtotal.Equal(d("30.015")) {
		t.Fatalf("expected subtotal 30.015, got %s", summary.Subtotal)
	}
	if !Round2(summary.Subtotal).Equal(d("30.02")) {
		t.Fatalf("expected presentation subtotal 30.02, got %s", Round2(summary.Subtotal))
	}
}

func TestValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		item LineItem
		want error
	}{
		{"negative price", LineItem{UnitPrice: d("-1"), Quantity: 1}, ErrNegativeUnitPrice},
		{"zero quantity", LineItem{UnitPrice: d("10"), Quantity: 0}, ErrInvalidQuantity},
		{"discount above 100", LineItem{UnitPrice: d("10"), Quantity: 1, DiscountPercentage: d("101")}, ErrInvalidDiscount},
		{"negative discount", LineItem{UnitPrice: d("10"), Quantity: 1, DiscountPercentage: d("-1")}, ErrInvalidDiscount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute([]LineItem{tc.item}, decimal.Zero, d("18"))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestComputeRejectsBadCouponPercentage(t *testing.T) {
	_, err := Compute(nil, d("101"), d("18"))
	if !errors.Is(err, ErrInvalidDiscount) {
		t.Fatalf("expected ErrInvalidDiscount, got %v", err)
	}
}
