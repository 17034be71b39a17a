package quote

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-quote/internal/pricing"
)

// LineItem is one resolved row of a quotation document. UnitPrice always
// comes from the catalog, never from the client payload.
type LineItem struct {
	ProductID          string          `json:"productId,omitempty"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	UnitPrice          decimal.Decimal `json:"basePrice"`
	Quantity           int             `json:"quantity"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
}

// PricingItem converts the row into the pricing engine's input shape.
func (li LineItem) PricingItem() pricing.LineItem {
	return pricing.LineItem{
		UnitPrice:          li.UnitPrice,
		Quantity:           li.Quantity,
		DiscountPercentage: li.DiscountPercentage,
	}
}

// Document is a fully resolved quotation ready for pricing and rendering.
// It carries everything the renderers need and nothing about transport.
type Document struct {
	QuoteNumber              string
	ClientName               string
	LineItems                []LineItem
	CouponCode               string
	CouponDiscountPercentage decimal.Decimal
	GSTPercentage            decimal.Decimal
	CreatedAt                time.Time
}

// Totals runs the pricing engine over the document's line items.
func (d Document) Totals() (pricing.Summary, error) {
	items := make([]pricing.LineItem, len(d.LineItems))
	for i, li := range d.LineItems {
		items[i] = li.PricingItem()
	}
	summary, err := pricing.Compute(items, d.CouponDiscountPercentage, d.GSTPercentage)
	if err != nil {
		return pricing.Summary{}, fmt.Errorf("price document: %w", err)
	}
	return summary, nil
}

// NewQuoteNumber mints a display identifier for a document at save or
// preview time. Millisecond precision keeps consecutive saves distinct.
func NewQuoteNumber(now time.Time) string {
	return fmt.Sprintf("Q-%d", now.UnixMilli())
}

// StoredLine is the persisted shape of one quote row. Only the catalog
// reference and the client-chosen quantity and discount are stored; names
// and prices are resolved from the catalog on read.
type StoredLine struct {
	ProductID          string          `json:"productId"`
	Quantity           int             `json:"quantity"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
}

// Quote is the persisted record of a saved document, totals included so
// list views never reprice history. Lines holds the stored rows; LineItems
// is filled with catalog-resolved rows when the quote is read back.
type Quote struct {
	ID                       string          `json:"id"`
	UserID                   string          `json:"-"`
	QuoteNumber              string          `json:"quoteNumber"`
	ClientName               string          `json:"clientName"`
	Lines                    []StoredLine    `json:"-"`
	LineItems                []LineItem      `json:"lineItems"`
	CouponCode               string          `json:"couponCode,omitempty"`
	CouponDiscountPercentage decimal.Decimal `json:"couponDiscountPercentage"`
	GSTPercentage            decimal.Decimal `json:"gstPercentage"`
	Subtotal                 decimal.Decimal `json:"subtotal"`
	CouponDiscountAmount     decimal.Decimal `json:"couponDiscountAmount"`
	GSTAmount                decimal.Decimal `json:"gstAmount"`
	GrandTotal               decimal.Decimal `json:"grandTotal"`
	CreatedAt                time.Time       `json:"createdAt"`
}

// Document rebuilds the renderable document from a stored quote.
func (q Quote) Document() Document {
	return Document{
		QuoteNumber:              q.QuoteNumber,
		ClientName:               q.ClientName,
		LineItems:                q.LineItems,
		CouponCode:               q.CouponCode,
		CouponDiscountPercentage: q.CouponDiscountPercentage,
		GSTPercentage:            q.GSTPercentage,
		CreatedAt:                q.CreatedAt,
	}
}
