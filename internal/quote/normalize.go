package quote

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-quote/internal/catalog"
)

// ErrUnknownProduct marks a save payload referencing a product that does not
// exist in the catalog. Saves fail whole rather than dropping rows.
var ErrUnknownProduct = errors.New("unknown product")

// fallbackClientName replaces a blank client name on every surface.
const fallbackClientName = "N/A"

// WireLine is one quote row as clients send it. Prices arrive as plain JSON
// numbers; the resolved document converts them to decimals.
type WireLine struct {
	ProductID          string  `json:"productId"`
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	BasePrice          float64 `json:"basePrice" validate:"gte=0"`
	Quantity           int     `json:"quantity" validate:"gte=1"`
	DiscountPercentage float64 `json:"discountPercentage" validate:"gte=0,lte=100"`
}

// SavePayload is the body of a quote save. Every line must reference a
// catalog product; unit prices are looked up server-side and the payload's
// basePrice is ignored.
type SavePayload struct {
	ClientName               string     `json:"clientName"`
	LineItems                []WireLine `json:"lineItems" validate:"required,min=1,dive"`
	CouponCode               string     `json:"couponCode"`
	CouponDiscountPercentage float64    `json:"couponDiscountPercentage" validate:"gte=0,lte=100"`
}

// ProductIDs lists the distinct catalog references of the payload.
func (p SavePayload) ProductIDs() []string {
	seen := make(map[string]struct{}, len(p.LineItems))
	ids := make([]string, 0, len(p.LineItems))
	for _, li := range p.LineItems {
		if li.ProductID == "" {
			continue
		}
		if _, ok := seen[li.ProductID]; ok {
			continue
		}
		seen[li.ProductID] = struct{}{}
		ids = append(ids, li.ProductID)
	}
	return ids
}

// ExportPayload is the body of the stateless export surfaces. Lines are
// taken as sent, so an unsaved working quote can be exported without a
// catalog round trip.
type ExportPayload struct {
	QuoteNumber              string     `json:"quoteNumber"`
	ClientName               string     `json:"clientName"`
	LineItems                []WireLine `json:"lineItems" validate:"required,min=1,dive"`
	CouponCode               string     `json:"couponCode"`
	CouponDiscountPercentage float64    `json:"couponDiscountPercentage" validate:"gte=0,lte=100"`
	CustomMessage            string     `json:"customMessage"`
}

// FromSavePayload resolves a save payload against the catalog. Every line
// must resolve; a missing product rejects the whole payload with
// ErrUnknownProduct.
func FromSavePayload(p SavePayload, products map[string]catalog.Product, gstPct decimal.Decimal, now time.Time) (Document, error) {
	lines := make([]LineItem, 0, len(p.LineItems))
	for i, li := range p.LineItems {
		product, ok := products[li.ProductID]
		if !ok {
			return Document{}, fmt.Errorf("line %d: %w: %q", i+1, ErrUnknownProduct, li.ProductID)
		}
		lines = append(lines, LineItem{
			ProductID:          product.ID,
			Name:               product.DisplayName(),
			Description:        product.Description,
			UnitPrice:          product.BasePrice,
			Quantity:           li.Quantity,
			DiscountPercentage: decimal.NewFromFloat(li.DiscountPercentage),
		})
	}
	return Document{
		QuoteNumber:              NewQuoteNumber(now),
		ClientName:               clientNameOrFallback(p.ClientName),
		LineItems:                lines,
		CouponCode:               p.CouponCode,
		CouponDiscountPercentage: decimal.NewFromFloat(p.CouponDiscountPercentage),
		GSTPercentage:            gstPct,
		CreatedAt:                now,
	}, nil
}

// FromStored resolves a persisted quote against the current catalog. Rows
// whose product has since been removed are dropped silently so old quotes
// stay readable.
func FromStored(q Quote, products map[string]catalog.Product) Document {
	lines := make([]LineItem, 0, len(q.Lines))
	for _, sl := range q.Lines {
		product, ok := products[sl.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, LineItem{
			ProductID:          product.ID,
			Name:               product.DisplayName(),
			Description:        product.Description,
			UnitPrice:          product.BasePrice,
			Quantity:           sl.Quantity,
			DiscountPercentage: sl.DiscountPercentage,
		})
	}
	return Document{
		QuoteNumber:              q.QuoteNumber,
		ClientName:               q.ClientName,
		LineItems:                lines,
		CouponCode:               q.CouponCode,
		CouponDiscountPercentage: q.CouponDiscountPercentage,
		GSTPercentage:            q.GSTPercentage,
		CreatedAt:                q.CreatedAt,
	}
}

// FromExportPayload accepts the payload's rows as sent.
func FromExportPayload(p ExportPayload, gstPct decimal.Decimal, now time.Time) Document {
	lines := make([]LineItem, 0, len(p.LineItems))
	for _, li := range p.LineItems {
		lines = append(lines, LineItem{
			ProductID:          li.ProductID,
			Name:               li.Name,
			Description:        li.Description,
			UnitPrice:          decimal.NewFromFloat(li.BasePrice),
			Quantity:           li.Quantity,
			DiscountPercentage: decimal.NewFromFloat(li.DiscountPercentage),
		})
	}
	number := strings.TrimSpace(p.QuoteNumber)
	if number == "" {
		number = NewQuoteNumber(now)
	}
	return Document{
		QuoteNumber:              number,
		ClientName:               clientNameOrFallback(p.ClientName),
		LineItems:                lines,
		CouponCode:               p.CouponCode,
		CouponDiscountPercentage: decimal.NewFromFloat(p.CouponDiscountPercentage),
		GSTPercentage:            gstPct,
		CreatedAt:                now,
	}
}

func clientNameOrFallback(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallbackClientName
	}
	return name
}
