package catalog

import "github.com/shopspring/decimal"

// Product represents one entry of the searchable catalog.
type Product struct {
	ID          string          `json:"id"`
	ProductCode string          `json:"productCode"`
	BaseName    string          `json:"baseName"`
	VariantName string          `json:"variantName"`
	Description string          `json:"description"`
	Categories  []string        `json:"categories"`
	BasePrice   decimal.Decimal `json:"basePrice"`
}

// DisplayName returns the name shown on quote lines. The variant is appended
// after a comma, which is also the convention renderers use to split the name
// back apart.
func (p Product) DisplayName() string {
	if p.VariantName == "" {
		return p.BaseName
	}
	return p.BaseName + ", " + p.VariantName
}
