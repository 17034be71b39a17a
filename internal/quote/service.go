package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-quote/internal/account"
	"github.com/noah-isme/backend-quote/internal/catalog"
	"github.com/noah-isme/backend-quote/internal/common"
	"github.com/noah-isme/backend-quote/internal/coupon"
	"github.com/noah-isme/backend-quote/internal/pricing"
)

// Service owns the quote lifecycle. Prices and coupon percentages are always
// resolved server-side; the payload's numbers are display hints only.
type Service struct {
	Q        Querier
	Products catalog.Querier
	Coupons  coupon.Querier
	Accounts account.Querier
	GSTPct   decimal.Decimal
	Now      func() time.Time
}

func NewService(q Querier, products catalog.Querier, coupons coupon.Querier, accounts account.Querier, gstPct decimal.Decimal) *Service {
	return &Service{
		Q:        q,
		Products: products,
		Coupons:  coupons,
		Accounts: accounts,
		GSTPct:   gstPct,
		Now:      time.Now,
	}
}

// Save resolves, prices, and persists a new quote. The coupon, when present,
// is validated up front and consumed inside the insert transaction, so two
// racing saves of the same code can never both win.
func (s *Service) Save(ctx context.Context, userID string, p SavePayload) (Quote, error) {
	user, err := s.Accounts.GetUserByID(ctx, userID)
	if err != nil {
		return Quote{}, fmt.Errorf("load user: %w", err)
	}
	if err := account.RequireCompleteBilling(user); err != nil {
		return Quote{}, err
	}

	products, err := s.resolveProducts(ctx, p.ProductIDs())
	if err != nil {
		return Quote{}, err
	}
	doc, err := FromSavePayload(p, products, s.GSTPct, s.Now())
	if err != nil {
		return Quote{}, err
	}

	if p.CouponCode != "" {
		c, err := s.Coupons.FindCoupon(ctx, coupon.Normalize(p.CouponCode))
		if err != nil {
			return Quote{}, err
		}
		if !c.Usable() {
			return Quote{}, coupon.ErrAlreadyUsed
		}
		doc.CouponCode = c.Code
		doc.CouponDiscountPercentage = decimal.NewFromInt(int64(c.DiscountPercentage))
	} else {
		doc.CouponCode = ""
		doc.CouponDiscountPercentage = decimal.Zero
	}

	summary, err := doc.Totals()
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		UserID:                   userID,
		QuoteNumber:              doc.QuoteNumber,
		ClientName:               doc.ClientName,
		Lines:                    storedLines(doc.LineItems),
		LineItems:                doc.LineItems,
		CouponCode:               doc.CouponCode,
		CouponDiscountPercentage: doc.CouponDiscountPercentage,
		GSTPercentage:            doc.GSTPercentage,
		Subtotal:                 pricing.Round2(summary.Subtotal),
		CouponDiscountAmount:     pricing.Round2(summary.CouponDiscountAmount),
		GSTAmount:                pricing.Round2(summary.GSTAmount),
		GrandTotal:               pricing.Round2(summary.GrandTotal),
	}
	if err := s.Q.InsertQuote(ctx, &q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

// List returns the user's quotes newest first, rows resolved against the
// current catalog.
func (s *Service) List(ctx context.Context, userID string, p common.Pagination) ([]Quote, error) {
	quotes, err := s.Q.ListQuotesByUser(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, q := range quotes {
		for _, sl := range q.Lines {
			if _, ok := seen[sl.ProductID]; ok {
				continue
			}
			seen[sl.ProductID] = struct{}{}
			ids = append(ids, sl.ProductID)
		}
	}
	products, err := s.resolveProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range quotes {
		quotes[i].LineItems = FromStored(quotes[i], products).LineItems
	}
	return quotes, nil
}

// Get returns one quote scoped to its owner.
func (s *Service) Get(ctx context.Context, id, userID string) (Quote, error) {
	q, err := s.Q.GetQuoteByID(ctx, id, userID)
	if err != nil {
		return Quote{}, err
	}
	ids := make([]string, 0, len(q.Lines))
	for _, sl := range q.Lines {
		ids = append(ids, sl.ProductID)
	}
	products, err := s.resolveProducts(ctx, ids)
	if err != nil {
		return Quote{}, err
	}
	q.LineItems = FromStored(q, products).LineItems
	return q, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	return s.Q.DeleteQuote(ctx, id, userID)
}

func (s *Service) resolveProducts(ctx context.Context, ids []string) (map[string]catalog.Product, error) {
	if len(ids) == 0 {
		return map[string]catalog.Product{}, nil
	}
	list, err := s.Products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	products := make(map[string]catalog.Product, len(list))
	for _, p := range list {
		products[p.ID] = p
	}
	return products, nil
}

func storedLines(items []LineItem) []StoredLine {
	lines := make([]StoredLine, len(items))
	for i, li := range items {
		lines[i] = StoredLine{
			ProductID:          li.ProductID,
			Quantity:           li.Quantity,
			DiscountPercentage: li.DiscountPercentage,
		}
	}
	return lines
}
