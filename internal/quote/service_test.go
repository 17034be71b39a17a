package quote_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-quote/internal/account"
	"github.com/noah-isme/backend-quote/internal/catalog"
	"github.com/noah-isme/backend-quote/internal/common"
	"github.com/noah-isme/backend-quote/internal/coupon"
	"github.com/noah-isme/backend-quote/internal/quote"
)

type stubRepo struct {
	saved      []quote.Quote
	couponUsed map[string]bool
}

func (s *stubRepo) InsertQuote(_ context.Context, q *quote.Quote) error {
	if q.CouponCode != "" {
		if s.couponUsed[q.CouponCode] {
			return coupon.ErrAlreadyUsed
		}
		if s.couponUsed == nil {
			s.couponUsed = map[string]bool{}
		}
		s.couponUsed[q.CouponCode] = true
	}
	q.ID = "q-1"
	q.CreatedAt = time.Now()
	s.saved = append(s.saved, *q)
	return nil
}

func (s *stubRepo) ListQuotesByUser(_ context.Context, userID string, _ common.Pagination) ([]quote.Quote, error) {
	var out []quote.Quote
	for _, q := range s.saved {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *stubRepo) GetQuoteByID(_ context.Context, id, userID string) (quote.Quote, error) {
	for _, q := range s.saved {
		if q.ID == id && q.UserID == userID {
			return q, nil
		}
	}
	return quote.Quote{}, quote.ErrNotFound
}

func (s *stubRepo) DeleteQuote(_ context.Context, id, userID string) error {
	for i, q := range s.saved {
		if q.ID == id && q.UserID == userID {
			s.saved = append(s.saved[:i], s.saved[i+1:]...)
			return nil
		}
	}
	return quote.ErrNotFound
}

type stubProducts struct {
	products map[string]catalog.Product
}

func (s *stubProducts) SearchProducts(context.Context, string, []string, int32) ([]catalog.Product, error) {
	return nil, nil
}

func (s *stubProducts) GetProductsByIDs(_ context.Context, ids []string) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProducts) ListCategories(context.Context) ([]string, error) { return nil, nil }

type stubCoupons struct {
	coupons map[string]coupon.Coupon
}

func (s *stubCoupons) FindCoupon(_ context.Context, code string) (coupon.Coupon, error) {
	c, ok := s.coupons[code]
	if !ok {
		return coupon.Coupon{}, coupon.ErrNotFound
	}
	return c, nil
}

type stubAccounts struct {
	user account.User
}

func (s *stubAccounts) GetUserByID(context.Context, string) (account.User, error) {
	return s.user, nil
}

func (s *stubAccounts) UpsertUserByGoogleID(_ context.Context, u account.User) (account.User, error) {
	return u, nil
}

func (s *stubAccounts) UpdateAccountDetails(_ context.Context, _ string, b, sh account.DetailBlock) (account.User, error) {
	u := s.user
	u.BillingDetails, u.ShippingDetails = b, sh
	return u, nil
}

func completeUser() account.User {
	return account.User{
		ID:          "u-1",
		DisplayName: "Asha Rao",
		Email:       "asha@example.com",
		BillingDetails: account.DetailBlock{
			Name:          "Asha Rao",
			Address:       "12 MG Road",
			ContactNumber: "9876543210",
			PinCode:       "560001",
			State:         "Karnataka",
		},
	}
}

func newFixture(t *testing.T) (*quote.Service, *stubRepo) {
	t.Helper()
	repo := &stubRepo{couponUsed: map[string]bool{}}
	products := &stubProducts{products: map[string]catalog.Product{
		"p-1": {ID: "p-1", BaseName: "Widget", VariantName: "Large", Description: "A widget", BasePrice: decimal.NewFromInt(100)},
		"p-2": {ID: "p-2", BaseName: "Gadget", BasePrice: decimal.RequireFromString("49.50")},
	}}
	coupons := &stubCoupons{coupons: map[string]coupon.Coupon{
		"SAVE20": {Code: "SAVE20", DiscountPercentage: 20},
	}}
	svc := quote.NewService(repo, products, coupons, &stubAccounts{user: completeUser()}, decimal.NewFromInt(18))
	return svc, repo
}

func TestSaveResolvesPricesFromCatalog(t *testing.T) {
	svc, repo := newFixture(t)

	q, err := svc.Save(context.Background(), "u-1", quote.SavePayload{
		ClientName: "Acme Traders",
		LineItems: []quote.WireLine{
			// basePrice lies on purpose; the catalog's 100 must win.
			{ProductID: "p-1", BasePrice: 1, Quantity: 2, DiscountPercentage: 10},
		},
	})
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	require.True(t, strings.HasPrefix(q.QuoteNumber, "Q-"))
	require.Equal(t, "Widget, Large", q.LineItems[0].Name)
	require.Equal(t, "180", q.Subtotal.String())
	require.Equal(t, "32.4", q.GSTAmount.String())
	require.Equal(t, "212.4", q.GrandTotal.String())
	require.True(t, q.CouponDiscountAmount.IsZero())
}

func TestSaveBlankClientNameFallsBack(t *testing.T) {
	svc, _ := newFixture(t)

	q, err := svc.Save(context.Background(), "u-1", quote.SavePayload{
		ClientName: "   ",
		LineItems:  []quote.WireLine{{ProductID: "p-1", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, "N/A", q.ClientName)
}

func TestSaveCouponPercentageComesFromRecord(t *testing.T) {
	svc, _ := newFixture(t)

	q, err := svc.Save(context.Background(), "u-1", quote.SavePayload{
		LineItems:                []quote.WireLine{{ProductID: "p-1", Quantity: 10}},
		CouponCode:               "save20",
		CouponDiscountPercentage: 99, // ignored
	})
	require.NoError(t, err)
	require.Equal(t, "SAVE20", q.CouponCode)
	require.Equal(t, "20", q.CouponDiscountPercentage.String())
	require.Equal(t, "200", q.CouponDiscountAmount.String())
	require.Equal(t, "944", q.GrandTotal.String())
}

func TestSaveCouponConsumedAtMostOnce(t *testing.T) {
	svc, _ := newFixture(t)

	payload := quote.SavePayload{
		LineItems:  []quote.WireLine{{ProductID: "p-1", Quantity: 1}},
		CouponCode: "SAVE20",
	}
	_, err := svc.Save(context.Background(), "u-1", payload)
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), "u-1", payload)
	require.ErrorIs(t, err, coupon.ErrAlreadyUsed)
}

func TestSaveUnknownProductRejectsWholePayload(t *testing.T) {
	svc, repo := newFixture(t)

	_, err := svc.Save(context.Background(), "u-1", quote.SavePayload{
		LineItems: []quote.WireLine{
			{ProductID: "p-1", Quantity: 1},
			{ProductID: "gone", Quantity: 1},
		},
	})
	require.ErrorIs(t, err, quote.ErrUnknownProduct)
	require.Empty(t, repo.saved)
}

func TestSaveRequiresCompleteBilling(t *testing.T) {
	repo := &stubRepo{}
	svc := quote.NewService(repo,
		&stubProducts{}, &stubCoupons{},
		&stubAccounts{user: account.User{ID: "u-1"}},
		decimal.NewFromInt(18))

	_, err := svc.Save(context.Background(), "u-1", quote.SavePayload{
		LineItems: []quote.WireLine{{ProductID: "p-1", Quantity: 1}},
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)
	require.Empty(t, repo.saved)
}

func TestGetSkipsLinesForRemovedProducts(t *testing.T) {
	svc, repo := newFixture(t)

	repo.saved = append(repo.saved, quote.Quote{
		ID:     "q-old",
		UserID: "u-1",
		Lines: []quote.StoredLine{
			{ProductID: "p-1", Quantity: 1},
			{ProductID: "deleted", Quantity: 3},
		},
		GrandTotal: decimal.NewFromInt(118),
	})

	q, err := svc.Get(context.Background(), "q-old", "u-1")
	require.NoError(t, err)
	require.Len(t, q.LineItems, 1)
	require.Equal(t, "p-1", q.LineItems[0].ProductID)
	// Stored totals are history; they are not repriced on read.
	require.Equal(t, "118", q.GrandTotal.String())
}

func TestSaveThenGetRoundTrip(t *testing.T) {
	svc, _ := newFixture(t)

	saved, err := svc.Save(context.Background(), "u-1", quote.SavePayload{
		ClientName: "Acme Traders",
		LineItems: []quote.WireLine{
			{ProductID: "p-1", Quantity: 2, DiscountPercentage: 10},
			{ProductID: "p-2", Quantity: 3},
		},
		CouponCode: "SAVE20",
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), saved.ID, "u-1")
	require.NoError(t, err)
	require.Equal(t, saved.QuoteNumber, got.QuoteNumber)
	require.Equal(t, saved.LineItems, got.LineItems)
	require.True(t, saved.CouponDiscountPercentage.Equal(got.CouponDiscountPercentage))
	require.True(t, saved.Subtotal.Equal(got.Subtotal))
	require.True(t, saved.GrandTotal.Equal(got.GrandTotal))
}

func TestGetIsOwnerScoped(t *testing.T) {
	svc, repo := newFixture(t)
	repo.saved = append(repo.saved, quote.Quote{ID: "q-1", UserID: "someone-else"})

	_, err := svc.Get(context.Background(), "q-1", "u-1")
	require.ErrorIs(t, err, quote.ErrNotFound)
}
