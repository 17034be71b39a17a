package render

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-quote/internal/account"
	"github.com/noah-isme/backend-quote/internal/quote"
)

func sampleSender() account.User {
	return account.User{
		DisplayName: "Asha Rao",
		Email:       "asha@example.com",
		BillingDetails: account.DetailBlock{
			Name:          "Asha Rao",
			Organisation:  "Rao Supplies",
			ContactNumber: "9876543210",
			Address:       "12 MG Road",
			PinCode:       "560001",
			State:         "Karnataka",
			GSTNumber:     "29ABCDE1234F1Z5",
		},
		ShippingDetails: account.DetailBlock{
			Name:          "Asha Rao",
			ContactNumber: "9876543210",
			Address:       "Warehouse 4, Hosur Road",
			PinCode:       "560068",
			State:         "Karnataka",
			Email:         "warehouse@example.com",
		},
	}
}

func TestToDocumentChrome(t *testing.T) {
	doc := sampleDocument()
	summary, err := doc.Totals()
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	html, err := ToDocument(doc, summary, sampleSender(), now)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"QUOTATION",
		"Q-1700000000000",
		"15/06/2025",
		"Acme Traders",
		"Rao Supplies",
		"GSTIN: 29ABCDE1234F1Z5",
		"₹229.50",
		"Discount (20%)",
		"₹45.90",
		"GST (18%)",
		"Grand Total",
		defaultLogoURL,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestToDocumentFallsBackToDisplayName(t *testing.T) {
	doc := sampleDocument()
	summary, err := doc.Totals()
	if err != nil {
		t.Fatal(err)
	}
	sender := sampleSender()
	sender.BillingDetails.Organisation = ""
	sender.Image = "https://example.com/me.png"

	html, err := ToDocument(doc, summary, sender, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "Asha Rao") {
		t.Error("display name not used as organisation fallback")
	}
	if !strings.Contains(html, "https://example.com/me.png") {
		t.Error("profile image not used as logo")
	}
	if strings.Contains(html, defaultLogoURL) {
		t.Error("default logo rendered despite profile image")
	}
}

func TestToEmailBodyDefaultMessage(t *testing.T) {
	doc := sampleDocument()
	summary, err := doc.Totals()
	if err != nil {
		t.Fatal(err)
	}

	html, err := ToEmailBody(doc, summary, sampleSender(), "   ")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Please find the quotation details below and attached as a spreadsheet.",
		"Billing Details",
		"Shipping Details",
		"warehouse@example.com",
		"Thank you,",
		"Rao Supplies",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("email body missing %q", want)
		}
	}
}

func TestToEmailBodyCustomMessage(t *testing.T) {
	doc := sampleDocument()
	summary, err := doc.Totals()
	if err != nil {
		t.Fatal(err)
	}

	html, err := ToEmailBody(doc, summary, sampleSender(), "Prices valid for 30 days.")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "Prices valid for 30 days.") {
		t.Error("custom message not rendered")
	}
	if strings.Contains(html, "Please find the quotation details below") {
		t.Error("default message rendered alongside custom one")
	}
}

// Every rendering surface must agree on whether the discount row exists, for
// any combination of items and coupon.
func TestDiscountRowAgreementAcrossSurfaces(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sender := sampleSender()

	for i := 0; i < 100; i++ {
		doc := quote.Document{
			QuoteNumber:   "Q-1",
			ClientName:    "N/A",
			GSTPercentage: decimal.NewFromInt(18),
			CreatedAt:     time.Now(),
		}
		for n := rng.Intn(4); n >= 0; n-- {
			doc.LineItems = append(doc.LineItems, quote.LineItem{
				Name:               "Item",
				UnitPrice:          decimal.NewFromInt(int64(rng.Intn(1000))),
				Quantity:           1 + rng.Intn(5),
				DiscountPercentage: decimal.NewFromInt(int64(rng.Intn(101))),
			})
		}
		if rng.Intn(2) == 0 {
			doc.CouponCode = "SAVE"
			doc.CouponDiscountPercentage = decimal.NewFromInt(int64(rng.Intn(101)))
		}

		summary, err := doc.Totals()
		if err != nil {
			t.Fatal(err)
		}

		grid := ToGrid(doc, summary, GridOptions{})
		gridHas := false
		for _, row := range grid.Rows {
			for _, cell := range row {
				if s, ok := cell.(string); ok && strings.HasPrefix(s, "Discount (") {
					gridHas = true
				}
			}
		}

		docHTML, err := ToDocument(doc, summary, sender, time.Now())
		if err != nil {
			t.Fatal(err)
		}
		emailHTML, err := ToEmailBody(doc, summary, sender, "")
		if err != nil {
			t.Fatal(err)
		}
		docHas := strings.Contains(docHTML, "Discount (")
		emailHas := strings.Contains(emailHTML, "Discount (")

		if gridHas != summary.HasCouponDiscount || docHas != summary.HasCouponDiscount || emailHas != summary.HasCouponDiscount {
			t.Fatalf("iteration %d: flag=%v grid=%v doc=%v email=%v (coupon=%s)",
				i, summary.HasCouponDiscount, gridHas, docHas, emailHas,
				doc.CouponDiscountPercentage)
		}
	}
}
