package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/noah-isme/backend-quote/internal/account"
	"github.com/noah-isme/backend-quote/internal/pricing"
	"github.com/noah-isme/backend-quote/internal/quote"
)

// defaultLogoURL backs the header image when the sender has no profile picture.
const defaultLogoURL = "https://organiciqsolutions.com/wp-content/uploads/2025/06/Asset-1@2x-1.png"

type itemRowVM struct {
	Index           int
	Name            string
	BasePrice       string
	Quantity        int
	DiscountPct     string
	DiscountedPrice string
	Total           string
}

type totalsVM struct {
	Subtotal      string
	HasDiscount   bool
	DiscountLabel string
	DiscountValue string
	GSTLabel      string
	GSTValue      string
	GrandTotal    string
}

type documentVM struct {
	LogoURL      string
	Organisation string
	AddressLines []string
	Contact      string
	GSTIN        string
	QuoteNumber  string
	QuoteDate    string
	BillTo       string
	Items        []itemRowVM
	Totals       totalsVM
}

type detailBlockVM struct {
	Heading      string
	Name         string
	Organisation string
	Address      string
	StatePin     string
	GSTIN        string
	Contact      string
	Email        string
}

type emailVM struct {
	Message    string
	Items      []itemRowVM
	Totals     totalsVM
	Billing    detailBlockVM
	Shipping   detailBlockVM
	SignName   string
	SignOrg    string
}

var documentTmpl = template.Must(template.New("document").Parse(`<html><head><style>body{font-family:Helvetica,Arial,sans-serif;font-size:12px;color:#333;}.invoice-box{max-width:800px;margin:auto;padding:30px;border:1px solid #eee;box-shadow:0 0 10px rgba(0,0,0,.15);}.items-table{width:100%;border-collapse:collapse;}.items-table th,.items-table td{border-bottom:1px solid #eee;padding:8px;text-align:left;vertical-align:top;}.items-table th{background-color:#f9f9f9;}.totals-table{width:50%;margin-left:auto;margin-top:20px;}.totals-table td{padding:4px 8px;}</style></head><body><div class="invoice-box">
<table style="width:100%;border-collapse:collapse;margin-bottom:20px;"><tr>
<td style="width:20%;"><img src="{{.LogoURL}}" style="width:80px;height:80px;border-radius:50%;"></td>
<td style="width:45%;vertical-align:top;font-size:11px;"><strong style="font-size:16px;">{{.Organisation}}</strong><br>{{range .AddressLines}}{{.}}<br>{{end}}{{.Contact}}<br>{{if .GSTIN}}GSTIN: {{.GSTIN}}{{end}}</td>
<td style="width:35%;text-align:right;vertical-align:top;"><h1 style="font-size:24px;margin:0;color:#333;">QUOTATION</h1></td>
</tr></table>
<div style="border-top:2px solid #333;margin-bottom:20px;"></div>
<table style="width:100%;border-collapse:collapse;margin-bottom:20px;font-size:12px;"><tr>
<td style="width:50%;"><strong>Quote No:</strong> {{.QuoteNumber}}<br><strong>Date:</strong> {{.QuoteDate}}<br></td>
<td style="width:50%;"><strong>Bill To:</strong> {{.BillTo}}</td>
</tr></table>
{{template "items" .Items}}
{{template "totals" .Totals}}
</div></body></html>`))

var emailTmpl = template.Must(template.New("email").Parse(`<div style="font-family:Arial,sans-serif;color:#333;"><p>Hello,</p><p>{{.Message}}</p>
<hr style="border:none;border-top:1px solid #eee;">
{{template "items" .Items}}
{{template "totals" .Totals}}
<h3 style="margin-top:20px;border-bottom:1px solid #eee;padding-bottom:5px;">Customer Details</h3>
<table style="width:100%;border-collapse:collapse;font-size:14px;"><tr>
{{template "details" .Billing}}
{{template "details" .Shipping}}
</tr></table>
<hr style="border:none;border-top:1px solid #eee;">
<p>Thank you,</p><p><strong>{{.SignName}}</strong></p><p>{{.SignOrg}}</p></div>`))

func init() {
	template.Must(documentTmpl.New("items").Parse(itemsFragment))
	template.Must(documentTmpl.New("totals").Parse(totalsFragment))
	template.Must(emailTmpl.New("items").Parse(itemsFragment))
	template.Must(emailTmpl.New("totals").Parse(totalsFragment))
	template.Must(emailTmpl.New("details").Parse(detailsFragment))
}

const itemsFragment = `<table class="items-table" style="width:100%;border-collapse:collapse;"><thead><tr><th>#</th><th>Item</th><th>Base Price</th><th>Qty</th><th>Disc %</th><th>Disc Price</th><th>Total</th></tr></thead><tbody>
{{range .}}<tr><td>{{.Index}}</td><td>{{.Name}}</td><td>{{.BasePrice}}</td><td>{{.Quantity}}</td><td>{{.DiscountPct}}%</td><td>{{.DiscountedPrice}}</td><td>{{.Total}}</td></tr>
{{end}}</tbody></table>`

const totalsFragment = `<table class="totals-table" style="width:50%;margin-left:auto;margin-top:20px;"><tbody>
<tr><td style="text-align:right;">Subtotal:</td><td style="text-align:right;">{{.Subtotal}}</td></tr>
{{if .HasDiscount}}<tr><td style="text-align:right;">{{.DiscountLabel}}:</td><td style="text-align:right;">- {{.DiscountValue}}</td></tr>
{{end}}<tr><td style="text-align:right;">{{.GSTLabel}}:</td><td style="text-align:right;">+ {{.GSTValue}}</td></tr>
<tr style="font-weight:bold;border-top:2px solid #333;"><td style="text-align:right;">Grand Total:</td><td style="text-align:right;">{{.GrandTotal}}</td></tr>
</tbody></table>`

const detailsFragment = `<td style="padding:10px;vertical-align:top;width:50%;"><strong><u>{{.Heading}}:</u></strong><br><strong>{{.Name}}</strong><br>{{if .Organisation}}{{.Organisation}}<br>{{end}}{{.Address}}<br>{{.StatePin}}<br>{{if .GSTIN}}<strong>GSTIN:</strong> {{.GSTIN}}<br>{{end}}<br><strong>Contact:</strong> {{.Contact}}<br><strong>Email:</strong> {{.Email}}</td>`

// ToDocument renders the standalone printable document for the PDF surface.
// The quote date is rendered in the fixed DD/MM/YYYY business format.
func ToDocument(doc quote.Document, summary pricing.Summary, sender account.User, now time.Time) (string, error) {
	billing := sender.BillingDetails
	organisation := billing.Organisation
	if organisation == "" {
		organisation = sender.DisplayName
	}
	logo := sender.Image
	if logo == "" {
		logo = defaultLogoURL
	}
	vm := documentVM{
		LogoURL:      logo,
		Organisation: organisation,
		AddressLines: addressLines(billing),
		Contact:      billing.ContactNumber,
		GSTIN:        billing.GSTNumber,
		QuoteNumber:  doc.QuoteNumber,
		QuoteDate:    now.Format(dateLayout),
		BillTo:       doc.ClientName,
		Items:        buildItemRows(doc),
		Totals:       buildTotals(doc, summary),
	}
	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, vm); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return buf.String(), nil
}

// ToEmailBody renders the email chrome around the shared item and totals
// fragments.
func ToEmailBody(doc quote.Document, summary pricing.Summary, sender account.User, customMessage string) (string, error) {
	message := strings.TrimSpace(customMessage)
	if message == "" {
		message = "Please find the quotation details below and attached as a spreadsheet."
	}
	signName := sender.BillingDetails.Name
	if signName == "" {
		signName = sender.DisplayName
	}
	vm := emailVM{
		Message:  message,
		Items:    buildItemRows(doc),
		Totals:   buildTotals(doc, summary),
		Billing:  detailBlock("Billing Details", sender.BillingDetails, sender.Email),
		Shipping: detailBlock("Shipping Details", sender.ShippingDetails, sender.ShippingDetails.Email),
		SignName: signName,
		SignOrg:  sender.BillingDetails.Organisation,
	}
	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, vm); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return buf.String(), nil
}

func buildItemRows(doc quote.Document) []itemRowVM {
	rows := make([]itemRowVM, 0, len(doc.LineItems))
	for i, item := range doc.LineItems {
		line := item.PricingItem()
		rows = append(rows, itemRowVM{
			Index:           i + 1,
			Name:            item.Name,
			BasePrice:       rupee(item.UnitPrice),
			Quantity:        item.Quantity,
			DiscountPct:     pricing.Round2(item.DiscountPercentage).String(),
			DiscountedPrice: rupee(line.DiscountedUnitPrice()),
			Total:           rupee(line.LineTotal()),
		})
	}
	return rows
}

func buildTotals(doc quote.Document, summary pricing.Summary) totalsVM {
	return totalsVM{
		Subtotal:      rupee(summary.Subtotal),
		HasDiscount:   summary.HasCouponDiscount,
		DiscountLabel: fmt.Sprintf("Discount (%s%%)", doc.CouponDiscountPercentage.String()),
		DiscountValue: rupee(summary.CouponDiscountAmount),
		GSTLabel:      fmt.Sprintf("GST (%s%%)", doc.GSTPercentage.String()),
		GSTValue:      rupee(summary.GSTAmount),
		GrandTotal:    rupee(summary.GrandTotal),
	}
}

func detailBlock(heading string, b account.DetailBlock, email string) detailBlockVM {
	return detailBlockVM{
		Heading:      heading,
		Name:         b.Name,
		Organisation: b.Organisation,
		Address:      b.Address,
		StatePin:     strings.TrimSpace(b.State + " - " + b.PinCode),
		GSTIN:        b.GSTNumber,
		Contact:      b.ContactNumber,
		Email:        email,
	}
}

func addressLines(b account.DetailBlock) []string {
	lines := make([]string, 0, 2)
	if b.Address != "" {
		lines = append(lines, b.Address)
	}
	if b.State != "" || b.PinCode != "" {
		lines = append(lines, strings.TrimSpace(b.State+" - "+b.PinCode))
	}
	return lines
}
