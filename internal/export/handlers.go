package export

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-quote/internal/account"
	"github.com/noah-isme/backend-quote/internal/common"
	"github.com/noah-isme/backend-quote/internal/obs"
	"github.com/noah-isme/backend-quote/internal/quote"
	"github.com/noah-isme/backend-quote/internal/render"
)

// Handler exposes the stateless export surfaces: spreadsheet download, PDF
// preview, and email delivery. All three take the working quote in the body,
// so unsaved quotes export exactly like saved ones.
type Handler struct {
	Accounts *account.Service
	Renderer PDFRenderer
	Mailer   common.EmailSender
	Validate *validator.Validate
	Logger   zerolog.Logger
	MailFrom string
	MailBCC  string
	GSTPct   decimal.Decimal
	Now      func() time.Time
}

func NewHandler(accounts *account.Service, renderer PDFRenderer, mailer common.EmailSender, logger zerolog.Logger, mailFrom, mailBCC string, gstPct decimal.Decimal) *Handler {
	return &Handler{
		Accounts: accounts,
		Renderer: renderer,
		Mailer:   mailer,
		Validate: validator.New(),
		Logger:   logger,
		MailFrom: mailFrom,
		MailBCC:  mailBCC,
		GSTPct:   gstPct,
		Now:      time.Now,
	}
}

type emailRequest struct {
	quote.ExportPayload
	RecipientEmail string `json:"recipientEmail" validate:"required,email"`
}

// XLSX handles POST /api/v1/quotes/export/xlsx.
func (h *Handler) XLSX(w http.ResponseWriter, r *http.Request) {
	start := h.Now()
	user, payload, ok := h.prepare(w, r, true)
	if !ok {
		observeExport("xlsx", "rejected", start)
		return
	}

	doc := quote.FromExportPayload(payload, h.GSTPct, h.Now())
	summary, err := doc.Totals()
	if err != nil {
		observeExport("xlsx", "rejected", start)
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	grid := render.ToGrid(doc, summary, render.GridOptions{})
	data, err := EncodeXLSX(grid)
	if err != nil {
		observeExport("xlsx", "error", start)
		h.Logger.Error().Err(err).
			Str("quote_number", doc.QuoteNumber).
			Str("user_id", user.ID).
			Msg("spreadsheet encode failed")
		common.WriteError(w, common.NewRenderError(err))
		return
	}

	filename := fmt.Sprintf("Quotation_%s.xlsx", h.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	observeExport("xlsx", "ok", start)
}

// PreviewPDF handles POST /api/v1/quotes/preview-pdf.
func (h *Handler) PreviewPDF(w http.ResponseWriter, r *http.Request) {
	start := h.Now()
	user, payload, ok := h.prepare(w, r, false)
	if !ok {
		observeExport("pdf", "rejected", start)
		return
	}

	doc := quote.FromExportPayload(payload, h.GSTPct, h.Now())
	summary, err := doc.Totals()
	if err != nil {
		observeExport("pdf", "rejected", start)
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	html, err := render.ToDocument(doc, summary, user, h.Now())
	if err != nil {
		observeExport("pdf", "error", start)
		h.Logger.Error().Err(err).
			Str("quote_number", doc.QuoteNumber).
			Str("user_id", user.ID).
			Msg("quote document render failed")
		common.WriteError(w, common.NewRenderError(err))
		return
	}
	pdf, err := h.Renderer.RenderHTML(r.Context(), html)
	if err != nil {
		observeExport("pdf", "error", start)
		h.Logger.Error().Err(err).
			Str("quote_number", doc.QuoteNumber).
			Str("user_id", user.ID).
			Msg("pdf render failed")
		common.WriteError(w, common.NewRenderError(err))
		return
	}

	filename := fmt.Sprintf("Quote-Preview_%d.pdf", h.Now().Unix())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
	observeExport("pdf", "ok", start)
}

// SendEmail handles POST /api/v1/quotes/send-email. A render failure and a
// delivery failure surface as different error codes so callers can tell
// whether the document itself was fine.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	start := h.Now()
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	user, err := h.Accounts.Get(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if err := account.RequireCompleteBilling(user); err != nil {
		common.WriteError(w, err)
		return
	}

	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid email payload", err.Error())
		return
	}

	doc := quote.FromExportPayload(req.ExportPayload, h.GSTPct, h.Now())
	summary, err := doc.Totals()
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	body, err := render.ToEmailBody(doc, summary, user, req.CustomMessage)
	if err != nil {
		observeEmail("render_error", start)
		h.Logger.Error().Err(err).
			Str("quote_number", doc.QuoteNumber).
			Str("user_id", userID).
			Msg("email body render failed")
		common.WriteError(w, common.NewRenderError(err))
		return
	}
	attachment, err := EncodeXLSX(render.ToGrid(doc, summary, render.GridOptions{}))
	if err != nil {
		observeEmail("render_error", start)
		h.Logger.Error().Err(err).
			Str("quote_number", doc.QuoteNumber).
			Str("user_id", userID).
			Msg("email attachment encode failed")
		common.WriteError(w, common.NewRenderError(err))
		return
	}

	sender := user.BillingDetails.Organisation
	if sender == "" {
		sender = "Your Company"
	}
	msg := common.Email{
		From:    h.MailFrom,
		To:      req.RecipientEmail,
		BCC:     h.MailBCC,
		Subject: fmt.Sprintf("Quotation for %s from %s", doc.ClientName, sender),
		HTML:    body,
		Attachments: []common.Attachment{{
			Filename:    fmt.Sprintf("Quotation_%s.xlsx", h.Now().Format("2006-01-02")),
			ContentType: XLSXContentType,
			Content:     attachment,
		}},
	}
	if err := h.Mailer.Send(msg); err != nil {
		observeEmail("delivery_error", start)
		h.Logger.Error().Err(err).
			Str("quote_number", doc.QuoteNumber).
			Str("user_id", userID).
			Msg("quotation email delivery failed")
		common.WriteError(w, common.NewTransportError(err))
		return
	}

	observeEmail("ok", start)
	common.JSON(w, http.StatusOK, map[string]any{"message": "Quotation sent successfully!"})
}

// prepare authenticates, loads the sender profile, optionally enforces a
// complete billing block, and decodes the export payload.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request, requireBilling bool) (account.User, quote.ExportPayload, bool) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return account.User{}, quote.ExportPayload{}, false
	}
	user, err := h.Accounts.Get(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return account.User{}, quote.ExportPayload{}, false
	}
	if requireBilling {
		if err := account.RequireCompleteBilling(user); err != nil {
			common.WriteError(w, err)
			return account.User{}, quote.ExportPayload{}, false
		}
	}

	var payload quote.ExportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return account.User{}, quote.ExportPayload{}, false
	}
	if err := h.Validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid export payload", err.Error())
		return account.User{}, quote.ExportPayload{}, false
	}
	return user, payload, true
}

func observeExport(format, result string, start time.Time) {
	if obs.ExportTotal != nil {
		obs.ExportTotal.WithLabelValues(format, result).Inc()
	}
	if result == "ok" && obs.ExportDuration != nil {
		obs.ExportDuration.WithLabelValues(format).Observe(obs.DurationMillis(time.Since(start)))
	}
}

func observeEmail(result string, start time.Time) {
	if obs.EmailSendTotal != nil {
		obs.EmailSendTotal.WithLabelValues(result).Inc()
	}
	if result == "ok" && obs.ExportDuration != nil {
		obs.ExportDuration.WithLabelValues("email").Observe(obs.DurationMillis(time.Since(start)))
	}
}
