package quote

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-quote/internal/common"
	"github.com/noah-isme/backend-quote/internal/coupon"
	"github.com/noah-isme/backend-quote/internal/obs"
)

const defaultPageSize = 20

// Handler exposes the quote CRUD endpoints. All of them require an
// authenticated user in the request context.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, Validate: validator.New()}
}

// Save handles POST /api/v1/quotes.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var payload SavePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}
	if err := h.Validate.Struct(payload); err != nil {
		observeSave("rejected")
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid quote payload", err.Error())
		return
	}

	q, err := h.Svc.Save(r.Context(), userID, payload)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownProduct):
			observeSave("rejected")
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "one or more products no longer exist", nil)
		case errors.Is(err, coupon.ErrNotFound), errors.Is(err, coupon.ErrAlreadyUsed):
			observeSave("coupon_conflict")
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "coupon is invalid or already used", nil)
		default:
			observeSave("error")
			common.WriteError(w, err)
		}
		return
	}
	observeSave("ok")
	common.JSON(w, http.StatusCreated, map[string]any{"data": q, "message": "Quote saved successfully!"})
}

// List handles GET /api/v1/quotes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, defaultPageSize)
	quotes, err := h.Svc.List(r.Context(), userID, common.Pagination{Page: page, PerPage: perPage})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if quotes == nil {
		quotes = []Quote{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": quotes})
}

// Get handles GET /api/v1/quotes/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	q, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "quote not found", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

// Delete handles DELETE /api/v1/quotes/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "quote not found", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"message": "Quote deleted."})
}

func observeSave(result string) {
	if obs.QuoteSavedTotal != nil {
		obs.QuoteSavedTotal.WithLabelValues(result).Inc()
	}
}
