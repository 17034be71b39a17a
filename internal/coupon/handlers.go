package coupon

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noah-isme/backend-quote/internal/common"
	"github.com/noah-isme/backend-quote/internal/obs"
)

// Handler exposes the coupon apply endpoint.
type Handler struct {
	Svc *Service
}

type applyRequest struct {
	Code string `json:"code"`
}

// Apply handles POST /api/v1/coupons/apply. It is a dry-run check: the coupon
// is not consumed until a quote referencing it is saved.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "coupon service not configured", nil)
		return
	}
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}
	result, err := h.Svc.Apply(r.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrCodeRequired):
			observeApply("rejected")
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "code required", nil)
		case errors.Is(err, ErrNotFound):
			observeApply("invalid")
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "invalid or used coupon", nil)
		default:
			observeApply("error")
			common.WriteError(w, err)
		}
		return
	}
	observeApply("ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

func observeApply(result string) {
	if obs.CouponApplyTotal != nil {
		obs.CouponApplyTotal.WithLabelValues(result).Inc()
	}
}
