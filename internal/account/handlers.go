package account

import (
	"encoding/json"
	"net/http"

	"github.com/noah-isme/backend-quote/internal/common"
)

// Handler exposes profile endpoints.
type Handler struct {
	Svc *Service
}

type updateRequest struct {
	BillingDetails  DetailBlock `json:"billingDetails"`
	ShippingDetails DetailBlock `json:"shippingDetails"`
}

// Me handles GET /api/v1/users/me. The response shape matches what the
// client polls to decide whether a session exists.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSON(w, http.StatusOK, map[string]any{"loggedIn": false})
		return
	}
	u, err := h.Svc.Get(r.Context(), userID)
	if err != nil {
		common.JSON(w, http.StatusOK, map[string]any{"loggedIn": false})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"loggedIn": true, "user": u})
}

// UpdateAccount handles PUT /api/v1/users/me/account.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated", nil)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}
	u, err := h.Svc.UpdateDetails(r.Context(), userID, req.BillingDetails, req.ShippingDetails)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"message": "Account updated successfully!", "user": u})
}
