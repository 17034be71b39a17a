package catalog

import (
	"net/http"

	"github.com/noah-isme/backend-quote/internal/common"
)

// Handler exposes product search and category endpoints.
type Handler struct {
	Service *Service
}

// Products handles GET /api/v1/products?q=&category=.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	query := r.URL.Query()
	products, err := h.Service.Search(r.Context(), query.Get("q"), query["category"])
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if products == nil {
		products = []Product{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": products})
}

// Categories handles GET /api/v1/categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	categories, err := h.Service.Categories(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": categories})
}
