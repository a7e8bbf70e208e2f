package http

import (
	"net/http"

	"github.com/go-chi/render"

	apiv1 "wbreport/pkg/contracts/api/v1"
)

// TaxonomyHandler exposes the fee taxonomy used to build the fee summary.
type TaxonomyHandler struct {
	service AnalysisServiceInterface
}

// NewTaxonomyHandler creates a taxonomy handler
func NewTaxonomyHandler(service AnalysisServiceInterface) *TaxonomyHandler {
	return &TaxonomyHandler{service: service}
}

// FeeCategories handles GET /api/v1/fee-categories
func (h *TaxonomyHandler) FeeCategories(w http.ResponseWriter, r *http.Request) {
	cats := h.service.Taxonomy().Categories()
	render.JSON(w, r, apiv1.FeeCategoriesResponse{Categories: cats, Count: len(cats)})
}
