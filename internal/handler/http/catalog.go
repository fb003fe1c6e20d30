package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/catalog"
	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/httputil"
)

// CatalogHandler handles HTTP requests for product lookup endpoints.
type CatalogHandler struct {
	catalog catalog.Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(cat catalog.Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: cat,
		logger:  logger,
	}
}

// ProductResponse is one catalog product in API responses.
type ProductResponse struct {
	Barcode    string `json:"barcode"`
	Name       string `json:"name"`
	UnitPrice  string `json:"unit_price"`
	CategoryID int64  `json:"category_id,omitempty"`
}

func toProductResponse(p catalog.Product) ProductResponse {
	return ProductResponse{
		Barcode:    p.Barcode,
		Name:       p.Name,
		UnitPrice:  p.UnitPrice.String(),
		CategoryID: p.CategoryID,
	}
}

// ListProducts handles GET /api/v1/products
// @Summary List catalog products
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/products [get]
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// GetProduct handles GET /api/v1/products/{barcode}
// @Summary Look up a product by barcode
// @Tags catalog
// @Produce json
// @Param barcode path string true "Product barcode"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{barcode} [get]
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	if barcode == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "barcode is required"},
		})
		return
	}

	product, err := h.catalog.Lookup(r.Context(), barcode)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toProductResponse(*product)})
}
