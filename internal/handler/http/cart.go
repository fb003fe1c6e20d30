// Package http exposes the checkout engine's REST API.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/cart"
	"github.com/Lukaszwutkowski/QuickCashEasy/internal/domain"
	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/httputil"
	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/validator"
)

// laneHeader identifies the register lane a request belongs to. Registers
// that do not send it share the default lane.
const laneHeader = "X-Lane-ID"

const defaultLaneID = "1"

func laneID(r *http.Request) string {
	if id := r.Header.Get(laneHeader); id != "" {
		return id
	}
	return defaultLaneID
}

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	registry *cart.Registry
	logger   *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(registry *cart.Registry, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		registry: registry,
		logger:   logger,
	}
}

// --- Request and response DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	Barcode  string `json:"barcode" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// SetQuantityRequest is the JSON request body for replacing a line quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// LineItemResponse is one cart line in API responses.
type LineItemResponse struct {
	Barcode   string `json:"barcode"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// CartResponse is the full cart view in API responses.
type CartResponse struct {
	LaneID    string             `json:"lane_id"`
	Items     []LineItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     string             `json:"total"`
}

func toLineItemResponse(item domain.LineItem) LineItemResponse {
	return LineItemResponse{
		Barcode:   item.Barcode,
		Name:      item.Name,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice.String(),
		LineTotal: item.LineTotal().String(),
	}
}

func toCartResponse(laneID string, svc *cart.Service) CartResponse {
	items := svc.Items()
	resp := CartResponse{
		LaneID:    laneID,
		Items:     make([]LineItemResponse, 0, len(items)),
		ItemCount: svc.ItemCount(),
		Total:     svc.Total().String(),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, toLineItemResponse(item))
	}
	return resp
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
// @Summary Get the current cart
// @Description Returns the line items and running total for the requesting lane.
// @Tags cart
// @Produce json
// @Param X-Lane-ID header string false "Register lane identifier (default 1)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/cart [get]
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	lane := laneID(r)
	svc := h.registry.Session(r.Context(), lane)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartResponse(lane, svc)})
}

// AddItem handles POST /api/v1/cart/items
// @Summary Add an item to the cart
// @Description Resolves the barcode in the catalog and adds the quantity to the lane's cart. An already present barcode accumulates.
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Lane-ID header string false "Register lane identifier (default 1)"
// @Param request body AddItemRequest true "Item to add"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cart/items [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	lane := laneID(r)
	svc := h.registry.Session(r.Context(), lane)

	if _, err := svc.AddItem(r.Context(), req.Barcode, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartResponse(lane, svc)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{barcode}
// @Summary Remove an item from the cart
// @Description Removes the line with the given barcode. Absent barcodes are ignored.
// @Tags cart
// @Produce json
// @Param X-Lane-ID header string false "Register lane identifier (default 1)"
// @Param barcode path string true "Product barcode"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/cart/items/{barcode} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	if barcode == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "barcode is required"},
		})
		return
	}

	lane := laneID(r)
	svc := h.registry.Session(r.Context(), lane)
	svc.RemoveItem(r.Context(), barcode)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartResponse(lane, svc)})
}

// SetQuantity handles PUT /api/v1/cart/items/{barcode}
// @Summary Set the quantity of a cart line
// @Description Replaces the quantity of an existing line. Fails if the product is not in the cart.
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Lane-ID header string false "Register lane identifier (default 1)"
// @Param barcode path string true "Product barcode"
// @Param request body SetQuantityRequest true "New quantity"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cart/items/{barcode} [put]
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	if barcode == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "barcode is required"},
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	lane := laneID(r)
	svc := h.registry.Session(r.Context(), lane)

	if err := svc.SetQuantity(r.Context(), barcode, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartResponse(lane, svc)})
}

// ClearCart handles DELETE /api/v1/cart
// @Summary Empty the cart
// @Description Removes every line from the lane's cart.
// @Tags cart
// @Produce json
// @Param X-Lane-ID header string false "Register lane identifier (default 1)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/cart [delete]
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	lane := laneID(r)
	svc := h.registry.Session(r.Context(), lane)
	svc.Clear(r.Context())

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartResponse(lane, svc)})
}
