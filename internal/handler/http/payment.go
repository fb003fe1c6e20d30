package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/domain"
	"github.com/Lukaszwutkowski/QuickCashEasy/internal/ledger"
	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/httputil"
)

// PaymentHandler handles HTTP requests for the payment ledger endpoints.
type PaymentHandler struct {
	ledger ledger.Repository
	logger *slog.Logger
}

// NewPaymentHandler creates a new payment ledger HTTP handler.
func NewPaymentHandler(repo ledger.Repository, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		ledger: repo,
		logger: logger,
	}
}

// PaymentResponse is one ledger record in API responses.
type PaymentResponse struct {
	ID        int64     `json:"id"`
	Amount    string    `json:"amount"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	Succeeded bool      `json:"succeeded"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPaymentResponse(p domain.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		Amount:    p.Amount.String(),
		Method:    p.Method,
		Status:    p.Status,
		Succeeded: p.Succeeded,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func paymentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "payment id must be a positive integer"},
		})
		return 0, false
	}
	return id, true
}

// ListPayments handles GET /api/v1/payments
// @Summary List payment records
// @Description Returns every payment record, newest first.
// @Tags payments
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/payments [get]
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.FindAll(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := make([]PaymentResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, toPaymentResponse(record))
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// GetPayment handles GET /api/v1/payments/{id}
// @Summary Get a payment record
// @Tags payments
// @Produce json
// @Param id path int true "Payment record ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/payments/{id} [get]
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentID(w, r)
	if !ok {
		return
	}

	record, err := h.ledger.FindByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toPaymentResponse(*record)})
}

// DeletePayment handles DELETE /api/v1/payments/{id}
// @Summary Delete a payment record
// @Description Removes a ledger record, for correcting test or training entries.
// @Tags payments
// @Produce json
// @Param id path int true "Payment record ID"
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentID(w, r)
	if !ok {
		return
	}

	if err := h.ledger.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
