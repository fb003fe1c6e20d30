package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/cart"
	"github.com/Lukaszwutkowski/QuickCashEasy/internal/checkout"
	"github.com/Lukaszwutkowski/QuickCashEasy/internal/domain"
	apperrors "github.com/Lukaszwutkowski/QuickCashEasy/pkg/errors"
	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/httputil"
	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/validator"
)

// CheckoutHandler handles HTTP requests for the checkout endpoint.
type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	registry     *cart.Registry
	logger       *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(o *checkout.Orchestrator, registry *cart.Registry, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: o,
		registry:     registry,
		logger:       logger,
	}
}

// BeginCheckoutRequest is the JSON request body for starting a checkout.
type BeginCheckoutRequest struct {
	AccountToken int `json:"account_token" validate:"required,gt=0"`
}

// outcomeError maps a failed settlement outcome onto the error taxonomy.
// The response still carries the full CheckoutResult as data; the taxonomy
// supplies the HTTP status and the machine-readable code.
func outcomeError(result *domain.CheckoutResult) *apperrors.AppError {
	switch result.Outcome {
	case domain.OutcomeDeclined:
		return apperrors.PaymentDeclined(result.Reason)
	case domain.OutcomeTransientFailure:
		return apperrors.ServiceUnavailable(result.Reason)
	default:
		return apperrors.GatewayContract(result.Reason)
	}
}

// BeginCheckout handles POST /api/v1/checkout
// @Summary Settle the lane's cart
// @Description Charges the cart total against the given account through the bank gateway. An approved settlement empties the cart; any other outcome preserves it.
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-Lane-ID header string false "Register lane identifier (default 1)"
// @Param request body BeginCheckoutRequest true "Account to charge"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/checkout [post]
func (h *CheckoutHandler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req BeginCheckoutRequest
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

	result, err := h.orchestrator.Begin(r.Context(), lane, svc, req.AccountToken)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if result.Outcome == domain.OutcomeApproved {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
		return
	}

	appErr := outcomeError(result)
	h.logger.WarnContext(r.Context(), "checkout not approved",
		slog.String("lane_id", lane),
		slog.String("code", appErr.Code),
		slog.String("reason", result.Reason),
	)
	httputil.WriteJSON(w, appErr.Status, httputil.Response{Data: result})
}
