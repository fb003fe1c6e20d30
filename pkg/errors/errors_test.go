package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	t.Run("without wrapped error", func(t *testing.T) {
		err := InvalidInput("quantity must be at least 1")
		assert.Equal(t, "INVALID_INPUT: quantity must be at least 1", err.Error())
	})

	t.Run("with wrapped error", func(t *testing.T) {
		inner := errors.New("connection refused")
		err := Internal(inner)
		assert.Contains(t, err.Error(), "INTERNAL_ERROR")
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("sentinel text not repeated", func(t *testing.T) {
		err := NotFound("payment", "42")
		assert.Equal(t, "NOT_FOUND: payment with id 42 not found", err.Error())
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestAppError_Unwrap(t *testing.T) {
	err := NotFound("payment", "42")
	assert.True(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("load payment: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		code     string
		status   int
		sentinel error
	}{
		{"NotFound", NotFound("product", "123"), "NOT_FOUND", http.StatusNotFound, ErrNotFound},
		{"InvalidInput", InvalidInput("bad"), "INVALID_INPUT", http.StatusBadRequest, ErrInvalidInput},
		{"Conflict", Conflict("busy"), "CONFLICT", http.StatusConflict, ErrConflict},
		{"PaymentDeclined", PaymentDeclined("insufficient funds"), "PAYMENT_DECLINED", http.StatusUnprocessableEntity, ErrPaymentFailed},
		{"ServiceUnavailable", ServiceUnavailable("bank down"), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, ErrServiceUnavail},
		{"GatewayContract", GatewayContract("unexpected status 418"), "GATEWAY_CONTRACT", http.StatusBadGateway, ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.True(t, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestNotFound_Message(t *testing.T) {
	err := NotFound("payment", "42")
	assert.Equal(t, "payment with id 42 not found", err.Message)
}

func TestReconciliationRequired(t *testing.T) {
	inner := errors.New("connection reset")
	err := ReconciliationRequired("payment 42", inner)

	assert.Equal(t, "RECONCILIATION_REQUIRED", err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.True(t, errors.Is(err, ErrReconcile))
	assert.True(t, errors.Is(err, inner))
	assert.Contains(t, err.Message, "payment 42")
	assert.Contains(t, err.Message, "reconciliation")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"app error", NotFound("payment", "1"), http.StatusNotFound},
		{"wrapped app error", fmt.Errorf("ctx: %w", Conflict("busy")), http.StatusConflict},
		{"bare not found sentinel", ErrNotFound, http.StatusNotFound},
		{"bare invalid input sentinel", ErrInvalidInput, http.StatusBadRequest},
		{"bare payment failed sentinel", ErrPaymentFailed, http.StatusUnprocessableEntity},
		{"bare service unavailable sentinel", ErrServiceUnavail, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	inner := NotFound("payment", "1")
	wrapped := Wrap(inner, "load ledger record")

	assert.Contains(t, wrapped.Error(), "load ledger record")
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}
