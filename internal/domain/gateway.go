package domain

import (
	"github.com/shopspring/decimal"
)

// OutcomeKind classifies the result of a settlement attempt against the bank.
type OutcomeKind string

const (
	// OutcomeApproved means the bank accepted the charge.
	OutcomeApproved OutcomeKind = "approved"

	// OutcomeDeclined means the bank made a business decision to refuse the
	// charge. Retrying the same request will not succeed.
	OutcomeDeclined OutcomeKind = "declined"

	// OutcomeTransientFailure means an infrastructure fault (timeout, 5xx,
	// connection error) prevented a decision. The same request may be retried.
	OutcomeTransientFailure OutcomeKind = "transient_failure"

	// OutcomeProtocolError means the bank responded outside its API contract,
	// indicating misconfiguration. Operator intervention is required.
	OutcomeProtocolError OutcomeKind = "protocol_error"
)

// SettlementRequest is the transient request sent to the bank gateway for one
// checkout attempt. The amount is snapshotted from the cart when the attempt
// is created and never recomputed mid-flight.
type SettlementRequest struct {
	AccountToken int
	Amount       decimal.Decimal
}

// GatewayOutcome is the classified result of one settlement request. It is
// produced once and never mutated.
type GatewayOutcome struct {
	Kind OutcomeKind `json:"kind"`

	// Reason carries the decline or failure reason text, verbatim from the
	// bank response body where one exists.
	Reason string `json:"reason,omitempty"`

	// StatusCode is the HTTP status that produced a protocol error; zero
	// for all other kinds.
	StatusCode int `json:"status_code,omitempty"`
}

// Approved constructs the outcome for an accepted charge.
func Approved() GatewayOutcome {
	return GatewayOutcome{Kind: OutcomeApproved}
}

// Declined constructs the outcome for a refused charge.
func Declined(reason string) GatewayOutcome {
	return GatewayOutcome{Kind: OutcomeDeclined, Reason: reason}
}

// TransientFailure constructs the outcome for a retryable infrastructure fault.
func TransientFailure(reason string) GatewayOutcome {
	return GatewayOutcome{Kind: OutcomeTransientFailure, Reason: reason}
}

// ProtocolError constructs the outcome for a response outside the bank contract.
func ProtocolError(code int, body string) GatewayOutcome {
	return GatewayOutcome{Kind: OutcomeProtocolError, Reason: body, StatusCode: code}
}

// Retryable reports whether the caller may re-submit the same request.
func (o GatewayOutcome) Retryable() bool {
	return o.Kind == OutcomeTransientFailure
}

// CheckoutResult is returned to the caller after a checkout attempt settles.
type CheckoutResult struct {
	Outcome   OutcomeKind `json:"outcome"`
	Reason    string      `json:"reason,omitempty"`
	Retryable bool        `json:"retryable"`
	PaymentID *int64      `json:"payment_id,omitempty"`
}
