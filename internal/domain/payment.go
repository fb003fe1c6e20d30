package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status constants. A record starts PENDING, and exactly one
// transition to COMPLETED or FAILED happens after the bank responds.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// PaymentRecord is the durable record of one settlement attempt. ID is zero
// until the ledger assigns one on insert; it never changes afterwards.
type PaymentRecord struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Status    string          `json:"status"`
	Succeeded bool            `json:"succeeded"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewPaymentRecord creates an unsaved PENDING record for the given amount
// and payment method.
func NewPaymentRecord(amount decimal.Decimal, method string) *PaymentRecord {
	now := time.Now().UTC()
	return &PaymentRecord{
		Amount:    amount,
		Method:    method,
		Status:    PaymentStatusPending,
		Succeeded: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkCompleted transitions the record to COMPLETED with succeeded=true.
func (p *PaymentRecord) MarkCompleted() {
	p.Status = PaymentStatusCompleted
	p.Succeeded = true
	p.UpdatedAt = time.Now().UTC()
}

// MarkFailed transitions the record to FAILED with succeeded=false.
func (p *PaymentRecord) MarkFailed() {
	p.Status = PaymentStatusFailed
	p.Succeeded = false
	p.UpdatedAt = time.Now().UTC()
}

// IsPersisted reports whether the ledger has assigned an ID.
func (p *PaymentRecord) IsPersisted() bool {
	return p.ID > 0
}

// ValidPaymentStatuses returns the set of valid payment statuses.
func ValidPaymentStatuses() []string {
	return []string{PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed}
}

// IsValidPaymentStatus checks whether the given status string is valid.
func IsValidPaymentStatus(status string) bool {
	for _, s := range ValidPaymentStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
