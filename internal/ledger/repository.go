// Package ledger defines the persistent record of payment attempts.
package ledger

import (
	"context"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/domain"
)

// Repository is the storage port for payment records. Implementations must
// return an error wrapping apperrors.ErrNotFound when the requested record
// does not exist, and Insert must assign the generated identifier.
type Repository interface {
	// Insert persists a new record and returns its generated ID. The record
	// must not already be persisted.
	Insert(ctx context.Context, record *domain.PaymentRecord) (int64, error)

	// Update replaces the mutable fields of an existing record.
	Update(ctx context.Context, record *domain.PaymentRecord) error

	// FindByID retrieves a single record.
	FindByID(ctx context.Context, id int64) (*domain.PaymentRecord, error)

	// FindAll returns every record, newest first.
	FindAll(ctx context.Context) ([]domain.PaymentRecord, error)

	// ExistsByID reports whether a record with the given ID exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Delete removes a record.
	Delete(ctx context.Context, id int64) error
}
