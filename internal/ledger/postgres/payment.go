// Package postgres provides the PostgreSQL-backed payment ledger.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/domain"
	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/database"
	apperrors "github.com/Lukaszwutkowski/QuickCashEasy/pkg/errors"
)

// PaymentRepository implements ledger.Repository using PostgreSQL.
type PaymentRepository struct {
	db database.DBTX
}

// NewPaymentRepository creates a new PostgreSQL-backed payment repository.
func NewPaymentRepository(db database.DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Insert persists a new payment record and returns the generated ID.
func (r *PaymentRepository) Insert(ctx context.Context, p *domain.PaymentRecord) (int64, error) {
	if p.IsPersisted() {
		return 0, apperrors.InvalidInput("payment record is already persisted")
	}

	query := `
		INSERT INTO payments (amount, method, status, succeeded, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		p.Amount,
		p.Method,
		p.Status,
		p.Succeeded,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return 0, fmt.Errorf("insert payment: %w", err)
	}

	return p.ID, nil
}

// Update modifies an existing payment record.
func (r *PaymentRepository) Update(ctx context.Context, p *domain.PaymentRecord) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE payments
		SET amount = $1, method = $2, status = $3, succeeded = $4, updated_at = $5
		WHERE id = $6`

	ct, err := r.db.Exec(ctx, query,
		p.Amount,
		p.Method,
		p.Status,
		p.Succeeded,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("payment", strconv.FormatInt(p.ID, 10))
	}

	return nil
}

// FindByID retrieves a payment record by its ID.
func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (*domain.PaymentRecord, error) {
	query := `
		SELECT id, amount, method, status, succeeded, created_at, updated_at
		FROM payments
		WHERE id = $1`

	var p domain.PaymentRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.Succeeded,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("payment", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("query payment: %w", err)
	}

	return &p, nil
}

// FindAll returns all payment records, newest first.
func (r *PaymentRepository) FindAll(ctx context.Context) ([]domain.PaymentRecord, error) {
	query := `
		SELECT id, amount, method, status, succeeded, created_at, updated_at
		FROM payments
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	records := make([]domain.PaymentRecord, 0)
	for rows.Next() {
		var p domain.PaymentRecord
		err := rows.Scan(
			&p.ID,
			&p.Amount,
			&p.Method,
			&p.Status,
			&p.Succeeded,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		records = append(records, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}

	return records, nil
}

// ExistsByID reports whether a payment record with the given ID exists.
func (r *PaymentRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM payments WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("query payment existence: %w", err)
	}

	return exists, nil
}

// Delete removes a payment record.
func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM payments WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("payment", strconv.FormatInt(id, 10))
	}

	return nil
}
