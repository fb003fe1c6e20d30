// Package checkout drives a sale from cart total to settled payment record.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/domain"
	"github.com/Lukaszwutkowski/QuickCashEasy/internal/event"
	"github.com/Lukaszwutkowski/QuickCashEasy/internal/ledger"
	apperrors "github.com/Lukaszwutkowski/QuickCashEasy/pkg/errors"
)

// PaymentMethodBankCard is the method recorded for gateway settlements.
const PaymentMethodBankCard = "bank_card"

var checkoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Total checkout attempts by outcome.",
	},
	[]string{"outcome"},
)

// Cart is the view of a lane's cart the orchestrator needs.
type Cart interface {
	IsEmpty() bool
	Total() decimal.Decimal
	ItemCount() int
	Clear(ctx context.Context)
}

// Gateway submits one settlement attempt to the bank.
type Gateway interface {
	Settle(ctx context.Context, req domain.SettlementRequest) domain.GatewayOutcome
}

// laneGuard serializes checkouts per lane. A second Begin on the same lane
// while one is in flight is rejected rather than queued, so a double key
// press can never charge the customer twice.
type laneGuard struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

func newLaneGuard() *laneGuard {
	return &laneGuard{inFlight: make(map[string]bool)}
}

func (g *laneGuard) tryAcquire(laneID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight[laneID] {
		return false
	}
	g.inFlight[laneID] = true
	return true
}

func (g *laneGuard) release(laneID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, laneID)
}

// Orchestrator runs the checkout state machine: snapshot the cart total,
// record a pending payment, settle through the gateway, then reconcile the
// record and the cart with the outcome.
type Orchestrator struct {
	ledger  ledger.Repository
	gateway Gateway
	events  event.Publisher
	guard   *laneGuard
	logger  *slog.Logger
}

// NewOrchestrator creates a checkout orchestrator. events may be nil when
// event publishing is disabled.
func NewOrchestrator(repo ledger.Repository, gw Gateway, events event.Publisher, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		ledger:  repo,
		gateway: gw,
		events:  events,
		guard:   newLaneGuard(),
		logger:  logger,
	}
}

// Begin runs one checkout attempt for the given lane's cart. Validation
// happens before any I/O: an empty or zero-total cart or a non-positive
// account token fails without touching the ledger or the bank. The pending record is
// written before the settlement call so that a crash mid-settlement leaves
// an auditable trace rather than silence.
//
// Gateway failures are results, not errors: the caller inspects the outcome
// kind and the retryable flag. Errors are reserved for rejected input, a
// concurrent checkout on the same lane, ledger write failures, and the
// reconciliation case where money moved but the record could not be updated.
func (o *Orchestrator) Begin(ctx context.Context, laneID string, cart Cart, accountToken int) (*domain.CheckoutResult, error) {
	if cart.IsEmpty() {
		checkoutsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.InvalidInput("cart is empty")
	}
	if cart.Total().Sign() <= 0 {
		checkoutsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.InvalidInput("cart total must be positive")
	}
	if accountToken <= 0 {
		checkoutsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.InvalidInput("account token must be positive")
	}

	if !o.guard.tryAcquire(laneID) {
		checkoutsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.Conflict(fmt.Sprintf("checkout already in progress on lane %s", laneID))
	}
	defer o.guard.release(laneID)

	total := cart.Total()
	itemCount := cart.ItemCount()

	record := domain.NewPaymentRecord(total, PaymentMethodBankCard)
	id, err := o.ledger.Insert(ctx, record)
	if err != nil {
		checkoutsTotal.WithLabelValues("persistence_error").Inc()
		return nil, apperrors.Internal(fmt.Errorf("record pending payment: %w", err))
	}

	o.logger.InfoContext(ctx, "checkout started",
		slog.String("lane_id", laneID),
		slog.Int64("payment_id", id),
		slog.String("amount", total.String()),
		slog.Int("items", itemCount),
	)

	outcome := o.gateway.Settle(ctx, domain.SettlementRequest{
		AccountToken: accountToken,
		Amount:       total,
	})

	checkoutsTotal.WithLabelValues(string(outcome.Kind)).Inc()

	if outcome.Kind == domain.OutcomeApproved {
		return o.completeApproved(ctx, laneID, cart, record, itemCount)
	}
	return o.completeFailed(ctx, laneID, record, outcome)
}

// completeApproved settles the happy path. If the ledger update fails after
// the bank approved, the customer has been charged but the record still says
// PENDING; that must never surface as a plain success.
func (o *Orchestrator) completeApproved(ctx context.Context, laneID string, cart Cart, record *domain.PaymentRecord, itemCount int) (*domain.CheckoutResult, error) {
	record.MarkCompleted()

	if err := o.ledger.Update(ctx, record); err != nil {
		o.logger.ErrorContext(ctx, "approved settlement could not be recorded",
			slog.String("lane_id", laneID),
			slog.Int64("payment_id", record.ID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.ReconciliationRequired(
			"payment "+strconv.FormatInt(record.ID, 10)+" approved by bank but not recorded as completed", err)
	}

	o.publishApproved(ctx, laneID, record, itemCount)

	cart.Clear(ctx)

	o.logger.InfoContext(ctx, "checkout completed",
		slog.String("lane_id", laneID),
		slog.Int64("payment_id", record.ID),
		slog.String("amount", record.Amount.String()),
	)

	return &domain.CheckoutResult{
		Outcome:   domain.OutcomeApproved,
		PaymentID: &record.ID,
	}, nil
}

// completeFailed records a declined, transient, or protocol outcome. The
// cart is left untouched so the cashier can retry or rework the sale.
func (o *Orchestrator) completeFailed(ctx context.Context, laneID string, record *domain.PaymentRecord, outcome domain.GatewayOutcome) (*domain.CheckoutResult, error) {
	record.MarkFailed()

	if err := o.ledger.Update(ctx, record); err != nil {
		// The attempt already failed; a stale PENDING row is an audit
		// nuisance, not a money problem.
		o.logger.ErrorContext(ctx, "failed settlement could not be recorded",
			slog.String("lane_id", laneID),
			slog.Int64("payment_id", record.ID),
			slog.String("error", err.Error()),
		)
	}

	if o.events != nil {
		if err := o.events.PublishCheckoutFailed(ctx, laneID, record.Amount.String(), outcome); err != nil {
			o.logger.ErrorContext(ctx, "failed to publish checkout.failed event",
				slog.String("lane_id", laneID),
				slog.String("error", err.Error()),
			)
		}
	}

	o.logger.WarnContext(ctx, "checkout failed",
		slog.String("lane_id", laneID),
		slog.Int64("payment_id", record.ID),
		slog.String("outcome", string(outcome.Kind)),
		slog.String("reason", outcome.Reason),
	)

	return &domain.CheckoutResult{
		Outcome:   outcome.Kind,
		Reason:    outcome.Reason,
		Retryable: outcome.Retryable(),
		PaymentID: &record.ID,
	}, nil
}

// publishApproved emits the settlement events. Publishing is best effort;
// the sale has already settled and must not be failed by a broker hiccup.
func (o *Orchestrator) publishApproved(ctx context.Context, laneID string, record *domain.PaymentRecord, itemCount int) {
	if o.events == nil {
		return
	}

	if err := o.events.PublishPaymentSettled(ctx, record); err != nil {
		o.logger.ErrorContext(ctx, "failed to publish payment.settled event",
			slog.Int64("payment_id", record.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := o.events.PublishCheckoutCompleted(ctx, laneID, record, itemCount); err != nil {
		o.logger.ErrorContext(ctx, "failed to publish checkout.completed event",
			slog.Int64("payment_id", record.ID),
			slog.String("error", err.Error()),
		)
	}
}
