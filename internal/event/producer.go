// Package event publishes checkout domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/domain"
	pkgkafka "github.com/Lukaszwutkowski/QuickCashEasy/pkg/kafka"
)

// Kafka topic constants for checkout domain events.
const (
	TopicPaymentSettled    = "quickcash.payment.settled"
	TopicCheckoutCompleted = "quickcash.checkout.completed"
	TopicCheckoutFailed    = "quickcash.checkout.failed"
)

// Aggregate type constant.
const AggregateTypePayment = "payment"

// Source identifier for events originating from the checkout engine.
const SourceCheckoutEngine = "checkout-engine"

// PaymentSettledData is the payload for a payment.settled event.
type PaymentSettledData struct {
	PaymentID int64     `json:"payment_id"`
	Amount    string    `json:"amount"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	Succeeded bool      `json:"succeeded"`
	SettledAt time.Time `json:"settled_at"`
}

// CheckoutCompletedData is the payload for a checkout.completed event.
type CheckoutCompletedData struct {
	PaymentID int64  `json:"payment_id"`
	LaneID    string `json:"lane_id"`
	Amount    string `json:"amount"`
	ItemCount int    `json:"item_count"`
}

// CheckoutFailedData is the payload for a checkout.failed event.
type CheckoutFailedData struct {
	LaneID    string `json:"lane_id"`
	Amount    string `json:"amount"`
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason"`
	Retryable bool   `json:"retryable"`
}

// Publisher is the port the orchestrator publishes through.
type Publisher interface {
	PublishPaymentSettled(ctx context.Context, record *domain.PaymentRecord) error
	PublishCheckoutCompleted(ctx context.Context, laneID string, record *domain.PaymentRecord, itemCount int) error
	PublishCheckoutFailed(ctx context.Context, laneID string, amount string, outcome domain.GatewayOutcome) error
}

// Producer publishes checkout domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the checkout engine.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishPaymentSettled publishes a payment.settled event.
func (p *Producer) PublishPaymentSettled(ctx context.Context, record *domain.PaymentRecord) error {
	data := PaymentSettledData{
		PaymentID: record.ID,
		Amount:    record.Amount.String(),
		Method:    record.Method,
		Status:    record.Status,
		Succeeded: record.Succeeded,
		SettledAt: record.UpdatedAt,
	}

	event, err := pkgkafka.NewEvent(TopicPaymentSettled, paymentAggregateID(record), AggregateTypePayment, SourceCheckoutEngine, data)
	if err != nil {
		return fmt.Errorf("create payment.settled event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPaymentSettled, event); err != nil {
		return fmt.Errorf("publish payment.settled event: %w", err)
	}

	p.logger.DebugContext(ctx, "published payment.settled event",
		slog.Int64("payment_id", record.ID),
		slog.String("status", record.Status),
	)

	return nil
}

// PublishCheckoutCompleted publishes a checkout.completed event.
func (p *Producer) PublishCheckoutCompleted(ctx context.Context, laneID string, record *domain.PaymentRecord, itemCount int) error {
	data := CheckoutCompletedData{
		PaymentID: record.ID,
		LaneID:    laneID,
		Amount:    record.Amount.String(),
		ItemCount: itemCount,
	}

	event, err := pkgkafka.NewEvent(TopicCheckoutCompleted, paymentAggregateID(record), AggregateTypePayment, SourceCheckoutEngine, data)
	if err != nil {
		return fmt.Errorf("create checkout.completed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCheckoutCompleted, event); err != nil {
		return fmt.Errorf("publish checkout.completed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published checkout.completed event",
		slog.Int64("payment_id", record.ID),
		slog.String("lane_id", laneID),
	)

	return nil
}

// PublishCheckoutFailed publishes a checkout.failed event.
func (p *Producer) PublishCheckoutFailed(ctx context.Context, laneID string, amount string, outcome domain.GatewayOutcome) error {
	data := CheckoutFailedData{
		LaneID:    laneID,
		Amount:    amount,
		Outcome:   string(outcome.Kind),
		Reason:    outcome.Reason,
		Retryable: outcome.Retryable(),
	}

	event, err := pkgkafka.NewEvent(TopicCheckoutFailed, laneID, AggregateTypePayment, SourceCheckoutEngine, data)
	if err != nil {
		return fmt.Errorf("create checkout.failed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCheckoutFailed, event); err != nil {
		return fmt.Errorf("publish checkout.failed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published checkout.failed event",
		slog.String("lane_id", laneID),
		slog.String("outcome", string(outcome.Kind)),
	)

	return nil
}

func paymentAggregateID(record *domain.PaymentRecord) string {
	return fmt.Sprintf("payment-%d", record.ID)
}
