// Package cart implements the line item aggregation for one register session.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/catalog"
	"github.com/Lukaszwutkowski/QuickCashEasy/internal/domain"
	apperrors "github.com/Lukaszwutkowski/QuickCashEasy/pkg/errors"
)

// itemNotInCart builds the error returned when an operation requires the
// product to already be in the cart. Distinct from the catalog's NOT_FOUND:
// adding an unknown barcode and adjusting an absent line are different
// mistakes and surface different codes.
func itemNotInCart(barcode string) *apperrors.AppError {
	return &apperrors.AppError{
		Code:    "ITEM_NOT_IN_CART",
		Message: fmt.Sprintf("product %s is not in the cart", barcode),
		Status:  http.StatusNotFound,
		Err:     apperrors.ErrNotFound,
	}
}

// Store persists cart snapshots per lane so an in-progress sale survives a
// register restart.
type Store interface {
	Save(ctx context.Context, laneID string, cart *domain.Cart) error
	Load(ctx context.Context, laneID string) (*domain.Cart, error)
	Delete(ctx context.Context, laneID string) error
}

// Service is the cart aggregator for a single register lane. It owns the
// cart exclusively for the lifetime of the session. The registry hands the
// same Service to every request for the lane, so all cart access goes
// through a mutex; a double-scanned barcode arriving on two connections
// mutates the cart one at a time.
type Service struct {
	laneID  string
	mu      sync.Mutex
	cart    *domain.Cart
	catalog catalog.Catalog
	store   Store
	logger  *slog.Logger
}

// NewService creates a cart service for the given lane with an empty cart.
// store may be nil, in which case snapshots are not persisted.
func NewService(laneID string, cat catalog.Catalog, store Store, logger *slog.Logger) *Service {
	return &Service{
		laneID:  laneID,
		cart:    domain.NewCart(),
		catalog: cat,
		store:   store,
		logger:  logger,
	}
}

// Restore replaces the cart contents with a previously saved snapshot.
func (s *Service) Restore(cart *domain.Cart) {
	if cart == nil {
		cart = domain.NewCart()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart
}

// AddItem resolves the barcode through the catalog and adds the given
// quantity to the cart. If the product is already present the quantity is
// added to the existing line, not replaced.
func (s *Service) AddItem(ctx context.Context, barcode string, quantity int) (*domain.LineItem, error) {
	if quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}

	product, err := s.catalog.Lookup(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("lookup product %s: %w", barcode, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.cart.FindItemIndex(barcode)
	if idx >= 0 {
		s.cart.Items[idx].Quantity += quantity
	} else {
		s.cart.Items = append(s.cart.Items, domain.LineItem{
			Barcode:   product.Barcode,
			Name:      product.Name,
			Quantity:  quantity,
			UnitPrice: product.UnitPrice,
		})
		idx = len(s.cart.Items) - 1
	}

	s.persist(ctx)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("lane_id", s.laneID),
		slog.String("barcode", barcode),
		slog.Int("quantity", s.cart.Items[idx].Quantity),
	)

	item := s.cart.Items[idx]
	return &item, nil
}

// RemoveItem removes the line with the given barcode. Removing an absent
// barcode is a no-op, not an error.
func (s *Service) RemoveItem(ctx context.Context, barcode string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.cart.FindItemIndex(barcode)
	if idx < 0 {
		return
	}

	s.cart.Items = append(s.cart.Items[:idx], s.cart.Items[idx+1:]...)
	s.persist(ctx)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("lane_id", s.laneID),
		slog.String("barcode", barcode),
	)
}

// SetQuantity replaces the quantity of an existing line. Unlike AddItem it
// never creates a line: the product must already be in the cart.
func (s *Service) SetQuantity(ctx context.Context, barcode string, quantity int) error {
	if quantity < 1 {
		return apperrors.InvalidInput("quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.cart.FindItemIndex(barcode)
	if idx < 0 {
		return itemNotInCart(barcode)
	}

	s.cart.Items[idx].Quantity = quantity
	s.persist(ctx)

	s.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("lane_id", s.laneID),
		slog.String("barcode", barcode),
		slog.Int("quantity", quantity),
	)

	return nil
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = domain.NewCart()

	if s.store != nil {
		if err := s.store.Delete(ctx, s.laneID); err != nil {
			s.logger.ErrorContext(ctx, "failed to delete cart snapshot",
				slog.String("lane_id", s.laneID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("lane_id", s.laneID))
}

// Items returns a snapshot of the line items in insertion order.
func (s *Service) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.LineItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return items
}

// Total returns the exact decimal total of the cart.
func (s *Service) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// ItemCount returns the total number of units across all lines.
func (s *Service) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// IsEmpty reports whether the cart has no items.
func (s *Service) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.IsEmpty()
}

// persist saves the current cart snapshot; failures are logged, not returned,
// since the in-memory cart remains authoritative for the session.
func (s *Service) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, s.laneID, s.cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to save cart snapshot",
			slog.String("lane_id", s.laneID),
			slog.String("error", err.Error()),
		)
	}
}
