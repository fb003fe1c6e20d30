package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/catalog"
	apperrors "github.com/Lukaszwutkowski/QuickCashEasy/pkg/errors"
)

// Registry hands out the cart service for each register lane, creating it on
// first use. A lane that had a persisted snapshot from a previous run gets it
// restored before the service is returned.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Service

	catalog catalog.Catalog
	store   Store
	logger  *slog.Logger
}

func NewRegistry(cat catalog.Catalog, store Store, logger *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Service),
		catalog:  cat,
		store:    store,
		logger:   logger,
	}
}

// Session returns the cart service for the given lane, creating and restoring
// it if this is the first request the lane has made since startup.
func (r *Registry) Session(ctx context.Context, laneID string) *Service {
	r.mu.Lock()
	defer r.mu.Unlock()

	if svc, ok := r.sessions[laneID]; ok {
		return svc
	}

	svc := NewService(laneID, r.catalog, r.store, r.logger)
	if r.store != nil {
		snapshot, err := r.store.Load(ctx, laneID)
		switch {
		case err == nil:
			svc.Restore(snapshot)
			r.logger.InfoContext(ctx, "cart snapshot restored",
				slog.String("lane_id", laneID),
				slog.Int("items", snapshot.ItemCount()),
			)
		case !errors.Is(err, apperrors.ErrNotFound):
			r.logger.ErrorContext(ctx, "failed to load cart snapshot",
				slog.String("lane_id", laneID),
				slog.String("error", err.Error()),
			)
		}
	}

	r.sessions[laneID] = svc
	return svc
}
