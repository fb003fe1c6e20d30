// Package redis provides Redis-backed cart snapshot persistence.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Lukaszwutkowski/QuickCashEasy/internal/domain"
	apperrors "github.com/Lukaszwutkowski/QuickCashEasy/pkg/errors"
)

const keyPrefix = "cart:lane:"

// SnapshotStore implements cart.Store using Redis. Snapshots expire after
// the configured TTL so abandoned lanes do not accumulate forever.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotStore creates a Redis-backed cart snapshot store.
func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		ttl:    ttl,
	}
}

// Load retrieves the saved cart for a lane.
func (s *SnapshotStore) Load(ctx context.Context, laneID string) (*domain.Cart, error) {
	key := keyPrefix + laneID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart snapshot", laneID)
		}
		return nil, fmt.Errorf("redis get cart snapshot: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart snapshot: %w", err)
	}

	return &cart, nil
}

// Save persists the cart for a lane with the configured TTL.
func (s *SnapshotStore) Save(ctx context.Context, laneID string, cart *domain.Cart) error {
	key := keyPrefix + laneID

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart snapshot: %w", err)
	}

	return nil
}

// Delete removes the saved cart for a lane.
func (s *SnapshotStore) Delete(ctx context.Context, laneID string) error {
	key := keyPrefix + laneID

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart snapshot: %w", err)
	}

	return nil
}
