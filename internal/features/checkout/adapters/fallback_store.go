package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/core/cache"
	orders "storefront/internal/features/orders/domain"
)

// RedisFallbackStore implements ports.FallbackStore as one JSON list per owner, newest first.
type RedisFallbackStore struct {
	cache cache.Cache
}

// NewRedisFallbackStore creates a new RedisFallbackStore.
func NewRedisFallbackStore(c cache.Cache) *RedisFallbackStore {
	return &RedisFallbackStore{cache: c}
}

func fallbackKey(ownerID string) string {
	return "fallback_orders:" + ownerID
}

// Save prepends order to the owner's list.
func (s *RedisFallbackStore) Save(ctx context.Context, ownerID string, order orders.Order) error {
	list, err := s.List(ctx, ownerID)
	if err != nil {
		return err
	}
	list = append([]orders.Order{order}, list...)

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal fallback orders: %w", err)
	}
	if err := s.cache.Set(ctx, fallbackKey(ownerID), data, 0); err != nil {
		return fmt.Errorf("failed to save fallback order: %w", err)
	}
	return nil
}

// List returns the owner's fallback orders.
func (s *RedisFallbackStore) List(ctx context.Context, ownerID string) ([]orders.Order, error) {
	data, err := s.cache.Get(ctx, fallbackKey(ownerID))
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback orders: %w", err)
	}

	var list []orders.Order
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fallback orders: %w", err)
	}
	return list, nil
}

// Get finds one fallback order by id.
func (s *RedisFallbackStore) Get(ctx context.Context, ownerID, id string) (*orders.Order, error) {
	list, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, orders.ErrOrderNotFound
}
