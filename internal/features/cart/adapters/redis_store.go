package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/core/cache"
	"storefront/internal/features/cart/domain"
)

// RedisCartStore implements ports.CartStore with one JSON value per owner.
type RedisCartStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisCartStore creates a store whose snapshots expire after ttl of inactivity. Zero keeps them forever.
func NewRedisCartStore(c cache.Cache, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{cache: c, ttl: ttl}
}

func cartKey(ownerID string) string {
	return "cart:" + ownerID
}

// Load reads the owner's snapshot.
func (s *RedisCartStore) Load(ctx context.Context, ownerID string) ([]domain.CartItem, error) {
	data, err := s.cache.Get(ctx, cartKey(ownerID))
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return items, nil
}

// Save overwrites the owner's snapshot. An empty cart removes it.
func (s *RedisCartStore) Save(ctx context.Context, ownerID string, items []domain.CartItem) error {
	if len(items) == 0 {
		return s.Delete(ctx, ownerID)
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := s.cache.Set(ctx, cartKey(ownerID), data, s.ttl); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes the owner's snapshot.
func (s *RedisCartStore) Delete(ctx context.Context, ownerID string) error {
	if err := s.cache.Delete(ctx, cartKey(ownerID)); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
