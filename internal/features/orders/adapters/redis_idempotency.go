package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/core/cache"
)

const reservedMarker = "pending"

// RedisIdempotencyStore implements ports.IdempotencyStore with SETNX reservations.
type RedisIdempotencyStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisIdempotencyStore creates a store whose keys expire after ttl.
func NewRedisIdempotencyStore(c cache.Cache, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{cache: c, ttl: ttl}
}

func idempotencyKey(userID, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", userID, key)
}

// Reserve claims the key, or reports the order id a previous request bound to it.
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, userID, key string) (string, bool, error) {
	k := idempotencyKey(userID, key)

	ok, err := s.cache.SetNX(ctx, k, []byte(reservedMarker), s.ttl)
	if err != nil {
		return "", false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return "", true, nil
	}

	data, err := s.cache.Get(ctx, k)
	if errors.Is(err, cache.ErrNotFound) {
		// expired between SETNX and GET
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if string(data) == reservedMarker {
		return "", false, nil
	}
	return string(data), false, nil
}

// Complete binds the key to orderID for the remaining ttl.
func (s *RedisIdempotencyStore) Complete(ctx context.Context, userID, key, orderID string) error {
	if err := s.cache.Set(ctx, idempotencyKey(userID, key), []byte(orderID), s.ttl); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

// Release drops a reservation so the client may retry with the same key.
func (s *RedisIdempotencyStore) Release(ctx context.Context, userID, key string) error {
	if err := s.cache.Delete(ctx, idempotencyKey(userID, key)); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
