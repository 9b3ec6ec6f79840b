package service

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/core/logger"
	"storefront/internal/features/cart/domain"
	"storefront/internal/features/cart/ports"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Snapshot is a read-only view of the cart at one instant.
type Snapshot struct {
	Items     []domain.CartItem `json:"items"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	ItemCount int               `json:"itemCount"`
}

// CartService owns one client's cart and saves it after every mutation.
// Mutations take effect in memory even when saving fails; the error is still returned.
type CartService struct {
	mu      sync.Mutex
	cart    *domain.Cart
	store   ports.CartStore
	ownerID string
}

// NewCartService creates an empty cart for ownerID. Call Load to restore a saved one.
func NewCartService(store ports.CartStore, ownerID string) *CartService {
	return &CartService{
		cart:    domain.New(),
		store:   store,
		ownerID: ownerID,
	}
}

// Load replaces the in-memory cart with the saved snapshot, if any.
func (s *CartService) Load(ctx context.Context) error {
	items, err := s.store.Load(ctx, s.ownerID)
	if err != nil {
		return fmt.Errorf("service: failed to restore cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = domain.Restore(items)
	return nil
}

// Add puts quantity units of p in the cart.
func (s *CartService) Add(ctx context.Context, p domain.Product, quantity int) error {
	return s.mutate(ctx, func(c *domain.Cart) error { return c.Add(p, quantity) })
}

// AddOne adds a single unit of p.
func (s *CartService) AddOne(ctx context.Context, p domain.Product) error {
	return s.Add(ctx, p, 1)
}

// Remove drops a product's line.
func (s *CartService) Remove(ctx context.Context, productID string) error {
	return s.mutate(ctx, func(c *domain.Cart) error {
		c.Remove(productID)
		return nil
	})
}

// SetQuantity changes a line's quantity; n <= 0 removes it.
func (s *CartService) SetQuantity(ctx context.Context, productID string, n int) error {
	return s.mutate(ctx, func(c *domain.Cart) error {
		c.SetQuantity(productID, n)
		return nil
	})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) error {
	return s.mutate(ctx, func(c *domain.Cart) error {
		c.Clear()
		return nil
	})
}

// Snapshot returns the current lines and totals.
func (s *CartService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Items:     s.cart.Items(),
		Subtotal:  s.cart.Subtotal(),
		ItemCount: s.cart.ItemCount(),
	}
}

func (s *CartService) mutate(ctx context.Context, fn func(*domain.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.cart); err != nil {
		return err
	}

	if err := s.store.Save(ctx, s.ownerID, s.cart.Items()); err != nil {
		logger.Named("cart").Warn("Failed to persist cart", zap.String("owner", s.ownerID), zap.Error(err))
		return fmt.Errorf("service: failed to persist cart: %w", err)
	}
	return nil
}
