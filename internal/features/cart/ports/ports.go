package ports

import (
	"context"

	"storefront/internal/features/cart/domain"
)

// CartStore persists cart snapshots so a cart survives restarts of the client.
type CartStore interface {
	// Load returns the saved lines, or nil when nothing was saved.
	Load(ctx context.Context, ownerID string) ([]domain.CartItem, error)
	Save(ctx context.Context, ownerID string, items []domain.CartItem) error
	Delete(ctx context.Context, ownerID string) error
}
