package ports

import (
	"context"

	cartservice "storefront/internal/features/cart/service"
	"storefront/internal/features/checkout/domain"
	orders "storefront/internal/features/orders/domain"
	settings "storefront/internal/features/settings/domain"
)

// OrderGateway is the REST backend as seen by the client.
// Failures are *domain.APIError values; unreachable backends use kind ErrServiceUnavailable.
type OrderGateway interface {
	PlaceOrder(ctx context.Context, token, idempotencyKey string, req domain.OrderRequest) (*orders.Order, error)
	ListMyOrders(ctx context.Context, token string) ([]orders.Order, error)
	GetOrder(ctx context.Context, token, id string) (*orders.Order, error)
}

// SettingsProvider supplies the store settings for one checkout session.
type SettingsProvider interface {
	Settings(ctx context.Context) (settings.Settings, error)
}

// TokenSource returns the caller's bearer token, or "" when signed out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// FallbackStore keeps orders synthesized while the backend was unreachable.
type FallbackStore interface {
	Save(ctx context.Context, ownerID string, order orders.Order) error
	List(ctx context.Context, ownerID string) ([]orders.Order, error)
	// Get returns orders.ErrOrderNotFound for unknown ids.
	Get(ctx context.Context, ownerID, id string) (*orders.Order, error)
}

// CartSource is the cart being checked out.
type CartSource interface {
	Snapshot() cartservice.Snapshot
	Clear(ctx context.Context) error
}
