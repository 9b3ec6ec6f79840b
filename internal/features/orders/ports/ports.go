package ports

import (
	"context"
	"io"
	"time"

	"storefront/internal/core/auth"
	"storefront/internal/features/orders/domain"
)

// OrderService defines the primary port for order operations.
type OrderService interface {
	// Create persists a new order for the caller. replayed is true when the idempotency key was already used.
	Create(ctx context.Context, caller auth.Principal, in domain.NewOrderInput) (order *domain.Order, replayed bool, err error)
	ListMine(ctx context.Context, caller auth.Principal) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, caller auth.Principal, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, target domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, w io.Writer) error
}

// OrderRepository defines the secondary port for order storage.
// Lookups of unknown ids return domain.ErrOrderNotFound.
type OrderRepository interface {
	// Create stores the order and returns it with its assigned id.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// ListAll returns every order, newest first.
	ListAll(ctx context.Context) ([]domain.Order, error)
	// ListCreatedSince returns orders with CreatedAt >= from.
	ListCreatedSince(ctx context.Context, from time.Time) ([]domain.Order, error)
	// UpdateStatus writes to only if the stored status still equals from.
	// It returns domain.ErrStatusConflict when the stored status differs.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// IdempotencyStore remembers which order a client submission key produced.
type IdempotencyStore interface {
	// Reserve claims key for userID. When the key was already claimed it returns reserved=false
	// and the order id it resolved to, or an empty id while the first request is still running.
	Reserve(ctx context.Context, userID, key string) (orderID string, reserved bool, err error)
	// Complete binds a reserved key to the created order.
	Complete(ctx context.Context, userID, key, orderID string) error
	// Release frees a reservation whose order was never created.
	Release(ctx context.Context, userID, key string) error
}

// EventPublisher emits order events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
	Close() error
}

// OrderExporter renders orders into a downloadable document.
type OrderExporter interface {
	Export(w io.Writer, orders []domain.Order) error
}

// AcceptanceChecker reports whether the store currently takes orders.
type AcceptanceChecker interface {
	AcceptingOrders(ctx context.Context) (bool, error)
}
