package ports

import (
	"context"
	"time"

	orders "storefront/internal/features/orders/domain"
	"storefront/internal/features/stats/domain"
)

// StatsService defines the primary port for dashboard statistics.
type StatsService interface {
	Compute(ctx context.Context, window domain.Window) (domain.Stats, error)
}

// OrderSource is the read side of the order collection.
type OrderSource interface {
	ListCreatedSince(ctx context.Context, from time.Time) ([]orders.Order, error)
}
