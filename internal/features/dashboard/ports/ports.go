package ports

import (
	"context"

	"storefront/internal/features/stats/domain"
)

// StatsFetcher reads dashboard figures from the backend.
type StatsFetcher interface {
	FetchStats(ctx context.Context, token string, window domain.Window) (domain.Stats, error)
}
