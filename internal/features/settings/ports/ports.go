package ports

import (
	"context"

	"storefront/internal/features/settings/domain"
)

// SettingsService defines the primary port for store settings.
type SettingsService interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, acceptOrders bool, contact domain.ContactChannel) (*domain.Settings, error)
	AcceptingOrders(ctx context.Context) (bool, error)
}

// SettingsRepository defines the secondary port for settings storage.
// Get returns nil, nil when nothing has been saved.
type SettingsRepository interface {
	Save(ctx context.Context, settings *domain.Settings) error
	Get(ctx context.Context) (*domain.Settings, error)
}
