package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/core/cache"
	"storefront/internal/features/settings/domain"
)

const settingsCacheKey = "store_settings"

// RedisSettingsRepository implements ports.SettingsRepository on the cache port.
type RedisSettingsRepository struct {
	cache cache.Cache
}

// NewRedisSettingsRepository creates a new RedisSettingsRepository.
func NewRedisSettingsRepository(c cache.Cache) *RedisSettingsRepository {
	return &RedisSettingsRepository{
		cache: c,
	}
}

// Save stores the settings without expiration.
func (r *RedisSettingsRepository) Save(ctx context.Context, settings *domain.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := r.cache.Set(ctx, settingsCacheKey, data, 0); err != nil {
		return fmt.Errorf("failed to save settings to cache: %w", err)
	}

	return nil
}

// Get retrieves the settings, or nil when none were saved.
func (r *RedisSettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	data, err := r.cache.Get(ctx, settingsCacheKey)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings from cache: %w", err)
	}

	var settings domain.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &settings, nil
}
