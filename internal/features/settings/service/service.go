package service

import (
	"context"
	"fmt"

	"storefront/internal/features/settings/domain"
	"storefront/internal/features/settings/ports"
)

// SettingsServiceImpl implements ports.SettingsService.
type SettingsServiceImpl struct {
	repo ports.SettingsRepository
}

// NewSettingsService creates a new SettingsServiceImpl.
func NewSettingsService(repo ports.SettingsRepository) *SettingsServiceImpl {
	return &SettingsServiceImpl{
		repo: repo,
	}
}

// Get returns the saved settings or the defaults.
func (s *SettingsServiceImpl) Get(ctx context.Context) (domain.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("service: failed to get settings: %w", err)
	}
	if settings == nil {
		return domain.Default(), nil
	}
	return *settings, nil
}

// Update validates and stores new settings.
func (s *SettingsServiceImpl) Update(ctx context.Context, acceptOrders bool, contact domain.ContactChannel) (*domain.Settings, error) {
	settings, err := domain.NewSettings(acceptOrders, contact)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("service: failed to save settings: %w", err)
	}
	return settings, nil
}

// AcceptingOrders reports the current acceptOrders flag.
func (s *SettingsServiceImpl) AcceptingOrders(ctx context.Context) (bool, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return settings.AcceptOrders, nil
}
