package adapters

import (
	"context"

	"storefront/internal/core/logger"
	settings "storefront/internal/features/settings/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RESTSettingsProvider reads GET /settings. When the backend cannot be read it
// returns the defaults so a checkout can still reach the fallback path.
type RESTSettingsProvider struct {
	client *resty.Client
}

// NewRESTSettingsProvider creates a provider on client.
func NewRESTSettingsProvider(client *resty.Client) *RESTSettingsProvider {
	return &RESTSettingsProvider{client: client}
}

// Settings fetches the current store settings.
func (p *RESTSettingsProvider) Settings(ctx context.Context) (settings.Settings, error) {
	var s settings.Settings
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&s).
		Get("/settings")
	if err != nil {
		if ctx.Err() != nil {
			return settings.Settings{}, ctx.Err()
		}
		logger.Named("checkout").Warn("Settings unavailable, using defaults", zap.Error(err))
		return settings.Default(), nil
	}
	if !resp.IsSuccess() {
		logger.Named("checkout").Warn("Settings unavailable, using defaults", zap.Int("status_code", resp.StatusCode()))
		return settings.Default(), nil
	}
	return s, nil
}
