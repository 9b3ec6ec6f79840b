package adapters

import (
	"context"
	"errors"

	checkoutadapters "storefront/internal/features/checkout/adapters"
	checkout "storefront/internal/features/checkout/domain"
	"storefront/internal/features/stats/domain"

	"github.com/go-resty/resty/v2"
)

// RESTStatsFetcher implements ports.StatsFetcher against GET /admin/orders/stats.
type RESTStatsFetcher struct {
	client *resty.Client
}

// NewRESTStatsFetcher creates a fetcher sharing the client's base URL and timeout.
func NewRESTStatsFetcher(client *resty.Client) *RESTStatsFetcher {
	return &RESTStatsFetcher{client: client}
}

// FetchStats requests the figures for window.
func (f *RESTStatsFetcher) FetchStats(ctx context.Context, token string, window domain.Window) (domain.Stats, error) {
	var stats domain.Stats
	resp, err := f.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("timeRange", string(window)).
		SetResult(&stats).
		Get("/admin/orders/stats")
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return domain.Stats{}, err
		}
		return domain.Stats{}, &checkout.APIError{Kind: checkout.ErrServiceUnavailable, Cause: err}
	}
	if !resp.IsSuccess() {
		return domain.Stats{}, checkoutadapters.MapResponseError(resp)
	}
	return stats, nil
}
