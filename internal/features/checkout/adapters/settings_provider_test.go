package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/core/httpclient"
	settings "storefront/internal/features/settings/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTSettingsProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("Fetches", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/settings", r.URL.Path)
			writeJSON(w, http.StatusOK, settings.Settings{
				AcceptOrders: false,
				Contact:      settings.ContactChannel{Email: "shop@example.com"},
			})
		}))
		defer srv.Close()

		s, err := NewRESTSettingsProvider(httpclient.NewRESTClient(srv.URL, time.Second)).Settings(ctx)
		require.NoError(t, err)
		assert.False(t, s.AcceptOrders)
		assert.Equal(t, "shop@example.com", s.Contact.Email)
	})

	t.Run("DefaultsOnServerError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		s, err := NewRESTSettingsProvider(httpclient.NewRESTClient(srv.URL, time.Second)).Settings(ctx)
		require.NoError(t, err)
		assert.True(t, s.AcceptOrders)
	})

	t.Run("DefaultsWhenUnreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		s, err := NewRESTSettingsProvider(httpclient.NewRESTClient(url, time.Second)).Settings(ctx)
		require.NoError(t, err)
		assert.Equal(t, settings.Default(), s)
	})
}
