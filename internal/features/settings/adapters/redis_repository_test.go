package adapters

import (
	"context"
	"testing"

	"storefront/internal/core/cache"
	"storefront/internal/features/settings/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSettingsRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer c.Close()

	repo := NewRedisSettingsRepository(c)
	ctx := context.Background()

	t.Run("MissingReturnsNil", func(t *testing.T) {
		settings, err := repo.Get(ctx)
		assert.NoError(t, err)
		assert.Nil(t, settings)
	})

	t.Run("SaveAndGet", func(t *testing.T) {
		saved, err := domain.NewSettings(false, domain.ContactChannel{Telegram: "@storefront"})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, saved))

		got, err := repo.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.False(t, got.AcceptOrders)
		assert.Equal(t, "@storefront", got.Contact.Telegram)
		assert.Equal(t, 0, int(mr.TTL(settingsCacheKey)))
	})

	t.Run("CorruptValue", func(t *testing.T) {
		require.NoError(t, mr.Set(settingsCacheKey, "{not json"))

		_, err := repo.Get(ctx)
		assert.ErrorContains(t, err, "unmarshal")
	})
}
