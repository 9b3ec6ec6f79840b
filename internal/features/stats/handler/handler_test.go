package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/features/stats/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStatsService is a mock implementation of ports.StatsService
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Compute(ctx context.Context, window domain.Window) (domain.Stats, error) {
	args := m.Called(ctx, window)
	return args.Get(0).(domain.Stats), args.Error(1)
}

func setupApp(service *MockStatsService) *fiber.App {
	app := fiber.New()
	app.Get("/admin/orders/stats", NewStatsHandler(service).GetStats)
	return app
}

func TestStatsHandler_GetStats(t *testing.T) {
	t.Run("DefaultsToWeek", func(t *testing.T) {
		svc := new(MockStatsService)
		app := setupApp(svc)
		svc.On("Compute", mock.Anything, domain.WindowWeek).Return(domain.Stats{
			Window:       domain.WindowWeek,
			TotalOrders:  3,
			TotalRevenue: decimal.NewFromInt(250),
		}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/orders/stats", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, float64(3), body["totalOrders"])
		assert.Equal(t, "250", body["totalRevenue"])
		assert.Equal(t, "week", body["timeRange"])
		svc.AssertExpectations(t)
	})

	t.Run("Year", func(t *testing.T) {
		svc := new(MockStatsService)
		app := setupApp(svc)
		svc.On("Compute", mock.Anything, domain.WindowYear).Return(domain.Stats{Window: domain.WindowYear}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/orders/stats?timeRange=year", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("UnknownRange", func(t *testing.T) {
		svc := new(MockStatsService)
		app := setupApp(svc)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/orders/stats?timeRange=decade", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "Compute", mock.Anything, mock.Anything)
	})

	t.Run("ServiceError", func(t *testing.T) {
		svc := new(MockStatsService)
		app := setupApp(svc)
		svc.On("Compute", mock.Anything, domain.WindowMonth).Return(domain.Stats{}, errors.New("db down")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/orders/stats?timeRange=month", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
