package domain

import (
	"testing"
	"time"

	orders "storefront/internal/features/orders/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

func order(created time.Time, status orders.OrderStatus, total int64) orders.Order {
	return orders.Order{CreatedAt: created, Status: status, TotalAmount: decimal.NewFromInt(total)}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in   string
		want Window
	}{
		{"", WindowWeek},
		{"week", WindowWeek},
		{"MONTH", WindowMonth},
		{" year ", WindowYear},
	}
	for _, tt := range tests {
		got, err := ParseWindow(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseWindow("decade")
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestWindow_Start(t *testing.T) {
	assert.Equal(t, time.Date(2026, 3, 24, 12, 0, 0, 0, time.UTC), WindowWeek.Start(now))
	// AddDate normalises Feb 31 to Mar 3.
	assert.Equal(t, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC), WindowMonth.Start(now))
	assert.Equal(t, time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC), WindowYear.Start(now))
}

func TestAggregate_Empty(t *testing.T) {
	for _, w := range []Window{WindowWeek, WindowMonth, WindowYear} {
		t.Run(string(w), func(t *testing.T) {
			stats := Aggregate(nil, w, now)

			assert.Equal(t, w, stats.Window)
			assert.Zero(t, stats.TotalOrders)
			assert.True(t, stats.TotalRevenue.IsZero())
			assert.Zero(t, stats.PendingOrders)
			assert.Zero(t, stats.DeliveredOrders)
			assert.Equal(t, w.Start(now), stats.From)
			assert.Equal(t, now, stats.To)
		})
	}
}

func TestAggregate_Window(t *testing.T) {
	start := WindowWeek.Start(now)
	list := []orders.Order{
		order(start, orders.StatusPending, 100),                   // lower bound is inclusive
		order(now, orders.StatusDelivered, 250),                   // upper bound is inclusive
		order(now.Add(-48*time.Hour), orders.StatusCancelled, 40), // counted in totals only
		order(now.Add(-72*time.Hour), orders.StatusPending, 10),
		order(start.Add(-time.Nanosecond), orders.StatusPending, 999),
		order(now.Add(time.Second), orders.StatusDelivered, 999),
	}

	stats := Aggregate(list, WindowWeek, now)

	assert.Equal(t, 4, stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(400)), stats.TotalRevenue.String())
	assert.Equal(t, 2, stats.PendingOrders)
	assert.Equal(t, 1, stats.DeliveredOrders)
	assert.Equal(t, start, stats.From)
}

func TestAggregate_LargerWindowsIncludeOlderOrders(t *testing.T) {
	list := []orders.Order{
		order(now.AddDate(0, 0, -20), orders.StatusDelivered, 10),
		order(now.AddDate(0, -6, 0), orders.StatusShipped, 20),
	}

	assert.Equal(t, 0, Aggregate(list, WindowWeek, now).TotalOrders)
	assert.Equal(t, 1, Aggregate(list, WindowMonth, now).TotalOrders)
	assert.Equal(t, 2, Aggregate(list, WindowYear, now).TotalOrders)
}
