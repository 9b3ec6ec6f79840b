package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	orders "storefront/internal/features/orders/domain"

	"github.com/shopspring/decimal"
)

// Window is the look-back span of a statistics query.
type Window string

const (
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
)

// ErrInvalidWindow is returned for an unknown time range.
var ErrInvalidWindow = errors.New("invalid time range")

// ParseWindow maps the timeRange query value. Empty input selects the week.
func ParseWindow(s string) (Window, error) {
	switch w := Window(strings.ToLower(strings.TrimSpace(s))); w {
	case "":
		return WindowWeek, nil
	case WindowWeek, WindowMonth, WindowYear:
		return w, nil
	default:
		return "", fmt.Errorf("%w: %q (want week, month or year)", ErrInvalidWindow, s)
	}
}

// Start returns the inclusive lower bound of the window ending at now.
// Months and years are calendar spans, a week is seven days.
func (w Window) Start(now time.Time) time.Time {
	switch w {
	case WindowMonth:
		return now.AddDate(0, -1, 0)
	case WindowYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// Stats are the dashboard figures for one window.
type Stats struct {
	Window          Window          `json:"timeRange"`
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	TotalOrders     int             `json:"totalOrders"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue" swaggertype:"number"`
	PendingOrders   int             `json:"pendingOrders"`
	DeliveredOrders int             `json:"deliveredOrders"`
}

// Aggregate computes Stats over orders created in [window.Start(now), now].
// Orders outside the window are ignored, so callers may pass a superset.
func Aggregate(list []orders.Order, window Window, now time.Time) Stats {
	from := window.Start(now)
	stats := Stats{
		Window:       window,
		From:         from,
		To:           now,
		TotalRevenue: decimal.Zero,
	}

	for _, o := range list {
		if o.CreatedAt.Before(from) || o.CreatedAt.After(now) {
			continue
		}
		stats.TotalOrders++
		stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
		switch o.Status {
		case orders.StatusPending:
			stats.PendingOrders++
		case orders.StatusDelivered:
			stats.DeliveredOrders++
		}
	}
	return stats
}
