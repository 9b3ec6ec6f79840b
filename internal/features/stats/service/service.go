package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/features/stats/domain"
	"storefront/internal/features/stats/ports"
)

// StatsServiceImpl implements ports.StatsService by scanning the order collection per request.
type StatsServiceImpl struct {
	source ports.OrderSource
	now    func() time.Time
}

// NewStatsService creates a new StatsServiceImpl.
func NewStatsService(source ports.OrderSource) *StatsServiceImpl {
	return &StatsServiceImpl{
		source: source,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Compute returns the figures for window ending now.
func (s *StatsServiceImpl) Compute(ctx context.Context, window domain.Window) (domain.Stats, error) {
	now := s.now()

	list, err := s.source.ListCreatedSince(ctx, window.Start(now))
	if err != nil {
		return domain.Stats{}, fmt.Errorf("service: failed to load orders for stats: %w", err)
	}

	return domain.Aggregate(list, window, now), nil
}
