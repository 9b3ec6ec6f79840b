package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/core/logger"
	"storefront/internal/features/dashboard/ports"
	"storefront/internal/features/stats/domain"

	"go.uber.org/zap"
)

// ErrStaleResponse is returned when a newer selection was made while a fetch was in flight.
var ErrStaleResponse = errors.New("dashboard: response superseded by a newer selection")

// DashboardService keeps the figures for the most recently selected window.
type DashboardService struct {
	fetcher ports.StatsFetcher
	token   string

	mu      sync.Mutex
	seq     uint64
	current *domain.Stats
}

// NewDashboardService creates a dashboard reading through fetcher with the admin token.
func NewDashboardService(fetcher ports.StatsFetcher, token string) *DashboardService {
	return &DashboardService{fetcher: fetcher, token: token}
}

// Select fetches stats for window. Only the latest selection may update Current;
// an older response that arrives later is dropped with ErrStaleResponse.
func (s *DashboardService) Select(ctx context.Context, window domain.Window) (domain.Stats, error) {
	s.mu.Lock()
	s.seq++
	ticket := s.seq
	s.mu.Unlock()

	stats, err := s.fetcher.FetchStats(ctx, s.token, window)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket != s.seq {
		logger.Named("dashboard").Debug("Dropping stale stats response", zap.String("window", string(window)))
		return domain.Stats{}, ErrStaleResponse
	}
	if err != nil {
		return domain.Stats{}, fmt.Errorf("service: failed to fetch stats: %w", err)
	}

	s.current = &stats
	return stats, nil
}

// Current returns the last committed figures, if any.
func (s *DashboardService) Current() (domain.Stats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.Stats{}, false
	}
	return *s.current, true
}
