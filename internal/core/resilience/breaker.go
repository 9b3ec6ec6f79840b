package resilience

import (
	"errors"
	"time"

	"storefront/internal/core/logger"
	"storefront/internal/core/metrics"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when the breaker rejects a call without attempting it.
var ErrUnavailable = errors.New("circuit open: service unavailable")

// Settings tunes a Breaker. Zero values fall back to the defaults used by NewBreaker.
type Settings struct {
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32
	// Interval is the rolling window over which failures are counted while closed.
	Interval time.Duration
	// OpenTimeout is how long the breaker stays open before going half-open.
	OpenTimeout time.Duration
	// MinRequests is the sample size required before the failure ratio can trip the breaker.
	MinRequests uint32
	// FailureRatio trips the breaker once reached.
	FailureRatio float64
}

// Breaker wraps gobreaker and mirrors its state into Prometheus.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker
	name string
}

// NewBreaker creates a breaker named name.
func NewBreaker(name string, s Settings) *Breaker {
	if s.MaxRequests == 0 {
		s.MaxRequests = 3
	}
	if s.Interval == 0 {
		s.Interval = 15 * time.Second
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if s.MinRequests == 0 {
		s.MinRequests = 3
	}
	if s.FailureRatio == 0 {
		s.FailureRatio = 0.6
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= s.MinRequests && ratio >= s.FailureRatio
		},
		OnStateChange: func(cbName string, from gobreaker.State, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(cbName).Set(stateValue(to))
			logger.Named("resilience").Info("Circuit breaker state changed",
				zap.String("circuit", cbName),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return &Breaker{cb: cb, name: name}
}

// Execute runs fn through the breaker. A non-nil error from fn counts as a failure.
// Rejections by an open or saturated breaker are reported as ErrUnavailable.
func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	res, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	return res, err
}

// State returns the breaker state as text (closed, open, half-open).
func (b *Breaker) State() string {
	return b.cb.State().String()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
