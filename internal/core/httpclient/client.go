package httpclient

import (
	"net/http"
	"time"

	"storefront/internal/core/logger"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// IdempotencyHeader carries the client generated key of an order submission attempt.
const IdempotencyHeader = "Idempotency-Key"

// LoggingRoundTripper logs every outbound request with its outcome and latency.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details. Authorization headers are never logged.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := logger.Named("httpclient")

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	}
	if key := req.Header.Get(IdempotencyHeader); key != "" {
		fields = append(fields, zap.String("idempotency_key", key))
	}

	resp, err := lrt.Proxied.RoundTrip(req)
	fields = append(fields, zap.Duration("duration", time.Since(start)))

	if err != nil {
		log.Warn("HTTP request failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	log.Debug("HTTP request completed", append(fields, zap.Int("status_code", resp.StatusCode))...)
	return resp, nil
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: http.DefaultTransport,
		},
		Timeout: timeout,
	}
}

// NewRESTClient returns a JSON resty client bound to baseURL. Retries are left to the caller.
func NewRESTClient(baseURL string, timeout time.Duration) *resty.Client {
	return resty.NewWithClient(NewClient(timeout)).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
}
