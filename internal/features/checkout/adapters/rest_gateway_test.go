package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/core/httpclient"
	"storefront/internal/core/resilience"
	"storefront/internal/features/checkout/domain"
	orders "storefront/internal/features/orders/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, handler http.HandlerFunc) *RESTOrderGateway {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	breaker := resilience.NewBreaker("test-"+t.Name(), resilience.Settings{})
	return NewRESTOrderGateway(httpclient.NewRESTClient(srv.URL, 2*time.Second), breaker)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func sampleRequest() domain.OrderRequest {
	return domain.OrderRequest{
		Items:         []orders.OrderItem{{ProductRef: "A", Name: "Coffee", Quantity: 2, UnitPrice: decimal.NewFromInt(100)}},
		PaymentMethod: orders.PaymentTelebirr,
		TotalAmount:   decimal.NewFromInt(200),
	}
}

func TestRESTOrderGateway_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Created", func(t *testing.T) {
		g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/orders", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			assert.Equal(t, "key-1", r.Header.Get(httpclient.IdempotencyHeader))

			var req domain.OrderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.True(t, req.TotalAmount.Equal(decimal.NewFromInt(200)))

			writeJSON(w, http.StatusCreated, orders.Order{ID: "oid-1", Status: orders.StatusPending, TotalAmount: req.TotalAmount})
		})

		order, err := g.PlaceOrder(ctx, "tok", "key-1", sampleRequest())
		require.NoError(t, err)
		assert.Equal(t, "oid-1", order.ID)
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(200)))
	})

	cases := []struct {
		name   string
		status int
		body   interface{}
		kind   error
	}{
		{"BadRequest", http.StatusBadRequest, apiErrorBody{Message: "total mismatch"}, domain.ErrInvalidOrderData},
		{"AuthRequired", http.StatusUnauthorized, apiErrorBody{Message: "invalid token", Code: "auth_required"}, domain.ErrAuthRequired},
		{"AuthExpired", http.StatusUnauthorized, apiErrorBody{Message: "session expired", Code: "auth_expired"}, domain.ErrAuthExpired},
		{"NotFound", http.StatusNotFound, apiErrorBody{Message: "Cannot POST /orders"}, domain.ErrServiceUnavailable},
		{"ServerError", http.StatusServiceUnavailable, apiErrorBody{Message: "down"}, domain.ErrServiceUnavailable},
		{"Forbidden", http.StatusForbidden, apiErrorBody{Message: "the store is not accepting orders"}, domain.ErrUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})

			_, err := g.PlaceOrder(ctx, "tok", "key-1", sampleRequest())
			assert.ErrorIs(t, err, tc.kind)

			var apiErr *domain.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.NotEmpty(t, apiErr.Message)
		})
	}

	t.Run("Unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		g := NewRESTOrderGateway(httpclient.NewRESTClient(url, time.Second), resilience.NewBreaker("unreachable", resilience.Settings{}))
		_, err := g.PlaceOrder(ctx, "tok", "key-1", sampleRequest())
		assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	})

	t.Run("BreakerOpens", func(t *testing.T) {
		var calls int32
		g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeJSON(w, http.StatusInternalServerError, apiErrorBody{Message: "boom"})
		})

		for i := 0; i < 3; i++ {
			_, err := g.PlaceOrder(ctx, "tok", "key-1", sampleRequest())
			require.ErrorIs(t, err, domain.ErrServiceUnavailable)
		}

		_, err := g.PlaceOrder(ctx, "tok", "key-1", sampleRequest())
		assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
		assert.ErrorIs(t, err, resilience.ErrUnavailable)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("ClientErrorsDoNotOpenBreaker", func(t *testing.T) {
		var calls int32
		g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeJSON(w, http.StatusBadRequest, apiErrorBody{Message: "bad"})
		})

		for i := 0; i < 5; i++ {
			_, err := g.PlaceOrder(ctx, "tok", "key-1", sampleRequest())
			require.ErrorIs(t, err, domain.ErrInvalidOrderData)
		}
		assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
	})
}

func TestRESTOrderGateway_Reads(t *testing.T) {
	ctx := context.Background()
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orders/user":
			writeJSON(w, http.StatusOK, []orders.Order{{ID: "oid-1"}, {ID: "oid-2"}})
		case "/orders/oid-1":
			writeJSON(w, http.StatusOK, orders.Order{ID: "oid-1"})
		default:
			writeJSON(w, http.StatusNotFound, apiErrorBody{Message: "Order not found"})
		}
	})

	list, err := g.ListMyOrders(ctx, "tok")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	order, err := g.GetOrder(ctx, "tok", "oid-1")
	require.NoError(t, err)
	assert.Equal(t, "oid-1", order.ID)

	_, err = g.GetOrder(ctx, "tok", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRESTOrderGateway_MissingOrdersDoNotOpenBreaker(t *testing.T) {
	ctx := context.Background()
	var posts int32
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			atomic.AddInt32(&posts, 1)
			writeJSON(w, http.StatusCreated, orders.Order{ID: "oid-1", Status: orders.StatusPending})
			return
		}
		writeJSON(w, http.StatusNotFound, apiErrorBody{Message: "Order not found"})
	})

	for i := 0; i < 5; i++ {
		_, err := g.GetOrder(ctx, "tok", "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	}

	order, err := g.PlaceOrder(ctx, "tok", "key-1", sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "oid-1", order.ID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&posts))
}
