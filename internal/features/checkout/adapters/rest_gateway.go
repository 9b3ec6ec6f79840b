package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/core/auth"
	"storefront/internal/core/httpclient"
	"storefront/internal/core/resilience"
	"storefront/internal/features/checkout/domain"
	orders "storefront/internal/features/orders/domain"

	"github.com/go-resty/resty/v2"
)

// apiErrorBody covers both the handler and the auth middleware error bodies.
type apiErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	RayID   string `json:"ray_id"`
}

// RESTOrderGateway implements ports.OrderGateway over resty, guarded by a circuit breaker.
type RESTOrderGateway struct {
	client  *resty.Client
	breaker *resilience.Breaker
}

// NewRESTOrderGateway creates a gateway. Transport errors, 404 and 5xx answers count as breaker failures.
func NewRESTOrderGateway(client *resty.Client, breaker *resilience.Breaker) *RESTOrderGateway {
	return &RESTOrderGateway{client: client, breaker: breaker}
}

// PlaceOrder posts the order with the attempt's idempotency key.
func (g *RESTOrderGateway) PlaceOrder(ctx context.Context, token, idempotencyKey string, req domain.OrderRequest) (*orders.Order, error) {
	var order orders.Order
	resp, err := g.do(func() (*resty.Response, error) {
		return g.client.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetHeader(httpclient.IdempotencyHeader, idempotencyKey).
			SetBody(req).
			SetResult(&order).
			SetError(&apiErrorBody{}).
			Post("/orders")
	}, isUnavailable)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, MapResponseError(resp)
	}
	return &order, nil
}

// ListMyOrders fetches the caller's server-side orders.
func (g *RESTOrderGateway) ListMyOrders(ctx context.Context, token string) ([]orders.Order, error) {
	var list []orders.Order
	resp, err := g.do(func() (*resty.Response, error) {
		return g.client.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetResult(&list).
			SetError(&apiErrorBody{}).
			Get("/orders/user")
	}, isServerError)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, MapResponseError(resp)
	}
	return list, nil
}

// GetOrder fetches one server-side order. A 404 here means the order does not exist.
func (g *RESTOrderGateway) GetOrder(ctx context.Context, token, id string) (*orders.Order, error) {
	var order orders.Order
	resp, err := g.do(func() (*resty.Response, error) {
		return g.client.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetPathParam("id", id).
			SetResult(&order).
			SetError(&apiErrorBody{}).
			Get("/orders/{id}")
	}, isServerError)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, &domain.APIError{Kind: domain.ErrNotFound, Status: http.StatusNotFound, Message: errorMessage(resp)}
	}
	if !resp.IsSuccess() {
		return nil, MapResponseError(resp)
	}
	return &order, nil
}

// do runs call through the breaker. Transport errors and statuses matched by failed count
// as breaker failures; the response of any other status is handed back for mapping.
func (g *RESTOrderGateway) do(call func() (*resty.Response, error), failed func(status int) bool) (*resty.Response, error) {
	res, err := g.breaker.Execute(func() (interface{}, error) {
		resp, err := call()
		if err != nil {
			return nil, err
		}
		if failed(resp.StatusCode()) {
			return resp, fmt.Errorf("backend answered %d", resp.StatusCode())
		}
		return resp, nil
	})

	if resp, ok := res.(*resty.Response); ok && resp != nil {
		return resp, nil
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &domain.APIError{Kind: domain.ErrServiceUnavailable, Cause: err}
	}
	return nil, &domain.APIError{Kind: domain.ErrUnknown, Message: "empty response"}
}

// isUnavailable marks the statuses that make POST /orders fall back. A 404 there means the
// route itself is missing.
func isUnavailable(status int) bool {
	return status == http.StatusNotFound || isServerError(status)
}

// isServerError is the breaker failure test for reads, where 404 is an ordinary answer.
func isServerError(status int) bool {
	return status >= http.StatusInternalServerError
}

// MapResponseError converts a non-2xx response into the client error taxonomy.
func MapResponseError(resp *resty.Response) error {
	status := resp.StatusCode()
	msg := errorMessage(resp)

	switch {
	case status == http.StatusBadRequest:
		return &domain.APIError{Kind: domain.ErrInvalidOrderData, Status: status, Message: msg}
	case status == http.StatusUnauthorized:
		kind := domain.ErrAuthRequired
		if errorBody(resp).Code == auth.CodeAuthExpired {
			kind = domain.ErrAuthExpired
		}
		return &domain.APIError{Kind: kind, Status: status, Message: msg}
	case isUnavailable(status):
		return &domain.APIError{Kind: domain.ErrServiceUnavailable, Status: status, Message: msg}
	default:
		return &domain.APIError{Kind: domain.ErrUnknown, Status: status, Message: msg}
	}
}

func errorMessage(resp *resty.Response) string {
	if body := errorBody(resp); body.Message != "" {
		return body.Message
	}
	return http.StatusText(resp.StatusCode())
}

// errorBody returns the decoded error body, decoding the raw bytes when the
// request registered no error type.
func errorBody(resp *resty.Response) apiErrorBody {
	if body, ok := resp.Error().(*apiErrorBody); ok && body != nil {
		return *body
	}
	var body apiErrorBody
	_ = json.Unmarshal(resp.Body(), &body)
	return body
}
