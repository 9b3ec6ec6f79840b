package domain

import (
	"strconv"
	"strings"
	"time"

	cart "storefront/internal/features/cart/domain"
	orders "storefront/internal/features/orders/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRequest is the body sent to POST /orders.
type OrderRequest struct {
	Items           []orders.OrderItem     `json:"items"`
	ShippingDetails orders.ShippingDetails `json:"shippingDetails"`
	PaymentMethod   orders.PaymentMethod   `json:"paymentMethod"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
}

// NewOrderRequest copies the cart lines and prices the order from them.
func NewOrderRequest(items []cart.CartItem, form Form) OrderRequest {
	req := OrderRequest{
		Items:           make([]orders.OrderItem, len(items)),
		ShippingDetails: form.Shipping,
		PaymentMethod:   form.PaymentMethod,
		TotalAmount:     decimal.Zero,
	}
	for i, item := range items {
		req.Items[i] = orders.OrderItem{
			ProductRef:  item.ProductID,
			ProductType: item.ProductType,
			Name:        item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
		req.TotalAmount = req.TotalAmount.Add(item.LineTotal())
	}
	return req
}

// Receipt is the outcome of a successful submission: either an AuthoritativeOrder
// stored by the server or a FallbackOrder synthesized because the server could not be reached.
type Receipt interface {
	OrderID() string
	Placed() orders.Order
	isReceipt()
}

// AuthoritativeOrder was persisted by the server. Its id may be sent to id-taking endpoints.
type AuthoritativeOrder struct {
	Order orders.Order
}

func (r AuthoritativeOrder) OrderID() string      { return r.Order.ID }
func (r AuthoritativeOrder) Placed() orders.Order { return r.Order }
func (AuthoritativeOrder) isReceipt()             {}

// FallbackOrder exists only on this client. Cause is the failure that triggered it.
type FallbackOrder struct {
	Order orders.Order
	Cause error
}

func (r FallbackOrder) OrderID() string      { return r.Order.ID }
func (r FallbackOrder) Placed() orders.Order { return r.Order }
func (FallbackOrder) isReceipt()             {}

// NewFallbackID returns "local-<unix millis>-<8 hex>".
func NewFallbackID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return orders.FallbackIDPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}

// NewFallbackOrder builds the pending local order for req.
func NewFallbackOrder(req OrderRequest, userID string, now time.Time) orders.Order {
	items := make([]orders.OrderItem, len(req.Items))
	copy(items, req.Items)

	return orders.Order{
		ID:              NewFallbackID(now),
		UserID:          userID,
		Items:           items,
		ShippingDetails: req.ShippingDetails,
		PaymentMethod:   req.PaymentMethod,
		TotalAmount:     req.TotalAmount,
		Status:          orders.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
