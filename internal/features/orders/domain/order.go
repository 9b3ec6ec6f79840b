package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FallbackIDPrefix marks ids synthesized by the client when the order endpoint was unreachable.
// Such ids never exist server-side.
const FallbackIDPrefix = "local-"

var (
	// ErrInvalidOrder wraps every reason an order payload is rejected.
	ErrInvalidOrder = errors.New("invalid order data")
	// ErrOrderNotFound is returned when no order has the requested id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrFallbackOrderID is returned when a client-synthesized id reaches an id-taking operation.
	ErrFallbackOrderID = errors.New("fallback order ids are not known to the server")
	// ErrOrdersClosed is returned while the store is not accepting orders.
	ErrOrdersClosed = errors.New("the store is not accepting orders")
	// ErrSubmissionInProgress is returned when the same idempotency key is still being processed.
	ErrSubmissionInProgress = errors.New("an order with this idempotency key is being processed")
	// ErrForbidden is returned when the caller may not read or change the order.
	ErrForbidden = errors.New("order belongs to another user")
)

// IsFallbackID reports whether id was synthesized client-side.
func IsFallbackID(id string) bool {
	return strings.HasPrefix(id, FallbackIDPrefix)
}

// PaymentMethod is the payment label chosen at checkout. No gateway is involved.
type PaymentMethod string

const (
	PaymentTelebirr                 PaymentMethod = "telebirr"
	PaymentBankOfAbyssinia          PaymentMethod = "bank-of-abyssinia"
	PaymentCommercialBankOfEthiopia PaymentMethod = "commercial-bank-of-ethiopia"
)

// IsValid reports whether m is a supported payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentTelebirr, PaymentBankOfAbyssinia, PaymentCommercialBankOfEthiopia:
		return true
	}
	return false
}

// ShippingDetails is the delivery contact captured at checkout.
type ShippingDetails struct {
	FullName       string `json:"fullName" bson:"fullName"`
	Email          string `json:"email" bson:"email"`
	PhoneNumber    string `json:"phoneNumber" bson:"phoneNumber"`
	Address        string `json:"address" bson:"address"`
	City           string `json:"city" bson:"city"`
	State          string `json:"state" bson:"state"`
	AdditionalInfo string `json:"additionalInfo,omitempty" bson:"additionalInfo,omitempty"`
}

// MissingFields returns the JSON names of required fields that are blank, in form order.
func (s ShippingDetails) MissingFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"fullName", s.FullName},
		{"email", s.Email},
		{"phoneNumber", s.PhoneNumber},
		{"address", s.Address},
		{"city", s.City},
		{"state", s.State},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// OrderItem is a copied product snapshot. Later product edits never reach it.
type OrderItem struct {
	ProductRef  string          `json:"productRef"`
	ProductType string          `json:"productType,omitempty"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// LineTotal is UnitPrice × Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumItems returns the order total implied by items.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Order is the durable record of a checkout. Items and TotalAmount never change after creation.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"items"`
	ShippingDetails ShippingDetails `json:"shippingDetails"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	IdempotencyKey  string          `json:"-"`
}

// NewOrderInput is the payload a customer submits.
type NewOrderInput struct {
	UserID          string
	Items           []OrderItem
	ShippingDetails ShippingDetails
	PaymentMethod   PaymentMethod
	TotalAmount     decimal.Decimal
	IdempotencyKey  string
}

// NewOrder validates the payload and returns a pending order without an id.
// The submitted total must equal the sum recomputed from the items.
func NewOrder(in NewOrderInput, now time.Time) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrInvalidOrder)
	}

	seen := make(map[string]bool, len(in.Items))
	items := make([]OrderItem, len(in.Items))
	for i, item := range in.Items {
		switch {
		case strings.TrimSpace(item.ProductRef) == "":
			return nil, fmt.Errorf("%w: item %d has no product reference", ErrInvalidOrder, i)
		case item.Quantity < 1:
			return nil, fmt.Errorf("%w: item %d quantity must be at least 1", ErrInvalidOrder, i)
		case item.UnitPrice.IsNegative():
			return nil, fmt.Errorf("%w: item %d has a negative price", ErrInvalidOrder, i)
		case seen[item.ProductRef]:
			return nil, fmt.Errorf("%w: product %s appears twice", ErrInvalidOrder, item.ProductRef)
		}
		seen[item.ProductRef] = true
		items[i] = item
	}

	if missing := in.ShippingDetails.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing shipping fields: %s", ErrInvalidOrder, strings.Join(missing, ", "))
	}

	if !in.PaymentMethod.IsValid() {
		return nil, fmt.Errorf("%w: unsupported payment method %q", ErrInvalidOrder, in.PaymentMethod)
	}

	if sum := SumItems(items); !sum.Equal(in.TotalAmount) {
		return nil, fmt.Errorf("%w: total amount %s does not match items total %s", ErrInvalidOrder, in.TotalAmount, sum)
	}

	return &Order{
		UserID:          in.UserID,
		Items:           items,
		ShippingDetails: in.ShippingDetails,
		PaymentMethod:   in.PaymentMethod,
		TotalAmount:     in.TotalAmount,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
		IdempotencyKey:  in.IdempotencyKey,
	}, nil
}

// Transition moves the order to target. It reports false without error when target is already the status.
func (o *Order) Transition(target OrderStatus, now time.Time) (bool, error) {
	if !target.IsValid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}
	if o.Status == target {
		return false, nil
	}
	if !o.Status.CanTransitionTo(target) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}
	o.Status = target
	o.UpdatedAt = now
	return true, nil
}

// OwnedBy reports whether userID submitted the order.
func (o *Order) OwnedBy(userID string) bool {
	return o.UserID != "" && o.UserID == userID
}
