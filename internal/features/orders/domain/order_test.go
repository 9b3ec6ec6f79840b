package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validShipping() ShippingDetails {
	return ShippingDetails{
		FullName:    "Abebe Bikila",
		Email:       "abebe@example.com",
		PhoneNumber: "+251911000000",
		Address:     "Bole Road 12",
		City:        "Addis Ababa",
		State:       "Addis Ababa",
	}
}

func validInput() NewOrderInput {
	return NewOrderInput{
		UserID: "user-1",
		Items: []OrderItem{
			{ProductRef: "A", Name: "Coffee", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
			{ProductRef: "B", Name: "Mug", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		},
		ShippingDetails: validShipping(),
		PaymentMethod:   PaymentTelebirr,
		TotalAmount:     decimal.NewFromInt(250),
		IdempotencyKey:  "key-1",
	}
}

func TestNewOrder_Valid(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	order, err := NewOrder(validInput(), now)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, now, order.CreatedAt)
	assert.Equal(t, "key-1", order.IdempotencyKey)
	assert.Len(t, order.Items, 2)
}

func TestNewOrder_ItemsAreCopied(t *testing.T) {
	in := validInput()
	order, err := NewOrder(in, time.Now())
	require.NoError(t, err)

	in.Items[0].Name = "Renamed"
	assert.Equal(t, "Coffee", order.Items[0].Name)
}

func TestNewOrder_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewOrderInput)
		reason string
	}{
		{"NoItems", func(in *NewOrderInput) { in.Items = nil }, "no items"},
		{"ZeroQuantity", func(in *NewOrderInput) { in.Items[0].Quantity = 0 }, "quantity"},
		{"MissingRef", func(in *NewOrderInput) { in.Items[1].ProductRef = " " }, "product reference"},
		{"DuplicateProduct", func(in *NewOrderInput) { in.Items[1].ProductRef = "A" }, "appears twice"},
		{"MissingCity", func(in *NewOrderInput) { in.ShippingDetails.City = "" }, "city"},
		{"BadPayment", func(in *NewOrderInput) { in.PaymentMethod = "paypal" }, "payment method"},
		{"TotalMismatch", func(in *NewOrderInput) { in.TotalAmount = decimal.NewFromInt(249) }, "does not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			order, err := NewOrder(in, time.Now())
			assert.Nil(t, order)
			assert.ErrorIs(t, err, ErrInvalidOrder)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestOrder_Transition(t *testing.T) {
	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	order, err := NewOrder(validInput(), created)
	require.NoError(t, err)

	later := created.Add(time.Hour)
	changed, err := order.Transition(StatusProcessing, later)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, later, order.UpdatedAt)

	changed, err = order.Transition(StatusProcessing, later.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, later, order.UpdatedAt)

	_, err = order.Transition(StatusPending, later)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = order.Transition("lost", later)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = order.Transition(StatusCancelled, later)
	require.NoError(t, err)
	_, err = order.Transition(StatusDelivered, later)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(250)))
}

func TestShippingDetails_MissingFields(t *testing.T) {
	s := ShippingDetails{FullName: "A", Email: "  ", City: "X"}
	assert.Equal(t, []string{"email", "phoneNumber", "address", "state"}, s.MissingFields())
	assert.Empty(t, validShipping().MissingFields())
}

func TestIsFallbackID(t *testing.T) {
	assert.True(t, IsFallbackID("local-1700000000000-abcd1234"))
	assert.False(t, IsFallbackID("652f1c2e9b1e8a0012345678"))
}

func TestOrder_MarshalJSON(t *testing.T) {
	order, err := NewOrder(validInput(), time.Now())
	require.NoError(t, err)
	order.ID = "652f1c2e9b1e8a0012345678"

	data, err := json.Marshal(order)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"id":"652f1c2e9b1e8a0012345678"`)
	assert.Contains(t, s, `"status":"pending"`)
	assert.Contains(t, s, `"paymentMethod":"telebirr"`)
	assert.Contains(t, s, `"shippingDetails":{`)
	assert.NotContains(t, s, "key-1")
}

func TestOrderEvent_Key(t *testing.T) {
	order, err := NewOrder(validInput(), time.Now())
	require.NoError(t, err)
	order.ID = "abc"

	assert.Equal(t, "order.created.abc", CreatedEvent(order).Key())

	_, err = order.Transition(StatusShipped, time.Now())
	require.NoError(t, err)
	ev := StatusChangedEvent(order, StatusPending)
	assert.Equal(t, "order.status_changed.abc", ev.Key())
	assert.Equal(t, StatusPending, ev.PreviousStatus)
	assert.Equal(t, StatusShipped, ev.Status)
}
