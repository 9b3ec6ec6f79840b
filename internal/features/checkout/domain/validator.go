package domain

import (
	"fmt"

	orders "storefront/internal/features/orders/domain"
	settings "storefront/internal/features/settings/domain"
)

// Form is what the customer filled in on the checkout page.
type Form struct {
	Shipping      orders.ShippingDetails
	PaymentMethod orders.PaymentMethod
}

// Validate checks a checkout attempt against the session's store settings.
// A closed store wins over everything else; an empty cart wins over form errors.
// Field and payment errors are returned together as ValidationErrors.
func Validate(store settings.Settings, itemCount int, form Form) error {
	if !store.AcceptOrders {
		return &OrdersDisabledError{Contact: store.Contact}
	}
	if itemCount == 0 {
		return ErrEmptyCart
	}

	var errs ValidationErrors
	for _, field := range form.Shipping.MissingFields() {
		errs = append(errs, &MissingFieldError{Field: field})
	}

	switch {
	case form.PaymentMethod == "":
		errs = append(errs, ErrNoPaymentMethod)
	case !form.PaymentMethod.IsValid():
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, form.PaymentMethod))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
