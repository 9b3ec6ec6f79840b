package domain

import (
	"errors"
	"fmt"
	"strings"

	settings "storefront/internal/features/settings/domain"
)

// Validation failures. They are detected before any network call.
var (
	ErrOrdersDisabled       = errors.New("the store is not accepting orders")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingField         = errors.New("required field is missing")
	ErrNoPaymentMethod      = errors.New("no payment method selected")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
)

// Kinds of API failure reported by the order gateway.
var (
	ErrAuthRequired       = errors.New("authentication required")
	ErrAuthExpired        = errors.New("session expired")
	ErrInvalidOrderData   = errors.New("invalid order data")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrNotFound           = errors.New("not found")
	ErrUnknown            = errors.New("unexpected API error")
)

// CheckoutPath is where the caller returns after signing in again.
const CheckoutPath = "/checkout"

// OrdersDisabledError carries the contact channel shown instead of the form.
type OrdersDisabledError struct {
	Contact settings.ContactChannel
}

func (e *OrdersDisabledError) Error() string { return ErrOrdersDisabled.Error() }

// Unwrap lets errors.Is match ErrOrdersDisabled.
func (e *OrdersDisabledError) Unwrap() error { return ErrOrdersDisabled }

// MissingFieldError names one blank required shipping field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string { return fmt.Sprintf("%s is required", e.Field) }

// Unwrap lets errors.Is match ErrMissingField.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// ValidationErrors aggregates every field and payment problem of a checkout form.
type ValidationErrors []error

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, err := range v {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error { return v }

// Fields returns the names of the missing fields, in form order.
func (v ValidationErrors) Fields() []string {
	var fields []string
	for _, err := range v {
		var mf *MissingFieldError
		if errors.As(err, &mf) {
			fields = append(fields, mf.Field)
		}
	}
	return fields
}

// APIError is a non-success answer from the REST backend, or a failure to reach it.
// Kind is one of the Err* kinds above and is matched with errors.Is.
type APIError struct {
	Kind    error
	Status  int
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns both the kind and the underlying cause.
func (e *APIError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// AuthError asks the caller to sign in and come back to ReturnTo.
type AuthError struct {
	Kind     error
	ReturnTo string
}

func (e *AuthError) Error() string { return e.Kind.Error() }

// Unwrap returns ErrAuthRequired or ErrAuthExpired.
func (e *AuthError) Unwrap() error { return e.Kind }
