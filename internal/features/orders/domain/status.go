package domain

import (
	"errors"
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	// StatusPending is the initial state of every order.
	StatusPending OrderStatus = "pending"
	// StatusProcessing means the order has been accepted and is being prepared.
	StatusProcessing OrderStatus = "processing"
	// StatusShipped means the order was handed to the carrier.
	StatusShipped OrderStatus = "shipped"
	// StatusDelivered is terminal.
	StatusDelivered OrderStatus = "delivered"
	// StatusCancelled is terminal and reachable from any non-terminal state.
	StatusCancelled OrderStatus = "cancelled"
)

var (
	// ErrInvalidStatus is returned for an unknown status value.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition is returned when the status graph does not allow the move.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrStatusConflict is returned when the stored status changed between read and write.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// forward position of each non-cancelled state.
var progression = map[OrderStatus]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

// ParseStatus maps user input to an OrderStatus, ignoring case and surrounding spaces.
func ParseStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// IsValid reports whether s is one of the known states.
func (s OrderStatus) IsValid() bool {
	_, forward := progression[s]
	return forward || s == StatusCancelled
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether an admin may move an order from s to target.
// Forward moves may skip intermediate states; cancellation is allowed from any non-terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if !s.IsValid() || !target.IsValid() || s.IsTerminal() {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	return progression[target] > progression[s]
}

// AllowedTransitions lists the statuses reachable from s, in lifecycle order.
func (s OrderStatus) AllowedTransitions() []OrderStatus {
	var out []OrderStatus
	for _, target := range []OrderStatus{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		if s.CanTransitionTo(target) {
			out = append(out, target)
		}
	}
	return out
}
