package domain

import (
	"fmt"
	"time"
)

// EventType names a change in an order's life.
type EventType string

const (
	EventCreated       EventType = "created"
	EventStatusChanged EventType = "status_changed"
	EventDeleted       EventType = "deleted"
)

// OrderEvent is published after a change has been persisted.
type OrderEvent struct {
	Type           EventType   `json:"type"`
	OrderID        string      `json:"orderId"`
	UserID         string      `json:"userId"`
	Status         OrderStatus `json:"status,omitempty"`
	PreviousStatus OrderStatus `json:"previousStatus,omitempty"`
	TotalAmount    string      `json:"totalAmount,omitempty"`
	OccurredAt     time.Time   `json:"occurredAt"`
}

// Key is the partitioning key, e.g. "order.created.652f1c2e9b1e8a0012345678".
func (e OrderEvent) Key() string {
	return fmt.Sprintf("order.%s.%s", e.Type, e.OrderID)
}

// CreatedEvent describes a newly persisted order.
func CreatedEvent(o *Order) OrderEvent {
	return OrderEvent{
		Type:        EventCreated,
		OrderID:     o.ID,
		UserID:      o.UserID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount.String(),
		OccurredAt:  o.CreatedAt,
	}
}

// StatusChangedEvent describes an admin transition.
func StatusChangedEvent(o *Order, previous OrderStatus) OrderEvent {
	return OrderEvent{
		Type:           EventStatusChanged,
		OrderID:        o.ID,
		UserID:         o.UserID,
		Status:         o.Status,
		PreviousStatus: previous,
		OccurredAt:     o.UpdatedAt,
	}
}

// DeletedEvent describes a removed order.
func DeletedEvent(o *Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:           EventDeleted,
		OrderID:        o.ID,
		UserID:         o.UserID,
		PreviousStatus: o.Status,
		OccurredAt:     at,
	}
}
