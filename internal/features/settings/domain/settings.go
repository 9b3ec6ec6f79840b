package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNoContactChannel is returned when ordering is switched off without a way to reach the store.
	ErrNoContactChannel = errors.New("a contact channel is required while orders are not accepted")
)

// ContactChannel is shown to customers instead of the checkout form while orders are closed.
type ContactChannel struct {
	Phone    string `json:"phone,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Email    string `json:"email,omitempty"`
}

// IsEmpty reports whether no channel is set.
func (c ContactChannel) IsEmpty() bool {
	return strings.TrimSpace(c.Phone) == "" &&
		strings.TrimSpace(c.Telegram) == "" &&
		strings.TrimSpace(c.Email) == ""
}

// Settings is the store-wide configuration edited from the back office.
type Settings struct {
	AcceptOrders bool           `json:"acceptOrders"`
	Contact      ContactChannel `json:"contact"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Default is used until an admin saves settings.
func Default() Settings {
	return Settings{AcceptOrders: true}
}

// NewSettings validates and stamps a settings update.
func NewSettings(acceptOrders bool, contact ContactChannel) (*Settings, error) {
	if !acceptOrders && contact.IsEmpty() {
		return nil, ErrNoContactChannel
	}

	return &Settings{
		AcceptOrders: acceptOrders,
		Contact:      contact,
		UpdatedAt:    time.Now().UTC(),
	}, nil
}
