package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSettings(t *testing.T) {
	tests := []struct {
		name         string
		acceptOrders bool
		contact      ContactChannel
		expectedErr  error
	}{
		{
			name:         "Open without contact",
			acceptOrders: true,
		},
		{
			name:         "Closed with telegram",
			acceptOrders: false,
			contact:      ContactChannel{Telegram: "@storefront"},
		},
		{
			name:         "Closed without contact",
			acceptOrders: false,
			contact:      ContactChannel{Phone: "  "},
			expectedErr:  ErrNoContactChannel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSettings(tt.acceptOrders, tt.contact)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, s)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.acceptOrders, s.AcceptOrders)
			assert.Equal(t, tt.contact, s.Contact)
			assert.False(t, s.UpdatedAt.IsZero())
		})
	}
}

func TestDefault(t *testing.T) {
	assert.True(t, Default().AcceptOrders)
	assert.True(t, Default().Contact.IsEmpty())
}
