package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    Address
		expectedErr error
	}{
		{
			name:     "lowercase address is checksummed",
			input:    "0x5aeda56215b167893e80b4fe645ba6d5bab767de",
			expected: Address("0x5AEDA56215b167893e80B4fE645BA6d5Bab767DE"),
		},
		{
			name:     "checksummed address is preserved",
			input:    "0x5AEDA56215b167893e80B4fE645BA6d5Bab767DE",
			expected: Address("0x5AEDA56215b167893e80B4fE645BA6d5Bab767DE"),
		},
		{
			name:        "zero address rejected",
			input:       "0x0000000000000000000000000000000000000000",
			expectedErr: ErrInvalidAddress,
		},
		{
			name:        "missing prefix rejected",
			input:       "5aeda56215b167893e80b4fe645ba6d5bab767de",
			expectedErr: ErrInvalidAddress,
		},
		{
			name:        "uppercase prefix rejected",
			input:       "0X5aeda56215b167893e80b4fe645ba6d5bab767de",
			expectedErr: ErrInvalidAddress,
		},
		{
			name:        "too short rejected",
			input:       "0x5aeda5",
			expectedErr: ErrInvalidAddress,
		},
		{
			name:        "empty rejected",
			input:       "",
			expectedErr: ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := NewAddress(tt.input)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, addr)
			assert.True(t, addr.Valid())
		})
	}
}

func TestRegistryEvent_Valid(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(e *RegistryEvent)
		expected bool
	}{
		{
			name: "valid created event",
			mutate: func(e *RegistryEvent) {
				e.EventType = EventTypeCreated
				e.AssetID = "01JF0A9Z8G"
				e.Creator = "0x5AEDA56215b167893e80B4fE645BA6d5Bab767DE"
			},
			expected: true,
		},
		{
			name: "created event without creator",
			mutate: func(e *RegistryEvent) {
				e.EventType = EventTypeCreated
				e.AssetID = "01JF0A9Z8G"
			},
			expected: false,
		},
		{
			name: "purchased event requires quantity",
			mutate: func(e *RegistryEvent) {
				e.EventType = EventTypePurchased
				e.AssetID = "01JF0A9Z8G"
				e.Buyer = "0x5AEDA56215b167893e80B4fE645BA6d5Bab767DE"
			},
			expected: false,
		},
		{
			name: "valid withdrawn event",
			mutate: func(e *RegistryEvent) {
				e.EventType = EventTypeWithdrawn
				e.Recipient = "0x5AEDA56215b167893e80B4fE645BA6d5Bab767DE"
				e.Amount = "1000000000000000000"
			},
			expected: true,
		},
		{
			name: "unknown event type",
			mutate: func(e *RegistryEvent) {
				e.EventType = EventType("unknown")
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewRegistryEvent(EventTypeCreated)
			tt.mutate(event)
			assert.Equal(t, tt.expected, event.Valid())
		})
	}
}
