package domain

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Address represents an EVM-style account identifier in EIP-55 checksum format
type Address string

const (
	// ZeroAddress is the all-zero account identifier, never a valid participant
	ZeroAddress Address = "0x0000000000000000000000000000000000000000"
)

// NewAddress validates and normalizes a hex account identifier. The input
// must carry the 0x prefix; IsHexAddress alone also accepts bare 40-hex
// strings, which we reject.
func NewAddress(s string) (Address, error) {
	if !strings.HasPrefix(s, "0x") || !common.IsHexAddress(s) {
		return "", ErrInvalidAddress
	}
	addr := Address(common.HexToAddress(s).Hex())
	if addr == ZeroAddress {
		return "", ErrInvalidAddress
	}
	return addr, nil
}

// Valid checks if the address is a well-formed, non-zero account identifier
func (a Address) Valid() bool {
	return strings.HasPrefix(string(a), "0x") && common.IsHexAddress(string(a)) && a != ZeroAddress
}

// String returns the address as a string
func (a Address) String() string {
	return string(a)
}

// EventType represents the type of registry event
type EventType string

const (
	// EventTypeCreated is emitted when a new asset and its sale are registered
	EventTypeCreated EventType = "created"
	// EventTypePurchased is emitted when a buyer acquires units from an open sale
	EventTypePurchased EventType = "purchased"
	// EventTypeSettled is emitted when a closed sale pays out to its creator
	EventTypeSettled EventType = "settled"
	// EventTypeWithdrawn is emitted when the owner extracts treasury revenue
	EventTypeWithdrawn EventType = "withdrawn"
)

// RegistryEvent represents a normalized registry notification
// This is the standard format published to NATS for listing observers
type RegistryEvent struct {
	ID        string    `json:"id"`                  // unique event identifier
	EventType EventType `json:"event_type"`          // created, purchased, settled, withdrawn
	AssetID   string    `json:"asset_id,omitempty"`  // asset identifier (empty for withdrawn)
	Name      string    `json:"name,omitempty"`      // asset display name (created only)
	Symbol    string    `json:"symbol,omitempty"`    // asset symbol (created only)
	Creator   string    `json:"creator,omitempty"`   // creator address (created only)
	Buyer     string    `json:"buyer,omitempty"`     // buyer address (purchased only)
	Quantity  string    `json:"quantity,omitempty"`  // units transferred, smallest denomination
	Amount    string    `json:"amount,omitempty"`    // native-currency amount moved
	Recipient string    `json:"recipient,omitempty"` // payout recipient (settled, withdrawn)
	Timestamp time.Time `json:"timestamp"`           // time the operation committed
}

// NewRegistryEvent creates a registry event with a fresh identifier
func NewRegistryEvent(eventType EventType) *RegistryEvent {
	return &RegistryEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

// Valid performs basic sanity checks on the event
func (e *RegistryEvent) Valid() bool {
	if e.ID == "" || e.Timestamp.IsZero() {
		return false
	}

	switch e.EventType {
	case EventTypeCreated:
		return e.AssetID != "" && e.Creator != ""
	case EventTypePurchased:
		return e.AssetID != "" && e.Buyer != "" && e.Quantity != ""
	case EventTypeSettled:
		return e.AssetID != "" && e.Recipient != ""
	case EventTypeWithdrawn:
		return e.Recipient != "" && e.Amount != ""
	default:
		return false
	}
}
