package schema

import (
	"time"

	"gorm.io/datatypes"
)

// LedgerEntry represents the ledger_entries table - an append-only journal of committed registry operations
type LedgerEntry struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// EventID is the unique identifier of the originating event, used for idempotent replay
	EventID string `gorm:"column:event_id;not null;uniqueIndex;type:text"`
	// EventType is the kind of operation (created, purchased, settled, withdrawn)
	EventType string `gorm:"column:event_type;not null;type:text;index"`
	// AssetID is the registry-assigned asset identifier (empty for withdrawals)
	AssetID string `gorm:"column:asset_id;type:text;index"`
	// Payload is the full event document as published to observers
	Payload datatypes.JSON `gorm:"column:payload;not null;type:jsonb"`
	// CreatedAt is the timestamp when the entry was journaled
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
