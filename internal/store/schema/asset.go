package schema

import (
	"time"
)

// Asset represents the assets table - one row per fungible asset minted by the registry
type Asset struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// AssetID is the registry-assigned ULID identifying the asset
	AssetID string `gorm:"column:asset_id;not null;uniqueIndex;type:text"`
	// Name is the asset's display name
	Name string `gorm:"column:name;not null;type:text"`
	// Symbol is the asset's short ticker symbol
	Symbol string `gorm:"column:symbol;not null;type:text"`
	// TotalSupply is the fixed supply minted at creation (string to support up to 78 digits)
	TotalSupply string `gorm:"column:total_supply;not null;type:numeric(78,0)"`
	// CreatedAt is the timestamp when the asset was minted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	Balances []Balance `gorm:"foreignKey:AssetID;references:ID;constraint:OnDelete:CASCADE"`
	Sale     *Sale     `gorm:"foreignKey:AssetID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Asset model
func (Asset) TableName() string {
	return "assets"
}
