package schema

import (
	"time"
)

// Balance represents the balances table - tracks per-holder unit balances for each asset
type Balance struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// AssetID references the asset being held
	AssetID int64 `gorm:"column:asset_id;not null;uniqueIndex:idx_balances_asset_holder,priority:1"`
	// HolderAddress is the account identifier of the holder
	HolderAddress string `gorm:"column:holder_address;not null;type:text;uniqueIndex:idx_balances_asset_holder,priority:2"`
	// Quantity is the units held in the smallest denomination (string to support up to 78 digits)
	Quantity string `gorm:"column:quantity;not null;type:numeric(78,0)"`
	// CreatedAt is the timestamp when this balance was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this balance was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Asset Asset `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Balance model
func (Balance) TableName() string {
	return "balances"
}
