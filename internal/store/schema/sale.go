package schema

import (
	"time"
)

// Sale represents the sales table - the primary-sale ledger entry for an asset
type Sale struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// AssetID references the asset being sold
	AssetID int64 `gorm:"column:asset_id;not null;uniqueIndex"`
	// CreatorAddress is the account that registered the asset and receives settlement
	CreatorAddress string `gorm:"column:creator_address;not null;type:text;index"`
	// Sold is the cumulative units sold in the smallest denomination (string to support up to 78 digits)
	Sold string `gorm:"column:sold;not null;type:numeric(78,0)"`
	// Raised is the cumulative native-currency proceeds committed to the sale
	Raised string `gorm:"column:raised;not null;type:numeric(78,0)"`
	// Open indicates whether the sale still accepts purchases
	Open bool `gorm:"column:open;not null;default:true"`
	// Settled indicates whether the closed sale has paid out to its creator
	Settled bool `gorm:"column:settled;not null;default:false"`
	// CreatedAt is the timestamp when the sale was registered
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Asset Asset `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}
