package schema

import (
	"time"
)

// Treasury represents the treasury table - a single-row snapshot of registry-held funds
type Treasury struct {
	// ID is the internal database primary key, fixed to 1
	ID int64 `gorm:"column:id;primaryKey"`
	// Balance is the native currency currently held by the registry
	Balance string `gorm:"column:balance;not null;type:numeric(78,0)"`
	// Fees is the cumulative fee revenue, creation fees plus retained purchase overpayments
	Fees string `gorm:"column:fees;not null;type:numeric(78,0)"`
	// Withdrawn is the cumulative amount the owner has withdrawn
	Withdrawn string `gorm:"column:withdrawn;not null;type:numeric(78,0)"`
	// SettledPaid is the cumulative proceeds paid out through settlements
	SettledPaid string `gorm:"column:settled_paid;not null;type:numeric(78,0)"`
	// UpdatedAt is the timestamp when this snapshot was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Treasury model
func (Treasury) TableName() string {
	return "treasury"
}
