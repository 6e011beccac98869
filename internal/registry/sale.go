package registry

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/fairlaunch/curve-registry/internal/asset"
	"github.com/fairlaunch/curve-registry/internal/domain"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// SaleRecord is a read-only snapshot of a sale's ledger entry
type SaleRecord struct {
	// AssetID is the identifier of the asset being sold
	AssetID string `json:"asset_id"`
	// Name is the asset's display name
	Name string `json:"name"`
	// Symbol is the asset's symbol
	Symbol string `json:"symbol"`
	// Creator is the identity that registered the asset and receives settlement
	Creator domain.Address `json:"creator"`
	// Sold is the cumulative units sold, in the smallest denomination
	Sold *uint256.Int `json:"sold"`
	// Raised is the cumulative native-currency proceeds committed to this sale
	Raised *uint256.Int `json:"raised"`
	// Open reports whether the sale still accepts purchases
	Open bool `json:"open"`
	// Settled reports whether the closed sale has paid out to its creator
	Settled bool `json:"settled"`
	// CreatedAt is the time the sale was registered
	CreatedAt time.Time `json:"created_at"`
}

// saleState is the mutable per-asset ledger entry, guarded by the registry mutex
type saleState struct {
	asset   *asset.Asset
	creator domain.Address
	sold    *uint256.Int
	raised  *uint256.Int
	open    bool
	// settling guards the external payout call in Settle against re-entry
	settling  bool
	settled   bool
	createdAt time.Time
}

// snapshot returns an immutable copy of the sale state
func (s *saleState) snapshot() SaleRecord {
	return SaleRecord{
		AssetID:   s.asset.ID(),
		Name:      s.asset.Name(),
		Symbol:    s.asset.Symbol(),
		Creator:   s.creator,
		Sold:      s.sold.Clone(),
		Raised:    s.raised.Clone(),
		Open:      s.open,
		Settled:   s.settled,
		CreatedAt: s.createdAt,
	}
}
