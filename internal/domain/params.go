package domain

import "github.com/holiman/uint256"

// Params holds the fixed sale parameters, set once at deployment.
// All amounts are in the smallest 18-decimal denomination: asset quantities in
// the asset's base unit, prices and payments in the native currency's base unit.
type Params struct {
	// CreationFee is the payment required to register a new asset
	CreationFee *uint256.Int
	// Target is the raised-funds threshold that closes a sale
	Target *uint256.Int
	// TokenLimit is the units-sold threshold that closes a sale
	TokenLimit *uint256.Int
	// TotalSupply is minted in full to registry custody at asset creation
	TotalSupply *uint256.Int
	// MinPurchase is the smallest quantity accepted by a single buy
	MinPurchase *uint256.Int
	// MaxPurchase is the largest quantity accepted by a single buy
	MaxPurchase *uint256.Int
	// PriceFloor is the unit price at zero units sold
	PriceFloor *uint256.Int
	// PriceStep is the unit-price increase applied every PriceIncrement units sold
	PriceStep *uint256.Int
	// PriceIncrement is the cumulative-sold interval between price steps
	PriceIncrement *uint256.Int
}

// DefaultParams returns the deployment defaults: 0.01 creation fee, 3.0 target,
// 500,000 unit token limit, 1,000,000 unit total supply, purchases bounded to
// [1, 10,000] whole units, and a 0.0001 price staircase stepping every 10,000 units.
func DefaultParams() Params {
	return Params{
		CreationFee:    uint256.NewInt(1e16),
		Target:         uint256.NewInt(3e18),
		TokenLimit:     uint256.MustFromDecimal("500000000000000000000000"),
		TotalSupply:    uint256.MustFromDecimal("1000000000000000000000000"),
		MinPurchase:    uint256.NewInt(1e18),
		MaxPurchase:    uint256.MustFromDecimal("10000000000000000000000"),
		PriceFloor:     uint256.NewInt(1e14),
		PriceStep:      uint256.NewInt(1e14),
		PriceIncrement: uint256.MustFromDecimal("10000000000000000000000"),
	}
}

// UnitScale converts between whole asset units and the smallest denomination
var UnitScale = uint256.NewInt(1e18)
