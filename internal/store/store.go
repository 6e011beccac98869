package store

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/fairlaunch/curve-registry/internal/domain"
	"github.com/fairlaunch/curve-registry/internal/registry"
	"github.com/fairlaunch/curve-registry/internal/store/schema"
)

// AssetSnapshot is a fully hydrated asset with its sale ledger entry and
// holder balances, as needed to rebuild the in-memory registry on startup
type AssetSnapshot struct {
	// Record is the sale ledger entry for the asset
	Record registry.SaleRecord
	// TotalSupply is the fixed supply minted at creation
	TotalSupply *uint256.Int
	// Balances maps each holder to its current balance in the smallest denomination
	Balances map[domain.Address]*uint256.Int
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// Record persists one committed registry mutation. Replays of an
	// already-journaled event are a no-op.
	Record(ctx context.Context, m registry.Mutation) error
	// LoadAssets retrieves every asset with its sale and balances in creation order
	LoadAssets(ctx context.Context) ([]AssetSnapshot, error)
	// LoadTreasury retrieves the treasury snapshot, nil when nothing has been recorded
	LoadTreasury(ctx context.Context) (*registry.Treasury, error)
	// GetLedgerEntries retrieves journaled operations, newest first, optionally
	// filtered by asset
	GetLedgerEntries(ctx context.Context, assetID string, limit, offset int) ([]*schema.LedgerEntry, error)
}
