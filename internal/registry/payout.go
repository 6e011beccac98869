package registry

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/fairlaunch/curve-registry/internal/domain"
)

// PayoutSink is the boundary through which native currency leaves registry
// custody. It is the only point where the registry yields control to another
// party's code; implementations may reject a transfer, in which case the
// triggering operation rolls back entirely.
//
//go:generate mockgen -source=payout.go -destination=../mocks/payout_sink.go -package=mocks -mock_names=PayoutSink=MockPayoutSink
type PayoutSink interface {
	// Pay transfers amount of native currency to the recipient
	Pay(ctx context.Context, to domain.Address, amount *uint256.Int) error
}

// Recorder persists committed registry operations. It is invoked after the
// in-memory state has committed; a recorder failure does not undo the
// operation, it is logged and surfaced through monitoring instead.
//
//go:generate mockgen -source=payout.go -destination=../mocks/payout_sink.go -package=mocks -mock_names=Recorder=MockRecorder
type Recorder interface {
	// Record persists one committed mutation
	Record(ctx context.Context, m Mutation) error
}

// Mutation describes a committed registry operation for persistence
type Mutation struct {
	// Event is the notification describing the operation
	Event *domain.RegistryEvent
	// Sale is the post-operation sale snapshot (nil for withdraw)
	Sale *SaleRecord
	// TotalSupply is set on create
	TotalSupply *uint256.Int
	// Balances holds the touched holder balances after the operation
	Balances map[domain.Address]*uint256.Int
	// Treasury is the post-operation treasury snapshot
	Treasury Treasury
}
