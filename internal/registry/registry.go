package registry

import (
	"context"
	"sync"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/fairlaunch/curve-registry/internal/asset"
	"github.com/fairlaunch/curve-registry/internal/curve"
	"github.com/fairlaunch/curve-registry/internal/domain"
	"github.com/fairlaunch/curve-registry/internal/logger"
	"github.com/fairlaunch/curve-registry/internal/messaging"
)

// Registry is the process-wide sale ledger. It owns every sale record, holds
// custody of each asset's unsold supply and of all native currency received,
// and is the only mutator of sale state.
//
// All mutating operations serialize behind a single mutex and either commit
// fully or leave state untouched. Read-only queries take a read lock and
// observe a consistent snapshot.
type Registry struct {
	params    domain.Params
	pricing   curve.Curve
	owner     domain.Address
	custodian domain.Address

	mu    sync.RWMutex
	order []string              // asset IDs in creation order
	sales map[string]*saleState // asset ID -> ledger entry

	// Treasury bookkeeping. Invariant: balance == fees + unsettled raised
	// - withdrawn - settledPaid, exactly, at every observation point.
	balance     *uint256.Int
	fees        *uint256.Int
	withdrawn   *uint256.Int
	settledPaid *uint256.Int

	sink      PayoutSink
	publisher messaging.Publisher
	recorder  Recorder
}

// Treasury is a read-only snapshot of the registry's native-currency bookkeeping
type Treasury struct {
	// Balance is the native currency currently held in custody
	Balance *uint256.Int `json:"balance"`
	// Fees is the cumulative registry revenue: creation fees plus retained
	// purchase overpayments
	Fees *uint256.Int `json:"fees"`
	// Withdrawn is the cumulative amount extracted by the owner
	Withdrawn *uint256.Int `json:"withdrawn"`
	// SettledPaid is the cumulative proceeds paid out by settlements
	SettledPaid *uint256.Int `json:"settled_paid"`
}

// Option configures optional registry collaborators
type Option func(*Registry)

// WithPublisher attaches a notification publisher. Publish failures are logged
// and never fail the triggering operation.
func WithPublisher(p messaging.Publisher) Option {
	return func(r *Registry) { r.publisher = p }
}

// WithRecorder attaches a persistence recorder invoked after each commit
func WithRecorder(rec Recorder) Option {
	return func(r *Registry) { r.recorder = rec }
}

// New creates a registry with an immutable fee schedule and owner. The
// custodian is the registry's own custody identity; it holds every asset's
// unsold supply. The sink is the boundary for outbound native-currency
// transfers in Settle and Withdraw. Owner and custodian are stored in
// checksummed form so any inbound spelling of the same identity matches.
func New(params domain.Params, owner, custodian domain.Address, sink PayoutSink, opts ...Option) *Registry {
	r := &Registry{
		params:      params,
		pricing:     curve.FromParams(params),
		owner:       canonical(owner),
		custodian:   canonical(custodian),
		sales:       make(map[string]*saleState),
		balance:     uint256.NewInt(0),
		fees:        uint256.NewInt(0),
		withdrawn:   uint256.NewInt(0),
		settledPaid: uint256.NewInt(0),
		sink:        sink,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// canonical checksums an address when it parses; malformed input is kept
// as-is and can never match a normalized ledger key
func canonical(a domain.Address) domain.Address {
	normalized, err := domain.NewAddress(string(a))
	if err != nil {
		return a
	}
	return normalized
}

// Owner returns the registry's controlling identity
func (r *Registry) Owner() domain.Address {
	return r.owner
}

// Custodian returns the registry's custody identity
func (r *Registry) Custodian() domain.Address {
	return r.custodian
}

// Params returns the fixed sale parameters
func (r *Registry) Params() domain.Params {
	return r.params
}

// Price returns the unit price at the given cumulative sold count
func (r *Registry) Price(unitsSold *uint256.Int) (*uint256.Int, error) {
	return r.pricing.Price(unitsSold)
}

// AssetCount returns the number of assets created
func (r *Registry) AssetCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// SaleByIndex returns the sale record at the given creation-order index
func (r *Registry) SaleByIndex(index int) (SaleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.order) {
		return SaleRecord{}, domain.ErrSaleNotFound
	}
	return r.sales[r.order[index]].snapshot(), nil
}

// SaleByAsset returns the sale record for the given asset identifier
func (r *Registry) SaleByAsset(assetID string) (SaleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.sales[assetID]
	if !ok {
		return SaleRecord{}, domain.ErrSaleNotFound
	}
	return st.snapshot(), nil
}

// Sales returns all sale records in creation order
func (r *Registry) Sales() []SaleRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]SaleRecord, 0, len(r.order))
	for _, id := range r.order {
		records = append(records, r.sales[id].snapshot())
	}
	return records
}

// AssetBalance returns the holder's balance of the given asset
func (r *Registry) AssetBalance(assetID string, holder domain.Address) (*uint256.Int, error) {
	r.mu.RLock()
	st, ok := r.sales[assetID]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSaleNotFound
	}
	return st.asset.BalanceOf(canonical(holder)), nil
}

// TreasuryReport returns a snapshot of the registry's native-currency bookkeeping
func (r *Registry) TreasuryReport() Treasury {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.treasurySnapshot()
}

// treasurySnapshot must be called with at least a read lock held
func (r *Registry) treasurySnapshot() Treasury {
	return Treasury{
		Balance:     r.balance.Clone(),
		Fees:        r.fees.Clone(),
		Withdrawn:   r.withdrawn.Clone(),
		SettledPaid: r.settledPaid.Clone(),
	}
}

// RestoreSale reinstates a persisted sale and its asset ledger. Used at
// startup recovery only, before the registry starts serving operations.
func (r *Registry) RestoreSale(a *asset.Asset, creator domain.Address, rec SaleRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = append(r.order, a.ID())
	r.sales[a.ID()] = &saleState{
		asset:     a,
		creator:   canonical(creator),
		sold:      rec.Sold.Clone(),
		raised:    rec.Raised.Clone(),
		open:      rec.Open,
		settled:   rec.Settled,
		createdAt: rec.CreatedAt,
	}
}

// RestoreTreasury reinstates persisted treasury bookkeeping. Used at startup
// recovery only.
func (r *Registry) RestoreTreasury(t Treasury) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.balance = t.Balance.Clone()
	r.fees = t.Fees.Clone()
	r.withdrawn = t.Withdrawn.Clone()
	r.settledPaid = t.SettledPaid.Clone()
}

// commit dispatches a committed mutation to the recorder and publisher.
// Must be called without the registry lock held.
func (r *Registry) commit(ctx context.Context, m Mutation) {
	if r.recorder != nil {
		if err := r.recorder.Record(ctx, m); err != nil {
			logger.ErrorCtx(ctx, err,
				zap.String("event_id", m.Event.ID),
				zap.String("event_type", string(m.Event.EventType)))
		}
	}

	if r.publisher != nil {
		if err := r.publisher.PublishEvent(ctx, m.Event); err != nil {
			logger.WarnCtx(ctx, "Failed to publish registry event",
				zap.Error(err),
				zap.String("event_id", m.Event.ID),
				zap.String("event_type", string(m.Event.EventType)))
		}
	}
}
