package registry

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/fairlaunch/curve-registry/internal/asset"
	"github.com/fairlaunch/curve-registry/internal/domain"
)

// Create registers a new asset and opens its sale. The entire supply is minted
// to registry custody and the full payment is retained as fee revenue. Returns
// the new asset identifier.
func (r *Registry) Create(ctx context.Context, name, symbol string, payment *uint256.Int, creator domain.Address) (string, error) {
	// Checksummed form is the canonical ledger key for every identity
	creator, err := domain.NewAddress(string(creator))
	if err != nil {
		return "", err
	}
	if payment.Lt(r.params.CreationFee) {
		return "", domain.ErrInsufficientFee
	}

	r.mu.Lock()

	newBalance, overflow := new(uint256.Int).AddOverflow(r.balance, payment)
	if overflow {
		r.mu.Unlock()
		return "", domain.ErrAmountOverflow
	}

	a := asset.New(name, symbol, r.params.TotalSupply, r.custodian)
	r.order = append(r.order, a.ID())
	st := &saleState{
		asset:     a,
		creator:   creator,
		sold:      uint256.NewInt(0),
		raised:    uint256.NewInt(0),
		open:      true,
		createdAt: nowUTC(),
	}
	r.sales[a.ID()] = st

	// The creation payment is fee revenue, not sale proceeds. Fees never
	// exceed the held balance, so the balance check above covers both sums.
	r.balance.Set(newBalance)
	r.fees.Add(r.fees, payment)

	rec := st.snapshot()
	treasury := r.treasurySnapshot()

	r.mu.Unlock()

	event := domain.NewRegistryEvent(domain.EventTypeCreated)
	event.AssetID = rec.AssetID
	event.Name = rec.Name
	event.Symbol = rec.Symbol
	event.Creator = rec.Creator.String()
	event.Amount = payment.String()

	r.commit(ctx, Mutation{
		Event:       event,
		Sale:        &rec,
		TotalSupply: r.params.TotalSupply.Clone(),
		Balances: map[domain.Address]*uint256.Int{
			r.custodian: r.params.TotalSupply.Clone(),
		},
		Treasury: treasury,
	})

	return rec.AssetID, nil
}

// Buy purchases quantity units (smallest denomination) from an open sale. The
// whole batch is priced at the pre-purchase sold count. Payment in excess of
// the computed cost is accepted and retained without refund.
func (r *Registry) Buy(ctx context.Context, assetID string, quantity, payment *uint256.Int, buyer domain.Address) error {
	buyer, err := domain.NewAddress(string(buyer))
	if err != nil {
		return err
	}

	r.mu.Lock()

	st, ok := r.sales[assetID]
	if !ok {
		r.mu.Unlock()
		return domain.ErrSaleNotFound
	}
	if !st.open {
		r.mu.Unlock()
		return domain.ErrSaleClosed
	}
	if quantity.Lt(r.params.MinPurchase) || quantity.Gt(r.params.MaxPurchase) {
		r.mu.Unlock()
		return domain.ErrQuantityOutOfRange
	}

	cost, err := r.pricing.Cost(st.sold, quantity)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	if payment.Lt(cost) {
		r.mu.Unlock()
		return domain.ErrInsufficientPayment
	}

	// Checked before any mutation so a rejected payment leaves no trace
	newBalance, overflow := new(uint256.Int).AddOverflow(r.balance, payment)
	if overflow {
		r.mu.Unlock()
		return domain.ErrAmountOverflow
	}

	if err := st.asset.Transfer(r.custodian, buyer, quantity); err != nil {
		r.mu.Unlock()
		return err
	}

	st.sold.Add(st.sold, quantity)
	st.raised.Add(st.raised, cost)
	r.balance.Set(newBalance)

	// Overpayment is retained, not refunded. The surplus is booked as registry
	// revenue so the held balance always reconciles exactly against the sum of
	// fees plus committed proceeds.
	if payment.Gt(cost) {
		surplus := new(uint256.Int).Sub(payment, cost)
		r.fees.Add(r.fees, surplus)
	}

	// Either threshold closes the sale permanently
	if !st.sold.Lt(r.params.TokenLimit) || !st.raised.Lt(r.params.Target) {
		st.open = false
	}

	rec := st.snapshot()
	treasury := r.treasurySnapshot()
	buyerBalance := st.asset.BalanceOf(buyer)
	custodyBalance := st.asset.BalanceOf(r.custodian)

	r.mu.Unlock()

	event := domain.NewRegistryEvent(domain.EventTypePurchased)
	event.AssetID = rec.AssetID
	event.Buyer = buyer.String()
	event.Quantity = quantity.String()
	event.Amount = payment.String()

	r.commit(ctx, Mutation{
		Event: event,
		Sale:  &rec,
		Balances: map[domain.Address]*uint256.Int{
			buyer:       buyerBalance,
			r.custodian: custodyBalance,
		},
		Treasury: treasury,
	})

	return nil
}

// Settle releases a closed sale's unsold inventory and raised funds to its
// creator. Anyone may trigger it. Internal bookkeeping commits before the
// external payout; if the payout is rejected the entire settlement rolls back.
// A second settle on an already settled sale is a no-op.
func (r *Registry) Settle(ctx context.Context, assetID string) error {
	r.mu.Lock()

	st, ok := r.sales[assetID]
	if !ok {
		r.mu.Unlock()
		return domain.ErrSaleNotFound
	}
	if st.settling {
		r.mu.Unlock()
		return domain.ErrSettlementInProgress
	}
	if st.open {
		r.mu.Unlock()
		return domain.ErrSaleOpen
	}
	if st.settled {
		// Already paid out; nothing further to transfer
		r.mu.Unlock()
		return nil
	}

	st.settling = true

	remainder := st.asset.BalanceOf(r.custodian)
	payout := st.raised.Clone()

	if !remainder.IsZero() {
		if err := st.asset.Transfer(r.custodian, st.creator, remainder); err != nil {
			st.settling = false
			r.mu.Unlock()
			return err
		}
	}
	r.balance.Sub(r.balance, payout)
	r.settledPaid.Add(r.settledPaid, payout)

	creator := st.creator
	r.mu.Unlock()

	// External call after bookkeeping; the settling flag rejects re-entry
	if !payout.IsZero() {
		if err := r.sink.Pay(ctx, creator, payout); err != nil {
			r.rollbackSettle(st, remainder, payout)
			return fmt.Errorf("%w: %w", domain.ErrPayoutFailed, err)
		}
	}

	r.mu.Lock()
	st.settled = true
	st.settling = false
	rec := st.snapshot()
	treasury := r.treasurySnapshot()
	creatorBalance := st.asset.BalanceOf(creator)
	r.mu.Unlock()

	event := domain.NewRegistryEvent(domain.EventTypeSettled)
	event.AssetID = rec.AssetID
	event.Recipient = creator.String()
	event.Quantity = remainder.String()
	event.Amount = payout.String()

	r.commit(ctx, Mutation{
		Event: event,
		Sale:  &rec,
		Balances: map[domain.Address]*uint256.Int{
			creator:     creatorBalance,
			r.custodian: uint256.NewInt(0),
		},
		Treasury: treasury,
	})

	return nil
}

// rollbackSettle restores all settlement bookkeeping after a rejected payout
func (r *Registry) rollbackSettle(st *saleState, remainder, payout *uint256.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !remainder.IsZero() {
		// Returning custody cannot fail: the creator was just credited
		_ = st.asset.Transfer(st.creator, r.custodian, remainder)
	}
	r.balance.Add(r.balance, payout)
	r.settledPaid.Sub(r.settledPaid, payout)
	st.settling = false
}

// Withdraw extracts fee revenue from the registry's balance to the owner.
// Owner-restricted; a rejected payout rolls the withdrawal back.
func (r *Registry) Withdraw(ctx context.Context, caller domain.Address, amount *uint256.Int) error {
	caller, err := domain.NewAddress(string(caller))
	if err != nil {
		return err
	}
	if caller != r.owner {
		return domain.ErrNotOwner
	}

	r.mu.Lock()
	if r.balance.Lt(amount) {
		r.mu.Unlock()
		return domain.ErrInsufficientFunds
	}
	r.balance.Sub(r.balance, amount)
	r.withdrawn.Add(r.withdrawn, amount)
	r.mu.Unlock()

	// Balance is debited before the external call, so a re-entrant withdraw
	// can only ever observe the reduced balance
	if err := r.sink.Pay(ctx, r.owner, amount); err != nil {
		r.mu.Lock()
		r.balance.Add(r.balance, amount)
		r.withdrawn.Sub(r.withdrawn, amount)
		r.mu.Unlock()
		return fmt.Errorf("%w: %w", domain.ErrPayoutFailed, err)
	}

	r.mu.Lock()
	treasury := r.treasurySnapshot()
	r.mu.Unlock()

	event := domain.NewRegistryEvent(domain.EventTypeWithdrawn)
	event.Recipient = r.owner.String()
	event.Amount = amount.String()

	r.commit(ctx, Mutation{
		Event:    event,
		Treasury: treasury,
	})

	return nil
}
