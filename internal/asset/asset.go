package asset

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/oklog/ulid/v2"

	"github.com/fairlaunch/curve-registry/internal/domain"
)

// Asset is a fixed-supply fungible token. The entire supply is minted to the
// custodian at construction and never changes; balances move only through
// Transfer. The sum of all holder balances always equals the total supply.
type Asset struct {
	id          string
	name        string
	symbol      string
	totalSupply *uint256.Int

	mu       sync.RWMutex
	balances map[domain.Address]*uint256.Int
}

// New mints a new asset with the full supply credited to the custodian.
// The identifier is a fresh ULID, so insertion order matches lexical order.
func New(name, symbol string, totalSupply *uint256.Int, custodian domain.Address) *Asset {
	return &Asset{
		id:          ulid.Make().String(),
		name:        name,
		symbol:      symbol,
		totalSupply: totalSupply.Clone(),
		balances: map[domain.Address]*uint256.Int{
			custodian: totalSupply.Clone(),
		},
	}
}

// Restore reconstructs an asset from persisted state.
// The caller is responsible for balances summing to the total supply.
func Restore(id, name, symbol string, totalSupply *uint256.Int, balances map[domain.Address]*uint256.Int) *Asset {
	restored := make(map[domain.Address]*uint256.Int, len(balances))
	for holder, balance := range balances {
		if balance.IsZero() {
			continue
		}
		restored[holder] = balance.Clone()
	}
	return &Asset{
		id:          id,
		name:        name,
		symbol:      symbol,
		totalSupply: totalSupply.Clone(),
		balances:    restored,
	}
}

// ID returns the asset identifier
func (a *Asset) ID() string {
	return a.id
}

// Name returns the display name
func (a *Asset) Name() string {
	return a.name
}

// Symbol returns the asset symbol
func (a *Asset) Symbol() string {
	return a.symbol
}

// TotalSupply returns the fixed total supply
func (a *Asset) TotalSupply() *uint256.Int {
	return a.totalSupply.Clone()
}

// BalanceOf returns the holder's current balance
func (a *Asset) BalanceOf(holder domain.Address) *uint256.Int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	balance, ok := a.balances[holder]
	if !ok {
		return uint256.NewInt(0)
	}
	return balance.Clone()
}

// Balances returns a snapshot of all non-zero holder balances
func (a *Asset) Balances() map[domain.Address]*uint256.Int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snapshot := make(map[domain.Address]*uint256.Int, len(a.balances))
	for holder, balance := range a.balances {
		snapshot[holder] = balance.Clone()
	}
	return snapshot
}

// Transfer moves amount from one holder to another. It either applies fully or
// returns an error with no state change.
func (a *Asset) Transfer(from, to domain.Address, amount *uint256.Int) error {
	if !to.Valid() {
		return domain.ErrInvalidAddress
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	fromBalance, ok := a.balances[from]
	if !ok || fromBalance.Lt(amount) {
		return domain.ErrInsufficientBalance
	}

	fromBalance.Sub(fromBalance, amount)
	if fromBalance.IsZero() {
		delete(a.balances, from)
	}

	toBalance, ok := a.balances[to]
	if !ok {
		toBalance = uint256.NewInt(0)
		a.balances[to] = toBalance
	}
	toBalance.Add(toBalance, amount)

	return nil
}
