package rest

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/holiman/uint256"

	"github.com/fairlaunch/curve-registry/internal/domain"
	"github.com/fairlaunch/curve-registry/internal/registry"
)

// CreateAssetRequest is the body for registering a new asset sale.
// Validate parses the wire strings once; handlers read the parsed,
// checksummed values instead of re-parsing.
type CreateAssetRequest struct {
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Creator string `json:"creator"`
	// Payment is the creation fee tendered, a decimal string in the smallest denomination
	Payment string `json:"payment"`

	creator domain.Address
	payment *uint256.Int
}

// Validate checks the request body and captures the parsed values
func (r *CreateAssetRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Symbol == "" {
		return errors.New("symbol is required")
	}
	creator, err := domain.NewAddress(r.Creator)
	if err != nil {
		return errors.New("creator must be a valid non-zero address")
	}
	payment, err := uint256.FromDecimal(r.Payment)
	if err != nil {
		return errors.New("payment must be a decimal amount string")
	}
	r.creator = creator
	r.payment = payment
	return nil
}

// BuyRequest is the body for purchasing units from an open sale
type BuyRequest struct {
	Buyer string `json:"buyer"`
	// Quantity is the units requested, a decimal string in the smallest denomination
	Quantity string `json:"quantity"`
	// Payment is the native currency tendered, a decimal string in the smallest denomination
	Payment string `json:"payment"`

	buyer    domain.Address
	quantity *uint256.Int
	payment  *uint256.Int
}

// Validate checks the request body and captures the parsed values
func (r *BuyRequest) Validate() error {
	buyer, err := domain.NewAddress(r.Buyer)
	if err != nil {
		return errors.New("buyer must be a valid non-zero address")
	}
	quantity, err := uint256.FromDecimal(r.Quantity)
	if err != nil {
		return errors.New("quantity must be a decimal amount string")
	}
	payment, err := uint256.FromDecimal(r.Payment)
	if err != nil {
		return errors.New("payment must be a decimal amount string")
	}
	r.buyer = buyer
	r.quantity = quantity
	r.payment = payment
	return nil
}

// WithdrawRequest is the body for withdrawing treasury revenue
type WithdrawRequest struct {
	Caller string `json:"caller"`
	// Amount is the native currency to withdraw, a decimal string in the smallest denomination
	Amount string `json:"amount"`

	caller domain.Address
	amount *uint256.Int
}

// Validate checks the request body and captures the parsed values
func (r *WithdrawRequest) Validate() error {
	caller, err := domain.NewAddress(r.Caller)
	if err != nil {
		return errors.New("caller must be a valid non-zero address")
	}
	amount, err := uint256.FromDecimal(r.Amount)
	if err != nil {
		return errors.New("amount must be a decimal amount string")
	}
	if amount.IsZero() {
		return errors.New("amount must be positive")
	}
	r.caller = caller
	r.amount = amount
	return nil
}

// SaleResponse is the JSON shape of a sale ledger entry. Amounts are decimal
// strings in the smallest denomination.
type SaleResponse struct {
	AssetID   string    `json:"asset_id"`
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol"`
	Creator   string    `json:"creator"`
	Sold      string    `json:"sold"`
	Raised    string    `json:"raised"`
	Open      bool      `json:"open"`
	Settled   bool      `json:"settled"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSaleResponse maps a sale ledger snapshot to its JSON shape
func NewSaleResponse(rec registry.SaleRecord) SaleResponse {
	return SaleResponse{
		AssetID:   rec.AssetID,
		Name:      rec.Name,
		Symbol:    rec.Symbol,
		Creator:   rec.Creator.String(),
		Sold:      rec.Sold.String(),
		Raised:    rec.Raised.String(),
		Open:      rec.Open,
		Settled:   rec.Settled,
		CreatedAt: rec.CreatedAt,
	}
}

// ListSalesResponse wraps a page of sales
type ListSalesResponse struct {
	Sales []SaleResponse `json:"sales"`
	Total int            `json:"total"`
}

// PriceResponse reports the current unit price of an open sale
type PriceResponse struct {
	AssetID string `json:"asset_id"`
	Sold    string `json:"sold"`
	// Price is the native cost of one whole unit at the current curve position
	Price string `json:"price"`
}

// BalanceResponse reports a holder's balance for an asset
type BalanceResponse struct {
	AssetID string `json:"asset_id"`
	Holder  string `json:"holder"`
	Balance string `json:"balance"`
}

// ParamsResponse reports the registry's pricing parameters as decimal strings
type ParamsResponse struct {
	CreationFee    string `json:"creation_fee"`
	Target         string `json:"target"`
	TokenLimit     string `json:"token_limit"`
	TotalSupply    string `json:"total_supply"`
	MinPurchase    string `json:"min_purchase"`
	MaxPurchase    string `json:"max_purchase"`
	PriceFloor     string `json:"price_floor"`
	PriceStep      string `json:"price_step"`
	PriceIncrement string `json:"price_increment"`
}

// TreasuryResponse reports registry-held funds as decimal strings
type TreasuryResponse struct {
	Balance     string `json:"balance"`
	Fees        string `json:"fees"`
	Withdrawn   string `json:"withdrawn"`
	SettledPaid string `json:"settled_paid"`
}

// NewTreasuryResponse maps a treasury snapshot to its JSON shape
func NewTreasuryResponse(t registry.Treasury) TreasuryResponse {
	return TreasuryResponse{
		Balance:     t.Balance.String(),
		Fees:        t.Fees.String(),
		Withdrawn:   t.Withdrawn.String(),
		SettledPaid: t.SettledPaid.String(),
	}
}

// CreateAssetResponse is returned after a successful asset registration
type CreateAssetResponse struct {
	AssetID string       `json:"asset_id"`
	Sale    SaleResponse `json:"sale"`
}

// EventResponse is one journaled registry operation
type EventResponse struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	AssetID   string          `json:"asset_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListEventsResponse wraps a page of journaled operations
type ListEventsResponse struct {
	Events []EventResponse `json:"events"`
}
