package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fairlaunch/curve-registry/internal/domain"
	"github.com/fairlaunch/curve-registry/internal/registry"
	"github.com/fairlaunch/curve-registry/internal/store"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// CreateAsset registers a new asset and opens its primary sale
	// POST /api/v1/assets
	CreateAsset(c *gin.Context)

	// BuyAsset purchases units from an open sale
	// POST /api/v1/assets/:id/buy
	BuyAsset(c *gin.Context)

	// SettleAsset releases a closed sale's inventory and proceeds to its creator
	// POST /api/v1/assets/:id/settle
	SettleAsset(c *gin.Context)

	// GetSale retrieves a sale ledger entry by asset ID
	// GET /api/v1/assets/:id
	GetSale(c *gin.Context)

	// ListSales retrieves sale ledger entries in creation order
	// GET /api/v1/sales?limit=<limit>&offset=<offset>
	ListSales(c *gin.Context)

	// GetPrice reports the current unit price of a sale
	// GET /api/v1/assets/:id/price
	GetPrice(c *gin.Context)

	// GetBalance reports a holder's balance for an asset
	// GET /api/v1/assets/:id/balances/:address
	GetBalance(c *gin.Context)

	// GetParams reports the registry's pricing parameters
	// GET /api/v1/params
	GetParams(c *gin.Context)

	// GetTreasury reports registry-held funds (requires authentication)
	// GET /api/v1/treasury
	GetTreasury(c *gin.Context)

	// Withdraw extracts treasury revenue to the owner (requires authentication)
	// POST /api/v1/treasury/withdraw
	Withdraw(c *gin.Context)

	// ListEvents retrieves journaled operations, newest first
	// GET /api/v1/events?asset_id=<id>&limit=<limit>&offset=<offset>
	ListEvents(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	registry *registry.Registry
	store    store.Store
}

// NewHandler creates a new REST API handler
func NewHandler(reg *registry.Registry, st store.Store) Handler {
	return &handler{
		registry: reg,
		store:    st,
	}
}

// CreateAsset registers a new asset and opens its primary sale
func (h *handler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	assetID, err := h.registry.Create(c.Request.Context(), req.Name, req.Symbol, req.payment, req.creator)
	if err != nil {
		respondOperationError(c, err)
		return
	}

	rec, err := h.registry.SaleByAsset(assetID)
	if err != nil {
		respondInternalError(c, err, "Failed to load created sale")
		return
	}

	c.JSON(http.StatusCreated, CreateAssetResponse{
		AssetID: assetID,
		Sale:    NewSaleResponse(rec),
	})
}

// BuyAsset purchases units from an open sale
func (h *handler) BuyAsset(c *gin.Context) {
	assetID := c.Param("id")
	if assetID == "" {
		respondBadRequest(c, "Asset ID is required")
		return
	}

	var req BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.registry.Buy(c.Request.Context(), assetID, req.quantity, req.payment, req.buyer); err != nil {
		respondOperationError(c, err)
		return
	}

	rec, err := h.registry.SaleByAsset(assetID)
	if err != nil {
		respondInternalError(c, err, "Failed to load sale")
		return
	}

	c.JSON(http.StatusOK, NewSaleResponse(rec))
}

// SettleAsset releases a closed sale's inventory and proceeds to its creator
func (h *handler) SettleAsset(c *gin.Context) {
	assetID := c.Param("id")
	if assetID == "" {
		respondBadRequest(c, "Asset ID is required")
		return
	}

	if err := h.registry.Settle(c.Request.Context(), assetID); err != nil {
		respondOperationError(c, err)
		return
	}

	rec, err := h.registry.SaleByAsset(assetID)
	if err != nil {
		respondInternalError(c, err, "Failed to load sale")
		return
	}

	c.JSON(http.StatusOK, NewSaleResponse(rec))
}

// GetSale retrieves a sale ledger entry by asset ID
func (h *handler) GetSale(c *gin.Context) {
	assetID := c.Param("id")
	if assetID == "" {
		respondBadRequest(c, "Asset ID is required")
		return
	}

	rec, err := h.registry.SaleByAsset(assetID)
	if err != nil {
		respondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSaleResponse(rec))
}

// ListSales retrieves sale ledger entries in creation order
func (h *handler) ListSales(c *gin.Context) {
	limit, offset, err := parsePagination(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	sales := h.registry.Sales()
	total := len(sales)

	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]SaleResponse, 0, end-offset)
	for _, rec := range sales[offset:end] {
		page = append(page, NewSaleResponse(rec))
	}

	c.JSON(http.StatusOK, ListSalesResponse{
		Sales: page,
		Total: total,
	})
}

// GetPrice reports the current unit price of a sale
func (h *handler) GetPrice(c *gin.Context) {
	assetID := c.Param("id")
	if assetID == "" {
		respondBadRequest(c, "Asset ID is required")
		return
	}

	rec, err := h.registry.SaleByAsset(assetID)
	if err != nil {
		respondOperationError(c, err)
		return
	}

	price, err := h.registry.Price(rec.Sold)
	if err != nil {
		respondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, PriceResponse{
		AssetID: assetID,
		Sold:    rec.Sold.String(),
		Price:   price.String(),
	})
}

// GetBalance reports a holder's balance for an asset
func (h *handler) GetBalance(c *gin.Context) {
	assetID := c.Param("id")
	if assetID == "" {
		respondBadRequest(c, "Asset ID is required")
		return
	}

	holder, err := domain.NewAddress(c.Param("address"))
	if err != nil {
		respondBadRequest(c, "Invalid holder address")
		return
	}

	balance, err := h.registry.AssetBalance(assetID, holder)
	if err != nil {
		respondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{
		AssetID: assetID,
		Holder:  string(holder),
		Balance: balance.String(),
	})
}

// GetParams reports the registry's pricing parameters
func (h *handler) GetParams(c *gin.Context) {
	params := h.registry.Params()

	c.JSON(http.StatusOK, ParamsResponse{
		CreationFee:    params.CreationFee.String(),
		Target:         params.Target.String(),
		TokenLimit:     params.TokenLimit.String(),
		TotalSupply:    params.TotalSupply.String(),
		MinPurchase:    params.MinPurchase.String(),
		MaxPurchase:    params.MaxPurchase.String(),
		PriceFloor:     params.PriceFloor.String(),
		PriceStep:      params.PriceStep.String(),
		PriceIncrement: params.PriceIncrement.String(),
	})
}

// GetTreasury reports registry-held funds
func (h *handler) GetTreasury(c *gin.Context) {
	c.JSON(http.StatusOK, NewTreasuryResponse(h.registry.TreasuryReport()))
}

// Withdraw extracts treasury revenue to the owner
func (h *handler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.registry.Withdraw(c.Request.Context(), req.caller, req.amount); err != nil {
		respondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewTreasuryResponse(h.registry.TreasuryReport()))
}

// ListEvents retrieves journaled operations, newest first
func (h *handler) ListEvents(c *gin.Context) {
	limit, offset, err := parsePagination(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	entries, err := h.store.GetLedgerEntries(c.Request.Context(), c.Query("asset_id"), limit, offset)
	if err != nil {
		respondInternalError(c, err, "Failed to list events")
		return
	}

	events := make([]EventResponse, 0, len(entries))
	for _, entry := range entries {
		events = append(events, EventResponse{
			EventID:   entry.EventID,
			EventType: entry.EventType,
			AssetID:   entry.AssetID,
			Payload:   json.RawMessage(entry.Payload),
			CreatedAt: entry.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, ListEventsResponse{Events: events})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "curve-registry-api",
	})
}

// parsePagination reads limit and offset query parameters with defaults of 50 and 0
func parsePagination(c *gin.Context) (int, int, error) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			return 0, 0, fmt.Errorf("limit must be an integer between 1 and 100")
		}
		limit = parsed
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
		offset = parsed
	}

	return limit, offset, nil
}
