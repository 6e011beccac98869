package rest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/fairlaunch/curve-registry/internal/api/middleware"
	"github.com/fairlaunch/curve-registry/internal/api/rest"
	"github.com/fairlaunch/curve-registry/internal/domain"
	"github.com/fairlaunch/curve-registry/internal/logger"
	"github.com/fairlaunch/curve-registry/internal/mocks"
	"github.com/fairlaunch/curve-registry/internal/registry"
	"github.com/fairlaunch/curve-registry/internal/store/schema"
)

const testAPIKey = "test-api-key"

var (
	ownerAddr     = "0x1111111111111111111111111111111111111111"
	custodianAddr = "0x2222222222222222222222222222222222222222"
	creatorAddr   = "0x5AEDA56215b167893e80B4fE645BA6d5Bab767DE"
	buyerAddr     = "0x3333333333333333333333333333333333333333"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testAPI struct {
	router   *gin.Engine
	registry *registry.Registry
	sink     *mocks.MockPayoutSink
	store    *mocks.MockStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockPayoutSink(ctrl)
	st := mocks.NewMockStore(ctrl)

	reg := registry.New(domain.DefaultParams(), domain.Address(ownerAddr), domain.Address(custodianAddr), sink)

	router := gin.New()
	rest.SetupRoutes(router, rest.NewHandler(reg, st), middleware.AuthConfig{
		APIKeys: []string{testAPIKey},
	})

	return &testAPI{
		router:   router,
		registry: reg,
		sink:     sink,
		store:    st,
	}
}

func (a *testAPI) request(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// createAsset registers an asset through the API and returns its ID
func (a *testAPI) createAsset(t *testing.T) string {
	t.Helper()

	w := a.request(t, http.MethodPost, "/api/v1/assets", rest.CreateAssetRequest{
		Name:    "Frog Token",
		Symbol:  "FROG",
		Creator: creatorAddr,
		Payment: "10000000000000000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp rest.CreateAssetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AssetID)
	return resp.AssetID
}

func units(n uint64) string {
	return new(uint256.Int).Mul(uint256.NewInt(n), domain.UnitScale).String()
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t)

	w := api.request(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCreateAsset(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "success",
			body: rest.CreateAssetRequest{
				Name:    "Frog Token",
				Symbol:  "FROG",
				Creator: creatorAddr,
				Payment: "10000000000000000",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "insufficient fee",
			body: rest.CreateAssetRequest{
				Name:    "Frog Token",
				Symbol:  "FROG",
				Creator: creatorAddr,
				Payment: "1",
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "validation_failed",
		},
		{
			name: "missing name",
			body: rest.CreateAssetRequest{
				Symbol:  "FROG",
				Creator: creatorAddr,
				Payment: "10000000000000000",
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "invalid creator",
			body: rest.CreateAssetRequest{
				Name:    "Frog Token",
				Symbol:  "FROG",
				Creator: "not-an-address",
				Payment: "10000000000000000",
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "non-numeric payment",
			body: rest.CreateAssetRequest{
				Name:    "Frog Token",
				Symbol:  "FROG",
				Creator: creatorAddr,
				Payment: "1.5",
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "malformed body",
			body:           "not-json",
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			w := api.request(t, http.MethodPost, "/api/v1/assets", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusCreated {
				var resp rest.CreateAssetResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.AssetID)
				assert.Equal(t, "Frog Token", resp.Sale.Name)
				assert.Equal(t, "FROG", resp.Sale.Symbol)
				assert.True(t, resp.Sale.Open)
				assert.Equal(t, "0", resp.Sale.Sold)
			}
			if tt.expectedCode != "" {
				assert.Contains(t, w.Body.String(), tt.expectedCode)
			}
		})
	}
}

func TestBuyAsset(t *testing.T) {
	api := newTestAPI(t)
	assetID := api.createAsset(t)

	// First purchase at the floor price
	w := api.request(t, http.MethodPost, fmt.Sprintf("/api/v1/assets/%s/buy", assetID), rest.BuyRequest{
		Buyer:    buyerAddr,
		Quantity: units(10_000),
		Payment:  units(1),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sale rest.SaleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, units(10_000), sale.Sold)
	assert.Equal(t, units(1), sale.Raised)
	assert.True(t, sale.Open)

	// Second purchase crosses the target and closes the sale
	w = api.request(t, http.MethodPost, fmt.Sprintf("/api/v1/assets/%s/buy", assetID), rest.BuyRequest{
		Buyer:    buyerAddr,
		Quantity: units(10_000),
		Payment:  units(2),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.False(t, sale.Open)

	// Buying from the closed sale conflicts
	w = api.request(t, http.MethodPost, fmt.Sprintf("/api/v1/assets/%s/buy", assetID), rest.BuyRequest{
		Buyer:    buyerAddr,
		Quantity: units(1),
		Payment:  units(1),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "conflict")
}

func TestBuyAsset_Validation(t *testing.T) {
	api := newTestAPI(t)
	assetID := api.createAsset(t)

	tests := []struct {
		name           string
		path           string
		body           rest.BuyRequest
		expectedStatus int
	}{
		{
			name: "unknown asset",
			path: "/api/v1/assets/01JF0A9Z8G00000000000000PX/buy",
			body: rest.BuyRequest{Buyer: buyerAddr, Quantity: units(10_000), Payment: units(1)},

			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "quantity below minimum",
			path:           fmt.Sprintf("/api/v1/assets/%s/buy", assetID),
			body:           rest.BuyRequest{Buyer: buyerAddr, Quantity: "1", Payment: units(1)},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "payment below cost",
			path:           fmt.Sprintf("/api/v1/assets/%s/buy", assetID),
			body:           rest.BuyRequest{Buyer: buyerAddr, Quantity: units(10_000), Payment: "1"},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "invalid buyer",
			path:           fmt.Sprintf("/api/v1/assets/%s/buy", assetID),
			body:           rest.BuyRequest{Buyer: "bogus", Quantity: units(10_000), Payment: units(1)},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.request(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestSettleAsset(t *testing.T) {
	api := newTestAPI(t)
	assetID := api.createAsset(t)

	// Settling an open sale conflicts
	w := api.request(t, http.MethodPost, fmt.Sprintf("/api/v1/assets/%s/settle", assetID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Close the sale
	api.request(t, http.MethodPost, fmt.Sprintf("/api/v1/assets/%s/buy", assetID), rest.BuyRequest{
		Buyer: buyerAddr, Quantity: units(10_000), Payment: units(1),
	})
	api.request(t, http.MethodPost, fmt.Sprintf("/api/v1/assets/%s/buy", assetID), rest.BuyRequest{
		Buyer: buyerAddr, Quantity: units(10_000), Payment: units(2),
	})

	api.sink.EXPECT().Pay(gomock.Any(), domain.Address(creatorAddr), gomock.Any()).Return(nil).Times(1)

	w = api.request(t, http.MethodPost, fmt.Sprintf("/api/v1/assets/%s/settle", assetID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sale rest.SaleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.True(t, sale.Settled)

	w = api.request(t, http.MethodPost, "/api/v1/assets/01JF0A9Z8G00000000000000PX/settle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSale(t *testing.T) {
	api := newTestAPI(t)
	assetID := api.createAsset(t)

	w := api.request(t, http.MethodGet, "/api/v1/assets/"+assetID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var sale rest.SaleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, assetID, sale.AssetID)
	assert.Equal(t, creatorAddr, sale.Creator)

	w = api.request(t, http.MethodGet, "/api/v1/assets/01JF0A9Z8G00000000000000PX", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSales(t *testing.T) {
	api := newTestAPI(t)
	var ids []string
	for range 3 {
		ids = append(ids, api.createAsset(t))
	}

	w := api.request(t, http.MethodGet, "/api/v1/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp rest.ListSalesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Sales, 3)
	for i, sale := range resp.Sales {
		assert.Equal(t, ids[i], sale.AssetID)
	}

	// Pagination
	w = api.request(t, http.MethodGet, "/api/v1/sales?limit=1&offset=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Sales, 1)
	assert.Equal(t, ids[1], resp.Sales[0].AssetID)

	// Invalid pagination
	w = api.request(t, http.MethodGet, "/api/v1/sales?limit=0", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = api.request(t, http.MethodGet, "/api/v1/sales?offset=-1", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetPrice(t *testing.T) {
	api := newTestAPI(t)
	assetID := api.createAsset(t)

	w := api.request(t, http.MethodGet, fmt.Sprintf("/api/v1/assets/%s/price", assetID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var price rest.PriceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &price))
	assert.Equal(t, "0", price.Sold)
	assert.Equal(t, "100000000000000", price.Price)

	// One step up after 10,000 units
	api.request(t, http.MethodPost, fmt.Sprintf("/api/v1/assets/%s/buy", assetID), rest.BuyRequest{
		Buyer: buyerAddr, Quantity: units(10_000), Payment: units(1),
	})

	w = api.request(t, http.MethodGet, fmt.Sprintf("/api/v1/assets/%s/price", assetID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &price))
	assert.Equal(t, "200000000000000", price.Price)
}

func TestGetBalance(t *testing.T) {
	api := newTestAPI(t)
	assetID := api.createAsset(t)

	w := api.request(t, http.MethodGet, fmt.Sprintf("/api/v1/assets/%s/balances/%s", assetID, custodianAddr), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var balance rest.BalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, units(1_000_000), balance.Balance)

	w = api.request(t, http.MethodGet, fmt.Sprintf("/api/v1/assets/%s/balances/not-an-address", assetID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBalance_AddressSpelling(t *testing.T) {
	api := newTestAPI(t)
	assetID := api.createAsset(t)

	// Purchase under the lowercase spelling of the creator address
	lowerCreator := "0x5aeda56215b167893e80b4fe645ba6d5bab767de"
	w := api.request(t, http.MethodPost, fmt.Sprintf("/api/v1/assets/%s/buy", assetID), rest.BuyRequest{
		Buyer:    lowerCreator,
		Quantity: units(10_000),
		Payment:  units(1),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The checksummed spelling reads the same balance
	w = api.request(t, http.MethodGet, fmt.Sprintf("/api/v1/assets/%s/balances/%s", assetID, creatorAddr), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var balance rest.BalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, units(10_000), balance.Balance)
	assert.Equal(t, creatorAddr, balance.Holder)

	// So does the lowercase spelling, reported in checksummed form
	w = api.request(t, http.MethodGet, fmt.Sprintf("/api/v1/assets/%s/balances/%s", assetID, lowerCreator), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, units(10_000), balance.Balance)
	assert.Equal(t, creatorAddr, balance.Holder)
}

func TestGetParams(t *testing.T) {
	api := newTestAPI(t)

	w := api.request(t, http.MethodGet, "/api/v1/params", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var params rest.ParamsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &params))
	assert.Equal(t, "10000000000000000", params.CreationFee)
	assert.Equal(t, "3000000000000000000", params.Target)
	assert.Equal(t, "100000000000000", params.PriceFloor)
	assert.Equal(t, units(1_000_000), params.TotalSupply)
}

func TestTreasuryAuth(t *testing.T) {
	api := newTestAPI(t)
	api.createAsset(t)

	// No credentials
	w := api.request(t, http.MethodGet, "/api/v1/treasury", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Bad API key
	w = api.request(t, http.MethodGet, "/api/v1/treasury", nil, "Authorization", "APIKey wrong-key")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid API key
	w = api.request(t, http.MethodGet, "/api/v1/treasury", nil, "Authorization", "APIKey "+testAPIKey)
	require.Equal(t, http.StatusOK, w.Code)

	var treasury rest.TreasuryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &treasury))
	assert.Equal(t, "10000000000000000", treasury.Balance)
	assert.Equal(t, "10000000000000000", treasury.Fees)
}

func TestWithdraw(t *testing.T) {
	api := newTestAPI(t)
	api.createAsset(t)
	auth := []string{"Authorization", "APIKey " + testAPIKey}

	// Unauthenticated
	w := api.request(t, http.MethodPost, "/api/v1/treasury/withdraw", rest.WithdrawRequest{
		Caller: ownerAddr,
		Amount: "10000000000000000",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Authenticated but not the owner
	w = api.request(t, http.MethodPost, "/api/v1/treasury/withdraw", rest.WithdrawRequest{
		Caller: buyerAddr,
		Amount: "10000000000000000",
	}, auth...)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Amount above balance
	w = api.request(t, http.MethodPost, "/api/v1/treasury/withdraw", rest.WithdrawRequest{
		Caller: ownerAddr,
		Amount: "20000000000000000",
	}, auth...)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Success
	api.sink.EXPECT().
		Pay(gomock.Any(), domain.Address(ownerAddr), uint256.NewInt(1e16)).
		Return(nil).
		Times(1)

	w = api.request(t, http.MethodPost, "/api/v1/treasury/withdraw", rest.WithdrawRequest{
		Caller: ownerAddr,
		Amount: "10000000000000000",
	}, auth...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var treasury rest.TreasuryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &treasury))
	assert.Equal(t, "0", treasury.Balance)
	assert.Equal(t, "10000000000000000", treasury.Withdrawn)
}

func TestListEvents(t *testing.T) {
	api := newTestAPI(t)

	now := time.Now().UTC()
	api.store.EXPECT().
		GetLedgerEntries(gomock.Any(), "abc", 10, 0).
		Return([]*schema.LedgerEntry{
			{
				ID:        1,
				EventID:   "event-1",
				EventType: "created",
				AssetID:   "abc",
				Payload:   datatypes.JSON(`{"event_type":"created"}`),
				CreatedAt: now,
			},
		}, nil)

	w := api.request(t, http.MethodGet, "/api/v1/events?asset_id=abc&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp rest.ListEventsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "event-1", resp.Events[0].EventID)
	assert.Equal(t, "created", resp.Events[0].EventType)
	assert.Equal(t, "abc", resp.Events[0].AssetID)
}
