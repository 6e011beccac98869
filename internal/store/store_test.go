package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlaunch/curve-registry/internal/domain"
	"github.com/fairlaunch/curve-registry/internal/registry"
)

// InitTestDB is a function type for initializing a test database
type InitTestDB func(t *testing.T) Store

// CleanupTestDB is a function type for cleaning up after tests
type CleanupTestDB func(t *testing.T)

var (
	testCreator   = domain.Address("0x5AEDA56215b167893e80B4fE645BA6d5Bab767DE")
	testBuyer     = domain.Address("0x3333333333333333333333333333333333333333")
	testCustodian = domain.Address("0x2222222222222222222222222222222222222222")
)

func testUnits(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), domain.UnitScale)
}

func testTreasury(balance, fees, withdrawn, settledPaid uint64) registry.Treasury {
	return registry.Treasury{
		Balance:     uint256.NewInt(balance),
		Fees:        uint256.NewInt(fees),
		Withdrawn:   uint256.NewInt(withdrawn),
		SettledPaid: uint256.NewInt(settledPaid),
	}
}

// createMutation builds the mutation a registry emits when an asset is created
func createMutation(assetID string) registry.Mutation {
	event := domain.NewRegistryEvent(domain.EventTypeCreated)
	event.AssetID = assetID
	event.Name = "Frog Token"
	event.Symbol = "FROG"
	event.Creator = testCreator.String()
	event.Amount = "10000000000000000"

	return registry.Mutation{
		Event: event,
		Sale: &registry.SaleRecord{
			AssetID:   assetID,
			Name:      "Frog Token",
			Symbol:    "FROG",
			Creator:   testCreator,
			Sold:      uint256.NewInt(0),
			Raised:    uint256.NewInt(0),
			Open:      true,
			CreatedAt: time.Now().UTC(),
		},
		TotalSupply: testUnits(1_000_000),
		Balances: map[domain.Address]*uint256.Int{
			testCustodian: testUnits(1_000_000),
		},
		Treasury: testTreasury(1e16, 1e16, 0, 0),
	}
}

// purchaseMutation builds the mutation a registry emits after a purchase
func purchaseMutation(assetID string) registry.Mutation {
	event := domain.NewRegistryEvent(domain.EventTypePurchased)
	event.AssetID = assetID
	event.Buyer = testBuyer.String()
	event.Quantity = testUnits(10_000).String()
	event.Amount = testUnits(1).String()

	return registry.Mutation{
		Event: event,
		Sale: &registry.SaleRecord{
			AssetID:   assetID,
			Name:      "Frog Token",
			Symbol:    "FROG",
			Creator:   testCreator,
			Sold:      testUnits(10_000),
			Raised:    testUnits(1),
			Open:      true,
			CreatedAt: time.Now().UTC(),
		},
		Balances: map[domain.Address]*uint256.Int{
			testBuyer:     testUnits(10_000),
			testCustodian: testUnits(990_000),
		},
		Treasury: registry.Treasury{
			Balance:     new(uint256.Int).Add(uint256.NewInt(1e16), testUnits(1)),
			Fees:        uint256.NewInt(1e16),
			Withdrawn:   uint256.NewInt(0),
			SettledPaid: uint256.NewInt(0),
		},
	}
}

// RunStoreTests runs the complete store test suite against the given database
func RunStoreTests(t *testing.T, initDB InitTestDB, cleanup CleanupTestDB) {
	t.Run("RecordCreate", func(t *testing.T) {
		defer cleanup(t)
		s := initDB(t)
		ctx := context.Background()

		assetID := "01JF0A9Z8G0000000000000001"
		require.NoError(t, s.Record(ctx, createMutation(assetID)))

		snapshots, err := s.LoadAssets(ctx)
		require.NoError(t, err)
		require.Len(t, snapshots, 1)

		snap := snapshots[0]
		assert.Equal(t, assetID, snap.Record.AssetID)
		assert.Equal(t, "Frog Token", snap.Record.Name)
		assert.Equal(t, "FROG", snap.Record.Symbol)
		assert.Equal(t, testCreator, snap.Record.Creator)
		assert.True(t, snap.Record.Sold.IsZero())
		assert.True(t, snap.Record.Raised.IsZero())
		assert.True(t, snap.Record.Open)
		assert.False(t, snap.Record.Settled)
		assert.Equal(t, testUnits(1_000_000).String(), snap.TotalSupply.String())

		require.Len(t, snap.Balances, 1)
		assert.Equal(t, testUnits(1_000_000).String(), snap.Balances[testCustodian].String())

		treasury, err := s.LoadTreasury(ctx)
		require.NoError(t, err)
		require.NotNil(t, treasury)
		assert.Equal(t, uint256.NewInt(1e16).String(), treasury.Balance.String())
		assert.Equal(t, uint256.NewInt(1e16).String(), treasury.Fees.String())
	})

	t.Run("RecordPurchaseUpdatesProjection", func(t *testing.T) {
		defer cleanup(t)
		s := initDB(t)
		ctx := context.Background()

		assetID := "01JF0A9Z8G0000000000000002"
		require.NoError(t, s.Record(ctx, createMutation(assetID)))
		require.NoError(t, s.Record(ctx, purchaseMutation(assetID)))

		snapshots, err := s.LoadAssets(ctx)
		require.NoError(t, err)
		require.Len(t, snapshots, 1)

		snap := snapshots[0]
		assert.Equal(t, testUnits(10_000).String(), snap.Record.Sold.String())
		assert.Equal(t, testUnits(1).String(), snap.Record.Raised.String())
		assert.True(t, snap.Record.Open)

		require.Len(t, snap.Balances, 2)
		assert.Equal(t, testUnits(10_000).String(), snap.Balances[testBuyer].String())
		assert.Equal(t, testUnits(990_000).String(), snap.Balances[testCustodian].String())
	})

	t.Run("RecordReplayIsNoOp", func(t *testing.T) {
		defer cleanup(t)
		s := initDB(t)
		ctx := context.Background()

		assetID := "01JF0A9Z8G0000000000000003"
		require.NoError(t, s.Record(ctx, createMutation(assetID)))

		m := purchaseMutation(assetID)
		require.NoError(t, s.Record(ctx, m))

		// Redeliver the same event with mutated amounts; the projection must
		// keep the first delivery's values
		replay := purchaseMutation(assetID)
		replay.Event.ID = m.Event.ID
		replay.Sale.Sold = testUnits(99_999)
		replay.Balances[testBuyer] = testUnits(99_999)
		require.NoError(t, s.Record(ctx, replay))

		snapshots, err := s.LoadAssets(ctx)
		require.NoError(t, err)
		require.Len(t, snapshots, 1)
		assert.Equal(t, testUnits(10_000).String(), snapshots[0].Record.Sold.String())
		assert.Equal(t, testUnits(10_000).String(), snapshots[0].Balances[testBuyer].String())

		entries, err := s.GetLedgerEntries(ctx, assetID, 0, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("RecordSettlement", func(t *testing.T) {
		defer cleanup(t)
		s := initDB(t)
		ctx := context.Background()

		assetID := "01JF0A9Z8G0000000000000004"
		require.NoError(t, s.Record(ctx, createMutation(assetID)))

		event := domain.NewRegistryEvent(domain.EventTypeSettled)
		event.AssetID = assetID
		event.Recipient = testCreator.String()
		event.Quantity = testUnits(980_000).String()
		event.Amount = testUnits(3).String()

		require.NoError(t, s.Record(ctx, registry.Mutation{
			Event: event,
			Sale: &registry.SaleRecord{
				AssetID:   assetID,
				Name:      "Frog Token",
				Symbol:    "FROG",
				Creator:   testCreator,
				Sold:      testUnits(20_000),
				Raised:    testUnits(3),
				Open:      false,
				Settled:   true,
				CreatedAt: time.Now().UTC(),
			},
			Balances: map[domain.Address]*uint256.Int{
				testCreator:   testUnits(980_000),
				testCustodian: uint256.NewInt(0),
			},
			Treasury: testTreasury(1e16, 1e16, 0, 3e18),
		}))

		snapshots, err := s.LoadAssets(ctx)
		require.NoError(t, err)
		require.Len(t, snapshots, 1)

		snap := snapshots[0]
		assert.False(t, snap.Record.Open)
		assert.True(t, snap.Record.Settled)
		assert.Equal(t, testUnits(980_000).String(), snap.Balances[testCreator].String())
		assert.True(t, snap.Balances[testCustodian].IsZero())

		treasury, err := s.LoadTreasury(ctx)
		require.NoError(t, err)
		require.NotNil(t, treasury)
		assert.Equal(t, uint256.NewInt(3e18).String(), treasury.SettledPaid.String())
	})

	t.Run("RecordWithdrawal", func(t *testing.T) {
		defer cleanup(t)
		s := initDB(t)
		ctx := context.Background()

		event := domain.NewRegistryEvent(domain.EventTypeWithdrawn)
		event.Recipient = testCreator.String()
		event.Amount = "10000000000000000"

		require.NoError(t, s.Record(ctx, registry.Mutation{
			Event:    event,
			Treasury: testTreasury(0, 1e16, 1e16, 0),
		}))

		// No asset rows are touched by a withdrawal
		snapshots, err := s.LoadAssets(ctx)
		require.NoError(t, err)
		assert.Empty(t, snapshots)

		treasury, err := s.LoadTreasury(ctx)
		require.NoError(t, err)
		require.NotNil(t, treasury)
		assert.True(t, treasury.Balance.IsZero())
		assert.Equal(t, uint256.NewInt(1e16).String(), treasury.Withdrawn.String())

		entries, err := s.GetLedgerEntries(ctx, "", 0, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, string(domain.EventTypeWithdrawn), entries[0].EventType)
	})

	t.Run("LoadTreasuryEmpty", func(t *testing.T) {
		defer cleanup(t)
		s := initDB(t)

		treasury, err := s.LoadTreasury(context.Background())
		require.NoError(t, err)
		assert.Nil(t, treasury)
	})

	t.Run("LoadAssetsOrdering", func(t *testing.T) {
		defer cleanup(t)
		s := initDB(t)
		ctx := context.Background()

		ids := []string{
			"01JF0A9Z8G0000000000000005",
			"01JF0A9Z8G0000000000000006",
			"01JF0A9Z8G0000000000000007",
		}
		for _, id := range ids {
			require.NoError(t, s.Record(ctx, createMutation(id)))
		}

		snapshots, err := s.LoadAssets(ctx)
		require.NoError(t, err)
		require.Len(t, snapshots, 3)
		for i, snap := range snapshots {
			assert.Equal(t, ids[i], snap.Record.AssetID)
		}
	})

	t.Run("GetLedgerEntries", func(t *testing.T) {
		defer cleanup(t)
		s := initDB(t)
		ctx := context.Background()

		first := "01JF0A9Z8G0000000000000008"
		second := "01JF0A9Z8G0000000000000009"
		require.NoError(t, s.Record(ctx, createMutation(first)))
		require.NoError(t, s.Record(ctx, purchaseMutation(first)))
		require.NoError(t, s.Record(ctx, createMutation(second)))

		// Newest first across all assets
		entries, err := s.GetLedgerEntries(ctx, "", 0, 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, second, entries[0].AssetID)
		assert.Equal(t, string(domain.EventTypeCreated), entries[0].EventType)

		// Filtered by asset
		entries, err = s.GetLedgerEntries(ctx, first, 0, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, string(domain.EventTypePurchased), entries[0].EventType)
		assert.Equal(t, string(domain.EventTypeCreated), entries[1].EventType)

		// Limit and offset
		entries, err = s.GetLedgerEntries(ctx, "", 1, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		entries, err = s.GetLedgerEntries(ctx, "", 1, 2)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, string(domain.EventTypeCreated), entries[0].EventType)
		assert.Equal(t, first, entries[0].AssetID)
	})

	t.Run("RecordRejectsMissingEvent", func(t *testing.T) {
		defer cleanup(t)
		s := initDB(t)

		err := s.Record(context.Background(), registry.Mutation{})
		assert.Error(t, err)
	})

	t.Run("PayloadRoundTrip", func(t *testing.T) {
		defer cleanup(t)
		s := initDB(t)
		ctx := context.Background()

		assetID := "01JF0A9Z8G000000000000000A"
		m := createMutation(assetID)
		m.Event.ID = uuid.NewString()
		require.NoError(t, s.Record(ctx, m))

		entries, err := s.GetLedgerEntries(ctx, assetID, 0, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, m.Event.ID, entries[0].EventID)
		assert.Contains(t, string(entries[0].Payload), `"event_type":"created"`)
		assert.Contains(t, string(entries[0].Payload), `"symbol":"FROG"`)
	})
}
