package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/fairlaunch/curve-registry/internal/domain"
	"github.com/fairlaunch/curve-registry/internal/registry"
	"github.com/fairlaunch/curve-registry/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	// Set defaults if not provided
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// Record persists one committed registry mutation in a single transaction.
// The ledger entry's event_id unique constraint makes replays a no-op: when
// the entry already exists the projection was already applied and the
// transaction commits without further writes.
func (s *pgStore) Record(ctx context.Context, m registry.Mutation) error {
	if m.Event == nil {
		return errors.New("mutation carries no event")
	}

	payload, err := json.Marshal(m.Event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Journal the event with ON CONFLICT DO NOTHING on event_id
		entry := schema.LedgerEntry{
			EventID:   m.Event.ID,
			EventType: string(m.Event.EventType),
			AssetID:   m.Event.AssetID,
			Payload:   payload,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).Clauses(clause.Returning{Columns: []clause.Column{}}).
			Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to journal ledger entry: %w", err)
		}

		// If entry.ID is 0 the event was already journaled, so this is a replay
		if entry.ID == 0 {
			return nil
		}

		if m.Sale != nil {
			assetID, err := s.applySale(tx, &m)
			if err != nil {
				return err
			}

			// 3. Upsert the touched holder balances
			for holder, quantity := range m.Balances {
				balance := schema.Balance{
					AssetID:       assetID,
					HolderAddress: holder.String(),
					Quantity:      quantity.String(),
				}
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "asset_id"}, {Name: "holder_address"}},
					DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
				}).Create(&balance).Error; err != nil {
					return fmt.Errorf("failed to upsert balance: %w", err)
				}
			}
		}

		// 4. Upsert the single treasury snapshot row
		treasury := schema.Treasury{
			ID:          1,
			Balance:     m.Treasury.Balance.String(),
			Fees:        m.Treasury.Fees.String(),
			Withdrawn:   m.Treasury.Withdrawn.String(),
			SettledPaid: m.Treasury.SettledPaid.String(),
			UpdatedAt:   time.Now().UTC(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"balance", "fees", "withdrawn", "settled_paid", "updated_at"}),
		}).Create(&treasury).Error; err != nil {
			return fmt.Errorf("failed to upsert treasury: %w", err)
		}

		return nil
	})
}

// applySale creates or updates the asset and sale rows for a mutation and
// returns the asset's internal ID
func (s *pgStore) applySale(tx *gorm.DB, m *registry.Mutation) (int64, error) {
	asset := schema.Asset{
		AssetID:   m.Sale.AssetID,
		Name:      m.Sale.Name,
		Symbol:    m.Sale.Symbol,
		CreatedAt: m.Sale.CreatedAt,
	}
	if m.TotalSupply != nil {
		asset.TotalSupply = m.TotalSupply.String()
	}

	if m.TotalSupply != nil {
		// 2a. Creation: insert the asset, tolerating replays of the same ULID
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "asset_id"}},
			DoNothing: true,
		}).Clauses(clause.Returning{Columns: []clause.Column{}}).
			Create(&asset).Error; err != nil {
			return 0, fmt.Errorf("failed to create asset: %w", err)
		}
		if asset.ID == 0 {
			if err := tx.Where("asset_id = ?", m.Sale.AssetID).First(&asset).Error; err != nil {
				return 0, fmt.Errorf("failed to fetch existing asset: %w", err)
			}
		}
	} else {
		// 2b. Purchase or settlement: the asset row must already exist
		if err := tx.Where("asset_id = ?", m.Sale.AssetID).First(&asset).Error; err != nil {
			return 0, fmt.Errorf("failed to find asset %s: %w", m.Sale.AssetID, err)
		}
	}

	sale := schema.Sale{
		AssetID:        asset.ID,
		CreatorAddress: m.Sale.Creator.String(),
		Sold:           m.Sale.Sold.String(),
		Raised:         m.Sale.Raised.String(),
		Open:           m.Sale.Open,
		Settled:        m.Sale.Settled,
		CreatedAt:      m.Sale.CreatedAt,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"sold", "raised", "open", "settled", "updated_at"}),
	}).Create(&sale).Error; err != nil {
		return 0, fmt.Errorf("failed to upsert sale: %w", err)
	}

	return asset.ID, nil
}

// LoadAssets retrieves every asset with its sale and balances in creation
// order. Reads route to the primary when a resolver is configured so a fresh
// restart never rebuilds from a lagging replica.
func (s *pgStore) LoadAssets(ctx context.Context) ([]AssetSnapshot, error) {
	query := s.db.WithContext(ctx)
	if hasDBResolver(s.db) {
		query = query.Clauses(dbresolver.Write)
	}

	var assets []*schema.Asset
	err := query.
		Preload("Balances").
		Preload("Sale").
		Order("id ASC").
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	snapshots := make([]AssetSnapshot, 0, len(assets))
	for _, a := range assets {
		if a.Sale == nil {
			return nil, fmt.Errorf("asset %s has no sale record", a.AssetID)
		}

		totalSupply, err := uint256.FromDecimal(a.TotalSupply)
		if err != nil {
			return nil, fmt.Errorf("invalid total supply for asset %s: %w", a.AssetID, err)
		}
		sold, err := uint256.FromDecimal(a.Sale.Sold)
		if err != nil {
			return nil, fmt.Errorf("invalid sold amount for asset %s: %w", a.AssetID, err)
		}
		raised, err := uint256.FromDecimal(a.Sale.Raised)
		if err != nil {
			return nil, fmt.Errorf("invalid raised amount for asset %s: %w", a.AssetID, err)
		}

		balances := make(map[domain.Address]*uint256.Int, len(a.Balances))
		for _, b := range a.Balances {
			quantity, err := uint256.FromDecimal(b.Quantity)
			if err != nil {
				return nil, fmt.Errorf("invalid balance for asset %s holder %s: %w", a.AssetID, b.HolderAddress, err)
			}
			balances[domain.Address(b.HolderAddress)] = quantity
		}

		snapshots = append(snapshots, AssetSnapshot{
			Record: registry.SaleRecord{
				AssetID:   a.AssetID,
				Name:      a.Name,
				Symbol:    a.Symbol,
				Creator:   domain.Address(a.Sale.CreatorAddress),
				Sold:      sold,
				Raised:    raised,
				Open:      a.Sale.Open,
				Settled:   a.Sale.Settled,
				CreatedAt: a.CreatedAt,
			},
			TotalSupply: totalSupply,
			Balances:    balances,
		})
	}

	return snapshots, nil
}

// LoadTreasury retrieves the treasury snapshot, nil when nothing has been recorded
func (s *pgStore) LoadTreasury(ctx context.Context) (*registry.Treasury, error) {
	query := s.db.WithContext(ctx)
	if hasDBResolver(s.db) {
		query = query.Clauses(dbresolver.Write)
	}

	var row schema.Treasury
	err := query.Where("id = ?", 1).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load treasury: %w", err)
	}

	balance, err := uint256.FromDecimal(row.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid treasury balance: %w", err)
	}
	fees, err := uint256.FromDecimal(row.Fees)
	if err != nil {
		return nil, fmt.Errorf("invalid treasury fees: %w", err)
	}
	withdrawn, err := uint256.FromDecimal(row.Withdrawn)
	if err != nil {
		return nil, fmt.Errorf("invalid treasury withdrawn: %w", err)
	}
	settledPaid, err := uint256.FromDecimal(row.SettledPaid)
	if err != nil {
		return nil, fmt.Errorf("invalid treasury settled paid: %w", err)
	}

	return &registry.Treasury{
		Balance:     balance,
		Fees:        fees,
		Withdrawn:   withdrawn,
		SettledPaid: settledPaid,
	}, nil
}

// GetLedgerEntries retrieves journaled operations, newest first, optionally
// filtered by asset. Limit is clamped to [1, 100] with a default of 50.
func (s *pgStore) GetLedgerEntries(ctx context.Context, assetID string, limit, offset int) ([]*schema.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Offset(offset)
	if assetID != "" {
		query = query.Where("asset_id = ?", assetID)
	}

	var entries []*schema.LedgerEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}

	return entries, nil
}
