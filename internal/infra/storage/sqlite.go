package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"spread_go/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultDBPath = "data/trader.db"

// Storage persists closed round trips in SQLite (pure Go driver).
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance. An empty path selects
// the default location under the working directory.
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		path = defaultDBPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.TradeRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// SaveTrade appends one closed round trip. Records are never updated.
func (s *Storage) SaveTrade(rec *domain.TradeRecord) error {
	return s.db.Create(rec).Error
}

// TradesForDay returns all trades closed on the given UTC day (YYYY-MM-DD).
func (s *Storage) TradesForDay(day string) ([]domain.TradeRecord, error) {
	var recs []domain.TradeRecord
	err := s.db.Where("day = ?", day).Order("closed_at asc").Find(&recs).Error
	return recs, err
}

// AllTrades returns the full ledger history, oldest first.
func (s *Storage) AllTrades() ([]domain.TradeRecord, error) {
	var recs []domain.TradeRecord
	err := s.db.Order("closed_at asc").Find(&recs).Error
	return recs, err
}

// DailyPnl sums the realized P&L persisted for the given UTC day. Used to
// re-seed session counters after a restart within the same day.
func (s *Storage) DailyPnl(day string) (decimal.Decimal, error) {
	recs, err := s.TradesForDay(day)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, rec := range recs {
		pnl, err := decimal.NewFromString(rec.Pnl)
		if err != nil {
			return decimal.Zero, fmt.Errorf("corrupt pnl in record %d: %w", rec.ID, err)
		}
		total = total.Add(pnl)
	}
	return total, nil
}
