package app

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"spread_go/internal/domain"
	"spread_go/internal/infra"
	"spread_go/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config *infra.Config
	Limits domain.RiskLimits
	Store  *storage.Storage
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads secrets, config, logger and storage.
func (b *Bootstrap) Initialize(configPath string) error {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	limits, err := cfg.Limits()
	if err != nil {
		return err
	}
	b.Limits = limits

	if cfg.Storage.Enabled {
		store, err := storage.NewStorage(cfg.Storage.Path)
		if err != nil {
			return err
		}
		b.Store = store
		slog.Info("trade store initialized")
	}

	slog.Info("bootstrap complete",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.Int("contracts", len(cfg.Trading.Contracts)),
		slog.Bool("authenticated", cfg.HasCredentials()))
	return nil
}

// RecoverDaily reads today's persisted trades so a restart within the same
// UTC day resumes with accurate counters. Returns zeroes without a store.
func (b *Bootstrap) RecoverDaily() (int, decimal.Decimal, error) {
	if b.Store == nil {
		return 0, decimal.Zero, nil
	}
	day := time.Now().UTC().Format("2006-01-02")
	recs, err := b.Store.TradesForDay(day)
	if err != nil {
		return 0, decimal.Zero, err
	}
	pnl, err := b.Store.DailyPnl(day)
	if err != nil {
		return 0, decimal.Zero, err
	}
	return len(recs), pnl, nil
}
