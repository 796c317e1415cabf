package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"spread_go/internal/app"
	"spread_go/internal/domain"
	"spread_go/internal/engine"
	"spread_go/internal/execution"
	"spread_go/internal/infra/gateio"
	"spread_go/internal/service"
	"spread_go/internal/strategy"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "configuration file path")
	paper := flag.Bool("paper", false, "fill orders against cached prices instead of the venue")
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg, limits := bootstrap.Config, bootstrap.Limits

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Core state: survives reconnects, inspected after shutdown.
	cache := service.NewMarketCache()
	positions := engine.NewPositionBook()
	risk := engine.NewRiskManager(limits)

	if count, pnl, err := bootstrap.RecoverDaily(); err != nil {
		slog.Warn("daily counter recovery failed, starting fresh", slog.Any("error", err))
	} else if count > 0 {
		risk.SeedDaily(count, pnl)
		slog.Info("recovered daily counters",
			slog.Int("trade_count", count), slog.String("daily_pnl", pnl.String()))
	}

	var store domain.TradeStore
	if bootstrap.Store != nil {
		store = bootstrap.Store
	}
	ledger := engine.NewTradeLedger(risk, store)

	var executor domain.OrderExecutor
	if *paper || !cfg.HasCredentials() {
		slog.Info("paper execution mode: orders fill at cached prices")
		executor = execution.NewPaperExecutor(cache)
	} else {
		executor = gateio.NewRestClient(cfg)
	}

	strat := strategy.NewSpreadStrategy(limits.SpreadThreshold, limits.Amount)
	trader := engine.NewTrader(1024, cache, positions, risk, ledger, strat, executor)
	go trader.Run(ctx)

	wsClient := gateio.NewWSClient(cfg, trader.Inbox())
	if err := wsClient.Connect(ctx); err != nil {
		slog.Error("failed to start stream client", slog.Any("error", err))
		os.Exit(1)
	}
	defer wsClient.Disconnect()

	slog.Info("spread trader operational, press Ctrl+C to exit")
	<-ctx.Done()

	slog.Info("shutting down gracefully")
	// No forced liquidation: open positions are reported, not closed.
	for contract, pos := range positions.Snapshot() {
		slog.Warn("position left open at shutdown",
			slog.String("contract", contract),
			slog.String("size", pos.Size.String()),
			slog.String("entry_price", pos.EntryPrice.String()))
	}
	ledger.LogSummary()
}
