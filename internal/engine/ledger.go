package engine

import (
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"spread_go/internal/domain"
	"spread_go/internal/infra"
)

// TradeLedger records closed round trips. The in-memory log is append-only;
// each record is also persisted through the trade store when one is wired.
// Counter updates go through the risk manager so that trade_count/daily_pnl
// stay atomic with the position transition that produced the trade.
type TradeLedger struct {
	mu     sync.Mutex
	trades []domain.Trade
	risk   *RiskManager
	store  domain.TradeStore // optional
	logger *slog.Logger
}

// NewTradeLedger creates a ledger. store may be nil (in-memory only).
func NewTradeLedger(risk *RiskManager, store domain.TradeStore) *TradeLedger {
	return &TradeLedger{
		risk:   risk,
		store:  store,
		logger: slog.Default().With("module", "ledger"),
	}
}

// Record appends one closed round trip, folds it into the session counters
// and persists it. Persistence failures are logged, not propagated: the
// trade already happened and the in-memory state is authoritative.
func (l *TradeLedger) Record(t domain.Trade) domain.SessionCounters {
	l.mu.Lock()
	l.trades = append(l.trades, t)
	l.mu.Unlock()

	counters := l.risk.ApplyTrade(t)

	if l.store != nil {
		if err := l.store.SaveTrade(t.ToRecord()); err != nil {
			l.logger.Error("failed to persist trade", slog.Any("error", err),
				slog.String("contract", t.Contract))
			infra.GlobalMetrics.RecordError()
		}
	}

	l.logger.Info("round trip recorded",
		slog.String("contract", t.Contract),
		slog.String("entry", t.EntryPrice.String()),
		slog.String("exit", t.ExitPrice.String()),
		slog.String("pnl", t.Pnl.String()),
		slog.Int("trade_count", counters.TradeCount),
		slog.String("daily_pnl", counters.DailyPnl.String()))
	return counters
}

// Trades returns a copy of the recorded round trips.
func (l *TradeLedger) Trades() []domain.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Count returns the number of recorded round trips.
func (l *TradeLedger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.trades)
}

// Summary aggregates the session's results.
type Summary struct {
	Total    int
	Wins     int
	Losses   int
	TotalPnl decimal.Decimal
}

// Summarize computes the session summary.
func (l *TradeLedger) Summarize() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := Summary{Total: len(l.trades), TotalPnl: decimal.Zero}
	for _, t := range l.trades {
		if t.IsWin() {
			s.Wins++
		} else {
			s.Losses++
		}
		s.TotalPnl = s.TotalPnl.Add(t.Pnl)
	}
	return s
}

// LogSummary writes the end-of-session report: totals, win rate and the
// per-trade detail.
func (l *TradeLedger) LogSummary() {
	s := l.Summarize()
	attrs := []any{
		slog.Int("trades", s.Total),
		slog.Int("wins", s.Wins),
		slog.Int("losses", s.Losses),
		slog.String("total_pnl", s.TotalPnl.String()),
	}
	if s.Total > 0 {
		winRate := decimal.NewFromInt(int64(s.Wins)).
			Div(decimal.NewFromInt(int64(s.Total))).
			Mul(decimal.NewFromInt(100))
		attrs = append(attrs,
			slog.String("win_rate_pct", winRate.StringFixed(2)),
			slog.String("avg_pnl", s.TotalPnl.Div(decimal.NewFromInt(int64(s.Total))).StringFixed(4)))
	}
	l.logger.Info("session summary", attrs...)

	for i, t := range l.Trades() {
		l.logger.Info("trade detail",
			slog.Int("n", i+1),
			slog.String("contract", t.Contract),
			slog.String("entry", t.EntryPrice.String()),
			slog.String("exit", t.ExitPrice.String()),
			slog.String("size", t.Size.String()),
			slog.String("pnl", t.Pnl.String()))
	}
}
