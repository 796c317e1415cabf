package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"spread_go/internal/domain"
	"spread_go/internal/infra"
)

const dayLayout = "2006-01-02"

// RiskManager gates every proposed entry against the configured limits and
// the running session counters. Closing sells are never blocked. A daily-loss
// or balance-ratio breach disables entries for the remainder of the session;
// the open position, if any, is left for the strategy to close normally.
type RiskManager struct {
	mu       sync.Mutex
	limits   domain.RiskLimits
	counters domain.SessionCounters
	halted   bool
	now      func() time.Time
	logger   *slog.Logger
}

// NewRiskManager creates a risk manager with fresh counters for today.
func NewRiskManager(limits domain.RiskLimits) *RiskManager {
	r := &RiskManager{
		limits: limits,
		now:    time.Now,
		logger: slog.Default().With("module", "risk"),
	}
	r.counters = domain.SessionCounters{
		Day:          r.now().UTC().Format(dayLayout),
		DailyPnl:     decimal.Zero,
		StartBalance: limits.StartBalance,
	}
	return r
}

// SeedDaily restores counters recovered from the trade store after a restart
// within the same UTC day.
func (r *RiskManager) SeedDaily(tradeCount int, dailyPnl decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters.TradeCount = tradeCount
	r.counters.DailyPnl = dailyPnl
	r.checkBreachLocked()
}

// CanOpen reports whether a buy of the given size may be submitted.
// A nil error means the entry is allowed.
func (r *RiskManager) CanOpen(contract string, size decimal.Decimal, flat bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rolloverLocked()

	if r.halted {
		return fmt.Errorf("%w: session in close-only mode", domain.ErrRiskRejected)
	}
	if !flat {
		return fmt.Errorf("%w: %s", domain.ErrRiskRejected, domain.ErrPositionExists)
	}
	if size.GreaterThan(r.limits.MaxPositionSize) {
		return fmt.Errorf("%w: size %s exceeds max position size %s",
			domain.ErrRiskRejected, size, r.limits.MaxPositionSize)
	}
	if r.counters.TradeCount >= r.limits.MaxTrades {
		return fmt.Errorf("%w: trade count %d reached max %d",
			domain.ErrRiskRejected, r.counters.TradeCount, r.limits.MaxTrades)
	}
	if r.checkBreachLocked() {
		return fmt.Errorf("%w: session in close-only mode", domain.ErrRiskRejected)
	}
	return nil
}

// RecordFill counts an individual filled order when the per-order counting
// policy is configured.
func (r *RiskManager) RecordFill() {
	if r.limits.CountMode != domain.CountPerOrder {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rolloverLocked()
	r.counters.TradeCount++
}

// ApplyTrade folds one closed round trip into the counters, atomically with
// respect to every other counter read. It returns the updated counters.
func (r *RiskManager) ApplyTrade(t domain.Trade) domain.SessionCounters {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rolloverLocked()

	if r.limits.CountMode != domain.CountPerOrder {
		r.counters.TradeCount++
	}
	r.counters.DailyPnl = r.counters.DailyPnl.Add(t.Pnl)
	r.checkBreachLocked()
	return r.counters
}

// Counters returns a copy of the running counters.
func (r *RiskManager) Counters() domain.SessionCounters {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rolloverLocked()
	return r.counters
}

// Halted reports whether entries are disabled for the rest of the session.
func (r *RiskManager) Halted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.halted
}

// checkBreachLocked evaluates the terminal loss and balance conditions.
// Once tripped, the halt survives daily rollover: it is per-session.
func (r *RiskManager) checkBreachLocked() bool {
	if r.halted {
		return true
	}
	if r.counters.DailyPnl.LessThanOrEqual(r.limits.MaxDailyLoss.Neg()) {
		r.haltLocked("daily loss limit breached",
			slog.String("daily_pnl", r.counters.DailyPnl.String()),
			slog.String("max_daily_loss", r.limits.MaxDailyLoss.String()))
		return true
	}
	if r.counters.StartBalance.IsPositive() {
		ratio := r.counters.Balance().Div(r.counters.StartBalance)
		if ratio.LessThan(r.limits.MinBalanceRatio) {
			r.haltLocked("balance ratio below floor",
				slog.String("ratio", ratio.String()),
				slog.String("min_balance_ratio", r.limits.MinBalanceRatio.String()))
			return true
		}
	}
	return false
}

func (r *RiskManager) haltLocked(reason string, attrs ...any) {
	r.halted = true
	infra.GlobalMetrics.SetTradingHalted(true)
	r.logger.Warn("entries disabled for remainder of session: "+reason, attrs...)
}

// rolloverLocked resets the daily counters at the UTC date boundary. The
// boundary is monotonic within a session; the start balance re-bases to the
// current balance so the ratio limit keeps its meaning across days.
func (r *RiskManager) rolloverLocked() {
	day := r.now().UTC().Format(dayLayout)
	if day == r.counters.Day {
		return
	}
	r.logger.Info("daily counter rollover",
		slog.String("from", r.counters.Day), slog.String("to", day),
		slog.String("carried_balance", r.counters.Balance().String()))
	r.counters = domain.SessionCounters{
		Day:          day,
		TradeCount:   0,
		DailyPnl:     decimal.Zero,
		StartBalance: r.counters.Balance(),
	}
}
