package domain

import "github.com/shopspring/decimal"

// Trade-count policy: what one unit of max_trades means.
const (
	CountRoundTrip = "round_trip" // one count per completed round trip
	CountPerOrder  = "per_order"  // every filled order counts
)

// RiskLimits is the immutable per-session risk configuration.
type RiskLimits struct {
	Amount          decimal.Decimal // contracts per entry order
	MaxTrades       int
	SpreadThreshold decimal.Decimal // fractional, e.g. 0.0005 for 0.05%
	MaxPositionSize decimal.Decimal
	MaxDailyLoss    decimal.Decimal // positive number of quote units
	MinBalanceRatio decimal.Decimal // current/start balance floor
	StartBalance    decimal.Decimal
	CountMode       string // CountRoundTrip or CountPerOrder
}

// SessionCounters tracks running totals for the current trading day.
// Mutations happen only under the risk manager's lock, atomically with the
// position transition that caused them.
type SessionCounters struct {
	Day          string // UTC date, YYYY-MM-DD; reset boundary
	TradeCount   int
	DailyPnl     decimal.Decimal
	StartBalance decimal.Decimal
}

// Balance returns the running balance: start balance plus realized daily P&L.
func (c *SessionCounters) Balance() decimal.Decimal {
	return c.StartBalance.Add(c.DailyPnl)
}
