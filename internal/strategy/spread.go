package strategy

import (
	"github.com/shopspring/decimal"

	"spread_go/internal/domain"
)

// SpreadStrategy implements the single-direction spread round trip: buy when
// flat, sell the full position once the fractional move from entry reaches
// the threshold (inclusive). All arithmetic is exact decimal; the spread is
// |current-entry|/entry computed on the last price.
type SpreadStrategy struct {
	threshold decimal.Decimal
	amount    decimal.Decimal
}

// NewSpreadStrategy creates a strategy with the configured threshold and
// per-entry amount.
func NewSpreadStrategy(threshold, amount decimal.Decimal) *SpreadStrategy {
	if !threshold.IsPositive() || !amount.IsPositive() {
		panic("SpreadStrategy: threshold and amount must be positive")
	}
	return &SpreadStrategy{threshold: threshold, amount: amount}
}

// Evaluate proposes at most one action per update.
func (s *SpreadStrategy) Evaluate(t domain.Ticker, pos *domain.Position) ([]Action, error) {
	if !t.IsUsable() {
		return nil, nil
	}

	if pos.IsFlat() {
		return []Action{{
			Type:     ActionBuy,
			Contract: t.Contract,
			Price:    t.BuyPrice(),
			Size:     s.amount,
		}}, nil
	}

	spread, ok := pos.Spread(t.Last)
	if !ok {
		// Entry price zero or missing: the spread is undefined. Hold and
		// report the inconsistency instead of dividing by zero.
		return nil, domain.ErrUndefinedSpread
	}

	if spread.GreaterThanOrEqual(s.threshold) {
		return []Action{{
			Type:     ActionSell,
			Contract: t.Contract,
			Price:    t.SellPrice(),
			Size:     pos.Size,
			Close:    true,
		}}, nil
	}
	return nil, nil
}
