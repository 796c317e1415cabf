package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one completed round trip (buy then closing sell). Records are
// immutable once appended to the ledger.
type Trade struct {
	Contract   string          `json:"contract"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	ExitPrice  decimal.Decimal `json:"exit_price"`
	Size       decimal.Decimal `json:"size"`
	Pnl        decimal.Decimal `json:"pnl"`
	OpenedAt   time.Time       `json:"opened_at"`
	ClosedAt   time.Time       `json:"closed_at"`
}

// NewTrade builds a round-trip record from a closed position and its exit
// price. Pnl is (exit - entry) * size for the long-only strategy.
func NewTrade(p Position, exitPrice decimal.Decimal, closedAt time.Time) Trade {
	return Trade{
		Contract:   p.Contract,
		EntryPrice: p.EntryPrice,
		ExitPrice:  exitPrice,
		Size:       p.Size,
		Pnl:        exitPrice.Sub(p.EntryPrice).Mul(p.Size),
		OpenedAt:   p.OpenedAt,
		ClosedAt:   closedAt,
	}
}

// IsWin reports whether the round trip closed in profit.
func (t *Trade) IsWin() bool {
	return t.Pnl.IsPositive()
}
