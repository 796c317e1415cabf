package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position side. The strategy is long-only: a contract is either flat or long.
const (
	SideFlat = "FLAT"
	SideLong = "LONG"
)

// Position is the current open position for a contract. At most one non-flat
// position per contract exists at any time.
type Position struct {
	Contract   string          `json:"contract"`
	Side       string          `json:"side"`
	Size       decimal.Decimal `json:"size"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	OpenedAt   time.Time       `json:"opened_at"`
}

// IsFlat reports whether there is no open exposure.
func (p *Position) IsFlat() bool {
	return p == nil || p.Side == SideFlat || !p.Size.IsPositive()
}

// Spread returns the fractional price move |current-entry|/entry.
// ok is false when the entry price is zero or negative, in which case the
// spread is undefined and the caller must hold.
func (p *Position) Spread(current decimal.Decimal) (decimal.Decimal, bool) {
	if p == nil || !p.EntryPrice.IsPositive() {
		return decimal.Zero, false
	}
	return current.Sub(p.EntryPrice).Abs().Div(p.EntryPrice), true
}
