package strategy

import (
	"github.com/shopspring/decimal"

	"spread_go/internal/domain"
)

// ActionType defines the type of trading action
type ActionType int

const (
	ActionBuy ActionType = iota + 1
	ActionSell
)

// String returns the string representation of ActionType
func (a ActionType) String() string {
	switch a {
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Action represents a decision made by the strategy. Price is the reference
// price the proposal was made at; the actual fill may differ (slippage).
type Action struct {
	Type     ActionType
	Contract string
	Price    decimal.Decimal
	Size     decimal.Decimal
	Close    bool // closing (reduce-only) order
}

// Strategy is the pure decision function invoked on every ticker arrival.
// pos is nil when the contract is flat. Implementations hold no references
// to shared state and never block.
type Strategy interface {
	// Evaluate returns the actions to propose for this update. A non-nil
	// error reports a data inconsistency (e.g. an undefined spread); the
	// caller logs it and holds.
	Evaluate(t domain.Ticker, pos *domain.Position) ([]Action, error)
}
