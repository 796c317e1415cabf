package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order side and status constants.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	OrderStatusPending = "PENDING"
	OrderStatusFilled  = "FILLED"
	OrderStatusFailed  = "FAILED"
)

// Order is a transient market-order proposal. It is resolved within the same
// evaluation cycle and superseded by Position / Trade state once filled.
type Order struct {
	ID          string          `json:"id"`
	Contract    string          `json:"contract"`
	Side        string          `json:"side"`
	Size        decimal.Decimal `json:"size"`
	Close       bool            `json:"close"` // closing (reduce-only) order
	Status      string          `json:"status"`
	FillPrice   decimal.Decimal `json:"fill_price"`
	RequestedAt time.Time       `json:"requested_at"`
}

// IsFilled reports whether the order resolved with a fill.
func (o *Order) IsFilled() bool {
	return o.Status == OrderStatusFilled
}
