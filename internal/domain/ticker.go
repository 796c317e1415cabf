package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticker represents the latest market snapshot for a futures contract.
// It is replaced wholesale on every stream update; no history is kept.
type Ticker struct {
	Contract    string          `json:"contract"`
	Last        decimal.Decimal `json:"last"`
	Bid         decimal.Decimal `json:"bid"`
	Ask         decimal.Decimal `json:"ask"`
	MarkPrice   decimal.Decimal `json:"mark_price"`
	IndexPrice  decimal.Decimal `json:"index_price"`
	FundingRate decimal.Decimal `json:"funding_rate"`
	High24h     decimal.Decimal `json:"high_24h"`
	Low24h      decimal.Decimal `json:"low_24h"`
	Volume24h   decimal.Decimal `json:"volume_24h"`
	ChangePct   decimal.Decimal `json:"change_percentage"`
	EventTime   time.Time       `json:"event_time"`
}

var (
	askApprox = decimal.RequireFromString("1.0001")
	bidApprox = decimal.RequireFromString("0.9999")
)

// IsUsable reports whether the snapshot carries a positive last price.
func (t *Ticker) IsUsable() bool {
	return t.Contract != "" && t.Last.IsPositive()
}

// BuyPrice returns the price a market buy is expected to cross: the ask,
// or an approximation off the last price when the venue omits book prices.
func (t *Ticker) BuyPrice() decimal.Decimal {
	if t.Ask.IsPositive() {
		return t.Ask
	}
	return t.Last.Mul(askApprox)
}

// SellPrice returns the price a market sell is expected to cross: the bid,
// or an approximation off the last price when the venue omits book prices.
func (t *Ticker) SellPrice() decimal.Decimal {
	if t.Bid.IsPositive() {
		return t.Bid
	}
	return t.Last.Mul(bidApprox)
}
