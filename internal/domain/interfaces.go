package domain

import "context"

// ExchangeWorker defines the interface for the exchange WebSocket connector
type ExchangeWorker interface {
	Connect(ctx context.Context) error
	Disconnect()
	IsConnected() bool
}

// OrderExecutor submits market orders to the venue and reports the fill.
// On error the returned order carries OrderStatusFailed and local position
// state must be left untouched by the caller.
type OrderExecutor interface {
	Execute(ctx context.Context, order Order) (Order, error)
}

// TradeStore persists closed round trips (for post-session inspection and
// daily P&L recovery across restarts).
type TradeStore interface {
	SaveTrade(rec *TradeRecord) error
	TradesForDay(day string) ([]TradeRecord, error)
}
