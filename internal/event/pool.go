package event

import (
	"sync"

	"spread_go/internal/domain"
)

// TickerEvent pool: ticker updates are the only high-frequency allocation in
// the dispatch path, so they are recycled to reduce GC pressure.
//
// Usage:
//
//	ev := AcquireTickerEvent()
//	ev.Ticker = t
//	// ... dispatch ...
//	ReleaseTickerEvent(ev) // return to pool after processing
var tickerPool = sync.Pool{
	New: func() interface{} {
		return &TickerEvent{}
	},
}

// AcquireTickerEvent gets a TickerEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireTickerEvent() *TickerEvent {
	return tickerPool.Get().(*TickerEvent)
}

// ReleaseTickerEvent returns a TickerEvent to the pool.
// The event is reset to zero values before being pooled.
func ReleaseTickerEvent(ev *TickerEvent) {
	if ev == nil {
		return
	}
	ev.Ticker = domain.Ticker{}
	tickerPool.Put(ev)
}
