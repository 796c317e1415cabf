package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	ticksProcessed atomic.Uint64
	ordersFilled   atomic.Uint64
	ordersRejected atomic.Uint64
	reconnects     atomic.Uint64
	errorsTotal    atomic.Uint64

	// Gauges
	activeConnections atomic.Int32
	tradingHalted     atomic.Int32 // 1 = entries disabled, 0 = normal
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordTick records one processed ticker update.
func (m *Metrics) RecordTick() {
	m.ticksProcessed.Add(1)
}

// RecordOrderFilled records a filled order.
func (m *Metrics) RecordOrderFilled() {
	m.ordersFilled.Add(1)
}

// RecordOrderRejected records an order denied by risk or by the venue.
func (m *Metrics) RecordOrderRejected() {
	m.ordersRejected.Add(1)
}

// RecordReconnect records a transport reconnect.
func (m *Metrics) RecordReconnect() {
	m.reconnects.Add(1)
}

// RecordError records an error occurrence.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// IncrementConnections increments active connections by 1.
func (m *Metrics) IncrementConnections() {
	m.activeConnections.Add(1)
}

// DecrementConnections decrements active connections by 1.
func (m *Metrics) DecrementConnections() {
	m.activeConnections.Add(-1)
}

// SetTradingHalted sets the close-only gauge (true = entries disabled).
func (m *Metrics) SetTradingHalted(halted bool) {
	if halted {
		m.tradingHalted.Store(1)
	} else {
		m.tradingHalted.Store(0)
	}
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	TicksProcessed    uint64
	OrdersFilled      uint64
	OrdersRejected    uint64
	Reconnects        uint64
	ErrorsTotal       uint64
	ActiveConnections int32
	TradingHalted     bool
	Timestamp         time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		TicksProcessed:    m.ticksProcessed.Load(),
		OrdersFilled:      m.ordersFilled.Load(),
		OrdersRejected:    m.ordersRejected.Load(),
		Reconnects:        m.reconnects.Load(),
		ErrorsTotal:       m.errorsTotal.Load(),
		ActiveConnections: m.activeConnections.Load(),
		TradingHalted:     m.tradingHalted.Load() == 1,
		Timestamp:         time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.ticksProcessed.Store(0)
	m.ordersFilled.Store(0)
	m.ordersRejected.Store(0)
	m.reconnects.Store(0)
	m.errorsTotal.Store(0)
	m.activeConnections.Store(0)
	m.tradingHalted.Store(0)
}
