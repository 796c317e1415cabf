package engine

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"spread_go/internal/domain"
)

// PositionBook tracks the open position per contract. It enforces the
// single-direction rule: at most one non-flat (long) position per contract.
type PositionBook struct {
	mu        sync.RWMutex
	positions map[string]domain.Position
}

// NewPositionBook creates an empty book.
func NewPositionBook() *PositionBook {
	return &PositionBook{
		positions: make(map[string]domain.Position),
	}
}

// Open records a new long position after a filled buy. It fails when the
// contract already has an open position.
func (b *PositionBook) Open(contract string, size, entryPrice decimal.Decimal, at time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.positions[contract]; ok && !p.IsFlat() {
		return domain.ErrPositionExists
	}
	b.positions[contract] = domain.Position{
		Contract:   contract,
		Side:       domain.SideLong,
		Size:       size,
		EntryPrice: entryPrice,
		OpenedAt:   at,
	}
	return nil
}

// Close removes the open position after a filled sell and returns it.
func (b *PositionBook) Close(contract string) (domain.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.positions[contract]
	if !ok || p.IsFlat() {
		return domain.Position{}, domain.ErrNoPosition
	}
	delete(b.positions, contract)
	return p, nil
}

// Get returns the open position for a contract, if any.
func (b *PositionBook) Get(contract string) (domain.Position, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.positions[contract]
	if !ok || p.IsFlat() {
		return domain.Position{}, false
	}
	return p, true
}

// IsFlat reports whether a contract carries no exposure.
func (b *PositionBook) IsFlat(contract string) bool {
	_, open := b.Get(contract)
	return !open
}

// Snapshot returns a copy of all open positions (for inspection at shutdown).
func (b *PositionBook) Snapshot() map[string]domain.Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]domain.Position, len(b.positions))
	for k, v := range b.positions {
		out[k] = v
	}
	return out
}
