package execution

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"spread_go/internal/domain"
	"spread_go/internal/service"
)

// PaperExecutor fills orders against the latest cached price instead of the
// venue. Used for dry runs and by the engine tests. Slippage is applied
// against the trader: buys fill above the reference price, sells below.
type PaperExecutor struct {
	mu       sync.Mutex
	cache    *service.MarketCache
	slippage decimal.Decimal
	failErr  error
	orders   []domain.Order
}

// NewPaperExecutor creates a paper executor that prices fills off cache.
func NewPaperExecutor(cache *service.MarketCache) *PaperExecutor {
	return &PaperExecutor{cache: cache, slippage: decimal.Zero}
}

// SetSlippage sets the fractional slippage applied to every fill.
func (e *PaperExecutor) SetSlippage(s decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.slippage = s
}

// FailNext makes the next Execute call fail once with err.
func (e *PaperExecutor) FailNext(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failErr = err
}

// Execute fills the order at the cached last price plus slippage.
func (e *PaperExecutor) Execute(_ context.Context, order domain.Order) (domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.failErr != nil {
		err := e.failErr
		e.failErr = nil
		order.Status = domain.OrderStatusFailed
		e.orders = append(e.orders, order)
		return order, err
	}

	t, ok := e.cache.Latest(order.Contract)
	if !ok || !t.Last.IsPositive() {
		order.Status = domain.OrderStatusFailed
		e.orders = append(e.orders, order)
		return order, fmt.Errorf("%w: %s", domain.ErrNoMarketData, order.Contract)
	}

	one := decimal.NewFromInt(1)
	switch order.Side {
	case domain.SideBuy:
		order.FillPrice = t.Last.Mul(one.Add(e.slippage))
	case domain.SideSell:
		order.FillPrice = t.Last.Mul(one.Sub(e.slippage))
	default:
		order.Status = domain.OrderStatusFailed
		return order, fmt.Errorf("%w: unknown side %q", domain.ErrOrderRejected, order.Side)
	}
	order.Status = domain.OrderStatusFilled
	e.orders = append(e.orders, order)
	return order, nil
}

// Orders returns the submission history, in order.
func (e *PaperExecutor) Orders() []domain.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Order, len(e.orders))
	copy(out, e.orders)
	return out
}
