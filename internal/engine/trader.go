package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"spread_go/internal/domain"
	"spread_go/internal/event"
	"spread_go/internal/infra"
	"spread_go/internal/service"
	"spread_go/internal/strategy"
)

// Trader is the decision engine. A single dispatch goroutine owns all cache
// writes; evaluation runs in one goroutine per contract so a blocking fill
// wait stalls only its own contract. The per-contract loop is the critical
// section that keeps at most one open position per contract.
type Trader struct {
	inbox     chan event.Event
	cache     *service.MarketCache
	positions *PositionBook
	risk      *RiskManager
	ledger    *TradeLedger
	strat     strategy.Strategy
	executor  domain.OrderExecutor
	logger    *slog.Logger

	loops map[string]chan struct{} // owned by the dispatch goroutine
	wg    sync.WaitGroup
}

// NewTrader wires the decision engine.
func NewTrader(inboxSize int, cache *service.MarketCache, positions *PositionBook,
	risk *RiskManager, ledger *TradeLedger, strat strategy.Strategy,
	executor domain.OrderExecutor) *Trader {
	return &Trader{
		inbox:     make(chan event.Event, inboxSize),
		cache:     cache,
		positions: positions,
		risk:      risk,
		ledger:    ledger,
		strat:     strat,
		executor:  executor,
		logger:    slog.Default().With("module", "trader"),
		loops:     make(map[string]chan struct{}),
	}
}

// Inbox returns the event channel the stream client feeds.
func (t *Trader) Inbox() chan<- event.Event {
	return t.inbox
}

// Positions exposes the position book for inspection.
func (t *Trader) Positions() *PositionBook {
	return t.positions
}

// Run is the dispatch loop. It must run in a single goroutine: it is the
// sole writer of the market cache. It returns after ctx is cancelled and
// all evaluation loops have drained.
func (t *Trader) Run(ctx context.Context) {
	t.logger.Info("trader dispatch started")
	for {
		select {
		case <-ctx.Done():
			t.logger.Info("trader stopping")
			t.wg.Wait()
			return
		case ev := <-t.inbox:
			t.processEvent(ctx, ev)
		}
	}
}

func (t *Trader) processEvent(ctx context.Context, ev event.Event) {
	switch ev := ev.(type) {
	case *event.TickerEvent:
		t.cache.Update(ev.Ticker)
		infra.GlobalMetrics.RecordTick()
		t.wake(ctx, ev.Ticker.Contract)
		event.ReleaseTickerEvent(ev)
	default:
		t.logger.Warn("unexpected event kind", slog.String("kind", ev.Kind().String()))
	}
}

// wake signals the contract's evaluation loop, starting it on first sight.
// The channel has capacity one: bursts of updates coalesce into a single
// pending evaluation, which reads the latest snapshot from the cache anyway.
func (t *Trader) wake(ctx context.Context, contract string) {
	ch, ok := t.loops[contract]
	if !ok {
		ch = make(chan struct{}, 1)
		t.loops[contract] = ch
		t.wg.Add(1)
		go t.evalLoop(ctx, contract, ch)
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (t *Trader) evalLoop(ctx context.Context, contract string, ch chan struct{}) {
	defer t.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			t.evaluate(ctx, contract)
		}
	}
}

// evaluate runs one decide-propose-execute cycle for a contract. A failed
// submission is not retried within the cycle; the next ticker update
// re-evaluates from scratch.
func (t *Trader) evaluate(ctx context.Context, contract string) {
	ticker, ok := t.cache.Latest(contract)
	if !ok {
		return
	}

	var pos *domain.Position
	if p, open := t.positions.Get(contract); open {
		pos = &p
	}

	actions, err := t.strat.Evaluate(ticker, pos)
	if err != nil {
		// Defensive no-op: hold, log, never crash on inconsistent state.
		t.logger.Warn("evaluation inconsistency, holding",
			slog.String("contract", contract), slog.Any("error", err))
		infra.GlobalMetrics.RecordError()
		return
	}

	for _, action := range actions {
		switch action.Type {
		case strategy.ActionBuy:
			t.tryOpen(ctx, action)
		case strategy.ActionSell:
			t.tryClose(ctx, action)
		}
	}
}

func (t *Trader) tryOpen(ctx context.Context, action strategy.Action) {
	if err := t.risk.CanOpen(action.Contract, action.Size, t.positions.IsFlat(action.Contract)); err != nil {
		if errors.Is(err, domain.ErrRiskRejected) {
			t.logger.Debug("entry blocked", slog.String("contract", action.Contract), slog.Any("reason", err))
			infra.GlobalMetrics.RecordOrderRejected()
		}
		return
	}

	order := domain.Order{
		Contract:    action.Contract,
		Side:        domain.SideBuy,
		Size:        action.Size,
		Status:      domain.OrderStatusPending,
		RequestedAt: time.Now(),
	}
	filled, err := t.executor.Execute(ctx, order)
	if err != nil || !filled.IsFilled() {
		t.logger.Warn("buy order failed, state unchanged",
			slog.String("contract", action.Contract), slog.Any("error", err))
		infra.GlobalMetrics.RecordOrderRejected()
		return
	}

	if err := t.positions.Open(action.Contract, filled.Size, filled.FillPrice, time.Now()); err != nil {
		// Cannot happen while this loop is the only opener for the contract.
		t.logger.Error("position open conflict", slog.String("contract", action.Contract), slog.Any("error", err))
		return
	}
	t.risk.RecordFill()
	t.logger.Info("position opened",
		slog.String("contract", action.Contract),
		slog.String("size", filled.Size.String()),
		slog.String("entry_price", filled.FillPrice.String()))
}

func (t *Trader) tryClose(ctx context.Context, action strategy.Action) {
	pos, open := t.positions.Get(action.Contract)
	if !open {
		return
	}

	order := domain.Order{
		Contract:    action.Contract,
		Side:        domain.SideSell,
		Size:        pos.Size,
		Close:       true,
		Status:      domain.OrderStatusPending,
		RequestedAt: time.Now(),
	}
	filled, err := t.executor.Execute(ctx, order)
	if err != nil || !filled.IsFilled() {
		t.logger.Warn("sell order failed, position kept",
			slog.String("contract", action.Contract), slog.Any("error", err))
		infra.GlobalMetrics.RecordOrderRejected()
		return
	}

	closed, err := t.positions.Close(action.Contract)
	if err != nil {
		t.logger.Error("position close conflict", slog.String("contract", action.Contract), slog.Any("error", err))
		return
	}
	t.risk.RecordFill()

	counters := t.ledger.Record(domain.NewTrade(closed, filled.FillPrice, time.Now()))
	if counters.TradeCount >= t.risk.limits.MaxTrades {
		t.logger.Info("max trades reached, entries exhausted",
			slog.Int("trade_count", counters.TradeCount))
	}
}
