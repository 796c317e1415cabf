package strategy_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spread_go/internal/domain"
	"spread_go/internal/strategy"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ticker(last string) domain.Ticker {
	return domain.Ticker{Contract: "BTC_USDT", Last: d(last), EventTime: time.Now()}
}

func long(entry, size string) *domain.Position {
	return &domain.Position{
		Contract:   "BTC_USDT",
		Side:       domain.SideLong,
		Size:       d(size),
		EntryPrice: d(entry),
		OpenedAt:   time.Now(),
	}
}

func TestSpread_BuyOnlyWhenFlat(t *testing.T) {
	strat := strategy.NewSpreadStrategy(d("0.0005"), d("1"))

	actions, err := strat.Evaluate(ticker("95000.50"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || actions[0].Type != strategy.ActionBuy {
		t.Fatalf("expected a single BUY when flat, got %v", actions)
	}
	if !actions[0].Size.Equal(d("1")) {
		t.Errorf("buy size = %s, want configured amount 1", actions[0].Size)
	}

	// With an open position there is never a second buy proposal.
	actions, err = strat.Evaluate(ticker("95000.50"), long("95000.50", "1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range actions {
		if a.Type == strategy.ActionBuy {
			t.Error("buy proposed while holding a position")
		}
	}
}

func TestSpread_HoldBelowThreshold(t *testing.T) {
	// spread(95000.50 -> 95040.00) = 39.50/95000.50 ≈ 0.0416% < 0.05%
	strat := strategy.NewSpreadStrategy(d("0.0005"), d("1"))

	actions, err := strat.Evaluate(ticker("95040.00"), long("95000.50", "1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 0 {
		t.Errorf("expected hold below threshold, got %v", actions)
	}
}

func TestSpread_SellAtThresholdInclusive(t *testing.T) {
	// spread(100 -> 105) = 0.05 exactly: the boundary is inclusive.
	strat := strategy.NewSpreadStrategy(d("0.05"), d("1"))

	actions, err := strat.Evaluate(ticker("105"), long("100", "2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || actions[0].Type != strategy.ActionSell {
		t.Fatalf("expected SELL at exact threshold, got %v", actions)
	}
	if !actions[0].Size.Equal(d("2")) {
		t.Errorf("sell size = %s, want full position size 2", actions[0].Size)
	}
	if !actions[0].Close {
		t.Error("sell proposal must be a closing order")
	}
}

func TestSpread_SellOnDownMoveToo(t *testing.T) {
	// The spread is an absolute move: a drop past the threshold also closes.
	strat := strategy.NewSpreadStrategy(d("0.0005"), d("1"))

	actions, err := strat.Evaluate(ticker("94900.00"), long("95000.50", "1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || actions[0].Type != strategy.ActionSell {
		t.Fatalf("expected SELL on down move past threshold, got %v", actions)
	}
}

func TestSpread_Value(t *testing.T) {
	// spread(entry=95000.50, current=95100.00) ≈ 0.105%
	pos := long("95000.50", "1")
	spread, ok := pos.Spread(d("95100.00"))
	if !ok {
		t.Fatal("spread must be defined for positive entry")
	}
	if spread.Round(8).String() != "0.00104736" {
		t.Errorf("spread = %s, want ≈0.00104736", spread)
	}

	// Monotonically increasing in |current-entry|.
	prev := decimal.Zero
	for _, cur := range []string{"95010", "95050", "95100", "95500"} {
		s, _ := pos.Spread(d(cur))
		if !s.GreaterThan(prev) {
			t.Errorf("spread not monotonic at current=%s: %s <= %s", cur, s, prev)
		}
		prev = s
	}
}

func TestSpread_UndefinedEntryHolds(t *testing.T) {
	strat := strategy.NewSpreadStrategy(d("0.0005"), d("1"))

	pos := long("100", "1")
	pos.EntryPrice = decimal.Zero

	actions, err := strat.Evaluate(ticker("95100.00"), pos)
	if !errors.Is(err, domain.ErrUndefinedSpread) {
		t.Fatalf("expected ErrUndefinedSpread, got %v", err)
	}
	if len(actions) != 0 {
		t.Errorf("undefined spread must propose nothing, got %v", actions)
	}
}

func TestSpread_UnusableTickerHolds(t *testing.T) {
	strat := strategy.NewSpreadStrategy(d("0.0005"), d("1"))

	actions, err := strat.Evaluate(domain.Ticker{Contract: "BTC_USDT"}, nil)
	if err != nil || len(actions) != 0 {
		t.Errorf("unusable ticker must hold: actions=%v err=%v", actions, err)
	}
}
