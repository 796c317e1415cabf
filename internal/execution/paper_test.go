package execution_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spread_go/internal/domain"
	"spread_go/internal/execution"
	"spread_go/internal/service"
)

func seededCache(last string) *service.MarketCache {
	cache := service.NewMarketCache()
	cache.Update(domain.Ticker{
		Contract:  "BTC_USDT",
		Last:      decimal.RequireFromString(last),
		EventTime: time.Now(),
	})
	return cache
}

func TestPaper_FillsAtLastPrice(t *testing.T) {
	e := execution.NewPaperExecutor(seededCache("95000.50"))

	order := domain.Order{Contract: "BTC_USDT", Side: domain.SideBuy, Size: decimal.NewFromInt(1)}
	filled, err := e.Execute(context.Background(), order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filled.IsFilled() {
		t.Fatalf("status = %s, want filled", filled.Status)
	}
	if !filled.FillPrice.Equal(decimal.RequireFromString("95000.50")) {
		t.Errorf("fill price = %s, want 95000.50", filled.FillPrice)
	}
}

func TestPaper_SlippageWorksAgainstTrader(t *testing.T) {
	e := execution.NewPaperExecutor(seededCache("100"))
	e.SetSlippage(decimal.RequireFromString("0.001"))

	buy, _ := e.Execute(context.Background(), domain.Order{
		Contract: "BTC_USDT", Side: domain.SideBuy, Size: decimal.NewFromInt(1),
	})
	if !buy.FillPrice.Equal(decimal.RequireFromString("100.1")) {
		t.Errorf("buy fill = %s, want 100.1", buy.FillPrice)
	}

	sell, _ := e.Execute(context.Background(), domain.Order{
		Contract: "BTC_USDT", Side: domain.SideSell, Size: decimal.NewFromInt(1),
	})
	if !sell.FillPrice.Equal(decimal.RequireFromString("99.9")) {
		t.Errorf("sell fill = %s, want 99.9", sell.FillPrice)
	}
}

func TestPaper_NoMarketData(t *testing.T) {
	e := execution.NewPaperExecutor(service.NewMarketCache())

	_, err := e.Execute(context.Background(), domain.Order{
		Contract: "BTC_USDT", Side: domain.SideBuy, Size: decimal.NewFromInt(1),
	})
	if !errors.Is(err, domain.ErrNoMarketData) {
		t.Errorf("expected ErrNoMarketData, got %v", err)
	}
}

func TestPaper_FailNextIsOneShot(t *testing.T) {
	e := execution.NewPaperExecutor(seededCache("100"))
	venueDown := errors.New("venue unavailable")
	e.FailNext(venueDown)

	order := domain.Order{Contract: "BTC_USDT", Side: domain.SideBuy, Size: decimal.NewFromInt(1)}

	if _, err := e.Execute(context.Background(), order); !errors.Is(err, venueDown) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if filled, err := e.Execute(context.Background(), order); err != nil || !filled.IsFilled() {
		t.Errorf("failure must be one shot: err=%v status=%s", err, filled.Status)
	}

	if got := len(e.Orders()); got != 2 {
		t.Errorf("order history length = %d, want 2", got)
	}
}
