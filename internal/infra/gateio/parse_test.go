package gateio

import (
	"testing"

	"spread_go/internal/event"
)

func TestParseFrame_TickerUpdate(t *testing.T) {
	raw := []byte(`{
		"time": 1700000000,
		"time_ms": 1700000000123,
		"channel": "futures.tickers",
		"event": "update",
		"result": [{
			"contract": "BTC_USDT",
			"last": "95000.50",
			"change_percentage": "1.25",
			"total_size": "100",
			"volume_24h": "12345",
			"mark_price": "95001.1",
			"funding_rate": "0.0001",
			"index_price": "95000.9",
			"low_24h": "94000",
			"high_24h": "96000"
		}]
	}`)

	events, err := parseFrame(raw)
	if err != nil {
		t.Fatalf("parseFrame failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	ev, ok := events[0].(*event.TickerEvent)
	if !ok {
		t.Fatalf("expected TickerEvent, got %T", events[0])
	}
	defer event.ReleaseTickerEvent(ev)

	tk := ev.Ticker
	if tk.Contract != "BTC_USDT" {
		t.Errorf("contract = %q", tk.Contract)
	}
	if tk.Last.String() != "95000.5" {
		t.Errorf("last = %s", tk.Last)
	}
	if tk.MarkPrice.String() != "95001.1" {
		t.Errorf("mark_price = %s", tk.MarkPrice)
	}
	if tk.FundingRate.String() != "0.0001" {
		t.Errorf("funding_rate = %s", tk.FundingRate)
	}
	if tk.EventTime.UnixMilli() != 1700000000123 {
		t.Errorf("event_time = %v", tk.EventTime)
	}
}

func TestParseFrame_SubscribeAck(t *testing.T) {
	raw := []byte(`{"time":1700000000,"channel":"futures.tickers","event":"subscribe","result":{"status":"success"}}`)

	events, err := parseFrame(raw)
	if err != nil {
		t.Fatalf("parseFrame failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ack, ok := events[0].(*event.SubscribeAckEvent)
	if !ok {
		t.Fatalf("expected SubscribeAckEvent, got %T", events[0])
	}
	if ack.Channel != "futures.tickers" || ack.Unsubscribe {
		t.Errorf("unexpected ack: %+v", ack)
	}
}

func TestParseFrame_LoginAck(t *testing.T) {
	raw := []byte(`{"time":1700000000,"channel":"futures.login","event":"api","result":{"status":"success"}}`)

	events, err := parseFrame(raw)
	if err != nil {
		t.Fatalf("parseFrame failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ack, ok := events[0].(*event.AuthAckEvent)
	if !ok {
		t.Fatalf("expected AuthAckEvent, got %T", events[0])
	}
	if !ack.OK {
		t.Error("login without error field must ack OK")
	}
}

func TestParseFrame_ErrorFrame(t *testing.T) {
	raw := []byte(`{"time":1700000000,"channel":"futures.login","event":"api","error":{"code":4,"message":"bad signature"}}`)

	events, err := parseFrame(raw)
	if err != nil {
		t.Fatalf("parseFrame failed: %v", err)
	}
	ev, ok := events[0].(*event.ErrorEvent)
	if !ok {
		t.Fatalf("expected ErrorEvent, got %T", events[0])
	}
	if ev.Code != 4 || ev.Message != "bad signature" || ev.Channel != "futures.login" {
		t.Errorf("unexpected error event: %+v", ev)
	}
}

func TestParseFrame_DropsUnusableTicker(t *testing.T) {
	// Zero last price: the snapshot is unusable and must be dropped,
	// not delivered downstream.
	raw := []byte(`{"channel":"futures.tickers","event":"update","result":[{"contract":"BTC_USDT","last":"0"}]}`)

	events, err := parseFrame(raw)
	if err != nil {
		t.Fatalf("parseFrame failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected unusable ticker to be dropped, got %d events", len(events))
	}
}

func TestParseFrame_Malformed(t *testing.T) {
	if _, err := parseFrame([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed frame")
	}
	// Pong frames produce no events and no error.
	events, err := parseFrame([]byte(`{"channel":"futures.pong","event":"","result":null}`))
	if err != nil || len(events) != 0 {
		t.Errorf("pong should be silent, got events=%d err=%v", len(events), err)
	}
}

func TestParseFrame_SingleObjectTicker(t *testing.T) {
	raw := []byte(`{"channel":"futures.tickers","event":"update","result":{"contract":"ETH_USDT","last":"3500.25"}}`)

	events, err := parseFrame(raw)
	if err != nil {
		t.Fatalf("parseFrame failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0].(*event.TickerEvent)
	defer event.ReleaseTickerEvent(ev)
	if ev.Ticker.Contract != "ETH_USDT" {
		t.Errorf("contract = %q", ev.Ticker.Contract)
	}
}
