package gateio

import (
	"encoding/json"
	"fmt"
	"time"

	"spread_go/internal/domain"
	"spread_go/internal/event"

	"github.com/shopspring/decimal"
)

// parseFrame converts one raw inbound frame into typed events. A tickers
// update may carry several contracts, hence the slice. Frames we do not
// trade on (pongs, unknown channels) produce no events and no error.
func parseFrame(raw []byte) ([]event.Event, error) {
	var frame wsFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	if frame.Error != nil {
		return []event.Event{&event.ErrorEvent{
			Channel: frame.Channel,
			Code:    frame.Error.Code,
			Message: frame.Error.Message,
		}}, nil
	}

	switch frame.Channel {
	case channelLogin:
		// No error field present means the venue accepted the login.
		return []event.Event{&event.AuthAckEvent{OK: true}}, nil

	case channelPong, channelPing:
		// Keep-alive traffic; activity tracking happens at the read loop.
		return nil, nil

	case channelTickers:
		switch frame.Event {
		case "subscribe", "unsubscribe":
			return []event.Event{&event.SubscribeAckEvent{
				Channel:     frame.Channel,
				Unsubscribe: frame.Event == "unsubscribe",
			}}, nil
		case "update":
			return parseTickers(frame.Result, frameTime(&frame))
		}
	}
	return nil, nil
}

func parseTickers(result json.RawMessage, ts time.Time) ([]event.Event, error) {
	var items []tickerData
	if err := json.Unmarshal(result, &items); err != nil {
		// Single-object payloads occur on some venue versions.
		var single tickerData
		if err2 := json.Unmarshal(result, &single); err2 != nil {
			return nil, fmt.Errorf("malformed ticker payload: %w", err)
		}
		items = []tickerData{single}
	}

	events := make([]event.Event, 0, len(items))
	for _, item := range items {
		t, ok := toTicker(item, ts)
		if !ok {
			continue
		}
		ev := event.AcquireTickerEvent()
		ev.Ticker = t
		events = append(events, ev)
	}
	return events, nil
}

// toTicker converts wire strings into an exact-decimal snapshot. A snapshot
// without a usable last price is dropped.
func toTicker(d tickerData, ts time.Time) (domain.Ticker, bool) {
	last, err := decimal.NewFromString(d.Last)
	if err != nil || !last.IsPositive() {
		return domain.Ticker{}, false
	}
	t := domain.Ticker{
		Contract:    d.Contract,
		Last:        last,
		MarkPrice:   toDecimal(d.MarkPrice),
		IndexPrice:  toDecimal(d.IndexPrice),
		FundingRate: toDecimal(d.FundingRate),
		High24h:     toDecimal(d.High24h),
		Low24h:      toDecimal(d.Low24h),
		Volume24h:   toDecimal(d.Volume24h),
		ChangePct:   toDecimal(d.ChangePercentage),
		EventTime:   ts,
	}
	return t, t.IsUsable()
}

// toDecimal parses optional wire fields, treating absent or malformed
// values as zero rather than failing the whole snapshot.
func toDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func frameTime(f *wsFrame) time.Time {
	if f.TimeMs > 0 {
		return time.UnixMilli(f.TimeMs)
	}
	if f.Time > 0 {
		return time.Unix(f.Time, 0)
	}
	return time.Now()
}
