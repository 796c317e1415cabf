package gateio

import (
	"testing"
	"time"

	"spread_go/internal/event"
)

type captureSender struct {
	requests []*wsRequest
}

func (c *captureSender) sendRequest(req *wsRequest) error {
	c.requests = append(c.requests, req)
	return nil
}

func TestSubscriptionManager_PublicSubscribe(t *testing.T) {
	sender := &captureSender{}
	m := NewSubscriptionManager(NewSigner("key", "secret"), sender)
	m.now = func() time.Time { return time.Unix(1600000000, 0) }

	if err := m.Subscribe(channelTickers, []string{"BTC_USDT"}, false); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if len(sender.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(sender.requests))
	}

	req := sender.requests[0]
	if req.Channel != channelTickers || req.Event != "subscribe" || req.Time != 1600000000 {
		t.Errorf("unexpected request: %+v", req)
	}
	if req.Auth != nil {
		t.Error("public subscribe must not embed auth")
	}
}

func TestSubscriptionManager_AuthEmbedding(t *testing.T) {
	sender := &captureSender{}
	m := NewSubscriptionManager(NewSigner("my-key", "secret"), sender)
	m.now = func() time.Time { return time.Unix(1600000000, 0) }

	if err := m.Subscribe(channelTickers, []string{"BTC_USDT"}, true); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	req := sender.requests[0]
	if req.Auth == nil {
		t.Fatal("authRequired subscribe must embed auth")
	}
	if req.Auth.Method != "api_key" {
		t.Errorf("auth method = %q", req.Auth.Method)
	}
	if req.Auth.Key != "my-key" {
		t.Errorf("auth key = %q", req.Auth.Key)
	}
	// Signature covers channel+event+time (reference digest from signer test).
	want := "5dd78a5258437e82a9882705788c49f117c624ffeda971b2cc7c101803b1ef55fbc065508e1814468c24a2c01c77f0ccb50f9a9447b917d85142be3a9ee9aa9b"
	if req.Auth.Sign != want {
		t.Errorf("auth sign = %s, want %s", req.Auth.Sign, want)
	}
}

func TestSubscriptionManager_UnsubscribeMirrors(t *testing.T) {
	sender := &captureSender{}
	m := NewSubscriptionManager(NewSigner("key", "secret"), sender)

	if err := m.Unsubscribe(channelTickers, []string{"BTC_USDT"}, false); err != nil {
		t.Fatalf("unsubscribe failed: %v", err)
	}
	if sender.requests[0].Event != "unsubscribe" {
		t.Errorf("event = %q", sender.requests[0].Event)
	}
}

func TestSubscriptionManager_AckIdempotent(t *testing.T) {
	m := NewSubscriptionManager(NewSigner("key", "secret"), &captureSender{})

	// Duplicate acks for the same channel keep a single entry.
	m.HandleAck(&event.SubscribeAckEvent{Channel: channelTickers})
	m.HandleAck(&event.SubscribeAckEvent{Channel: channelTickers})
	if !m.IsAcked(channelTickers) {
		t.Error("channel should be acked")
	}

	m.HandleAck(&event.SubscribeAckEvent{Channel: channelTickers, Unsubscribe: true})
	if m.IsAcked(channelTickers) {
		t.Error("unsubscribe ack should clear the channel")
	}

	m.HandleAck(&event.SubscribeAckEvent{Channel: channelTickers})
	m.Reset()
	if m.IsAcked(channelTickers) {
		t.Error("reset should clear acked state")
	}
}
