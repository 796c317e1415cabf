package gateio

import (
	"sync"
	"time"

	"spread_go/internal/event"
)

// requestSender abstracts the serialized transport-send boundary.
type requestSender interface {
	sendRequest(req *wsRequest) error
}

// SubscriptionManager builds and sends subscribe/unsubscribe requests and
// tracks which channels the venue has acknowledged. Duplicate subscribes are
// accepted by the venue; the acked set keeps local state idempotent.
type SubscriptionManager struct {
	signer *Signer
	sender requestSender
	now    func() time.Time

	mu    sync.Mutex
	acked map[string]bool
}

// NewSubscriptionManager creates a subscription manager bound to a sender.
func NewSubscriptionManager(signer *Signer, sender requestSender) *SubscriptionManager {
	return &SubscriptionManager{
		signer: signer,
		sender: sender,
		now:    time.Now,
		acked:  make(map[string]bool),
	}
}

// Subscribe sends a subscribe request for channel with the given payload,
// embedding api_key auth when the channel requires account scope.
func (m *SubscriptionManager) Subscribe(channel string, payload interface{}, authRequired bool) error {
	return m.sender.sendRequest(m.buildRequest(channel, "subscribe", payload, authRequired))
}

// Unsubscribe mirrors Subscribe with the unsubscribe event.
func (m *SubscriptionManager) Unsubscribe(channel string, payload interface{}, authRequired bool) error {
	return m.sender.sendRequest(m.buildRequest(channel, "unsubscribe", payload, authRequired))
}

// buildRequest assembles {time, channel, event, payload} and, when required,
// the auth block signed over channel+event+time.
func (m *SubscriptionManager) buildRequest(channel, evt string, payload interface{}, authRequired bool) *wsRequest {
	t := m.now().Unix()
	req := &wsRequest{
		Time:    t,
		Channel: channel,
		Event:   evt,
		Payload: payload,
	}
	if authRequired {
		req.Auth = &wsAuth{
			Method: "api_key",
			Key:    m.signer.Key(),
			Sign:   m.signer.SignWS(channel, evt, t),
		}
	}
	return req
}

// HandleAck records the venue's acknowledgment for a channel.
func (m *SubscriptionManager) HandleAck(ev *event.SubscribeAckEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.Err != "" {
		delete(m.acked, ev.Channel)
		return
	}
	if ev.Unsubscribe {
		delete(m.acked, ev.Channel)
	} else {
		m.acked[ev.Channel] = true
	}
}

// IsAcked reports whether a channel subscription has been confirmed.
func (m *SubscriptionManager) IsAcked(channel string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acked[channel]
}

// Reset clears acked state, used when the session is rebuilt after reconnect.
func (m *SubscriptionManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = make(map[string]bool)
}
