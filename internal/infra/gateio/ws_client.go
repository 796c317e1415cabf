package gateio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"spread_go/internal/domain"
	"spread_go/internal/event"
	"spread_go/internal/infra"

	"github.com/gorilla/websocket"
)

// State is the connection lifecycle state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticating
	StateLive
	StateClosing
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateAuthenticating:
		return "AUTHENTICATING"
	case StateLive:
		return "LIVE"
	case StateClosing:
		return "CLOSING"
	default:
		return "DISCONNECTED"
	}
}

// WSClient owns the streaming session: connect, authenticate, heartbeat,
// reconnect, teardown. Parsed frames are dispatched as typed events: tickers
// to the engine inbox, subscription acks to the SubscriptionManager. Position
// and ledger state live outside the client and survive reconnects.
type WSClient struct {
	cfg    *infra.Config
	signer *Signer
	subs   *SubscriptionManager
	inbox  chan<- event.Event
	logger *slog.Logger

	conn         *websocket.Conn
	mu           sync.RWMutex
	writeMu      sync.Mutex // serializes heartbeat and request writes
	state        atomic.Int32
	lastActivity atomic.Int64 // unix nanos of last inbound traffic
	pingEvery    time.Duration
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewWSClient creates a client for the configured venue endpoint.
func NewWSClient(cfg *infra.Config, inbox chan<- event.Event) *WSClient {
	c := &WSClient{
		cfg:       cfg,
		signer:    NewSigner(cfg.API.Gate.APIKey, cfg.API.Gate.APISecret),
		inbox:     inbox,
		logger:    slog.Default().With("module", "gate_ws"),
		pingEvery: pingInterval,
	}
	c.subs = NewSubscriptionManager(c.signer, c)
	return c
}

// Subscriptions exposes the subscription manager bound to this session.
func (c *WSClient) Subscriptions() *SubscriptionManager {
	return c.subs
}

// State returns the current lifecycle state.
func (c *WSClient) State() State {
	return State(c.state.Load())
}

// IsConnected reports whether the session is live.
func (c *WSClient) IsConnected() bool {
	return c.State() == StateLive
}

// Connect starts the connection loop. It returns immediately; the loop keeps
// the session alive with exponential backoff until ctx is cancelled or a
// fatal authentication failure occurs.
func (c *WSClient) Connect(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go c.connectionLoop(ctx)
	return nil
}

func (c *WSClient) connectionLoop(ctx context.Context) {
	defer c.wg.Done()
	delay := baseDelay
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := c.connect(ctx); err != nil {
			if errors.Is(err, domain.ErrAuthFailed) {
				// No trading without a verified identity.
				c.logger.Error("authentication rejected, session terminated", slog.Any("error", err))
				c.state.Store(int32(StateDisconnected))
				return
			}
			c.logger.Warn("connection attempt failed", slog.Any("error", err), slog.Duration("retry_in", delay))
			infra.GlobalMetrics.RecordError()
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			if delay *= 2; delay > maxDelay {
				delay = maxDelay
			}
			continue
		}

		delay = baseDelay
		infra.GlobalMetrics.IncrementConnections()
		c.readLoop(ctx)
		infra.GlobalMetrics.DecrementConnections()
		infra.GlobalMetrics.RecordReconnect()
		c.subs.Reset()
		c.state.Store(int32(StateDisconnected))
	}
}

// connect opens the transport, authenticates when credentials are configured
// and subscribes the ticker channel. The heartbeat goroutine is started once
// the session is live.
func (c *WSClient) connect(ctx context.Context) error {
	c.state.Store(int32(StateConnecting))

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.cfg.API.Gate.WSURL, nil)
	if err != nil {
		return domain.NewNetworkError("dial", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	conn.SetPongHandler(func(string) error {
		c.touch()
		return nil
	})
	c.touch()

	if c.cfg.HasCredentials() {
		c.state.Store(int32(StateAuthenticating))
		if err := c.login(conn); err != nil {
			c.closeConnection()
			return err
		}
	}
	c.state.Store(int32(StateLive))

	if err := c.subs.Subscribe(channelTickers, c.cfg.Trading.Contracts, false); err != nil {
		c.closeConnection()
		return domain.NewNetworkError("subscribe", err)
	}

	c.wg.Add(1)
	go c.pingLoop(ctx, conn)

	c.logger.Info("session live",
		slog.Bool("authenticated", c.cfg.HasCredentials()),
		slog.Int("contracts", len(c.cfg.Trading.Contracts)))
	return nil
}

// login sends the futures.login request and blocks until the venue answers.
// The read happens inline because the read loop is not running yet.
func (c *WSClient) login(conn *websocket.Conn) error {
	if err := c.sendRequest(c.subs.buildRequest(channelLogin, "api", nil, true)); err != nil {
		return domain.NewNetworkError("login send", err)
	}

	deadline := time.Now().Add(authAckTimeout)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return domain.NewNetworkError("login read", err)
		}
		c.touch()
		events, err := parseFrame(raw)
		if err != nil {
			continue
		}
		for _, ev := range events {
			switch ev := ev.(type) {
			case *event.AuthAckEvent:
				if ev.OK {
					return nil
				}
				return fmt.Errorf("%w: %s", domain.ErrAuthFailed, ev.Message)
			case *event.ErrorEvent:
				if ev.Channel == channelLogin {
					return fmt.Errorf("%w: %s", domain.ErrAuthFailed, ev.Message)
				}
			}
		}
	}
	return domain.NewNetworkError("login", fmt.Errorf("no acknowledgment within %s", authAckTimeout))
}

// readLoop drains inbound frames and dispatches typed events until the
// transport errors or ctx is cancelled.
func (c *WSClient) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.closeConnection()
			return
		default:
		}

		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()
		if conn == nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.logger.Warn("read failed, cycling connection", slog.Any("error", err))
			c.closeConnection()
			return
		}
		c.touch()
		c.dispatch(raw)
	}
}

// dispatch parses one frame and routes its events. Unknown or malformed
// frames are logged and dropped; they never crash the session.
func (c *WSClient) dispatch(raw []byte) {
	events, err := parseFrame(raw)
	if err != nil {
		c.logger.Warn("dropping malformed frame", slog.Any("error", err))
		infra.GlobalMetrics.RecordError()
		return
	}
	for _, ev := range events {
		switch ev := ev.(type) {
		case *event.TickerEvent:
			select {
			case c.inbox <- ev:
			default:
				event.ReleaseTickerEvent(ev)
				c.logger.Warn("inbox full, dropping ticker", slog.String("contract", ev.Ticker.Contract))
			}
		case *event.SubscribeAckEvent:
			c.subs.HandleAck(ev)
			c.logger.Info("subscription acknowledged",
				slog.String("channel", ev.Channel), slog.Bool("unsubscribe", ev.Unsubscribe))
		case *event.AuthAckEvent:
			// Late login ack after a re-auth; state already handled.
		case *event.ErrorEvent:
			c.logger.Warn("venue error frame",
				slog.String("channel", ev.Channel), slog.Int("code", ev.Code), slog.String("message", ev.Message))
			infra.GlobalMetrics.RecordError()
		}
	}
}

// pingLoop sends a transport-level ping followed by an application-level
// ping every interval while the session is live. Two heartbeat windows with
// no inbound activity force a reconnect. The loop is bound to the connection
// it was started for: when the session cycles and a new connection replaces
// it, the old loop exits and the new session starts its own.
func (c *WSClient) pingLoop(ctx context.Context, conn *websocket.Conn) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.RLock()
			current := c.conn
			c.mu.RUnlock()
			if current != conn {
				return
			}

			if since := time.Since(time.Unix(0, c.lastActivity.Load())); since > staleAfter {
				c.logger.Warn("no inbound activity, forcing reconnect", slog.Duration("idle", since))
				c.closeConnection()
				return
			}

			c.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			c.writeMu.Unlock()
			if err != nil {
				c.logger.Warn("transport ping failed", slog.Any("error", err))
				c.closeConnection()
				return
			}
			if err := c.sendRequest(&wsRequest{Time: time.Now().Unix(), Channel: channelPing}); err != nil {
				c.logger.Warn("application ping failed", slog.Any("error", err))
				c.closeConnection()
				return
			}
		}
	}
}

// sendRequest marshals and writes one request on the shared transport.
func (c *WSClient) sendRequest(req *wsRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return c.threadSafeWrite(websocket.TextMessage, data)
}

func (c *WSClient) threadSafeWrite(msgType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil {
		return domain.NewNetworkError("write", fmt.Errorf("no connection"))
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(msgType, data)
}

func (c *WSClient) touch() {
	c.lastActivity.Store(time.Now().UnixNano())
}

func (c *WSClient) closeConnection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// Disconnect tears the session down. Position and ledger state are owned by
// the engine and remain available for inspection after teardown.
func (c *WSClient) Disconnect() {
	c.state.Store(int32(StateClosing))
	if c.cancel != nil {
		c.cancel()
	}
	c.closeConnection()
	c.wg.Wait()
	c.state.Store(int32(StateDisconnected))
}
