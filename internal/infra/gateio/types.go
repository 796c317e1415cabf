package gateio

import (
	"encoding/json"
	"time"
)

const (
	// Channels
	channelTickers = "futures.tickers"
	channelLogin   = "futures.login"
	channelPing    = "futures.ping"
	channelPong    = "futures.pong"

	// Heartbeat: transport ping plus application ping every 10 seconds.
	// A connection with no inbound activity for two full heartbeat windows
	// is considered stale and cycled.
	pingInterval = 10 * time.Second
	staleAfter   = 2*pingInterval + 5*time.Second

	// Reconnect backoff
	baseDelay = 1 * time.Second
	maxDelay  = 60 * time.Second

	handshakeTimeout = 10 * time.Second
	authAckTimeout   = 10 * time.Second
	writeTimeout     = 5 * time.Second
	readTimeout      = 60 * time.Second
)

// wsRequest is an outbound frame: subscribe, unsubscribe, login or ping.
type wsRequest struct {
	Time    int64       `json:"time"`
	Channel string      `json:"channel"`
	Event   string      `json:"event,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
	Auth    *wsAuth     `json:"auth,omitempty"`
}

// wsAuth is embedded into requests that need account scope.
type wsAuth struct {
	Method string `json:"method"` // always "api_key"
	Key    string `json:"KEY"`
	Sign   string `json:"SIGN"`
}

// wsFrame is the common inbound frame envelope.
type wsFrame struct {
	Time    int64           `json:"time"`
	TimeMs  int64           `json:"time_ms"`
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Error   *wsError        `json:"error"`
	Result  json.RawMessage `json:"result"`
}

type wsError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// tickerData mirrors one entry of a futures.tickers update payload.
type tickerData struct {
	Contract         string `json:"contract"`
	Last             string `json:"last"`
	ChangePercentage string `json:"change_percentage"`
	TotalSize        string `json:"total_size"`
	Volume24h        string `json:"volume_24h"`
	MarkPrice        string `json:"mark_price"`
	FundingRate      string `json:"funding_rate"`
	IndexPrice       string `json:"index_price"`
	Low24h           string `json:"low_24h"`
	High24h          string `json:"high_24h"`
}

// orderRequest is the REST market-order payload.
type orderRequest struct {
	Contract   string `json:"contract"`
	Size       int64  `json:"size"`  // negative for sells
	Price      string `json:"price"` // "0" for market orders
	Tif        string `json:"tif"`   // "ioc"
	Text       string `json:"text"`  // client id, "t-" prefixed
	Close      bool   `json:"close,omitempty"`
	ReduceOnly bool   `json:"reduce_only,omitempty"`
}

// orderResponse is the subset of the venue's order object we consume.
type orderResponse struct {
	ID        int64  `json:"id"`
	Contract  string `json:"contract"`
	Status    string `json:"status"`
	FillPrice string `json:"fill_price"`
	FinishAs  string `json:"finish_as"`
}
