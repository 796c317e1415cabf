package event

import "spread_go/internal/domain"

// Kind tags the parsed message variants delivered by the stream client.
type Kind int

const (
	KindTicker Kind = iota + 1
	KindAuthAck
	KindSubscribeAck
	KindError
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindTicker:
		return "TICKER"
	case KindAuthAck:
		return "AUTH_ACK"
	case KindSubscribeAck:
		return "SUBSCRIBE_ACK"
	case KindError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is a parsed stream message. Dispatch is an explicit type switch over
// the concrete variants rather than branching on raw string fields.
type Event interface {
	Kind() Kind
}

// TickerEvent carries one market snapshot for a contract.
type TickerEvent struct {
	Ticker domain.Ticker
}

func (*TickerEvent) Kind() Kind { return KindTicker }

// AuthAckEvent is the venue's response to the login request.
type AuthAckEvent struct {
	OK      bool
	Message string
}

func (*AuthAckEvent) Kind() Kind { return KindAuthAck }

// SubscribeAckEvent confirms a subscribe or unsubscribe request.
type SubscribeAckEvent struct {
	Channel     string
	Unsubscribe bool
	Err         string
}

func (*SubscribeAckEvent) Kind() Kind { return KindSubscribeAck }

// ErrorEvent carries a venue-reported error frame.
type ErrorEvent struct {
	Channel string
	Code    int
	Message string
}

func (*ErrorEvent) Kind() Kind { return KindError }
