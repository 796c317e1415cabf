package gateio

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
)

// Signer produces Gate.io v4 API signatures: HMAC-SHA512 over a canonical
// message, hex encoded. Stateless and deterministic.
type Signer struct {
	apiKey    string
	apiSecret string
}

// NewSigner creates a new Signer instance
func NewSigner(apiKey, apiSecret string) *Signer {
	return &Signer{apiKey: apiKey, apiSecret: apiSecret}
}

// Key returns the API key embedded in auth payloads.
func (s *Signer) Key() string {
	return s.apiKey
}

// Sign computes the hex-encoded HMAC-SHA512 of message.
func (s *Signer) Sign(message string) string {
	return computeHmacSha512(message, s.apiSecret)
}

// SignWS signs a WebSocket request. The canonical message is
// "channel=<channel>&event=<event>&time=<unix seconds>".
func (s *Signer) SignWS(channel, evt string, t int64) string {
	return s.Sign(fmt.Sprintf("channel=%s&event=%s&time=%d", channel, evt, t))
}

// SignRequest signs a REST request. The canonical message is
// method, path, query, hex(SHA512(body)) and timestamp joined by newlines.
func (s *Signer) SignRequest(method, path, query, body string, t int64) string {
	bodyHash := sha512.Sum512([]byte(body))
	msg := fmt.Sprintf("%s\n%s\n%s\n%s\n%d", method, path, query, hex.EncodeToString(bodyHash[:]), t)
	return s.Sign(msg)
}

func computeHmacSha512(message, secret string) string {
	h := hmac.New(sha512.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}
