package gateio

import "testing"

func TestComputeHmacSha512(t *testing.T) {
	// Standard HMAC-SHA512 test vector
	key := "key"
	data := "The quick brown fox jumps over the lazy dog"
	expected := "b42af09057bac1e2d41708e48a902e09b5ff7f12ab428a4fe86653c73dd248fb82f948a549f7b791a5b41915ee4d1ec3935357e4e2317250d0372afa2ebeeb3a"

	result := computeHmacSha512(data, key)
	if result != expected {
		t.Errorf("HMAC mismatch. Expected %s, got %s", expected, result)
	}
}

func TestSigner_SignWS(t *testing.T) {
	// Reference digests for the canonical WS message
	// "channel=<channel>&event=<event>&time=<time>" with secret "secret".
	signer := NewSigner("key", "secret")

	cases := []struct {
		name     string
		channel  string
		event    string
		time     int64
		expected string
	}{
		{
			name:     "login",
			channel:  "futures.login",
			event:    "api",
			time:     1600000000,
			expected: "22a4966110540332bc394dd80c0cea110c137910140422cd3fd94cc13d0b0f7a884e01a5c5411c0cbe262a680b76c8932f50d9d21440e39705ad2d883bdc85b9",
		},
		{
			name:     "subscribe",
			channel:  "futures.tickers",
			event:    "subscribe",
			time:     1600000000,
			expected: "5dd78a5258437e82a9882705788c49f117c624ffeda971b2cc7c101803b1ef55fbc065508e1814468c24a2c01c77f0ccb50f9a9447b917d85142be3a9ee9aa9b",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := signer.SignWS(tc.channel, tc.event, tc.time)
			if got != tc.expected {
				t.Errorf("SignWS(%s, %s, %d) = %s, want %s", tc.channel, tc.event, tc.time, got, tc.expected)
			}
		})
	}
}

func TestSigner_Deterministic(t *testing.T) {
	signer := NewSigner("key", "secret")
	a := signer.SignWS("futures.tickers", "subscribe", 1700000000)
	b := signer.SignWS("futures.tickers", "subscribe", 1700000000)
	if a != b {
		t.Error("signature must be deterministic for identical inputs")
	}
	if len(a) != 128 { // SHA-512 hex
		t.Errorf("expected 128 hex chars, got %d", len(a))
	}

	c := signer.SignWS("futures.tickers", "subscribe", 1700000001)
	if a == c {
		t.Error("different timestamps must produce different signatures")
	}
}

func TestSigner_SignRequest(t *testing.T) {
	signer := NewSigner("key", "secret")
	a := signer.SignRequest("POST", ordersPath, "", `{"contract":"BTC_USDT"}`, 1600000000)
	if len(a) != 128 {
		t.Errorf("expected 128 hex chars, got %d", len(a))
	}
	b := signer.SignRequest("POST", ordersPath, "", `{"contract":"ETH_USDT"}`, 1600000000)
	if a == b {
		t.Error("different bodies must produce different signatures")
	}
}
