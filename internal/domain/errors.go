package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// NetworkError represents a transport-related error that may be retriable
type NetworkError struct {
	Op        string // Operation that failed (e.g., "dial", "read", "write")
	Err       error  // Underlying error
	Retriable bool   // Whether this error is retriable
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) IsRetriable() bool {
	return e.Retriable
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new retriable network error
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: true}
}

// NewFatalNetworkError creates a non-retriable network error
func NewFatalNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: false}
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrAuthFailed is returned when the venue rejects the login request.
	// Fatal for the session: no trading without a verified identity.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNoMarketData is returned when no ticker snapshot exists for a contract.
	ErrNoMarketData = errors.New("no market data")

	// ErrRiskRejected is returned when the risk gate blocks an entry order.
	ErrRiskRejected = errors.New("risk limits reject order")

	// ErrPositionExists is returned on an attempt to open while already long.
	ErrPositionExists = errors.New("position already open")

	// ErrNoPosition is returned on an attempt to close a flat contract.
	ErrNoPosition = errors.New("no open position")

	// ErrUndefinedSpread is returned when the entry price is zero or missing,
	// making the spread computation undefined.
	ErrUndefinedSpread = errors.New("spread undefined: invalid entry price")

	// ErrOrderRejected is returned when the venue refuses an order.
	ErrOrderRejected = errors.New("order rejected")
)
