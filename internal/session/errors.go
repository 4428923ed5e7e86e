package session

import (
	"errors"
	"fmt"
)

// Sentinel errors for session state checks.
var (
	// ErrNotReady is returned when a command is issued outside the Ready
	// state. Nothing is transmitted.
	ErrNotReady = errors.New("session is not ready")

	// ErrUnexpectedDisconnect is reported when the transport closes while
	// the session is Ready. The session falls back to Disconnected and
	// keeps the last device state as stale.
	ErrUnexpectedDisconnect = errors.New("device closed the connection")
)

// TransportError wraps a connect or write failure. Recoverable: the caller
// may attempt Connect again on its next cycle.
type TransportError struct {
	Op  string // "connect", "write", "read"
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// InvalidArgumentError reports an operator-supplied command argument that
// failed validation. The command is rejected before any transmission.
type InvalidArgumentError struct {
	Err error
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid command argument: %v", e.Err)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *InvalidArgumentError) Unwrap() error {
	return e.Err
}

// IsTransportError checks whether an error is a transport-level failure.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsInvalidArgument checks whether an error is a rejected command argument.
func IsInvalidArgument(err error) bool {
	var ae *InvalidArgumentError
	return errors.As(err, &ae)
}
