// Package errs defines the error kinds the core surfaces (spec §7). Every
// kind is recovered locally; the propagation policy is that nothing here
// panics, and only two conditions in internal/supervisor force a process
// restart.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a CoreError for callers that need to branch on it
// (e.g. the admin dispatcher deciding whether a config value was clamped
// versus rejected outright).
type Kind string

const (
	// KindInvalidFrame covers laser hash mismatches, malformed peer
	// datagrams, and oversized WS frames. Dropped silently; counters only.
	KindInvalidFrame Kind = "invalid_frame"
	// KindClamped covers a numeric config value coerced to a legal bound.
	KindClamped Kind = "clamped"
	// KindRejected covers an illegal game-command transition.
	KindRejected Kind = "rejected"
	// KindBusy covers a shot denied by rate limit or reload.
	KindBusy Kind = "busy"
	// KindStorage covers an NVS read/write failure.
	KindStorage Kind = "storage"
	// KindTransportClosed covers a WS client that is gone.
	KindTransportClosed Kind = "transport_closed"
	// KindNetworkLost covers a station disconnect.
	KindNetworkLost Kind = "network_lost"
)

// CoreError wraps an underlying error (which may be nil) with the
// operation that raised it and the Kind a caller should branch on.
type CoreError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *CoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *CoreError) Unwrap() error {
	return e.Err
}

// Is reports whether err is a CoreError of the given kind, matching the
// errors.Is contract.
func Is(err error, kind Kind) bool {
	var ce *CoreError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Kind == kind
}

// New constructs a CoreError with no wrapped cause.
func New(kind Kind, op string) *CoreError {
	return &CoreError{Kind: kind, Op: op}
}

// Wrap constructs a CoreError around an existing error.
func Wrap(kind Kind, op string, err error) *CoreError {
	if err == nil {
		return nil
	}
	return &CoreError{Kind: kind, Op: op, Err: err}
}
