package usikit

import "errors"

// Sentinel errors for protocol and session operations.
var (
	// ErrIllegalOperation indicates an API call that is not legal in the
	// session's current phase (handshake after listener hand-off,
	// pre-handshake send after the handshake started, double Listen).
	ErrIllegalOperation = errors.New("usikit: illegal operation for current session phase")

	// ErrIllegalSyntax indicates a single engine output line that does not
	// parse as a USI command. It is always recoverable: read loops skip the
	// line and continue, so foreign-dialect startup noise from
	// non-conformant engines never aborts a session.
	ErrIllegalSyntax = errors.New("usikit: illegal syntax")
)

// HookError wraps a failure returned by a Listen hook. It terminates only
// the listener loop that invoked the hook and is delivered as that loop's
// final outcome. Wraps the hook's error to preserve the chain.
type HookError struct {
	Err error
}

func (e *HookError) Error() string {
	return "usikit: listen hook: " + e.Err.Error()
}

func (e *HookError) Unwrap() error { return e.Err }
