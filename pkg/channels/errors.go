package channels

import (
	"errors"
	"fmt"
)

// Code classifies every failure this package can produce. All failures are
// returned as values; nothing in here panics or exits.
type Code string

const (
	// EInvalid is a malformed id or request shape. The caller can fix the
	// input and retry; nothing retries automatically.
	EInvalid Code = "invalid"
	// ENotFound means the referenced channel id is absent.
	ENotFound Code = "not_found"
	// EConflict means a create hit an id that already exists.
	EConflict Code = "conflict"
	// EConfigRead / EConfigWrite are store failures, passed through unchanged.
	EConfigRead  Code = "config_read"
	EConfigWrite Code = "config_write"
	// EGatewayUnavailable means the gateway could not be signaled. When it
	// accompanies a mutation the document was already persisted: the change
	// is saved but not yet live.
	EGatewayUnavailable Code = "gateway_unavailable"
)

// Error is the one error type crossing this package's boundary.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode extracts the Code from err, unwrapping as needed.
// Returns "" for nil and "internal" for foreign errors.
func ErrorCode(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal"
}

func notFoundErr(id string) *Error {
	return &Error{Code: ENotFound, Msg: fmt.Sprintf("channel %q not found", id)}
}

func conflictErr(id string) *Error {
	return &Error{Code: EConflict, Msg: fmt.Sprintf("channel %q already exists", id)}
}
