package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the transport layer can pick a status code
// without string matching.
type Kind int

const (
	KindInternal Kind = iota
	KindMalformed
	KindUnauthenticated
	KindNotFound
	KindInvalid
	KindConflict
)

// Error is the caller-facing error type for every expected failure. Internal
// failures are wrapped too, but their detail is only for the server log.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Malformed(msg string) *Error       { return &Error{Kind: KindMalformed, Msg: msg} }
func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Msg: msg} }
func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Msg: msg} }
func Invalid(msg string) *Error         { return &Error{Kind: KindInvalid, Msg: msg} }
func Conflict(msg string) *Error        { return &Error{Kind: KindConflict, Msg: msg} }

// Internal wraps an unexpected failure. The message shown to callers is
// fixed; err carries the detail for logging.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Msg: "internal error", Err: err}
}

// KindOf extracts the kind from err, defaulting to KindInternal for errors
// that did not come out of the domain layer.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }
