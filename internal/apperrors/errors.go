package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error so handlers can map it to an HTTP status and the
// UI can render an appropriate message. The core never returns a bare failure.
type Kind string

const (
	KindValidation    Kind = "validation"    // malformed input
	KindConflict      Kind = "conflict"      // uniqueness violation, double check-in, code mismatch
	KindNotFound      Kind = "not_found"     // unknown person/family/template/org
	KindCapacity      Kind = "capacity"      // room over capacity
	KindAuthorization Kind = "authorization" // missing/invalid org scope
	KindExhaustion    Kind = "exhaustion"    // PIN space exhausted
	KindInternal      Kind = "internal"
)

// Error is a structured domain error with a stable kind
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by kind, so errors.Is(err, &Error{Kind: KindConflict})
// style checks work through wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Validation reports malformed input
func Validation(msg string) *Error { return New(KindValidation, msg) }

// Conflict reports a state conflict (double check-in, pickup-code mismatch,
// uniqueness violation)
func Conflict(msg string) *Error { return New(KindConflict, msg) }

// NotFound reports a missing entity
func NotFound(msg string) *Error { return New(KindNotFound, msg) }

// Capacity reports a room over its concurrent-session limit
func Capacity(msg string) *Error { return New(KindCapacity, msg) }

// Unauthorized reports a missing or invalid org scope
func Unauthorized(msg string) *Error { return New(KindAuthorization, msg) }

// Exhausted reports an org with no free PINs left
func Exhausted(msg string) *Error { return New(KindExhaustion, msg) }

// Internal wraps an unexpected failure
func Internal(msg string, err error) *Error { return Wrap(KindInternal, msg, err) }

// KindOf returns the kind of err, or KindInternal for plain errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
