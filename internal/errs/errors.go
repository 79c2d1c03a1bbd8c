// Package errs defines the error kinds shared by the gateway, the credential
// check and the object store adapters.
//
// Adapters wrap native SDK errors with Wrap; handlers decide the HTTP status
// with KindOf and never print the cause.
package errs

import (
	"errors"
	"fmt"
)

// Kind categorises an error without exposing backend-specific codes.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindUnauthorized
	KindStorageUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthorized:
		return "unauthorized"
	case KindStorageUnavailable:
		return "storage_unavailable"
	default:
		return "unknown"
	}
}

// Error carries a kind, a caller-safe message and the original cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error // kept for logs only
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an *Error without a cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error around cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// InvalidInput is shorthand for New(KindInvalidInput, msg).
func InvalidInput(msg string) *Error {
	return New(KindInvalidInput, msg)
}

// IsInvalidInput reports whether err was caused by bad caller input.
func IsInvalidInput(err error) bool {
	return KindOf(err) == KindInvalidInput
}

// IsUnauthorized reports whether err is a credential or token failure.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// IsStorageUnavailable reports whether err came from the object store.
func IsStorageUnavailable(err error) bool {
	return KindOf(err) == KindStorageUnavailable
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the caller-safe message of the first *Error in err's chain.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
