// Package apperr carries a tagged error kind through error values so
// transport layers can map failures to status codes without matching on
// message strings.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for transport mapping and retry decisions.
type Kind int

const (
	// Internal is the zero kind: an unexpected failure, never leaked to clients.
	Internal Kind = iota
	// InvalidInput covers malformed, missing, or out-of-range fields.
	InvalidInput
	// Unauthenticated means no valid principal was presented.
	Unauthenticated
	// Forbidden means the principal is known but not allowed.
	Forbidden
	// NotFound means the referenced entity does not exist.
	NotFound
	// InvalidState means the operation is disallowed in the current
	// lifecycle state (full lobby, expired window, duplicate rating, ...).
	InvalidState
	// Unavailable means a dependency timed out or refused the connection.
	// Retryable; must never be downgraded to NotFound.
	Unavailable
)

// Error is a kinded error with a stable machine code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same code, so errors.Is works across
// wrapping and across independently-constructed instances.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New builds a kinded error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches a kind and code to an underlying error.
func Wrap(cause error, kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message, cause: cause}
}

// KindOf extracts the kind of err, or Internal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// CodeOf extracts the machine code of err, or "INTERNAL" for untagged errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "INTERNAL"
}

// MessageOf extracts the client-safe message of err. Untagged errors get a
// generic message so internals never leak.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

var statusByKind = map[Kind]int{
	InvalidInput:    http.StatusBadRequest,
	InvalidState:    http.StatusBadRequest,
	Unauthenticated: http.StatusUnauthorized,
	Forbidden:       http.StatusForbidden,
	NotFound:        http.StatusNotFound,
	Unavailable:     http.StatusBadGateway,
	Internal:        http.StatusInternalServerError,
}

// HTTPStatus maps an error's kind to its transport status code.
func HTTPStatus(err error) int {
	if s, ok := statusByKind[KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}
