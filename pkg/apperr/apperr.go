// Package apperr defines the failure kinds returned by the catalog and order
// engines. Every failure carries its kind, the resource it concerns and the
// offending identifier so callers can render a message or pick a status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindNotFound        Kind = "NOT_FOUND"
	KindUnauthorized    Kind = "UNAUTHORIZED"
	KindConflict        Kind = "CONFLICT"
	KindInternal        Kind = "INTERNAL"
)

// Error is a classified engine failure.
type Error struct {
	Kind     Kind   `json:"kind"`
	Resource string `json:"resource,omitempty"`
	ID       string `json:"id,omitempty"`
	Message  string `json:"message"`
	cause    error
}

func (e *Error) Error() string {
	if e == nil {
		return "application error"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPCode maps the kind onto the status code the tool router responds with.
// Identity mismatches and conflicts are reported as bad requests.
func (e *Error) HTTPCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidArgument, KindUnauthorized, KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func InvalidArgument(param, format string, args ...any) *Error {
	return &Error{
		Kind:     KindInvalidArgument,
		Resource: "parameter",
		ID:       param,
		Message:  fmt.Sprintf(format, args...),
	}
}

func NotFound(resource, id string) *Error {
	return &Error{
		Kind:     KindNotFound,
		Resource: resource,
		ID:       id,
		Message:  fmt.Sprintf("%s '%s' not found", resource, id),
	}
}

func Unauthorized(resource, id string) *Error {
	return &Error{
		Kind:     KindUnauthorized,
		Resource: resource,
		ID:       id,
		Message:  "Email address doesn't match our records for this " + resource,
	}
}

func Conflict(resource, id, format string, args ...any) *Error {
	return &Error{
		Kind:     KindConflict,
		Resource: resource,
		ID:       id,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Internal wraps an unexpected failure, typically from a store backend.
func Internal(err error, message string) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: message,
		cause:   err,
	}
}

// As extracts the classified error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
// A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
