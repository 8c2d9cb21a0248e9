// Package apperr provides standardized error types for the console.
// The API client maps upstream HTTP responses to these typed errors,
// and UI-facing code decides presentation (revert, retry affordance,
// aggregate counts) by Kind instead of inspecting status codes.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindTransport indicates a network or HTTP-level failure.
	KindTransport
	// KindNotFound indicates the entity vanished between read and write.
	KindNotFound
	// KindValidation indicates a server-side rejection of submitted data.
	KindValidation
	// KindUnauthorized indicates the session token is missing or expired.
	KindUnauthorized
	// KindForbidden indicates the action is not allowed for the user.
	KindForbidden
	// KindConflict indicates a conflict with current server state.
	KindConflict
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

// Error is a console error with a typed Kind for presentation mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string      // Operation that failed (optional)
	Err     error       // Underlying error (optional)
	Details interface{} // Server-provided detail payload (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp returns the error with the operation set.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails returns the error with server-provided details attached.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Convenience constructors for common error types.

// Transport creates a transport error.
func Transport(message string) *Error {
	return New(KindTransport, message)
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation creates a validation rejection error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Unauthorized creates an unauthorized error.
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// Internal creates an internal error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// FromHTTPStatus maps an upstream HTTP status code to a typed error.
// The message should be the server-reported reason when available;
// callers pass a generic fallback otherwise.
func FromHTTPStatus(status int, message string) *Error {
	switch {
	case status == http.StatusNotFound:
		return NotFound(message)
	case status == http.StatusUnauthorized:
		return Unauthorized(message)
	case status == http.StatusForbidden:
		return New(KindForbidden, message)
	case status == http.StatusConflict:
		return New(KindConflict, message)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return Validation(message)
	case status >= 500:
		return Transport(message)
	default:
		return New(KindUnknown, message)
	}
}

// GetKind extracts the error kind from an error.
// Returns KindUnknown if the error is not an *Error.
func GetKind(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err is an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
