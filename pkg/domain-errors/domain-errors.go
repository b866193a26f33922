package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP
// or Discord terms.
type Code string

const (
	// CodeDuplicatePending is returned when an applicant already has a
	// pending application in the store.
	CodeDuplicatePending Code = "duplicate_pending"

	// CodeNotAuthorized is returned when the acting staff member's role
	// set does not grant the required capability.
	CodeNotAuthorized Code = "not_authorized"

	// CodeNotFound is returned when approve/reject targets an applicant
	// with no pending application.
	CodeNotFound Code = "not_found"

	// CodeBadRequest covers malformed input at a trust boundary.
	CodeBadRequest Code = "bad_request"

	// CodeDeliveryFailed marks a best-effort notification that could not
	// be delivered. Advisory only; never surfaced to the acting staff
	// member as a failure of their action.
	CodeDeliveryFailed Code = "delivery_failed"

	// CodeInternal covers unexpected infrastructure failures.
	CodeInternal Code = "internal_error"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and
// transport layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is
// preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// CodeOf returns the domain code of err, or CodeInternal when err is not
// a domain error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
