package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned by repository writes against a missing email.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when an insert hits the unique email constraint.
	ErrUserExists = errors.New("user already exists")
)

// ValidationError means the request itself is unusable (HTTP 400).
type ValidationError struct {
	Msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError means a prerequisite record or link is missing.
type NotFoundError struct {
	Msg string
}

func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{Msg: msg}
}

func (e *NotFoundError) Error() string { return e.Msg }

// UpstreamError wraps a failure of the aggregation or processor service.
// Error() returns the upstream message verbatim.
type UpstreamError struct {
	Service string // "plaid" or "stripe"
	Op      string
	Msg     string
	Err     error
}

func NewUpstreamError(service, op, msg string, err error) *UpstreamError {
	if msg == "" && err != nil {
		msg = err.Error()
	}
	return &UpstreamError{Service: service, Op: op, Msg: msg, Err: err}
}

func (e *UpstreamError) Error() string { return e.Msg }

func (e *UpstreamError) Unwrap() error { return e.Err }

// Describe names the service and operation for log lines.
func (e *UpstreamError) Describe() string {
	return fmt.Sprintf("%s %s: %s", e.Service, e.Op, e.Msg)
}

// IsValidation, IsNotFound and IsUpstream classify errors for transport mapping.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n) || errors.Is(err, ErrUserNotFound)
}

func IsUpstream(err error) bool {
	var u *UpstreamError
	return errors.As(err, &u)
}
