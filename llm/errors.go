package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an LLM operation failure.
type ErrorKind string

const (
	// ErrKindAuth covers missing or rejected credentials (HTTP 401/403,
	// or a required config field that is absent).
	ErrKindAuth ErrorKind = "auth"

	// ErrKindRateLimit covers HTTP 429 and 408. The transport never
	// retries these; a caller may choose to retry at a higher level.
	ErrKindRateLimit ErrorKind = "rate_limit"

	// ErrKindGeneric covers everything else: unsupported providers,
	// malformed response shapes, exhausted retries, network failures.
	ErrKindGeneric ErrorKind = "generic"
)

// Error is the provider-neutral error for everything that goes wrong at
// this abstraction layer.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewAuthError creates an authentication error.
func NewAuthError(format string, args ...any) *Error {
	return &Error{Kind: ErrKindAuth, Message: fmt.Sprintf(format, args...)}
}

// NewRateLimitError creates a rate-limit/timeout error.
func NewRateLimitError(format string, args ...any) *Error {
	return &Error{Kind: ErrKindRateLimit, Message: fmt.Sprintf(format, args...)}
}

// NewError creates a generic error.
func NewError(format string, args ...any) *Error {
	return &Error{Kind: ErrKindGeneric, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a generic error wrapping a cause.
func WrapError(cause error, format string, args ...any) *Error {
	return &Error{Kind: ErrKindGeneric, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	return kindOf(err) == ErrKindAuth
}

// IsRateLimitError checks if an error is a rate-limit error.
func IsRateLimitError(err error) bool {
	return kindOf(err) == ErrKindRateLimit
}

// IsGenericError checks if an error is a generic LLM error.
func IsGenericError(err error) bool {
	return kindOf(err) == ErrKindGeneric
}

func kindOf(err error) ErrorKind {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Kind
	}
	return ""
}
