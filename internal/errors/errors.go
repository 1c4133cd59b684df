// Package errors provides standardized domain errors with codes for the
// menu-rouletti core.
//
// Usage:
//
//	// In components - return typed errors
//	if tag == nil {
//	    return errors.TagNotFound("no tag with that id")
//	}
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrNotAuthenticated) {
//	    // prompt for sign-in
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the core.
const (
	CodeNotAuthenticated Code = "NOT_AUTHENTICATED"
	CodeValidation       Code = "VALIDATION"
	CodeTagNotFound      Code = "TAG_NOT_FOUND"
	CodeEmptyPool        Code = "EMPTY_POOL"
	CodeStore            Code = "STORE"
)

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotAuthenticated = &Error{Code: CodeNotAuthenticated, Message: "not authenticated"}
	ErrValidation       = &Error{Code: CodeValidation, Message: "validation error"}
	ErrTagNotFound      = &Error{Code: CodeTagNotFound, Message: "tag not found"}
	ErrEmptyPool        = &Error{Code: CodeEmptyPool, Message: "empty candidate pool"}
	ErrStore            = &Error{Code: CodeStore, Message: "store error"}
)

// Constructor functions for creating errors with custom messages.

// NotAuthenticated creates a not authenticated error.
func NotAuthenticated(msg string) *Error {
	return &Error{Code: CodeNotAuthenticated, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// TagNotFound creates a tag not found error.
func TagNotFound(msg string) *Error {
	return &Error{Code: CodeTagNotFound, Message: msg}
}

// TagNotFoundf creates a tag not found error with formatted message.
func TagNotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeTagNotFound, Message: fmt.Sprintf(format, args...)}
}

// EmptyPool creates an empty pool error.
func EmptyPool(msg string) *Error {
	return &Error{Code: CodeEmptyPool, Message: msg}
}

// Store wraps an opaque document store failure.
func Store(msg string, cause error) *Error {
	return &Error{Code: CodeStore, Message: msg, cause: cause}
}

// Storef wraps an opaque document store failure with a formatted message.
func Storef(cause error, format string, args ...any) *Error {
	return &Error{Code: CodeStore, Message: fmt.Sprintf(format, args...), cause: cause}
}
