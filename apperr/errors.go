package apperr

import (
	"errors"
	"fmt"
)

// Code classifies an error for the HTTP layer.
type Code string

const (
	CodeUnauthenticated   Code = "unauthenticated"
	CodeUnauthorized      Code = "unauthorized"
	CodeForbidden         Code = "forbidden"
	CodeNotFound          Code = "not_found"
	CodeConflict          Code = "conflict"
	CodeInvalid           Code = "invalid"
	CodeInvalidIdentifier Code = "invalid_identifier"
	CodeStoreFailure      Code = "store_failure"
)

// AppError carries a code and a user-facing message. Err is the underlying
// cause and is never shown to clients.
type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// New creates an AppError without a cause.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches code and message to err.
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return New(code, message)
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NotFound is shorthand for a domain lookup miss.
func NotFound(message string) *AppError { return New(CodeNotFound, message) }

// Invalid is shorthand for a failed presence check.
func Invalid(message string) *AppError { return New(CodeInvalid, message) }

// Store wraps a datastore failure.
func Store(err error) *AppError {
	return Wrap(err, CodeStoreFailure, "Database Operation Failed")
}

// As extracts the AppError from err, classifying unknown errors as store failures.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return Store(err)
}

// IsCode checks if err carries code anywhere in its chain.
func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
