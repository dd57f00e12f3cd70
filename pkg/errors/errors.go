// Package errors provides structured error types for prgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Codes
//
// Ingestion problems are reported as SOURCE_ERROR, missing required columns
// as SCHEMA_ERROR. Both are detected once, before any filtering or
// resolution, and are never retried.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "unknown scope %q", scope)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSource, origErr, "read sheet %s", sheet)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidColumn Code = "INVALID_COLUMN"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Dataset errors
	ErrCodeSource Code = "SOURCE_ERROR"
	ErrCodeSchema Code = "SCHEMA_ERROR"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Source wraps cause as a SOURCE_ERROR.
func Source(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeSource, cause, format, args...)
}

// coder is implemented by typed errors that carry a code without being *Error.
type coder interface {
	error
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a typed error
// (such as *SchemaError) with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no coded error is found in the chain.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (and cause) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	var s *SchemaError
	if errors.As(err, &s) {
		return s.message()
	}
	return err.Error()
}

// SchemaError reports a required column that is absent from a dataset header.
type SchemaError struct {
	Missing   string   // Name of the first missing required column
	Available []string // Trimmed column names present in the header
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeSchema, e.message())
}

func (e *SchemaError) message() string {
	return fmt.Sprintf("column %q not found; available columns: [%s]",
		e.Missing, strings.Join(e.Available, ", "))
}

// Code returns the error code for this error type.
func (e *SchemaError) Code() Code {
	return ErrCodeSchema
}
