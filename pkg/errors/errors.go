// Package errors provides structured error types for cablemoment.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_ROOT, DUPLICATE_*: Topology failures found while building a network
//   - *_NOT_FOUND: Resource not found
//   - *_ERROR: Backend and internal failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLoad, "load %s has negative power", id)
//	if errors.Is(err, errors.ErrCodeInvalidLoad) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "save result %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidSegment Code = "INVALID_SEGMENT"
	ErrCodeInvalidLoad    Code = "INVALID_LOAD"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Topology errors
	ErrCodeNoRoot          Code = "NO_ROOT"
	ErrCodeMultipleRoots   Code = "MULTIPLE_ROOTS"
	ErrCodeDuplicateOffset Code = "DUPLICATE_OFFSET"

	// Sizing errors
	ErrCodeNoConductor Code = "NO_CONDUCTOR"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeResultNotFound Code = "RESULT_NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"

	// Backend errors
	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeCache   Code = "CACHE_ERROR"

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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsTopology reports whether err describes a network that cannot be reduced
// to a single rooted tree.
func IsTopology(err error) bool {
	switch GetCode(err) {
	case ErrCodeNoRoot, ErrCodeMultipleRoots, ErrCodeDuplicateOffset:
		return true
	}
	return false
}

// HTTPStatus maps an error code onto the HTTP status the API answers with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidSegment, ErrCodeInvalidLoad, ErrCodeInvalidFormat, ErrCodeInvalidConfig:
		return 400
	case ErrCodeNoRoot, ErrCodeMultipleRoots, ErrCodeDuplicateOffset, ErrCodeNoConductor:
		return 422
	case ErrCodeNotFound, ErrCodeResultNotFound, ErrCodeFileNotFound:
		return 404
	case ErrCodeUnsupported:
		return 501
	case ErrCodeStorage, ErrCodeCache:
		return 503
	}
	return 500
}
