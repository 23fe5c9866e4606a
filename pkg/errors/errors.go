// Package errors provides structured error types for mermaidboard.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the core
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Kinds
//
// Every failure a conversion can produce maps to one code:
//
//   - PARSE_ERROR, UNSUPPORTED_DIAGRAM_TYPE: bad or unsupported input ([ParseError])
//   - GRAPH_INTEGRITY: internal invariant violation between parser and builder
//   - UNAUTHORIZED, RATE_LIMITED, PLATFORM_API_ERROR, NETWORK_ERROR: remote
//     failures ([PlatformError])
//   - PARTIAL_CONVERSION: some remote objects were created before a failure
//     ([PartialConversionError])
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "board name too long: %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to reach %s", host)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeParse           Code = "PARSE_ERROR"
	ErrCodeUnsupportedKind Code = "UNSUPPORTED_DIAGRAM_TYPE"

	// Core invariant violations
	ErrCodeGraphIntegrity Code = "GRAPH_INTEGRITY"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodePlatformNotFound Code = "PLATFORM_NOT_FOUND"

	// Remote platform errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"
	ErrCodePlatformAPI Code = "PLATFORM_API_ERROR"
	ErrCodePartial     Code = "PARTIAL_CONVERSION"

	// Authentication errors
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeForbidden    Code = "FORBIDDEN"

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

// As is [errors.As] from the standard library, re-exported so callers
// importing this package do not need both.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// coder is implemented by the typed errors in this package that are not *Error.
type coder interface {
	ErrorCode() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain and returns true on the first coded error
// whose code matches.
func Is(err error, code Code) bool {
	for err != nil {
		if c, ok := codeOf(err); ok && c == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		if c, ok := codeOf(err); ok {
			return c
		}
		err = errors.Unwrap(err)
	}
	return ""
}

func codeOf(err error) (Code, bool) {
	switch e := err.(type) {
	case *Error:
		return e.Code, true
	case coder:
		return e.ErrorCode(), true
	}
	return "", false
}

// UserMessage returns a user-friendly message for the error.
// For coded errors, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch t := e.(type) {
		case *Error:
			return t.Message
		case *ParseError:
			return t.Error()
		case *PlatformError:
			return t.Message
		case *PartialConversionError:
			return fmt.Sprintf("conversion incomplete after %d shapes and %d connectors: %s",
				t.ShapesCreated, t.ConnectorsCreated, UserMessage(t.Cause))
		}
	}
	return err.Error()
}
