package errors

import (
	"fmt"
	"time"
)

// ParseError reports a syntax problem in diagram source.
//
// Line and Column are 1-based and point at the offending token. Code is
// either [ErrCodeParse] or [ErrCodeUnsupportedKind].
type ParseError struct {
	Code    Code
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ErrorCode returns the error code for this error type.
func (e *ParseError) ErrorCode() Code {
	if e.Code == "" {
		return ErrCodeParse
	}
	return e.Code
}

// PlatformError describes a failed call against a remote whiteboard platform.
type PlatformError struct {
	Code       Code          // UNAUTHORIZED, RATE_LIMITED, PLATFORM_API_ERROR or NETWORK_ERROR
	Platform   string        // Registered platform name, e.g. "miro"
	Status     int           // HTTP status, 0 for transport failures
	Message    string        // Human-readable message
	RetryAfter time.Duration // Server-requested delay for rate-limited responses
	Cause      error         // Underlying error (optional)
}

// Error implements the error interface.
func (e *PlatformError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Platform != "" {
		msg = e.Platform + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *PlatformError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the error code for this error type.
func (e *PlatformError) ErrorCode() Code {
	return e.Code
}

// PartialConversionError is returned when a conversion aborted after some
// remote objects were already created. Nothing is deleted; the caller decides
// whether to surface the partial board or clean it up.
type PartialConversionError struct {
	Platform          string
	BoardID           string
	BoardURL          string
	ShapesCreated     int
	ConnectorsCreated int
	NodeIDToShapeID   map[string]string
	ConnectorIDs      []string
	Cause             error
}

// Error implements the error interface.
func (e *PartialConversionError) Error() string {
	return fmt.Sprintf("%s: %s conversion incomplete (%d shapes, %d connectors created): %v",
		ErrCodePartial, e.Platform, e.ShapesCreated, e.ConnectorsCreated, e.Cause)
}

// Unwrap returns the failure that aborted the conversion.
func (e *PartialConversionError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the error code for this error type.
func (e *PartialConversionError) ErrorCode() Code {
	return ErrCodePartial
}
