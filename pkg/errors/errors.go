// Package errors provides structured error types for curvesvg.
//
// Conversion failures fall into two families:
//
//   - Structural errors abort a whole conversion (missing artboard list,
//     out-of-range top-level reference, unsupported format version).
//   - Recoverable errors (bad cross-reference, undecodable style, empty
//     geometry) are absorbed by the component that hit them. They are logged
//     as warnings and collected on the result so callers can inspect them.
//
// # Error Codes
//
//   - STRUCTURAL, UNSUPPORTED_VERSION: fatal for the conversion
//   - REFERENCE, STYLE_DECODE, GEOMETRY: recovered locally
//   - INVALID_*, NOT_FOUND: input and container problems
//   - INTERNAL: unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeStructural, "layer index %d out of range", i)
//	if errors.IsStructural(err) {
//	    // abort
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidArchive, zipErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Fatal conversion errors
	ErrCodeStructural         Code = "STRUCTURAL"
	ErrCodeUnsupportedVersion Code = "UNSUPPORTED_VERSION"

	// Recoverable conversion errors
	ErrCodeReference   Code = "REFERENCE"
	ErrCodeStyleDecode Code = "STYLE_DECODE"
	ErrCodeGeometry    Code = "GEOMETRY"

	// Input errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidArchive Code = "INVALID_ARCHIVE"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeNotFound       Code = "NOT_FOUND"

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

// IsStructural reports whether err aborts a whole conversion.
// Unsupported format versions count as structural.
func IsStructural(err error) bool {
	switch GetCode(err) {
	case ErrCodeStructural, ErrCodeUnsupportedVersion:
		return true
	}
	return false
}

// IsRecoverable reports whether err is one of the per-element kinds that
// the converter absorbs with a fallback.
func IsRecoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeReference, ErrCodeStyleDecode, ErrCodeGeometry:
		return true
	}
	return false
}
