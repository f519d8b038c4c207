// Package errors provides structured error types for tracefold.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the loaders and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Malformed input files or arguments
//   - *_NOT_FOUND: Missing files, traces, or nodes
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoTraces, "No traces were generated.")
//	if errors.Is(err, errors.ErrCodeNoTraces) {
//	    // Nothing to show
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "cannot read %s", path)
package errors

import (
	"bytes"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidKind     Code = "INVALID_KIND"
	ErrCodeInvalidRelation Code = "INVALID_RELATION"
	ErrCodeInvalidGraph    Code = "INVALID_GRAPH"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidTheme    Code = "INVALID_THEME"
	ErrCodeNoTraces        Code = "NO_TRACES"

	// Resource not found errors
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeTraceNotFound Code = "TRACE_NOT_FOUND"
	ErrCodeNodeNotFound  Code = "NODE_NOT_FOUND"

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

// LineError locates a decoding failure in an input file.
type LineError struct {
	Path   string // File being read, empty for a stream
	Line   int    // 1-based line, or 0 if unknown
	Column int    // 1-based byte column on Line
	Err    error
}

// AtOffset returns a LineError for a failure after reading offset bytes of
// data. Offsets past the end of data point at the last byte.
func AtOffset(data []byte, offset int64, err error) *LineError {
	off := int(min(max(offset, 0), int64(len(data))))
	head := data[:off]
	line := 1 + bytes.Count(head, []byte("\n"))
	col := off - bytes.LastIndexByte(head, '\n')
	return &LineError{Line: line, Column: col, Err: err}
}

// Error implements the error interface.
func (e *LineError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)
		if e.Path == "" {
			loc = fmt.Sprintf("line %d, column %d", e.Line, e.Column)
		}
	}
	if loc == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

// Unwrap returns the decoding error.
func (e *LineError) Unwrap() error { return e.Err }

// Code returns the error code for this error type.
func (e *LineError) Code() Code {
	return ErrCodeInvalidFormat
}
