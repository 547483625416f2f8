// Package errors provides structured error types for branchpalette.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so the CLI can decide how to report it and whether to keep going:
//
//   - CONFIG: a name/template table is missing or too short, or a count is invalid
//   - SLUG_COLLISION: two siblings derive the same slug and strict mode is on
//   - IO: a directory or file could not be created or written (message names the path)
//   - FETCH: the directory document could not be loaded or decoded
//   - NOT_FOUND: a lookup by id did not resolve
//   - INTERNAL: a cross-reference invariant was broken by the builder itself
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "branch name table has %d entries, need %d", n, want)
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // abort the run
//	}
//
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Generation errors
	ErrCodeConfig        Code = "CONFIG"
	ErrCodeSlugCollision Code = "SLUG_COLLISION"
	ErrCodeIO            Code = "IO"

	// Client errors
	ErrCodeFetch    Code = "FETCH"
	ErrCodeNotFound Code = "NOT_FOUND"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IOError wraps a filesystem failure with the offending path.
func IOError(cause error, op, path string) *Error {
	return Wrap(ErrCodeIO, cause, "%s %s", op, path)
}

// IsFatal reports whether err should abort a generation run.
// Fetch and not-found errors are recoverable; everything else is fatal.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeFetch, ErrCodeNotFound:
		return false
	}
	return err != nil
}
