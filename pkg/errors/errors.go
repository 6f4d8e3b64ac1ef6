// Package errors provides structured error types for the seesaw application.
//
// Every error that crosses a package boundary carries a machine-readable
// [Code] so the CLI and the HTTP API can react to the error category without
// string matching.
//
// # Error Codes
//
//   - INVALID_*: input or configuration validation failures
//   - OUT_OF_BOUNDS: a plank coordinate outside [0, length]
//   - NOT_FOUND: no persisted state for a slot
//   - PERSISTENCE_FAILURE: the state store could not load or save
//   - MISSING_COLLABORATOR: a render or storage target is not attached
//   - INTERNAL_ERROR: unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeOutOfBounds, "x=%.1f outside plank [0, %.0f]", x, length)
//	if errors.Is(err, errors.ErrCodeOutOfBounds) {
//	    // reject the click
//	}
//
//	err := errors.Wrap(errors.ErrCodePersistence, origErr, "save slot %q", slot)
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
	ErrCodeOutOfBounds    Code = "OUT_OF_BOUNDS"
	ErrCodeInvalidWeight  Code = "INVALID_WEIGHT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidBackend Code = "INVALID_BACKEND"
	ErrCodeInvalidSlot    Code = "INVALID_SLOT"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Collaborator errors
	ErrCodePersistence         Code = "PERSISTENCE_FAILURE"
	ErrCodeMissingCollaborator Code = "MISSING_COLLABORATOR"

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
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err is one of the INVALID_* or OUT_OF_BOUNDS
// codes, i.e. the caller supplied bad input.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeOutOfBounds, ErrCodeInvalidWeight,
		ErrCodeInvalidConfig, ErrCodeInvalidFormat, ErrCodeInvalidBackend, ErrCodeInvalidSlot:
		return true
	}
	return false
}
