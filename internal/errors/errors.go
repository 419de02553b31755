// Package errors defines exit-code conventions for the vmxd daemon.
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. It supports unwrapping via [errors.Unwrap] and
// [errors.As]:
//
//	var exitErr *vmxerrors.ExitError
//	if errors.As(err, &exitErr) {
//		os.Exit(exitErr.Code)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	// ExitSuccess indicates the daemon terminated normally.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions, etc.).
	ExitSystem = 2

	// ExitSettingsChanged indicates the daemon quit because its
	// settings file changed on disk; the service manager restarts it
	// to pick up the new values.
	ExitSettingsChanged = 42
)

// Sentinel errors for common failure conditions.
var (
	// ErrInvalidConfig indicates bootstrap configuration validation failed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSettingsChanged indicates the watched settings file was modified.
	ErrSettingsChanged = errors.New("settings changed on disk")
)

// ExitError wraps an error with an exit code and optional suggestion.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitUser, Suggestion: suggestion}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitSystem, Suggestion: suggestion}
}

// Error returns the underlying error message, or a generic message
// when no underlying error is present.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
