// Package output provides structured output and error handling for the gpp CLI.
package output

import (
	"errors"
	"fmt"
)

// Exit codes:
// 0 = Success
// 1 = User error (bad args, not a repo, gh missing)
// 2 = System error (I/O failure, external tool could not be started)
// 3 = Conflict (worktree directory already exists)
//
// A failing git or gh invocation exits with that tool's own status instead.
const (
	ExitSuccess     = 0
	ExitUserError   = 1
	ExitSystemError = 2
	ExitConflict    = 3
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewUserError creates an error for user-caused issues (exit code 1).
func NewUserError(message string) *ExitError {
	return &ExitError{
		Code:    ExitUserError,
		Message: message,
	}
}

// NewUserErrorf is NewUserError with fmt formatting.
func NewUserErrorf(format string, args ...any) *ExitError {
	return NewUserError(fmt.Sprintf(format, args...))
}

// NewSystemError creates an error for system failures (exit code 2).
func NewSystemError(message string) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
	}
}

// NewSystemErrorWithCause creates a system error wrapping an underlying cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
		Cause:   cause,
	}
}

// NewConflictError creates an error for conflict situations (exit code 3).
func NewConflictError(message string) *ExitError {
	return &ExitError{
		Code:    ExitConflict,
		Message: message,
	}
}

// NewExternalError reports a failed git or gh invocation. The exit code
// mirrors the tool's own status; detail is the tool's stderr and is used
// verbatim when present.
func NewExternalError(tool string, code int, detail string, cause error) *ExitError {
	if code <= 0 {
		code = ExitSystemError
	}
	msg := detail
	if msg == "" {
		msg = fmt.Sprintf("%s exited with status %d", tool, code)
	}
	return &ExitError{
		Code:    code,
		Message: msg,
		Cause:   cause,
	}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil, ExitUserError for non-ExitError errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitUserError
}
