// Package octierr provides the structured error kinds shared across the
// router, ILP driver, and I/O boundary, per spec.md §7.
//
// Grounded on matzehuels-stacktower's pkg/errors (a Code-tagged *Error
// wrapping an optional cause, with errors.As-based Is/GetCode helpers)
// rather than a flat set of sentinel values, so callers downstream of the
// engine (a CLI, an HTTP handler) can branch on a stable string code
// without importing this package's error variables directly.
package octierr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

// Error codes, one per spec.md §7 error kind.
const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeInfeasibleLayout   Code = "INFEASIBLE_LAYOUT"
	CodeNoSolution         Code = "NO_SOLUTION"
	CodeSolverTimeout      Code = "SOLVER_TIMEOUT"
	CodeSolverUnavailable  Code = "SOLVER_UNAVAILABLE"
)

// Error is a structured error carrying a machine-readable Code.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with the given code, wrapping cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the code from err, or "" if err is not (or does not
// wrap) an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Convenience constructors matching spec.md §7's named error kinds.

func InvalidInput(format string, args ...any) *Error {
	return New(CodeInvalidInput, format, args...)
}

func InfeasibleLayout(format string, args ...any) *Error {
	return New(CodeInfeasibleLayout, format, args...)
}

func NoSolution(format string, args ...any) *Error {
	return New(CodeNoSolution, format, args...)
}

func SolverTimeout(format string, args ...any) *Error {
	return New(CodeSolverTimeout, format, args...)
}

func SolverUnavailable(format string, args ...any) *Error {
	return New(CodeSolverUnavailable, format, args...)
}
