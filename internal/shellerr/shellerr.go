// Package shellerr defines the shell's error taxonomy, kept strictly
// separate from the executor's control-flow sum type (frame.ControlFlow)
// per spec.md §9: these are host-boundary failures reported to the user,
// not values that drive break/continue/return propagation.
package shellerr

import "github.com/pkg/errors"

// Category classifies a shell error for exit-status mapping and message
// formatting.
type Category int

const (
	CategorySyntax Category = iota
	CategoryExpansion
	CategoryRedirection
	CategoryCommandNotFound
	CategoryNotExecutable
	CategoryBuiltinUsage
	CategoryRuntime
)

func (c Category) String() string {
	switch c {
	case CategorySyntax:
		return "syntax error"
	case CategoryExpansion:
		return "expansion error"
	case CategoryRedirection:
		return "redirection error"
	case CategoryCommandNotFound:
		return "command not found"
	case CategoryNotExecutable:
		return "not executable"
	case CategoryBuiltinUsage:
		return "usage error"
	case CategoryRuntime:
		return "runtime error"
	default:
		return "error"
	}
}

// ExitStatus returns the conventional POSIX exit code for a category
// when no more specific status is available (127 for command-not-found,
// 126 for found-but-not-executable, 2 for the rest of the usage/syntax
// family, 1 for general runtime failures).
func (c Category) ExitStatus() int {
	switch c {
	case CategoryCommandNotFound:
		return 127
	case CategoryNotExecutable:
		return 126
	case CategorySyntax, CategoryBuiltinUsage:
		return 2
	default:
		return 1
	}
}

// Error is a categorized shell error. The wrapped cause, if any, was
// produced by a host-boundary operation (open, exec, fork) and is
// attached with github.com/pkg/errors so callers can still recover the
// original error via this package's Cause.
type Error struct {
	Category Category
	Context  string // command or variable name the error concerns, if any
	cause    error
}

func (e *Error) Error() string {
	msg := e.Category.String()
	if e.Context != "" {
		msg = e.Context + ": " + msg
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// New constructs an Error with no wrapped cause.
func New(cat Category, context string) *Error {
	return &Error{Category: cat, Context: context}
}

// Wrap constructs an Error around a host-boundary failure, annotating it
// with errors.Wrap so later Cause()/stack-trace inspection still works.
func Wrap(cat Category, context string, cause error) *Error {
	if cause == nil {
		return New(cat, context)
	}
	return &Error{Category: cat, Context: context, cause: errors.Wrap(cause, cat.String())}
}

// Cause unwraps e to the deepest wrapped error, or returns e itself if
// it was constructed with New.
func Cause(err error) error {
	if e, ok := err.(*Error); ok && e.cause != nil {
		return errors.Cause(e.cause)
	}
	return errors.Cause(err)
}
