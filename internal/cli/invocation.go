package cli

import (
	"errors"
	"fmt"
)

const (
	ExitSuccess           = 0
	ExitEvalFailure       = 1
	ExitInvalidInvocation = 2
	ExitInputError        = 3
	ExitInternalError     = 4
)

// OutputFormat selects how a report is rendered.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Invocation is the canonical description of one evaluation run.
//
// Either Demo is set, or Path names an expression file; flags/arguments are
// resolved into this struct before any engine logic runs.
type Invocation struct {
	// Path is the expression file to evaluate. Ignored when Demo is set.
	Path string

	// Demo evaluates the built-in demonstration expression instead of a file.
	Demo bool

	Format OutputFormat

	// TracePath, when non-empty, writes the canonical backward trace there.
	TracePath string
}

func (inv Invocation) validate() error {
	if !inv.Demo && inv.Path == "" {
		return invalidInvocationf("an expression file is required")
	}
	switch inv.Format {
	case FormatText, FormatJSON:
	default:
		return invalidInvocationf("unknown format %q (want %s or %s)", inv.Format, FormatText, FormatJSON)
	}
	return nil
}

// InvocationError reports an unusable invocation together with its semantic
// exit code.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// ExitError carries the semantic exit code for a failure that occurred after
// invocation parsing, wrapping the underlying cause.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Execute (or the command layer) to the
// process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) {
		return invErr.ExitCode
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInternalError
}
