package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"scalargrad/internal/expr"
	"scalargrad/internal/graph"
	"scalargrad/internal/trace"
)

// Execute runs one canonical invocation end to end: load the program, run
// the backward pass, and render the report to out.
//
// Every failure is returned with its semantic exit code attached; Execute
// never terminates the process.
func Execute(ctx context.Context, inv Invocation, out io.Writer) error {
	if err := inv.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &ExitError{Code: ExitInternalError, Err: err}
	}

	var (
		prog *expr.Program
		err  error
	)
	if inv.Demo {
		prog = DemoProgram()
	} else {
		prog, err = expr.Load(inv.Path)
		if err != nil {
			return &ExitError{Code: ExitInputError, Err: err}
		}
	}

	// Fresh pass: the program may be reused, and Backward accumulates.
	if err := graph.ZeroGradients(prog.Root); err != nil {
		return &ExitError{Code: ExitEvalFailure, Err: err}
	}
	if err := graph.Backward(prog.Root); err != nil {
		return &ExitError{Code: ExitEvalFailure, Err: err}
	}

	rep, err := BuildReport(prog)
	if err != nil {
		return &ExitError{Code: ExitEvalFailure, Err: err}
	}
	slog.Debug("backward pass complete",
		"leaves", len(prog.Leaves),
		"value", rep.Value,
		"fingerprint", rep.Fingerprint)

	if inv.TracePath != "" {
		if err := writeTrace(prog, inv.TracePath); err != nil {
			return &ExitError{Code: ExitInternalError, Err: err}
		}
	}

	switch inv.Format {
	case FormatJSON:
		b, err := rep.JSON()
		if err != nil {
			return &ExitError{Code: ExitInternalError, Err: err}
		}
		fmt.Fprintln(out, string(b))
	default:
		fmt.Fprint(out, rep.RenderText())
	}
	return nil
}

func writeTrace(prog *expr.Program, path string) error {
	tr, err := trace.Record(prog.Root)
	if err != nil {
		return fmt.Errorf("record trace: %w", err)
	}
	b, err := tr.CanonicalJSON()
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	slog.Debug("trace written", "path", path, "hash", trace.ComputeTraceHash(b))
	return nil
}
