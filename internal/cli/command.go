package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the scalargrad command tree.
//
// Commands render to cmd.OutOrStdout(), so tests can capture output without
// touching the process streams. Errors are returned, not printed; main maps
// them to exit codes via ExitCode.
func NewRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "scalargrad",
		Short:         "Reverse-mode automatic differentiation over scalar expression graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &InvocationError{ExitCode: ExitInvalidInvocation, Message: err.Error()}
	})

	root.AddCommand(newEvalCommand(), newDemoCommand())
	return root
}

// exactArgs mirrors cobra.ExactArgs but reports the failure with the
// invalid-invocation exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return invalidInvocationf("%s expects %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

func newEvalCommand() *cobra.Command {
	var (
		format    string
		tracePath string
	)

	cmd := &cobra.Command{
		Use:   "eval <expression-file>",
		Short: "Evaluate an expression file and report its value and gradients",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv := Invocation{
				Path:      args[0],
				Format:    OutputFormat(format),
				TracePath: tracePath,
			}
			return Execute(cmd.Context(), inv, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&format, "format", string(FormatText), "output format: text or json")
	cmd.Flags().StringVar(&tracePath, "trace", "", "write the canonical backward trace to this path")
	return cmd
}

func newDemoCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Evaluate the built-in demonstration expression relu(a*b + pow(c, e))",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv := Invocation{
				Demo:   true,
				Format: OutputFormat(format),
			}
			return Execute(cmd.Context(), inv, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&format, "format", string(FormatText), "output format: text or json")
	return cmd
}
