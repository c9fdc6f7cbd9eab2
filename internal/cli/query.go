package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tabletalk/tabletalk/internal/dispatch"
)

// NewQueryCommand creates the query command: translate and run one
// query, printing the response envelope.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <query...>",
		Short: "Translate and run a plain-language query",
		Long: `Translate a plain-language query, run it against the configured
database, and print the result.

Example:
  tabletalk query "show me all customers"
  tabletalk query --format json "count female customers"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, strings.Join(args, " "), cmd)
		},
	}
	return cmd
}

func runQuery(opts *RootOptions, query string, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: os.Stderr,
		Verbose:   opts.Verbose,
	}

	log := newLogger(opts.Verbose)
	svc, cleanup, err := openService(opts, log)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env := svc.TranslateAndRun(ctx, query)
	if err := out.Envelope(env); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	if env.Type == dispatch.TypeError {
		return &ExitError{Code: ExitFailure, Message: env.Message}
	}
	return nil
}
