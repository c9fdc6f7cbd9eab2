package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tabletalk/tabletalk/internal/intent"
	"github.com/tabletalk/tabletalk/internal/resolve"
	"github.com/tabletalk/tabletalk/internal/schema"
	"github.com/tabletalk/tabletalk/internal/service"
)

// NewCompileCommand creates the compile command: translate without
// executing, printing the parameterized SQL and its bindings.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <query...>",
		Short: "Translate a plain-language query to SQL without running it",
		Long: `Translate a plain-language query into a parameterized SQL statement
and print the statement plus its bound parameters, without touching the
database.

Example:
  tabletalk compile "show customers with age > 30"
  tabletalk compile --format json "count female customers"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(rootOpts, strings.Join(args, " "), cmd)
		},
	}
	return cmd
}

// compileOutput is the JSON shape of a compile-only translation.
type compileOutput struct {
	SQL    string         `json:"sql"`
	Params map[string]any `json:"params"`
}

func runCompile(opts *RootOptions, query string, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: os.Stderr,
		Verbose:   opts.Verbose,
	}

	reg, err := schema.Default()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compile dataset contract", err)
	}

	// No store needed: build the translation stages directly.
	svc := service.New(reg, nil, newLogger(opts.Verbose))
	compiled, err := svc.Compile(query)
	if err != nil {
		var reject *resolve.RejectError
		if errors.As(err, &reject) {
			for _, s := range reject.Suggestions {
				out.VerboseLog("try: %s", s)
			}
		}
		return WrapExitError(ExitFailure, "query rejected", err)
	}

	params := make(map[string]any, len(compiled.Statement.Params))
	for name, v := range compiled.Statement.Params {
		params[name] = intent.Native(v)
	}

	if opts.Format == "json" {
		return out.Success(compileOutput{SQL: compiled.Statement.Text, Params: params})
	}
	out.VerboseLog("params: %v", params)
	return out.Success(compiled.Statement.Text)
}
