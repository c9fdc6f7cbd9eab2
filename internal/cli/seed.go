package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command: apply the schema and insert
// the sample dataset into an empty database.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and load sample customers",
		Long: `Open the configured database, apply the customers schema, and insert
the deterministic sample dataset. Seeding a non-empty database is a
no-op.

Example:
  tabletalk seed
  DB_DSN=/tmp/demo.db tabletalk seed`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, cmd)
		},
	}
	return cmd
}

func runSeed(opts *RootOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: os.Stderr,
		Verbose:   opts.Verbose,
	}

	st, cfg, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	n, err := st.Seed(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to seed database", err)
	}

	out.VerboseLog("driver=%s dsn=%s", cfg.Database.Driver, cfg.Database.DSN)
	if n == 0 {
		return out.Success("database already populated, nothing to do")
	}
	return out.Success(fmt.Sprintf("seeded %d customers", n))
}
