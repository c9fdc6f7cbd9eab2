package cli

import (
	"log/slog"
	"os"

	"github.com/tabletalk/tabletalk/internal/config"
	"github.com/tabletalk/tabletalk/internal/schema"
	"github.com/tabletalk/tabletalk/internal/service"
	"github.com/tabletalk/tabletalk/internal/store"
)

// newLogger builds the process logger. Diagnostics go to stderr so JSON
// command output on stdout stays parseable.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore loads configuration and opens the configured database.
func openStore(opts *RootOptions) (*store.Store, config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, config.Config{}, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, cfg, nil
}

// openService wires the full pipeline: contract, store, service.
// The returned cleanup closes the store.
func openService(opts *RootOptions, log *slog.Logger) (*service.Service, func(), error) {
	reg, err := schema.Default()
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to compile dataset contract", err)
	}
	st, _, err := openStore(opts)
	if err != nil {
		return nil, nil, err
	}
	svc := service.New(reg, st, log)
	return svc, func() { st.Close() }, nil
}
