// Package cli implements the command-line interface on top of the same
// components the HTTP server uses.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/quotes/internal/config"
	"github.com/mrlokans/quotes/internal/entrypoint"
)

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "quotes",
		Short:         "Keep, browse and sync a collection of quotes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(cmd.Context(), cfg, version)
		},
	}
	root.PersistentFlags().StringVar(&cfg.Database.Path, "db", cfg.Database.Path, "Path to the database file")

	root.AddCommand(
		newServeCommand(cfg, version),
		newAddCommand(cfg),
		newRandomCommand(cfg),
		newListCommand(cfg),
		newExportCommand(cfg),
		newImportCommand(cfg),
		newSyncCommand(cfg),
	)
	return root
}

func newServeCommand(cfg *config.Config, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the sync scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(cmd.Context(), cfg, version)
		},
	}
}

// withApp opens the application for a one-off command. The task queue is
// not started; pushes run inline and are waited for on close.
func withApp(ctx context.Context, cfg *config.Config, fn func(app *entrypoint.App) error) (err error) {
	local := *cfg
	local.Tasks.Enabled = false

	app, err := entrypoint.NewApp(ctx, &local)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close database: %w", closeErr)
		}
	}()

	return fn(app)
}
