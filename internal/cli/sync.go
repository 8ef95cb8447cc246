package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/quotes/internal/config"
	"github.com/mrlokans/quotes/internal/entrypoint"
)

func newSyncCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile once with the remote source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, func(app *entrypoint.App) error {
				result, err := app.Scheduler.SyncNow(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if result.Merged == 0 {
					fmt.Fprintf(out, "Fetched %d quotes, nothing new.\n", result.Fetched)
					return nil
				}
				for _, n := range app.Feed.Recent("") {
					fmt.Fprintln(out, n.Message)
				}
				for _, q := range result.Quotes {
					printQuote(out, q)
				}
				return nil
			})
		},
	}
}
