package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/quotes/internal/config"
	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/entrypoint"
	"github.com/mrlokans/quotes/internal/exporters"
	"github.com/mrlokans/quotes/internal/metrics"
)

func newAddCommand(cfg *config.Config) *cobra.Command {
	var category string
	var noPush bool

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a quote and push it to the remote source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, func(app *entrypoint.App) error {
				quote, err := app.Store.Add(cmd.Context(), args[0], category)
				app.Audit.LogCreate(entities.NewQuote(args[0], category), err)
				if err != nil {
					return err
				}
				app.Metrics.AddQuotes(metrics.SourceManual, 1)
				if !noPush {
					app.Agent.PushLocal(quote)
				}

				printQuote(cmd.OutOrStdout(), quote)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Quote category (required)")
	cmd.Flags().BoolVar(&noPush, "no-push", false, "Do not send the quote to the remote source")
	return cmd
}

func newRandomCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Show a random quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, func(app *entrypoint.App) error {
				quote, ok := app.Store.Random()
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No quotes available. Add one first.")
					return nil
				}
				printQuote(cmd.OutOrStdout(), quote)
				return nil
			})
		},
	}
}

func newListCommand(cfg *config.Config) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes in a category (the saved filter when omitted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, func(app *entrypoint.App) error {
				ctx := cmd.Context()
				if category == "" {
					category = app.Settings.GetLastFilter(ctx)
				} else if err := app.Settings.SetLastFilter(ctx, category); err != nil {
					return err
				}

				matched := app.Store.ByCategory(category)
				out := cmd.OutOrStdout()
				if len(matched) == 0 {
					fmt.Fprintln(out, "No quotes found for this category.")
					return nil
				}
				for _, q := range matched {
					printQuote(out, q)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", `Category to show, or "all"`)
	return cmd
}

func newExportCommand(cfg *config.Config) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all quotes to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, func(app *entrypoint.App) error {
				all := app.Store.All()
				result, err := exporters.NewJSONExporter().WriteFile(output, all)
				app.Audit.LogExport(len(all), err)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d quotes to %s\n", result.QuotesProcessed, output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", exporters.FileName, "Output file")
	return cmd
}

func newImportCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append the quotes from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			return withApp(cmd.Context(), cfg, func(app *entrypoint.App) error {
				result, err := app.Importer.Import(cmd.Context(), data)
				if err != nil {
					return err
				}
				app.Metrics.AddQuotes(metrics.SourceImport, result.QuotesImported)
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d quotes.\n", result.QuotesImported)
				return nil
			})
		},
	}
}

func printQuote(w io.Writer, q entities.Quote) {
	fmt.Fprintf(w, "%q - %s\n", q.Text, q.Category)
}
