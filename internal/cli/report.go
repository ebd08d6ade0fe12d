package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/equimind/api/internal/report"
	"github.com/forgo/equimind/api/internal/repository"
)

func newReportCommand(app *App) *cobra.Command {
	var (
		weeks  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "report <riderId>",
		Short: "Print a rider's weekly trends",
		Long: `Print weekly session counts, completion rate, mean performance score and
mean anxiety and confidence for a rider, oldest week first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown format %q (want table or json)", format)
			}

			ctx := cmd.Context()
			store, err := app.OpenStore(ctx)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer func() { _ = store.Close() }()

			gen, err := report.Open(report.Config{
				Sessions: repository.NewSessionRepository(store),
				Emotions: repository.NewEmotionRepository(store),
				Now:      app.Now,
			})
			if err != nil {
				return err
			}
			defer gen.Close()

			summaries, err := gen.Weekly(ctx, args[0], weeks)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No activity in the selected weeks.")
				return nil
			}
			return report.WriteTable(out, summaries)
		},
	}

	cmd.Flags().IntVarP(&weeks, "weeks", "w", report.DefaultWeeks, "Number of weeks to include, counting the current one")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	return cmd
}
