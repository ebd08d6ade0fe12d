package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/forgo/equimind/api/internal/service"
)

func newCatalogCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Strategy catalog utilities",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the effective strategy catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withCatalog(cmd.Context(), func(catalog *service.CatalogService) error {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tCATEGORY\tANXIETY\tCONFIDENCE\tMINUTES")
				for _, s := range catalog.List() {
					tc := s.TriggerConditions
					fmt.Fprintf(tw, "%s\t%s\t%g-%g\t%g-%g\t%d\n",
						s.ID, s.Category, tc.AnxietyMin, tc.AnxietyMax, tc.ConfidenceMin, tc.ConfidenceMax, s.DurationMinutes)
				}
				return tw.Flush()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Validate and add strategies from a YAML file",
		Long:  "Strategies whose id is already in the catalog are reported and skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			strategies, err := service.LoadStrategiesYAML(f)
			if err != nil {
				return err
			}

			return app.withCatalog(cmd.Context(), func(catalog *service.CatalogService) error {
				imported, skipped, err := catalog.Import(cmd.Context(), strategies)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d strategies", len(imported))
				if len(imported) > 0 {
					fmt.Fprintf(out, ": %s", strings.Join(imported, ", "))
				}
				fmt.Fprintln(out)
				if len(skipped) > 0 {
					fmt.Fprintf(out, "Skipped %d existing: %s\n", len(skipped), strings.Join(skipped, ", "))
				}
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Write the effective catalog as YAML to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withCatalog(cmd.Context(), func(catalog *service.CatalogService) error {
				return service.WriteStrategiesYAML(cmd.OutOrStdout(), catalog.List())
			})
		},
	})

	return cmd
}
