// listspecies.go list-species command code
package listspecies

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/inatdiff-go/internal/conf"
	"github.com/tphakala/inatdiff-go/internal/diff"
	"github.com/tphakala/inatdiff-go/internal/inat"
	"github.com/tphakala/inatdiff-go/internal/output"
	"github.com/tphakala/inatdiff-go/internal/report"
)

// Command creates the list-species command, a plain biodiversity listing
// with no historical classification.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		periodExpr string
		htmlFile   string
	)

	cmd := &cobra.Command{
		Use:   "list-species [region]",
		Short: "List all species observed in a region in a time period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), settings, args[0], periodExpr, htmlFile)
		},
	}

	cmd.Flags().StringVarP(&periodExpr, "period", "p", viper.GetString("diff.period"), "Time period, e.g. \"this month\", \"last 3 months\" or \"2024-01-01 to 2024-06-30\"")
	cmd.Flags().StringVar(&htmlFile, "html", "", "Path to save a standalone HTML report")

	return cmd
}

func run(ctx context.Context, settings *conf.Settings, region, periodExpr, htmlFile string) error {
	client, err := inat.NewClient(inat.ConfigFromSettings(settings))
	if err != nil {
		return err
	}
	defer client.Close()

	engine := diff.NewEngine(client, settings)
	list, err := engine.ListSpecies(ctx, periodExpr, region)
	if err != nil {
		return err
	}

	q := report.Query{Region: region, PeriodExpr: periodExpr}
	opts := output.FromSettings(settings)
	rendered, err := output.SpeciesList(q, list, opts)
	if err != nil {
		return err
	}
	if err := output.Emit(rendered, list, opts); err != nil {
		return err
	}

	if htmlFile != "" {
		// Quality probes cost one request per grade per species, too
		// expensive for a full inventory, so list reports skip them.
		doc, err := report.SpeciesListHTML(q, list, nil)
		if err != nil {
			return err
		}
		if err := output.SaveHTML(htmlFile, doc); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "HTML report saved to:", htmlFile)
	}
	return nil
}
