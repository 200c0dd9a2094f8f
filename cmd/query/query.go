// query.go query command code
package query

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/inatdiff-go/internal/conf"
	"github.com/tphakala/inatdiff-go/internal/diff"
	"github.com/tphakala/inatdiff-go/internal/inat"
	"github.com/tphakala/inatdiff-go/internal/output"
	"github.com/tphakala/inatdiff-go/internal/report"
)

// Command creates the query command, a raw observation count for one
// species in one region.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		periodExpr string
		species    string
	)

	cmd := &cobra.Command{
		Use:   "query [region]",
		Short: "Count observations of a species in a region in a time period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), settings, args[0], periodExpr, species)
		},
	}

	cmd.Flags().StringVarP(&periodExpr, "period", "p", viper.GetString("diff.period"), "Time period, e.g. \"this month\", \"last 3 months\" or \"2024-01-01 to 2024-06-30\"")
	cmd.Flags().StringVarP(&species, "species", "s", "", "Scientific name of the species to count")
	_ = cmd.MarkFlagRequired("species")

	return cmd
}

func run(ctx context.Context, settings *conf.Settings, region, periodExpr, species string) error {
	client, err := inat.NewClient(inat.ConfigFromSettings(settings))
	if err != nil {
		return err
	}
	defer client.Close()

	engine := diff.NewEngine(client, settings)
	sum, err := engine.CountObservations(ctx, species, periodExpr, region)
	if err != nil {
		return err
	}

	q := report.Query{Region: region, PeriodExpr: periodExpr, TaxonName: species}
	opts := output.FromSettings(settings)
	rendered, err := output.Observations(q, sum, opts)
	if err != nil {
		return err
	}
	return output.Emit(rendered, sum, opts)
}
