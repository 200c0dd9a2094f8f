// newspecies.go new-species command code
package newspecies

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

// Command creates the new-species command for full-region diffs and
// single-species checks.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		periodExpr string
		species    string
		htmlFile   string
	)

	cmd := &cobra.Command{
		Use:   "new-species [region]",
		Short: "Find species new to a region in a time period",
		Long: `Compare the species observed in a region during a time period against the
preceding lookback window and report which of them have no prior
observations. With --species, check a single species instead of the
full species set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), settings, args[0], periodExpr, species, htmlFile)
		},
	}

	cmd.Flags().StringVarP(&periodExpr, "period", "p", viper.GetString("diff.period"), "Time period, e.g. \"this month\", \"last 3 months\" or \"2024-01-01 to 2024-06-30\"")
	cmd.Flags().StringVarP(&species, "species", "s", "", "Scientific name of a single species to check instead of the full set")
	cmd.Flags().StringVar(&htmlFile, "html", "", "Path to save a standalone HTML report")

	return cmd
}

func run(ctx context.Context, settings *conf.Settings, region, periodExpr, species, htmlFile string) error {
	client, err := inat.NewClient(inat.ConfigFromSettings(settings))
	if err != nil {
		return err
	}
	defer client.Close()

	engine := diff.NewEngine(client, settings)
	q := report.Query{Region: region, PeriodExpr: periodExpr, TaxonName: species}
	opts := output.FromSettings(settings)

	var (
		res      *diff.Result
		rendered string
	)
	if species != "" {
		res, err = engine.RunTaxon(ctx, species, periodExpr, region)
	} else {
		res, err = engine.Run(ctx, periodExpr, region)
	}
	if err != nil {
		return err
	}

	if species != "" {
		rendered, err = output.TaxonCheck(q, res, opts)
	} else {
		rendered, err = output.Result(q, res, opts)
	}
	if err != nil {
		return err
	}
	if err := output.Emit(rendered, res, opts); err != nil {
		return err
	}

	if htmlFile != "" {
		if err := saveHTMLReport(ctx, client, q, res, species != "", htmlFile); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "HTML report saved to:", htmlFile)
	}
	return nil
}

// saveHTMLReport writes the standalone HTML document, annotating new
// species with their best observation quality grade first.
func saveHTMLReport(ctx context.Context, client *inat.Client, q report.Query, res *diff.Result, singleSpecies bool, path string) error {
	var (
		doc string
		err error
	)
	if singleSpecies {
		doc, err = report.TaxonCheckHTML(q, res)
	} else {
		ids := make([]int, 0, len(res.NewSpecies))
		for i := range res.NewSpecies {
			ids = append(ids, res.NewSpecies[i].TaxonID)
		}
		quality, qerr := report.AnnotateQuality(ctx, client, res.ResolvedPlace.Place.ID, ids)
		if qerr != nil {
			return qerr
		}
		doc, err = report.ResultHTML(q, res, quality)
	}
	if err != nil {
		return err
	}
	return output.SaveHTML(path, doc)
}
