// Package report renders diff results as console text, markdown and
// standalone HTML documents. Renderers are pure: they take finished
// results and never touch the network, so the same Result can be
// rendered every way without repeating API calls. Quality-grade
// annotation is the one exception and lives behind AnnotateQuality.
package report

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tphakala/inatdiff-go/internal/diff"
)

const (
	taxonURLBase        = "https://www.inaturalist.org/taxa"
	observationsURLBase = "https://www.inaturalist.org/observations"

	// DefaultSpeciesLimit caps console species lists the way the
	// original reports did, keeping terminal output scannable.
	DefaultSpeciesLimit = 20
)

// Query echoes the user's original inputs back into report headers so a
// reader can tell what was asked, not just what was resolved.
type Query struct {
	Region     string // region text as typed
	PeriodExpr string // period expression as typed
	TaxonName  string // species name as typed, single-species checks only
}

// numPrinter renders integers with thousands separators.
var numPrinter = message.NewPrinter(language.English)

func formatCount(n int) string {
	return numPrinter.Sprintf("%d", n)
}

// taxonURL links to the species page on iNaturalist.
func taxonURL(taxonID int) string {
	return fmt.Sprintf("%s/%d", taxonURLBase, taxonID)
}

// observationsURL links to the observation browser filtered down to one
// species in one place.
func observationsURL(placeID, taxonID int) string {
	return fmt.Sprintf("%s?place_id=%d&taxon_id=%d", observationsURLBase, placeID, taxonID)
}

// lookbackYears recovers the lookback length from the result's windows.
// The lookback start is derived by calendar-year subtraction, so the
// year difference is exact.
func lookbackYears(res *diff.Result) int {
	return res.CurrentPeriod.Start.Year() - res.LookbackPeriod.Start.Year()
}

// checkOutcome distills a single-species check into the values the
// renderers print. A result with no classified species means the taxon
// was not observed in the current period at all.
type checkOutcome struct {
	Observed        bool
	IsNew           bool
	CurrentCount    int
	HistoricalCount int
	TaxonID         int
}

func summarizeCheck(res *diff.Result) checkOutcome {
	var out checkOutcome
	if res.Taxon != nil {
		out.TaxonID = res.Taxon.ID
	}
	var sp *diff.ClassifiedSpecies
	switch {
	case len(res.NewSpecies) > 0:
		sp = &res.NewSpecies[0]
	case len(res.EstablishedSpecies) > 0:
		sp = &res.EstablishedSpecies[0]
	default:
		return out
	}
	out.Observed = true
	out.IsNew = sp.IsNew
	out.CurrentCount = sp.ObservationCount
	out.HistoricalCount = sp.HistoricalCount
	if out.TaxonID == 0 {
		out.TaxonID = sp.TaxonID
	}
	return out
}

// checkAnalysis words the verdict of a single-species check.
func checkAnalysis(q Query, res *diff.Result, out checkOutcome) string {
	switch {
	case !out.Observed:
		return "No observations found in the specified period"
	case out.IsNew:
		return fmt.Sprintf(
			"Species appears to be NEW to %s in the specified period. No observations found in the previous %d years.",
			q.Region, lookbackYears(res))
	default:
		return fmt.Sprintf(
			"Species was previously observed in %s. Found %d historical observations.",
			q.Region, out.HistoricalCount)
	}
}
