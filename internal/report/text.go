package report

import (
	"fmt"
	"strings"

	"github.com/tphakala/inatdiff-go/internal/diff"
)

// FallbackWarning is the console warning shown whenever place resolution
// fell back to the first autocomplete result.
const FallbackWarning = "⚠️  WARNING: No exact match found - using first search result"

// ResultText renders a full diff for the console. At most limit new
// species are listed; limit <= 0 applies DefaultSpeciesLimit.
func ResultText(q Query, res *diff.Result, limit int) string {
	if limit <= 0 {
		limit = DefaultSpeciesLimit
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Region searched: %s\n", q.Region)
	fmt.Fprintf(&b, "Resolved to: %s (ID: %d)\n", res.ResolvedPlace.Place.BestName(), res.ResolvedPlace.Place.ID)
	if !res.ResolvedPlace.MatchType.Confident() {
		b.WriteString(FallbackWarning + "\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Period: %s (%s)\n", q.PeriodExpr, res.CurrentPeriod.String())
	fmt.Fprintf(&b, "Lookback: %d years (%s)\n", lookbackYears(res), res.LookbackPeriod.String())
	fmt.Fprintf(&b, "\nTotal species in period: %d\n", res.TotalSpecies())
	fmt.Fprintf(&b, "New species (no prior observations): %d\n", len(res.NewSpecies))
	fmt.Fprintf(&b, "Established species: %d\n", len(res.EstablishedSpecies))

	if len(res.NewSpecies) > 0 {
		fmt.Fprintf(&b, "\n=== NEW SPECIES (%d) ===\n", len(res.NewSpecies))
		for i := range min(len(res.NewSpecies), limit) {
			sp := &res.NewSpecies[i]
			if sp.CommonName != "" {
				fmt.Fprintf(&b, "  %s (%s) [%s]: %d observations\n", sp.ScientificName, sp.CommonName, sp.Rank, sp.ObservationCount)
			} else {
				fmt.Fprintf(&b, "  %s [%s]: %d observations\n", sp.ScientificName, sp.Rank, sp.ObservationCount)
			}
		}
		if len(res.NewSpecies) > limit {
			fmt.Fprintf(&b, "  ... and %d more\n", len(res.NewSpecies)-limit)
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// TaxonCheckText renders a single-species check for the console.
func TaxonCheckText(q Query, res *diff.Result) string {
	out := summarizeCheck(res)

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s in %s\n", q.TaxonName, q.Region)
	fmt.Fprintf(&b, "Period: %s (%s)\n", q.PeriodExpr, res.CurrentPeriod.String())
	fmt.Fprintf(&b, "Total observations: %d\n", out.CurrentCount)
	if out.IsNew {
		b.WriteString("New to region: YES\n")
	} else {
		b.WriteString("New to region: NO\n")
	}
	fmt.Fprintf(&b, "Analysis: %s", checkAnalysis(q, res, out))
	return b.String()
}

// SpeciesListText renders a species list for the console. At most limit
// species are shown; limit <= 0 shows the first 10.
func SpeciesListText(q Query, list *diff.SpeciesList, limit int) string {
	if limit <= 0 {
		limit = 10
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Region searched: %s\n", q.Region)
	fmt.Fprintf(&b, "Resolved to: %s (ID: %d)\n", list.ResolvedPlace.Place.BestName(), list.ResolvedPlace.Place.ID)
	if !list.ResolvedPlace.MatchType.Confident() {
		b.WriteString(FallbackWarning + "\n")
	}
	fmt.Fprintf(&b, "Period: %s (%s)\n", q.PeriodExpr, list.Period.String())
	fmt.Fprintf(&b, "\nUnique species found: %d\n", list.SpeciesCount)

	for i := range min(len(list.Species), limit) {
		sp := &list.Species[i]
		if sp.CommonName != "" {
			fmt.Fprintf(&b, "  %s (%s): %d observations\n", sp.ScientificName, sp.CommonName, sp.ObservationCount)
		} else {
			fmt.Fprintf(&b, "  %s: %d observations\n", sp.ScientificName, sp.ObservationCount)
		}
	}
	if len(list.Species) > limit {
		fmt.Fprintf(&b, "  ... and %d more\n", len(list.Species)-limit)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// ObservationsText renders an observation count summary for the console.
func ObservationsText(q Query, sum *diff.ObservationSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s in %s\n", q.TaxonName, q.Region)
	fmt.Fprintf(&b, "Period: %s (%s)\n", q.PeriodExpr, sum.Period.String())
	fmt.Fprintf(&b, "Total observations: %d", sum.TotalResults)
	return b.String()
}
