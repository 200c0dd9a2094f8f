package report

import (
	"fmt"
	"strings"

	"github.com/tphakala/inatdiff-go/internal/diff"
)

// markdownFallbackWarning renders the low-confidence place warning as a
// blockquote so tool clients surface it prominently.
func markdownFallbackWarning(displayName string) string {
	return fmt.Sprintf("> ⚠️ No exact place match found - results are for %s (first search result).", displayName)
}

// ResultMarkdown renders a full diff as markdown for tool responses.
// At most limit new species are listed; limit <= 0 lists the first 50.
func ResultMarkdown(q Query, res *diff.Result, limit int) string {
	if limit <= 0 {
		limit = 50
	}

	lines := []string{
		fmt.Sprintf("# New Species in %s", res.ResolvedPlace.Place.BestName()),
		"",
		fmt.Sprintf("**Period:** %s (%s)", q.PeriodExpr, res.CurrentPeriod.String()),
		fmt.Sprintf("**Lookback:** %d years (%s)", lookbackYears(res), res.LookbackPeriod.String()),
	}
	if !res.ResolvedPlace.MatchType.Confident() {
		lines = append(lines, "", markdownFallbackWarning(res.ResolvedPlace.Place.BestName()))
	}
	lines = append(lines,
		"",
		"## Summary",
		fmt.Sprintf("- **Total species observed:** %d", res.TotalSpecies()),
		fmt.Sprintf("- **New species (no prior observations):** %d", len(res.NewSpecies)),
		fmt.Sprintf("- **Established species:** %d", len(res.EstablishedSpecies)),
		"",
	)

	if len(res.NewSpecies) > 0 {
		lines = append(lines, fmt.Sprintf("## New Species (%d)", len(res.NewSpecies)), "")
		for i := range min(len(res.NewSpecies), limit) {
			sp := &res.NewSpecies[i]
			if sp.CommonName != "" {
				lines = append(lines, fmt.Sprintf("%d. **%s** (%s) - %d observations [%s]",
					i+1, sp.ScientificName, sp.CommonName, sp.ObservationCount, sp.Rank))
			} else {
				lines = append(lines, fmt.Sprintf("%d. **%s** - %d observations [%s]",
					i+1, sp.ScientificName, sp.ObservationCount, sp.Rank))
			}
			lines = append(lines, fmt.Sprintf("   - View on iNaturalist: %s", taxonURL(sp.TaxonID)))
		}
		if len(res.NewSpecies) > limit {
			lines = append(lines, "", fmt.Sprintf("*... and %d more species*", len(res.NewSpecies)-limit))
		}
	} else {
		lines = append(lines, "✓ No new species found in this period.")
	}

	lines = append(lines,
		"",
		"---",
		fmt.Sprintf("*Note: 'New' means no observations in the %d-year lookback period. "+
			"This doesn't necessarily mean the species is truly invasive or newly arrived.*", lookbackYears(res)),
	)

	return strings.Join(lines, "\n")
}

// TaxonCheckMarkdown renders a single-species check as markdown.
func TaxonCheckMarkdown(q Query, res *diff.Result) string {
	out := summarizeCheck(res)

	lines := []string{
		fmt.Sprintf("# Species Check: %s", q.TaxonName),
		"",
		fmt.Sprintf("**Region:** %s", q.Region),
		fmt.Sprintf("**Period:** %s (%s)", q.PeriodExpr, res.CurrentPeriod.String()),
		fmt.Sprintf("**Lookback:** %d years (%s)", lookbackYears(res), res.LookbackPeriod.String()),
	}
	if !res.ResolvedPlace.MatchType.Confident() {
		lines = append(lines, "", markdownFallbackWarning(res.ResolvedPlace.Place.BestName()))
	}
	lines = append(lines, "", "## Results", "")

	switch {
	case !out.Observed:
		lines = append(lines, "❌ **No observations found** in the specified period.")
	case out.IsNew:
		lines = append(lines,
			"⚠️  **NEW TO REGION**",
			"",
			fmt.Sprintf("- Current observations: **%d**", out.CurrentCount),
			"- Historical observations: **0** (no prior records)",
			"",
			fmt.Sprintf("**Analysis:** %s", checkAnalysis(q, res, out)),
		)
	default:
		lines = append(lines,
			"✓ **Previously Established**",
			"",
			fmt.Sprintf("- Current observations: **%d**", out.CurrentCount),
			fmt.Sprintf("- Historical observations: **%d**", out.HistoricalCount),
			"",
			fmt.Sprintf("**Analysis:** %s", checkAnalysis(q, res, out)),
		)
	}

	if out.TaxonID > 0 {
		lines = append(lines,
			"",
			"## Links",
			fmt.Sprintf("- Species page: %s", taxonURL(out.TaxonID)),
			fmt.Sprintf("- Observations in region: %s", observationsURL(res.ResolvedPlace.Place.ID, out.TaxonID)),
		)
	}

	return strings.Join(lines, "\n")
}

// SpeciesListMarkdown renders a species list as markdown. At most limit
// species are listed; limit <= 0 lists the first 100.
func SpeciesListMarkdown(q Query, list *diff.SpeciesList, limit int) string {
	if limit <= 0 {
		limit = 100
	}

	lines := []string{
		fmt.Sprintf("# Species in %s", q.Region),
		"",
		fmt.Sprintf("**Period:** %s (%s)", q.PeriodExpr, list.Period.String()),
	}
	if !list.ResolvedPlace.MatchType.Confident() {
		lines = append(lines, "", markdownFallbackWarning(list.ResolvedPlace.Place.BestName()))
	}
	lines = append(lines,
		"",
		"## Summary",
		fmt.Sprintf("- **Unique species:** %d", list.SpeciesCount),
		fmt.Sprintf("- **Total observations:** %d", list.TotalObservations),
		"",
	)

	if list.SpeciesCount > 0 {
		lines = append(lines, "## Species List", "")
		for i := range min(len(list.Species), limit) {
			sp := &list.Species[i]
			if sp.CommonName != "" {
				lines = append(lines, fmt.Sprintf("%d. **%s** (%s) - %d obs. [%s]",
					i+1, sp.ScientificName, sp.CommonName, sp.ObservationCount, sp.Rank))
			} else {
				lines = append(lines, fmt.Sprintf("%d. **%s** - %d obs. [%s]",
					i+1, sp.ScientificName, sp.ObservationCount, sp.Rank))
			}
		}
		if list.SpeciesCount > limit {
			lines = append(lines, "", fmt.Sprintf("*... and %d more species*", list.SpeciesCount-limit))
		}
	} else {
		lines = append(lines, "No species found in this period.")
	}

	return strings.Join(lines, "\n")
}

// ObservationsMarkdown renders an observation count summary as markdown.
func ObservationsMarkdown(q Query, sum *diff.ObservationSummary) string {
	lines := []string{
		fmt.Sprintf("# Observations: %s", q.TaxonName),
		"",
		fmt.Sprintf("**Region:** %s", q.Region),
		fmt.Sprintf("**Period:** %s (%s)", q.PeriodExpr, sum.Period.String()),
	}
	if !sum.ResolvedPlace.MatchType.Confident() {
		lines = append(lines, "", markdownFallbackWarning(sum.ResolvedPlace.Place.BestName()))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("**Total observations:** %d", sum.TotalResults),
		"",
		fmt.Sprintf("View all observations on iNaturalist: %s",
			observationsURL(sum.ResolvedPlace.Place.ID, sum.Taxon.ID)),
	)
	return strings.Join(lines, "\n")
}
