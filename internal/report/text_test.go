package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/inatdiff-go/internal/inat"
)

func TestResultText(t *testing.T) {
	t.Parallel()

	q := Query{Region: "Texas", PeriodExpr: "this year"}
	got := ResultText(q, testResult(inat.MatchState), 0)

	want := strings.Join([]string{
		"Region searched: Texas",
		"Resolved to: Texas, US (ID: 18)",
		"",
		"Period: this year (2025-01-01 to 2025-03-15)",
		"Lookback: 20 years (2005-01-01 to 2025-01-01)",
		"",
		"Total species in period: 3",
		"New species (no prior observations): 2",
		"Established species: 1",
		"",
		"=== NEW SPECIES (2) ===",
		"  Danaus plexippus (Monarch) [species]: 3 observations",
		"  Cardellina pusilla [species]: 1 observations",
	}, "\n")
	require.Equal(t, want, got)
}

func TestResultTextFallbackWarning(t *testing.T) {
	t.Parallel()

	q := Query{Region: "Portland, Oregon", PeriodExpr: "this year"}
	res := testResult(inat.MatchFallback)
	res.ResolvedPlace.Place.DisplayName = "Leach Botanical Garden, Portland, Oregon"

	got := ResultText(q, res, 0)
	assert.Contains(t, got, "Resolved to: Leach Botanical Garden, Portland, Oregon (ID: 18)")
	assert.Contains(t, got, FallbackWarning)

	confident := ResultText(q, testResult(inat.MatchState), 0)
	assert.NotContains(t, confident, FallbackWarning)
}

func TestResultTextTruncatesSpeciesList(t *testing.T) {
	t.Parallel()

	q := Query{Region: "Texas", PeriodExpr: "this year"}
	got := ResultText(q, wideResult(25), 20)

	assert.Contains(t, got, "=== NEW SPECIES (25) ===")
	assert.Contains(t, got, "Genus species20 [species]: 20 observations")
	assert.NotContains(t, got, "Genus species21")
	assert.Contains(t, got, "... and 5 more")
}

func TestResultTextNoNewSpecies(t *testing.T) {
	t.Parallel()

	res := testResult(inat.MatchState)
	res.EstablishedSpecies = append(res.EstablishedSpecies, res.NewSpecies...)
	res.NewSpecies = nil

	got := ResultText(Query{Region: "Texas", PeriodExpr: "this year"}, res, 0)
	assert.Contains(t, got, "New species (no prior observations): 0")
	assert.NotContains(t, got, "=== NEW SPECIES")
}

func TestTaxonCheckText(t *testing.T) {
	t.Parallel()

	q := Query{Region: "Texas", PeriodExpr: "last month", TaxonName: "Danaus plexippus"}

	t.Run("new_to_region", func(t *testing.T) {
		t.Parallel()
		got := TaxonCheckText(q, checkResult(inat.MatchState, true, true, 12, 0))
		want := strings.Join([]string{
			"Query: Danaus plexippus in Texas",
			"Period: last month (2025-07-01 to 2025-07-31)",
			"Total observations: 12",
			"New to region: YES",
			"Analysis: Species appears to be NEW to Texas in the specified period. No observations found in the previous 20 years.",
		}, "\n")
		require.Equal(t, want, got)
	})

	t.Run("previously_established", func(t *testing.T) {
		t.Parallel()
		got := TaxonCheckText(q, checkResult(inat.MatchState, true, false, 12, 41))
		assert.Contains(t, got, "New to region: NO")
		assert.Contains(t, got, "Analysis: Species was previously observed in Texas. Found 41 historical observations.")
	})

	t.Run("not_observed", func(t *testing.T) {
		t.Parallel()
		got := TaxonCheckText(q, checkResult(inat.MatchState, false, false, 0, 0))
		assert.Contains(t, got, "Total observations: 0")
		assert.Contains(t, got, "New to region: NO")
		assert.Contains(t, got, "Analysis: No observations found in the specified period")
	})
}

func TestSpeciesListText(t *testing.T) {
	t.Parallel()

	q := Query{Region: "Texas", PeriodExpr: "last month"}
	got := SpeciesListText(q, testSpeciesList(inat.MatchState), 10)

	want := strings.Join([]string{
		"Region searched: Texas",
		"Resolved to: Texas, US (ID: 18)",
		"Period: last month (2025-07-01 to 2025-07-31)",
		"",
		"Unique species found: 2",
		"  Danaus plexippus (Monarch): 3 observations",
		"  Cardellina pusilla: 1 observations",
	}, "\n")
	require.Equal(t, want, got)
}

func TestSpeciesListTextFallbackWarning(t *testing.T) {
	t.Parallel()

	got := SpeciesListText(Query{Region: "Portland, Oregon", PeriodExpr: "last month"},
		testSpeciesList(inat.MatchFallback), 10)
	assert.Contains(t, got, FallbackWarning)
}

func TestSpeciesListTextTruncation(t *testing.T) {
	t.Parallel()

	got := SpeciesListText(Query{Region: "Texas", PeriodExpr: "last month"},
		testSpeciesList(inat.MatchState), 1)
	assert.Contains(t, got, "Danaus plexippus (Monarch): 3 observations")
	assert.NotContains(t, got, "Cardellina pusilla")
	assert.Contains(t, got, "... and 1 more")
}

func TestObservationsText(t *testing.T) {
	t.Parallel()

	q := Query{Region: "Texas", PeriodExpr: "last month", TaxonName: "Danaus plexippus"}
	got := ObservationsText(q, testObservationSummary())

	want := strings.Join([]string{
		"Query: Danaus plexippus in Texas",
		"Period: last month (2025-07-01 to 2025-07-31)",
		"Total observations: 137",
	}, "\n")
	require.Equal(t, want, got)
}
