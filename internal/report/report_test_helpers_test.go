package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/tphakala/inatdiff-go/internal/diff"
	"github.com/tphakala/inatdiff-go/internal/inat"
	"github.com/tphakala/inatdiff-go/internal/period"
)

// setupHTTPMock activates httpmock for quality probe tests.
func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

// texasPlace is the resolved place used across renderer tests.
func texasPlace(matchType inat.MatchType) inat.ResolvedPlace {
	return inat.ResolvedPlace{
		Place: inat.PlaceCandidate{
			ID:          18,
			Name:        "Texas",
			DisplayName: "Texas, US",
			PlaceType:   8,
			AdminLevel:  intPtr(10),
		},
		MatchType: matchType,
	}
}

func monarch(count int) diff.SpeciesRecord {
	return diff.SpeciesRecord{
		TaxonID:          48662,
		ScientificName:   "Danaus plexippus",
		CommonName:       "Monarch",
		Rank:             "species",
		IconicTaxon:      "Insecta",
		ObservationCount: count,
	}
}

func wilsonsWarbler(count int) diff.SpeciesRecord {
	return diff.SpeciesRecord{
		TaxonID:          145310,
		ScientificName:   "Cardellina pusilla",
		Rank:             "species",
		IconicTaxon:      "Aves",
		ObservationCount: count,
	}
}

// testResult builds a diff result with one new species (Monarch), one
// new species without a common name, and one established species.
func testResult(matchType inat.MatchType) *diff.Result {
	established := diff.SpeciesRecord{
		TaxonID:          52381,
		ScientificName:   "Ardea herodias",
		CommonName:       "Great Blue Heron",
		Rank:             "species",
		IconicTaxon:      "Aves",
		ObservationCount: 7,
	}
	return &diff.Result{
		ResolvedPlace:  texasPlace(matchType),
		CurrentPeriod:  period.Period{Start: date(2025, time.January, 1), End: date(2025, time.March, 15)},
		LookbackPeriod: period.Period{Start: date(2005, time.January, 1), End: date(2025, time.January, 1)},
		NewSpecies: []diff.ClassifiedSpecies{
			{SpeciesRecord: monarch(3), HistoricalCount: 0, IsNew: true},
			{SpeciesRecord: wilsonsWarbler(1), HistoricalCount: 0, IsNew: true},
		},
		EstablishedSpecies: []diff.ClassifiedSpecies{
			{SpeciesRecord: established, HistoricalCount: 41, IsNew: false},
		},
	}
}

// wideResult builds a diff result with n generated new species for
// truncation tests.
func wideResult(n int) *diff.Result {
	res := testResult(inat.MatchState)
	res.NewSpecies = nil
	for i := 1; i <= n; i++ {
		res.NewSpecies = append(res.NewSpecies, diff.ClassifiedSpecies{
			SpeciesRecord: diff.SpeciesRecord{
				TaxonID:          1000 + i,
				ScientificName:   fmt.Sprintf("Genus species%d", i),
				Rank:             "species",
				ObservationCount: i,
			},
			IsNew: true,
		})
	}
	return res
}

// checkResult builds a single-species check outcome.
func checkResult(matchType inat.MatchType, observed, isNew bool, current, historical int) *diff.Result {
	taxon := &inat.Taxon{
		ID:                  48662,
		Name:                "Danaus plexippus",
		PreferredCommonName: "Monarch",
		Rank:                "species",
	}
	res := &diff.Result{
		ResolvedPlace:      texasPlace(matchType),
		Taxon:              taxon,
		CurrentPeriod:      period.Period{Start: date(2025, time.July, 1), End: date(2025, time.July, 31)},
		LookbackPeriod:     period.Period{Start: date(2005, time.July, 1), End: date(2025, time.July, 1)},
		NewSpecies:         []diff.ClassifiedSpecies{},
		EstablishedSpecies: []diff.ClassifiedSpecies{},
	}
	if !observed {
		return res
	}
	classified := diff.ClassifiedSpecies{
		SpeciesRecord:   monarch(current),
		HistoricalCount: historical,
		IsNew:           isNew,
	}
	if isNew {
		res.NewSpecies = append(res.NewSpecies, classified)
	} else {
		res.EstablishedSpecies = append(res.EstablishedSpecies, classified)
	}
	return res
}

func testSpeciesList(matchType inat.MatchType) *diff.SpeciesList {
	return &diff.SpeciesList{
		ResolvedPlace:     texasPlace(matchType),
		Period:            period.Period{Start: date(2025, time.July, 1), End: date(2025, time.July, 31)},
		Species:           []diff.SpeciesRecord{monarch(3), wilsonsWarbler(1)},
		SpeciesCount:      2,
		TotalObservations: 4,
	}
}

func testObservationSummary() *diff.ObservationSummary {
	return &diff.ObservationSummary{
		ResolvedPlace: texasPlace(inat.MatchState),
		Taxon: inat.Taxon{
			ID:                  48662,
			Name:                "Danaus plexippus",
			PreferredCommonName: "Monarch",
			Rank:                "species",
		},
		Period:       period.Period{Start: date(2025, time.July, 1), End: date(2025, time.July, 31)},
		TotalResults: 137,
	}
}
