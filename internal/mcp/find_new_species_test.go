package mcp

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindNewSpeciesDefinition(t *testing.T) {
	tool := newFindNewSpeciesTool(newTestDeps())
	def := tool.Definition()

	assert.Equal(t, "find_new_species_in_region", def.Name)
	for _, key := range []string{"region", "time_period", "lookback_years", "rate_limit", "output_format"} {
		assert.Contains(t, def.InputSchema.Properties, key)
	}
	assert.ElementsMatch(t, []string{"region", "time_period"}, def.InputSchema.Required)
}

func TestFindNewSpeciesHandle(t *testing.T) {
	setupHTTPMock(t)
	registerDiffResponders(t)

	tool := newFindNewSpeciesTool(newTestDeps())

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"region":      "Texas",
		"time_period": testPeriod,
	}))

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.IsError)

	text := resultText(t, res)
	assert.Contains(t, text, "# New Species in Texas, US")
	assert.Contains(t, text, "**Period:** 2025-01-01 to 2025-03-15 (2025-01-01 to 2025-03-15)")
	assert.Contains(t, text, "**Lookback:** 20 years (2005-01-01 to 2025-01-01)")
	assert.Contains(t, text, "- **Total species observed:** 2")
	assert.Contains(t, text, "- **New species (no prior observations):** 1")
	assert.Contains(t, text, "- **Established species:** 1")
	assert.Contains(t, text, "1. **Vireo atricapilla** (Black-capped Vireo) - 3 observations [species]")
	assert.Contains(t, text, "https://www.inaturalist.org/taxa/101")
	assert.NotContains(t, text, "Setophaga chrysoparia",
		"established species are summarized, not listed")
}

func TestFindNewSpeciesServesRepeatsFromCache(t *testing.T) {
	setupHTTPMock(t)
	registerDiffResponders(t)

	tool := newFindNewSpeciesTool(newTestDeps())

	first, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"region":      "Texas",
		"time_period": testPeriod,
	}))
	require.NoError(t, err)
	calls := httpmock.GetTotalCallCount()
	require.Positive(t, calls)

	// Different spelling, same normalized key
	second, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"region":      "  texas ",
		"time_period": testPeriod,
	}))
	require.NoError(t, err)

	assert.Equal(t, resultText(t, first), resultText(t, second))
	assert.Equal(t, calls, httpmock.GetTotalCallCount(), "repeat call must be served from cache")
}

func TestFindNewSpeciesDoesNotCacheErrors(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder("GET", autocompleteURL,
		httpmock.NewStringResponder(http.StatusOK, `{"total_results": 0, "results": []}`))

	tool := newFindNewSpeciesTool(newTestDeps())
	args := map[string]any{"region": "Texas", "time_period": testPeriod}

	res, err := tool.Handle(context.Background(), makeReq(args))
	require.NoError(t, err)
	require.True(t, res.IsError)

	// The place exists on retry; the earlier failure must not be served
	registerDiffResponders(t)

	res, err = tool.Handle(context.Background(), makeReq(args))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "# New Species in Texas, US")
}

func TestFindNewSpeciesClampsLookbackYears(t *testing.T) {
	setupHTTPMock(t)
	registerTexasPlace(t)
	httpmock.RegisterResponder("GET", speciesCountsURL,
		func(req *http.Request) (*http.Response, error) {
			query := req.URL.Query()
			if query.Get("taxon_id") == "" {
				return httpmock.NewStringResponse(http.StatusOK,
					countsPage(countsRow(101, 3, "Vireo atricapilla", "Black-capped Vireo"))), nil
			}
			// 100 years requested, 50 allowed: probes start 50 years back
			assert.Equal(t, "1975-01-01", query.Get("d1"))
			return httpmock.NewStringResponse(http.StatusOK, countsPage()), nil
		})

	tool := newFindNewSpeciesTool(newTestDeps())

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"region":         "Texas",
		"time_period":    testPeriod,
		"lookback_years": float64(100),
	}))

	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "**Lookback:** 50 years")
}

func TestFindNewSpeciesHTMLAnnotatesQuality(t *testing.T) {
	setupHTTPMock(t)
	registerDiffResponders(t)
	httpmock.RegisterResponder("GET", observationsURL,
		func(req *http.Request) (*http.Response, error) {
			query := req.URL.Query()
			assert.Equal(t, "0", query.Get("per_page"))
			assert.Equal(t, "18", query.Get("place_id"))
			assert.Equal(t, "101", query.Get("taxon_id"), "only new species are probed")
			if query.Get("quality_grade") == "research" {
				return httpmock.NewStringResponse(http.StatusOK, `{"total_results": 2, "results": []}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, `{"total_results": 0, "results": []}`), nil
		})

	tool := newFindNewSpeciesTool(newTestDeps())

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"region":        "Texas",
		"time_period":   testPeriod,
		"output_format": "html",
	}))

	require.NoError(t, err)
	text := resultText(t, res)
	assert.True(t, strings.HasPrefix(text, "<!DOCTYPE html>"))
	assert.Contains(t, text, "New Species Report: Texas")
	assert.Contains(t, text, "Black-capped Vireo")
	assert.Contains(t, text, "Best quality: Research Grade")
}

func TestFindNewSpeciesPlaceNotFound(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder("GET", autocompleteURL,
		httpmock.NewStringResponder(http.StatusOK, `{"total_results": 0, "results": []}`))

	tool := newFindNewSpeciesTool(newTestDeps())

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"region":      "Atlantis",
		"time_period": testPeriod,
	}))

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "❌ Place not found")
	assert.Contains(t, text, "https://www.inaturalist.org/places")
}

func TestFindNewSpeciesMissingArguments(t *testing.T) {
	tool := newFindNewSpeciesTool(newTestDeps())

	res, err := tool.Handle(context.Background(), makeReq(map[string]any{"time_period": testPeriod}))
	require.NoError(t, err)
	require.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "'region' is required")

	res, err = tool.Handle(context.Background(), makeReq(map[string]any{"region": "Texas"}))
	require.NoError(t, err)
	require.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "'time_period' is required")
}
