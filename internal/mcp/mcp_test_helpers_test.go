package mcp

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/inatdiff-go/internal/conf"
)

const (
	autocompleteURL  = `=~^https://api\.inaturalist\.org/v1/places/autocomplete`
	taxaURL          = `=~^https://api\.inaturalist\.org/v1/taxa`
	speciesCountsURL = `=~^https://api\.inaturalist\.org/v1/observations/species_counts`
	observationsURL  = `=~^https://api\.inaturalist\.org/v1/observations\?`

	testPeriod = "2025-01-01 to 2025-03-15"
)

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

// testSettings keeps the per-call clients fast under httpmock.
func testSettings() *conf.Settings {
	settings := &conf.Settings{}
	settings.INat.RateLimit = 0.001
	settings.INat.MaxAttempts = 1
	settings.Diff.LookbackYears = 20
	settings.MCP.CacheTTL = time.Minute
	settings.MCP.ResultLimit = 50
	return settings
}

func newTestDeps() *deps {
	return newDeps(testSettings())
}

// makeReq builds a CallToolRequest with the given arguments. Numeric
// values must be float64, matching how JSON arguments arrive.
func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	require.NotEmpty(t, r.Content)
	tc, ok := r.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", r.Content[0])
	return tc.Text
}

// registerTexasPlace serves a state-tier match for any place query
func registerTexasPlace(t *testing.T) {
	t.Helper()
	httpmock.RegisterResponder("GET", autocompleteURL,
		httpmock.NewStringResponder(http.StatusOK,
			`{"total_results": 1, "results": [{"id": 18, "name": "Texas", "display_name": "Texas, US", "place_type": 8, "admin_level": 10}]}`))
}

func registerMonarchTaxon(t *testing.T) {
	t.Helper()
	httpmock.RegisterResponder("GET", taxaURL,
		httpmock.NewStringResponder(http.StatusOK,
			`{"total_results": 1, "results": [{"id": 48662, "name": "Danaus plexippus", "preferred_common_name": "Monarch", "rank": "species", "iconic_taxon_name": "Insecta"}]}`))
}

func countsRow(taxonID, count int, name, commonName string) string {
	return fmt.Sprintf(
		`{"count": %d, "taxon": {"id": %d, "name": %q, "preferred_common_name": %q, "rank": "species", "iconic_taxon_name": "Aves"}}`,
		count, taxonID, name, commonName)
}

func countsPage(rows ...string) string {
	return fmt.Sprintf(`{"total_results": %d, "page": 1, "per_page": 500, "results": [%s]}`,
		len(rows), strings.Join(rows, ","))
}

// registerDiffResponders mocks a two-species diff against Texas: taxon
// 101 has no lookback records, taxon 202 does.
func registerDiffResponders(t *testing.T) {
	t.Helper()
	registerTexasPlace(t)
	httpmock.RegisterResponder("GET", speciesCountsURL,
		func(req *http.Request) (*http.Response, error) {
			switch req.URL.Query().Get("taxon_id") {
			case "":
				return httpmock.NewStringResponse(http.StatusOK, countsPage(
					countsRow(101, 3, "Vireo atricapilla", "Black-capped Vireo"),
					countsRow(202, 1, "Setophaga chrysoparia", "Golden-cheeked Warbler"),
				)), nil
			case "101":
				return httpmock.NewStringResponse(http.StatusOK, countsPage()), nil
			case "202":
				return httpmock.NewStringResponse(http.StatusOK,
					countsPage(countsRow(202, 5, "Setophaga chrysoparia", "Golden-cheeked Warbler"))), nil
			default:
				return httpmock.NewStringResponse(http.StatusBadRequest, `{"error": "unexpected taxon"}`), nil
			}
		})
}
