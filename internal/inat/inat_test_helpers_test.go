package inat

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

// setupHTTPMock activates httpmock and returns a cleanup function.
func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

// newTestClient creates a client with near-zero pacing and backoff so tests
// exercise the retry and pagination logic without real waits.
func newTestClient(t *testing.T, config Config) *Client {
	t.Helper()

	if config.RateLimit == 0 {
		config.RateLimit = time.Millisecond
	}
	client, err := NewClient(config)
	require.NoError(t, err)
	client.backoff = time.Millisecond
	return client
}

// placesPageJSON builds a places endpoint response from place JSON fragments.
func placesPageJSON(places ...string) string {
	return fmt.Sprintf(`{"total_results": %d, "page": 1, "per_page": 10, "results": [%s]}`,
		len(places), strings.Join(places, ","))
}

// placeJSON builds one place result. adminLevel "null" models places without
// an administrative level.
func placeJSON(id int, name, displayName string, placeType int, adminLevel string) string {
	return fmt.Sprintf(`{"id": %d, "name": %q, "display_name": %q, "place_type": %d, "admin_level": %s}`,
		id, name, displayName, placeType, adminLevel)
}

// taxaPageJSON builds a taxa endpoint response from taxon JSON fragments.
func taxaPageJSON(taxa ...string) string {
	return fmt.Sprintf(`{"total_results": %d, "page": 1, "per_page": 30, "results": [%s]}`,
		len(taxa), strings.Join(taxa, ","))
}

func taxonJSON(id int, name, commonName, rank string) string {
	return fmt.Sprintf(`{"id": %d, "name": %q, "preferred_common_name": %q, "rank": %q, "iconic_taxon_name": "Aves"}`,
		id, name, commonName, rank)
}

// speciesCountsPageJSON builds a species_counts response with the given
// total and one row per taxon ID.
func speciesCountsPageJSON(totalResults int, taxonIDs ...int) string {
	rows := make([]string, 0, len(taxonIDs))
	for _, id := range taxonIDs {
		rows = append(rows, fmt.Sprintf(
			`{"count": %d, "taxon": {"id": %d, "name": "Taxon %d", "preferred_common_name": "Common %d", "rank": "species", "iconic_taxon_name": "Aves"}}`,
			id*10, id, id, id))
	}
	return fmt.Sprintf(`{"total_results": %d, "page": 1, "per_page": 500, "results": [%s]}`,
		totalResults, strings.Join(rows, ","))
}

func observationsCountJSON(totalResults int) string {
	return fmt.Sprintf(`{"total_results": %d, "page": 1, "per_page": 0, "results": []}`, totalResults)
}
