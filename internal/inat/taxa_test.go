package inat

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taxaURL = `=~^https://api\.inaturalist\.org/v1/taxa`

func registerTaxaResponder(t *testing.T, body string) {
	t.Helper()
	httpmock.RegisterResponder("GET", taxaURL,
		httpmock.NewStringResponder(http.StatusOK, body))
}

func TestResolveTaxonExactScientificName(t *testing.T) {
	setupHTTPMock(t)

	registerTaxaResponder(t, taxaPageJSON(
		taxonJSON(3454, "Danaus", "Milkweed Butterflies", "genus"),
		taxonJSON(48662, "Danaus plexippus", "Monarch", "species"),
	))

	client := newTestClient(t, Config{})

	taxon, err := client.ResolveTaxon(context.Background(), "danaus plexippus")

	require.NoError(t, err)
	assert.Equal(t, 48662, taxon.ID)
	assert.Equal(t, "species", taxon.Rank)
}

func TestResolveTaxonExactCommonName(t *testing.T) {
	setupHTTPMock(t)

	registerTaxaResponder(t, taxaPageJSON(
		taxonJSON(3454, "Danaus", "Milkweed Butterflies", "genus"),
		taxonJSON(48662, "Danaus plexippus", "Monarch", "species"),
	))

	client := newTestClient(t, Config{})

	taxon, err := client.ResolveTaxon(context.Background(), "Monarch")

	require.NoError(t, err)
	assert.Equal(t, 48662, taxon.ID)
}

func TestResolveTaxonFallsBackToFirstResult(t *testing.T) {
	setupHTTPMock(t)

	// No exact name match; the API orders by relevance so take the first
	registerTaxaResponder(t, taxaPageJSON(
		taxonJSON(52381, "Ardea herodias", "Great Blue Heron", "species"),
		taxonJSON(4956, "Ardea", "Great Herons", "genus"),
	))

	client := newTestClient(t, Config{})

	taxon, err := client.ResolveTaxon(context.Background(), "blue heron")

	require.NoError(t, err)
	assert.Equal(t, 52381, taxon.ID)
}

func TestResolveTaxonNoCandidates(t *testing.T) {
	setupHTTPMock(t)

	registerTaxaResponder(t, taxaPageJSON())

	client := newTestClient(t, Config{})

	taxon, err := client.ResolveTaxon(context.Background(), "Chimera chimera")

	require.Error(t, err)
	assert.Nil(t, taxon)
	assert.ErrorIs(t, err, ErrTaxonNotFound)
}

func TestCommonOrScientificName(t *testing.T) {
	named := Taxon{Name: "Danaus plexippus", PreferredCommonName: "Monarch"}
	assert.Equal(t, "Monarch", named.CommonOrScientificName())

	scientificOnly := Taxon{Name: "Bombus occidentalis"}
	assert.Equal(t, "Bombus occidentalis", scientificOnly.CommonOrScientificName())
}
