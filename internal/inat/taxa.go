package inat

import (
	"context"
	"net/url"

	"github.com/tphakala/inatdiff-go/internal/errors"
)

// ErrTaxonNotFound indicates the taxa search returned no candidates
var ErrTaxonNotFound = errors.NewStd("taxon not found")

// SearchTaxa queries the taxa search endpoint
func (c *Client) SearchTaxa(ctx context.Context, query string) ([]Taxon, error) {
	params := url.Values{}
	params.Set("q", query)

	var page taxaPage
	if err := c.get(ctx, "/taxa", params, &page); err != nil {
		return nil, err
	}
	logger.Debug("taxa search",
		"query", query,
		"candidates", len(page.Results),
		"total_results", page.TotalResults)
	return page.Results, nil
}

// ResolveTaxon resolves a scientific or common name to a taxon. A candidate
// whose scientific or preferred common name equals the query
// case-insensitively wins; otherwise the first candidate is used, since the
// API orders taxa results by relevance.
func (c *Client) ResolveTaxon(ctx context.Context, query string) (*Taxon, error) {
	candidates, err := c.SearchTaxa(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errors.New(ErrTaxonNotFound).
			Category(errors.CategoryNotFound).
			Context("query", query).
			Component("inat").
			Build()
	}

	wanted := normalizeName(query)
	selected := &candidates[0]
	for i := range candidates {
		candidate := &candidates[i]
		if normalizeName(candidate.Name) == wanted ||
			normalizeName(candidate.PreferredCommonName) == wanted {
			selected = candidate
			break
		}
	}

	logger.Debug("taxon resolved",
		"query", query,
		"taxon_id", selected.ID,
		"name", selected.Name,
		"rank", selected.Rank)
	return selected, nil
}

// CommonOrScientificName returns the preferred common name when known,
// otherwise the scientific name
func (t *Taxon) CommonOrScientificName() string {
	if t.PreferredCommonName != "" {
		return t.PreferredCommonName
	}
	return t.Name
}
