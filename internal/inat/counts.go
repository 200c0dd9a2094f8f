package inat

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

const (
	// countsPageSize is the species_counts page size, the API maximum
	countsPageSize = 500

	dateLayout = "2006-01-02"
)

// CountsQuery describes one species_counts aggregation. From and To are
// inclusive observation dates. TaxonID zero means all leaf taxa in the place.
type CountsQuery struct {
	PlaceID int
	TaxonID int
	From    time.Time
	To      time.Time
}

func (q CountsQuery) values(page, perPage int) url.Values {
	params := url.Values{}
	params.Set("place_id", strconv.Itoa(q.PlaceID))
	if q.TaxonID > 0 {
		params.Set("taxon_id", strconv.Itoa(q.TaxonID))
	}
	params.Set("d1", q.From.Format(dateLayout))
	params.Set("d2", q.To.Format(dateLayout))
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("leaf_taxa", "true")
	return params
}

// FetchSpeciesCounts aggregates the species observed in a place during a
// date range. Pages are fetched until one comes back empty or the rows
// fetched so far cover the reported total_results. Rows repeating an
// already seen taxon ID are dropped; first-seen order is kept.
//
// With TaxonID set the query is a per-species probe: a single request with
// per_page=1, returning at most one record.
func (c *Client) FetchSpeciesCounts(ctx context.Context, query CountsQuery) ([]SpeciesRecord, error) {
	if query.TaxonID > 0 {
		var page speciesCountsPage
		if err := c.get(ctx, "/observations/species_counts", query.values(1, 1), &page); err != nil {
			return nil, err
		}
		return page.Results, nil
	}

	var (
		records []SpeciesRecord
		seen    = make(map[int]bool)
		fetched int
	)
	for pageNum := 1; ; pageNum++ {
		var page speciesCountsPage
		if err := c.get(ctx, "/observations/species_counts", query.values(pageNum, countsPageSize), &page); err != nil {
			return nil, err
		}
		if len(page.Results) == 0 {
			break
		}
		fetched += len(page.Results)
		for _, record := range page.Results {
			if seen[record.Taxon.ID] {
				continue
			}
			seen[record.Taxon.ID] = true
			records = append(records, record)
		}
		logger.Debug("species counts page fetched",
			"place_id", query.PlaceID,
			"page", pageNum,
			"rows", len(page.Results),
			"total_results", page.TotalResults)
		if fetched >= page.TotalResults {
			break
		}
	}

	logger.Debug("species counts aggregated",
		"place_id", query.PlaceID,
		"d1", query.From.Format(dateLayout),
		"d2", query.To.Format(dateLayout),
		"species", len(records))
	return records, nil
}
