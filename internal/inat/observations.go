package inat

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// ObservationsQuery filters the observation search endpoint. Zero values
// leave the corresponding filter unset.
type ObservationsQuery struct {
	PlaceID      int
	TaxonID      int
	From         time.Time
	To           time.Time
	QualityGrade string
}

func (q ObservationsQuery) values() url.Values {
	params := url.Values{}
	if q.PlaceID > 0 {
		params.Set("place_id", strconv.Itoa(q.PlaceID))
	}
	if q.TaxonID > 0 {
		params.Set("taxon_id", strconv.Itoa(q.TaxonID))
	}
	if !q.From.IsZero() {
		params.Set("d1", q.From.Format(dateLayout))
	}
	if !q.To.IsZero() {
		params.Set("d2", q.To.Format(dateLayout))
	}
	if q.QualityGrade != "" {
		params.Set("quality_grade", q.QualityGrade)
	}
	return params
}

// CountObservations returns the number of observations matching the query
// without downloading any of them. per_page=0 asks the API for the count
// envelope only.
func (c *Client) CountObservations(ctx context.Context, query ObservationsQuery) (int, error) {
	params := query.values()
	params.Set("per_page", "0")

	var page observationsPage
	if err := c.get(ctx, "/observations", params, &page); err != nil {
		return 0, err
	}
	logger.Debug("observation count",
		"place_id", query.PlaceID,
		"taxon_id", query.TaxonID,
		"quality_grade", query.QualityGrade,
		"total_results", page.TotalResults)
	return page.TotalResults, nil
}

// HasObservationsOfGrade reports whether at least one observation of the
// given quality grade matches the query
func (c *Client) HasObservationsOfGrade(ctx context.Context, query ObservationsQuery, grade string) (bool, error) {
	query.QualityGrade = grade
	count, err := c.CountObservations(ctx, query)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
