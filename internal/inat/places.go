package inat

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tphakala/inatdiff-go/internal/errors"
)

// ErrPlaceNotFound indicates the place search returned no candidates
var ErrPlaceNotFound = errors.NewStd("place not found")

// iNaturalist place_type codes for administrative places, used when a
// candidate carries no admin_level
const (
	placeTypeCountry = 12
	placeTypeState   = 8
	placeTypeCounty  = 9
)

// priorityTiers is the order administrative tiers win during resolution
var priorityTiers = []MatchType{MatchCountry, MatchState, MatchCounty}

// SearchPlaces queries the place autocomplete endpoint
func (c *Client) SearchPlaces(ctx context.Context, query string) ([]PlaceCandidate, error) {
	params := url.Values{}
	params.Set("q", query)

	var page placesPage
	if err := c.get(ctx, "/places/autocomplete", params, &page); err != nil {
		return nil, err
	}
	logger.Debug("place autocomplete",
		"query", query,
		"candidates", len(page.Results),
		"total_results", page.TotalResults)
	return page.Results, nil
}

// GetPlace fetches a single place by its ID
func (c *Client) GetPlace(ctx context.Context, placeID int) (*PlaceCandidate, error) {
	var page placesPage
	if err := c.get(ctx, fmt.Sprintf("/places/%d", placeID), nil, &page); err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, errors.New(ErrPlaceNotFound).
			Category(errors.CategoryNotFound).
			Context("place_id", placeID).
			Component("inat").
			Build()
	}
	return &page.Results[0], nil
}

// ResolvePlace resolves free text into a concrete place. Administrative
// places whose name equals the query win first (country before state before
// county), then any exact name match, and finally the first candidate as a
// fallback. Fallback matches are reported as such and never hidden, since
// the first autocomplete result can be wildly off (a city query may land on
// a botanical garden).
func (c *Client) ResolvePlace(ctx context.Context, query string) (*ResolvedPlace, error) {
	candidates, err := c.SearchPlaces(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errors.New(ErrPlaceNotFound).
			Category(errors.CategoryNotFound).
			Context("query", query).
			Component("inat").
			Build()
	}

	wanted := normalizeName(query)

	for _, tier := range priorityTiers {
		for i := range candidates {
			candidate := &candidates[i]
			if tierOf(candidate) == tier && normalizeName(candidate.Name) == wanted {
				logger.Debug("place resolved",
					"query", query,
					"place_id", candidate.ID,
					"place_name", candidate.Name,
					"match_type", string(tier))
				return &ResolvedPlace{Place: *candidate, MatchType: tier}, nil
			}
		}
	}

	for i := range candidates {
		candidate := &candidates[i]
		if normalizeName(candidate.Name) == wanted {
			logger.Debug("place resolved",
				"query", query,
				"place_id", candidate.ID,
				"place_name", candidate.Name,
				"match_type", string(MatchExact))
			return &ResolvedPlace{Place: *candidate, MatchType: MatchExact}, nil
		}
	}

	first := candidates[0]
	logger.Warn("place resolution fell back to first autocomplete result",
		"query", query,
		"place_id", first.ID,
		"place_name", first.Name,
		"display_name", first.DisplayName)
	return &ResolvedPlace{Place: first, MatchType: MatchFallback}, nil
}

// tierOf classifies a candidate into an administrative tier. admin_level is
// authoritative when present; place_type codes cover records that omit it.
// Non-administrative places map to the empty string.
func tierOf(candidate *PlaceCandidate) MatchType {
	if candidate.AdminLevel != nil {
		switch *candidate.AdminLevel {
		case 0:
			return MatchCountry
		case 10:
			return MatchState
		case 20:
			return MatchCounty
		}
		return ""
	}
	switch candidate.PlaceType {
	case placeTypeCountry:
		return MatchCountry
	case placeTypeState:
		return MatchState
	case placeTypeCounty:
		return MatchCounty
	}
	return ""
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
