package inat

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config holds iNaturalist API client configuration
type Config struct {
	BaseURL     string        // API base URL
	UserAgent   string        // HTTP User-Agent header, empty to omit
	Timeout     time.Duration // HTTP request timeout
	RateLimit   time.Duration // minimum interval between consecutive requests
	MaxAttempts int           // total attempts per request including retries
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.inaturalist.org/v1",
		Timeout: 30 * time.Second,
		// ~50 requests/minute, under the published 60-100/minute ceiling
		RateLimit:   1200 * time.Millisecond,
		MaxAttempts: 3,
	}
}

// APIError represents a non-retryable error response from the iNaturalist API
type APIError struct {
	Status int    // HTTP status code
	Body   string // raw response body
}

func (e *APIError) Error() string {
	return fmt.Sprintf("iNaturalist API error (status %d): %s", e.Status, e.Body)
}

// MatchType records how a place candidate was selected during resolution.
// Priority matches carry the administrative tier that won; fallback means
// the first autocomplete result was used without a name match and the
// resolved place may not be what the user meant.
type MatchType string

const (
	MatchCountry  MatchType = "country"
	MatchState    MatchType = "state"
	MatchCounty   MatchType = "county"
	MatchExact    MatchType = "exact"
	MatchFallback MatchType = "fallback"
)

// Confident reports whether the match was backed by a name match
// rather than blind first-result selection.
func (m MatchType) Confident() bool {
	return m != MatchFallback
}

// Label returns a human readable description for reports
func (m MatchType) Label() string {
	switch m {
	case MatchCountry, MatchState, MatchCounty:
		return fmt.Sprintf("priority (%s)", string(m))
	case MatchExact:
		return "exact name"
	case MatchFallback:
		return "fallback (first result)"
	default:
		return string(m)
	}
}

// PlaceCandidate is a place returned by the autocomplete or place endpoints.
// AdminLevel is a pointer because the API reports null for non-administrative
// places, and 0 is a meaningful value (country).
type PlaceCandidate struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	PlaceType   int    `json:"place_type"`
	AdminLevel  *int   `json:"admin_level"`
}

// BestName returns the most descriptive name available for display
func (p *PlaceCandidate) BestName() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}

// ResolvedPlace is the outcome of resolving free text to a concrete place
type ResolvedPlace struct {
	Place     PlaceCandidate
	MatchType MatchType
}

// resolvedPlaceJSON is the wire shape: place fields flattened next to the
// match type.
type resolvedPlaceJSON struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	PlaceType   int       `json:"place_type"`
	AdminLevel  *int      `json:"admin_level"`
	MatchType   MatchType `json:"match_type"`
}

func (r ResolvedPlace) MarshalJSON() ([]byte, error) {
	return json.Marshal(resolvedPlaceJSON{
		ID:          r.Place.ID,
		Name:        r.Place.Name,
		DisplayName: r.Place.DisplayName,
		PlaceType:   r.Place.PlaceType,
		AdminLevel:  r.Place.AdminLevel,
		MatchType:   r.MatchType,
	})
}

func (r *ResolvedPlace) UnmarshalJSON(data []byte) error {
	var wire resolvedPlaceJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Place = PlaceCandidate{
		ID:          wire.ID,
		Name:        wire.Name,
		DisplayName: wire.DisplayName,
		PlaceType:   wire.PlaceType,
		AdminLevel:  wire.AdminLevel,
	}
	r.MatchType = wire.MatchType
	return nil
}

// Taxon is a taxon returned by the taxa search endpoint
type Taxon struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	PreferredCommonName string `json:"preferred_common_name"`
	Rank                string `json:"rank"`
	IconicTaxonName     string `json:"iconic_taxon_name"`
}

// SpeciesRecord is one row of a species_counts response: a leaf taxon and
// its observation count within the queried place and date range
type SpeciesRecord struct {
	Count int   `json:"count"`
	Taxon Taxon `json:"taxon"`
}

// Paginated response envelopes. Every list endpoint shares the same shape
// with endpoint-specific result rows.

type placesPage struct {
	TotalResults int              `json:"total_results"`
	Results      []PlaceCandidate `json:"results"`
}

type taxaPage struct {
	TotalResults int     `json:"total_results"`
	Results      []Taxon `json:"results"`
}

type speciesCountsPage struct {
	TotalResults int             `json:"total_results"`
	Page         int             `json:"page"`
	PerPage      int             `json:"per_page"`
	Results      []SpeciesRecord `json:"results"`
}

type observationsPage struct {
	TotalResults int `json:"total_results"`
}
