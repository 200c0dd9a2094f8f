package diff

import (
	"github.com/tphakala/inatdiff-go/internal/inat"
	"github.com/tphakala/inatdiff-go/internal/period"
)

// SpeciesRecord is one species with its observation count inside a period
type SpeciesRecord struct {
	TaxonID          int    `json:"taxon_id"`
	ScientificName   string `json:"scientific_name"`
	CommonName       string `json:"common_name,omitempty"`
	Rank             string `json:"rank"`
	IconicTaxon      string `json:"iconic_taxon,omitempty"`
	ObservationCount int    `json:"observation_count"`
}

// newSpeciesRecord flattens an API species_counts row
func newSpeciesRecord(record inat.SpeciesRecord) SpeciesRecord {
	return SpeciesRecord{
		TaxonID:          record.Taxon.ID,
		ScientificName:   record.Taxon.Name,
		CommonName:       record.Taxon.PreferredCommonName,
		Rank:             record.Taxon.Rank,
		IconicTaxon:      record.Taxon.IconicTaxonName,
		ObservationCount: record.Count,
	}
}

// DisplayName returns the common name when known, otherwise the
// scientific name
func (s *SpeciesRecord) DisplayName() string {
	if s.CommonName != "" {
		return s.CommonName
	}
	return s.ScientificName
}

// ClassifiedSpecies is a species together with its lookback-window presence
type ClassifiedSpecies struct {
	SpeciesRecord
	HistoricalCount int  `json:"historical_count"`
	IsNew           bool `json:"is_new"`
}

// Result is the assembled outcome of a new-species diff. It is built once
// per query and never mutated afterwards. Taxon is set only for
// single-species checks.
type Result struct {
	ResolvedPlace      inat.ResolvedPlace  `json:"resolved_place"`
	Taxon              *inat.Taxon         `json:"taxon,omitempty"`
	CurrentPeriod      period.Period       `json:"current_period"`
	LookbackPeriod     period.Period       `json:"lookback_period"`
	NewSpecies         []ClassifiedSpecies `json:"new_species"`
	EstablishedSpecies []ClassifiedSpecies `json:"established_species"`
}

// TotalSpecies returns how many species were classified in total
func (r *Result) TotalSpecies() int {
	return len(r.NewSpecies) + len(r.EstablishedSpecies)
}

// SpeciesList is the outcome of listing species for a period without any
// historical classification
type SpeciesList struct {
	ResolvedPlace     inat.ResolvedPlace `json:"resolved_place"`
	Period            period.Period      `json:"period"`
	Species           []SpeciesRecord    `json:"species"`
	SpeciesCount      int                `json:"species_count"`
	TotalObservations int                `json:"total_observations"`
}

// ObservationSummary is the outcome of counting observations of one taxon
type ObservationSummary struct {
	ResolvedPlace inat.ResolvedPlace `json:"resolved_place"`
	Taxon         inat.Taxon         `json:"taxon"`
	Period        period.Period      `json:"period"`
	TotalResults  int                `json:"total_results"`
}
