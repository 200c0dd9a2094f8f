// Package diff answers the question "which species were observed in a place
// during a period but never in the years before it". It orchestrates place
// resolution, species count aggregation and per-species historical probes
// over a shared rate-limited API client.
package diff

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tphakala/inatdiff-go/internal/conf"
	"github.com/tphakala/inatdiff-go/internal/errors"
	"github.com/tphakala/inatdiff-go/internal/inat"
	"github.com/tphakala/inatdiff-go/internal/logging"
	"github.com/tphakala/inatdiff-go/internal/period"
)

const (
	defaultLookbackYears = 20

	// progressInterval is how many species are classified between progress
	// log lines
	progressInterval = 25
)

// Engine runs new-species queries. One engine serializes all of its API
// traffic through the client's rate limiter; methods are safe to call from
// multiple goroutines but gain nothing from it.
type Engine struct {
	client        *inat.Client
	lookbackYears int
	verbose       bool
	logger        *slog.Logger
}

// NewEngine creates an engine over the given client, honoring the diff
// settings when present
func NewEngine(client *inat.Client, settings *conf.Settings) *Engine {
	engine := &Engine{
		client:        client,
		lookbackYears: defaultLookbackYears,
		logger:        logging.ForService("diff"),
	}
	if settings != nil {
		if settings.Diff.LookbackYears > 0 {
			engine.lookbackYears = settings.Diff.LookbackYears
		}
		engine.verbose = settings.Diff.Verbose
	}
	return engine
}

// LookbackYears returns the configured historical window length
func (e *Engine) LookbackYears() int {
	return e.lookbackYears
}

// Run classifies every species observed in the region during the period as
// new or established against the preceding lookback window.
func (e *Engine) Run(ctx context.Context, periodExpr, region string) (*Result, error) {
	current, err := period.Parse(periodExpr, time.Now())
	if err != nil {
		return nil, err
	}

	resolved, err := e.resolvePlace(ctx, region)
	if err != nil {
		return nil, err
	}

	records, err := e.client.FetchSpeciesCounts(ctx, inat.CountsQuery{
		PlaceID: resolved.Place.ID,
		From:    current.Start,
		To:      current.End,
	})
	if err != nil {
		return nil, err
	}
	e.progress("current period species fetched",
		"period", current.String(),
		"species", len(records))

	return e.classify(ctx, resolved, current, records)
}

// RunTaxon checks a single species by name instead of the full species set.
// Zero current-period observations yield an empty Result, not an error.
func (e *Engine) RunTaxon(ctx context.Context, taxonName, periodExpr, region string) (*Result, error) {
	current, err := period.Parse(periodExpr, time.Now())
	if err != nil {
		return nil, err
	}

	resolved, err := e.resolvePlace(ctx, region)
	if err != nil {
		return nil, err
	}

	taxon, err := e.client.ResolveTaxon(ctx, taxonName)
	if err != nil {
		return nil, err
	}

	records, err := e.client.FetchSpeciesCounts(ctx, inat.CountsQuery{
		PlaceID: resolved.Place.ID,
		TaxonID: taxon.ID,
		From:    current.Start,
		To:      current.End,
	})
	if err != nil {
		return nil, err
	}
	// A zero-count row means the species was not observed in the period
	if len(records) > 0 && records[0].Count == 0 {
		records = nil
	}

	result, err := e.classify(ctx, resolved, current, records)
	if err != nil {
		return nil, err
	}
	result.Taxon = taxon
	return result, nil
}

// ListSpecies returns every species observed in the region during the
// period, with no historical classification
func (e *Engine) ListSpecies(ctx context.Context, periodExpr, region string) (*SpeciesList, error) {
	current, err := period.Parse(periodExpr, time.Now())
	if err != nil {
		return nil, err
	}

	resolved, err := e.resolvePlace(ctx, region)
	if err != nil {
		return nil, err
	}

	records, err := e.client.FetchSpeciesCounts(ctx, inat.CountsQuery{
		PlaceID: resolved.Place.ID,
		From:    current.Start,
		To:      current.End,
	})
	if err != nil {
		return nil, err
	}

	list := &SpeciesList{
		ResolvedPlace: *resolved,
		Period:        current,
		Species:       make([]SpeciesRecord, 0, len(records)),
		SpeciesCount:  len(records),
	}
	for _, record := range records {
		list.Species = append(list.Species, newSpeciesRecord(record))
		list.TotalObservations += record.Count
	}

	e.progress("species list assembled",
		"period", current.String(),
		"species", list.SpeciesCount,
		"observations", list.TotalObservations)
	return list, nil
}

// CountObservations reports how many observations of one taxon the region
// has during the period
func (e *Engine) CountObservations(ctx context.Context, taxonName, periodExpr, region string) (*ObservationSummary, error) {
	current, err := period.Parse(periodExpr, time.Now())
	if err != nil {
		return nil, err
	}

	resolved, err := e.resolvePlace(ctx, region)
	if err != nil {
		return nil, err
	}

	taxon, err := e.client.ResolveTaxon(ctx, taxonName)
	if err != nil {
		return nil, err
	}

	total, err := e.client.CountObservations(ctx, inat.ObservationsQuery{
		PlaceID: resolved.Place.ID,
		TaxonID: taxon.ID,
		From:    current.Start,
		To:      current.End,
	})
	if err != nil {
		return nil, err
	}

	return &ObservationSummary{
		ResolvedPlace: *resolved,
		Taxon:         *taxon,
		Period:        current,
		TotalResults:  total,
	}, nil
}

// resolvePlace resolves the region and logs how confident the match is
func (e *Engine) resolvePlace(ctx context.Context, region string) (*inat.ResolvedPlace, error) {
	resolved, err := e.client.ResolvePlace(ctx, region)
	if err != nil {
		return nil, err
	}

	e.progress("place resolved",
		"query", region,
		"place", resolved.Place.BestName(),
		"place_id", resolved.Place.ID,
		"match_type", string(resolved.MatchType))
	if !resolved.MatchType.Confident() {
		e.logger.Warn("place match is a fallback guess, verify the resolved place",
			"query", region,
			"place", resolved.Place.BestName(),
			"place_id", resolved.Place.ID)
	}
	return resolved, nil
}

// classify runs the per-species historical probes and splits the species
// into new and established lists. Order follows the current-period fetch.
func (e *Engine) classify(ctx context.Context, resolved *inat.ResolvedPlace, current period.Period, records []inat.SpeciesRecord) (*Result, error) {
	result := &Result{
		ResolvedPlace:      *resolved,
		CurrentPeriod:      current,
		LookbackPeriod:     e.lookbackPeriod(current),
		NewSpecies:         []ClassifiedSpecies{},
		EstablishedSpecies: []ClassifiedSpecies{},
	}
	if len(records) == 0 {
		return result, nil
	}

	// The lookback window ends where the current period begins; the
	// inclusive query date must therefore stop one day earlier.
	historicalTo := current.Start.AddDate(0, 0, -1)

	estimate := time.Duration(len(records)) * e.client.RateLimit()
	e.progress("checking each species for historical presence",
		"species", len(records),
		"estimated_wait", estimate.Round(time.Second).String())

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, errors.Newf("species classification cancelled: %w", err).
				Category(errors.CategoryCancellation).
				Context("checked", i).
				Context("total", len(records)).
				Component("diff").
				Build()
		}

		historical, err := e.historicalCount(ctx, resolved.Place.ID, record.Taxon.ID, result.LookbackPeriod.Start, historicalTo)
		if err != nil {
			return nil, err
		}

		classified := ClassifiedSpecies{
			SpeciesRecord:   newSpeciesRecord(record),
			HistoricalCount: historical,
			IsNew:           historical == 0,
		}
		if classified.IsNew {
			result.NewSpecies = append(result.NewSpecies, classified)
		} else {
			result.EstablishedSpecies = append(result.EstablishedSpecies, classified)
		}

		if checked := i + 1; checked%progressInterval == 0 {
			e.progress("classification progress",
				"checked", checked,
				"total", len(records),
				"percent", fmt.Sprintf("%.1f", 100*float64(checked)/float64(len(records))))
		}
	}

	e.progress("classification complete",
		"new_species", len(result.NewSpecies),
		"established_species", len(result.EstablishedSpecies))
	return result, nil
}

// historicalCount probes the lookback window for one taxon
func (e *Engine) historicalCount(ctx context.Context, placeID, taxonID int, from, to time.Time) (int, error) {
	probe, err := e.client.FetchSpeciesCounts(ctx, inat.CountsQuery{
		PlaceID: placeID,
		TaxonID: taxonID,
		From:    from,
		To:      to,
	})
	if err != nil {
		return 0, err
	}
	if len(probe) == 0 {
		return 0, nil
	}
	return probe[0].Count, nil
}

// lookbackPeriod derives the historical window from the current period
func (e *Engine) lookbackPeriod(current period.Period) period.Period {
	return period.Period{
		Start: current.Start.AddDate(-e.lookbackYears, 0, 0),
		End:   current.Start,
	}
}

// progress logs operational detail, surfaced on the console in verbose mode
func (e *Engine) progress(msg string, args ...any) {
	if e.verbose {
		e.logger.Info(msg, args...)
	} else {
		e.logger.Debug(msg, args...)
	}
}
