package report

import (
	"context"

	"github.com/tphakala/inatdiff-go/internal/inat"
)

// UnknownQuality labels species whose best grade could not be determined.
const UnknownQuality = "Unknown"

// qualityGrades is the observation grade ladder, best first.
var qualityGrades = []struct{ grade, label string }{
	{"research", "Research Grade"},
	{"needs_id", "Needs ID"},
	{"casual", "Casual"},
}

// QualityLabels maps taxon IDs to their best observation grade label.
// A nil map means annotation was skipped and renderers omit quality
// entirely.
type QualityLabels map[int]string

// Label returns the stored label for a taxon, UnknownQuality when the
// taxon was annotated but no grade was found, and "" on a nil map.
func (ql QualityLabels) Label(taxonID int) string {
	if ql == nil {
		return ""
	}
	if label, ok := ql[taxonID]; ok {
		return label
	}
	return UnknownQuality
}

// AnnotateQuality probes the best available observation grade for each
// taxon in the place, walking the grade ladder with one per_page=1
// request per rung. Probes ride the shared rate-limited client, so a
// long species list takes a while; callers cancel through ctx. Probe
// failures degrade that taxon to UnknownQuality instead of failing the
// whole report.
func AnnotateQuality(ctx context.Context, client *inat.Client, placeID int, taxonIDs []int) (QualityLabels, error) {
	labels := make(QualityLabels, len(taxonIDs))
	for _, taxonID := range taxonIDs {
		if taxonID <= 0 {
			continue
		}
		if _, done := labels[taxonID]; done {
			continue
		}
		if err := ctx.Err(); err != nil {
			return labels, err
		}
		labels[taxonID] = bestQualityLabel(ctx, client, placeID, taxonID)
	}
	return labels, nil
}

func bestQualityLabel(ctx context.Context, client *inat.Client, placeID, taxonID int) string {
	query := inat.ObservationsQuery{PlaceID: placeID, TaxonID: taxonID}
	for _, rung := range qualityGrades {
		found, err := client.HasObservationsOfGrade(ctx, query, rung.grade)
		if err != nil {
			return UnknownQuality
		}
		if found {
			return rung.label
		}
	}
	return UnknownQuality
}
