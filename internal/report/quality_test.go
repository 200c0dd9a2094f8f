package report

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/inatdiff-go/internal/inat"
)

const observationsURLPattern = `=~^https://api\.inaturalist\.org/v1/observations\?`

func newQualityClient(t *testing.T) *inat.Client {
	t.Helper()
	client, err := inat.NewClient(inat.Config{RateLimit: time.Millisecond})
	require.NoError(t, err)
	return client
}

// gradeResponder serves per-taxon observation counts keyed by quality
// grade. Missing taxa count zero for every grade.
func gradeResponder(t *testing.T, counts map[int]map[string]int) httpmock.Responder {
	t.Helper()
	return func(req *http.Request) (*http.Response, error) {
		query := req.URL.Query()
		assert.Equal(t, "0", query.Get("per_page"))
		assert.Equal(t, "18", query.Get("place_id"))

		taxonID, _ := strconv.Atoi(query.Get("taxon_id"))
		grade := query.Get("quality_grade")
		total := counts[taxonID][grade]
		return httpmock.NewStringResponse(http.StatusOK, observationsCountJSON(total)), nil
	}
}

func observationsCountJSON(totalResults int) string {
	return fmt.Sprintf(`{"total_results": %d, "page": 1, "per_page": 0, "results": []}`, totalResults)
}

func TestAnnotateQuality(t *testing.T) {
	setupHTTPMock(t)
	client := newQualityClient(t)

	httpmock.RegisterResponder("GET", observationsURLPattern, gradeResponder(t, map[int]map[string]int{
		101: {"research": 2},
		202: {"needs_id": 1},
		303: {"casual": 4},
	}))

	labels, err := AnnotateQuality(context.Background(), client, 18, []int{101, 202, 303, 404})
	require.NoError(t, err)

	assert.Equal(t, QualityLabels{
		101: "Research Grade",
		202: "Needs ID",
		303: "Casual",
		404: "Unknown",
	}, labels)

	// 101 stops at the first rung; 202 needs two probes; 303 three;
	// 404 walks the whole ladder and finds nothing.
	assert.Equal(t, 1+2+3+3, httpmock.GetTotalCallCount())
}

func TestAnnotateQualityDeduplicates(t *testing.T) {
	setupHTTPMock(t)
	client := newQualityClient(t)

	httpmock.RegisterResponder("GET", observationsURLPattern, gradeResponder(t, map[int]map[string]int{
		101: {"research": 2},
	}))

	labels, err := AnnotateQuality(context.Background(), client, 18, []int{101, 101, 101})
	require.NoError(t, err)
	assert.Equal(t, QualityLabels{101: "Research Grade"}, labels)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestAnnotateQualityProbeFailure(t *testing.T) {
	setupHTTPMock(t)
	client := newQualityClient(t)

	// 404 is fatal to the probe but must not fail the annotation.
	httpmock.RegisterResponder("GET", observationsURLPattern,
		httpmock.NewStringResponder(http.StatusNotFound, `{"error": "not found"}`))

	labels, err := AnnotateQuality(context.Background(), client, 18, []int{101})
	require.NoError(t, err)
	assert.Equal(t, QualityLabels{101: "Unknown"}, labels)
}

func TestAnnotateQualityCancelled(t *testing.T) {
	setupHTTPMock(t)
	client := newQualityClient(t)

	httpmock.RegisterResponder("GET", observationsURLPattern,
		httpmock.NewStringResponder(http.StatusOK, observationsCountJSON(1)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	labels, err := AnnotateQuality(ctx, client, 18, []int{101, 202})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, labels)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestQualityLabelsLabel(t *testing.T) {
	t.Parallel()

	var unset QualityLabels
	assert.Empty(t, unset.Label(101), "nil map means annotation was skipped")

	labels := QualityLabels{101: "Research Grade"}
	assert.Equal(t, "Research Grade", labels.Label(101))
	assert.Equal(t, UnknownQuality, labels.Label(999))
}
