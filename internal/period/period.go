// Package period parses human time-period expressions into calendar date ranges.
package period

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tphakala/inatdiff-go/internal/errors"
)

// ErrInvalidPeriod indicates an expression that matches no recognized grammar.
var ErrInvalidPeriod = errors.NewStd("invalid time period")

const dateLayout = "2006-01-02"

// Period is an ordered pair of calendar dates, normalized to UTC midnight.
type Period struct {
	Start time.Time
	End   time.Time
}

// String renders the period as "YYYY-MM-DD to YYYY-MM-DD".
func (p Period) String() string {
	return p.Start.Format(dateLayout) + " to " + p.End.Format(dateLayout)
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// MarshalJSON renders the period with date-only bounds.
func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}{
		StartDate: p.Start.Format(dateLayout),
		EndDate:   p.End.Format(dateLayout),
	})
}

// MarshalYAML renders the period with date-only bounds, matching the
// JSON shape in saved result files.
func (p Period) MarshalYAML() (any, error) {
	return struct {
		StartDate string `yaml:"start_date"`
		EndDate   string `yaml:"end_date"`
	}{
		StartDate: p.Start.Format(dateLayout),
		EndDate:   p.End.Format(dateLayout),
	}, nil
}

var (
	lastNPattern = regexp.MustCompile(`^(?:last|past)\s+(\d+)\s+(day|week|month|year)s?$`)
	rangePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+to\s+(\d{4}-\d{2}-\d{2})$`)
)

// Parse turns a time-period expression into a Period relative to today.
// Recognized forms:
//
//	"last N days/weeks/months/years" (also "past"), N > 0
//	"this month", "this year" (first day through today)
//	"last month", "last year" (the whole previous month/year)
//	"YYYY-MM-DD to YYYY-MM-DD" (literal inclusive range)
//
// Anything else fails with ErrInvalidPeriod. The caller supplies today so
// identical inputs always yield identical output.
func Parse(expr string, today time.Time) (Period, error) {
	normalized := strings.ToLower(strings.TrimSpace(expr))
	day := dateOf(today)

	if m := lastNPattern.FindStringSubmatch(normalized); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return Period{}, invalid(expr, "count must be a positive integer")
		}
		var start time.Time
		switch m[2] {
		case "day":
			start = day.AddDate(0, 0, -n)
		case "week":
			start = day.AddDate(0, 0, -7*n)
		case "month":
			start = day.AddDate(0, -n, 0)
		case "year":
			start = day.AddDate(-n, 0, 0)
		}
		return Period{Start: start, End: day}, nil
	}

	switch normalized {
	case "this month":
		return Period{Start: firstOfMonth(day), End: day}, nil
	case "this year":
		return Period{Start: time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), End: day}, nil
	case "last month":
		end := firstOfMonth(day).AddDate(0, 0, -1)
		return Period{Start: firstOfMonth(end), End: end}, nil
	case "last year":
		return Period{
			Start: time.Date(day.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(day.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC),
		}, nil
	}

	if m := rangePattern.FindStringSubmatch(normalized); m != nil {
		start, err := time.Parse(dateLayout, m[1])
		if err != nil {
			return Period{}, invalid(expr, fmt.Sprintf("bad start date %q", m[1]))
		}
		end, err := time.Parse(dateLayout, m[2])
		if err != nil {
			return Period{}, invalid(expr, fmt.Sprintf("bad end date %q", m[2]))
		}
		if start.After(end) {
			return Period{}, invalid(expr, "start date is after end date")
		}
		return Period{Start: start, End: end}, nil
	}

	return Period{}, invalid(expr, "unrecognized format")
}

// dateOf truncates a timestamp to its calendar date, pinned to UTC so
// periods compare and subtract cleanly.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func firstOfMonth(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func invalid(expr, reason string) error {
	return errors.New(fmt.Errorf("%w %q: %s", ErrInvalidPeriod, expr, reason)).
		Component("period").
		Category(errors.CategoryValidation).
		Context("expression", expr).
		Build()
}
