package mcp

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tphakala/inatdiff-go/internal/errors"
	"github.com/tphakala/inatdiff-go/internal/inat"
	"github.com/tphakala/inatdiff-go/internal/period"
)

// Output formats accepted by the output_format argument.
const (
	formatMarkdown = "markdown"
	formatHTML     = "html"
)

// Argument bounds. The schema descriptions state them; the handlers
// enforce them by clamping provided values rather than rejecting.
const (
	minLookbackYears = 1
	maxLookbackYears = 50
	minRateLimit     = 0.6
	maxRateLimit     = 2.0
)

// intArg extracts an integer argument. The second return reports
// whether the key was present as a number (JSON numbers arrive as
// float64); absent arguments fall back to configuration unclamped.
func intArg(req mcp.CallToolRequest, key string) (int, bool) {
	v, ok := req.GetArguments()[key].(float64)
	return int(v), ok
}

// floatArg extracts a float argument, reporting whether the key was
// present as a number.
func floatArg(req mcp.CallToolRequest, key string) (float64, bool) {
	v, ok := req.GetArguments()[key].(float64)
	return v, ok
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// cacheKey builds a cache key from the tool name and its arguments.
// Free-text arguments are case-folded and trimmed so trivially
// different spellings of the same query share an entry.
func cacheKey(tool string, parts ...string) string {
	key := make([]string, 0, len(parts)+1)
	key = append(key, tool)
	for _, p := range parts {
		key = append(key, strings.ToLower(strings.TrimSpace(p)))
	}
	return strings.Join(key, "|")
}

// toolError maps domain errors the caller can fix to tool-result
// errors. It returns nil for anything else, which the handler reports
// as a protocol-level error instead.
func toolError(err error) *mcp.CallToolResult {
	var apiErr *inat.APIError
	switch {
	case errors.Is(err, inat.ErrPlaceNotFound):
		return mcp.NewToolResultError(fmt.Sprintf(
			"❌ Place not found: %v\n\nTip: Try using more specific place names like 'Oregon' instead of 'OR', or check https://www.inaturalist.org/places", err))
	case errors.Is(err, inat.ErrTaxonNotFound):
		return mcp.NewToolResultError(fmt.Sprintf(
			"❌ Species not found: %v\n\nTip: Use Latin scientific names (e.g., 'Canis lupus' instead of 'wolf')", err))
	case errors.Is(err, period.ErrInvalidPeriod):
		return mcp.NewToolResultError(fmt.Sprintf(
			"❌ Invalid time period: %v\n\nTip: Try expressions like 'last 30 days', 'this month', 'last year', or '2024-01-01 to 2024-12-31'", err))
	case errors.As(err, &apiErr):
		return mcp.NewToolResultError(fmt.Sprintf("❌ iNaturalist API error: %v", err))
	default:
		return nil
	}
}
