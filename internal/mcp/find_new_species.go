package mcp

import (
	"context"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	gocache "github.com/patrickmn/go-cache"

	"github.com/tphakala/inatdiff-go/internal/report"
)

// findNewSpeciesTool runs the full diff: every species observed in the
// period, classified against the lookback window.
type findNewSpeciesTool struct {
	deps *deps
}

func newFindNewSpeciesTool(d *deps) *findNewSpeciesTool {
	return &findNewSpeciesTool{deps: d}
}

// Definition returns the MCP tool definition for find_new_species_in_region.
func (t *findNewSpeciesTool) Definition() mcp.Tool {
	return mcp.NewTool("find_new_species_in_region",
		mcp.WithDescription(
			"Find all species that appear to be new to a region during a time period. "+
				"This is the main tool for invasive species monitoring - it identifies species "+
				"observed recently that have no prior observations in the lookback period. "+
				"Perfect for questions like: 'What new species appeared in Oregon this month?'",
		),
		mcp.WithString("region",
			mcp.Required(),
			mcp.Description("Geographic region name (e.g., 'Oregon', 'California', 'Kenya', 'Multnomah County'). Can be a country, state, county, or other place recognized by iNaturalist."),
		),
		mcp.WithString("time_period",
			mcp.Required(),
			mcp.Description("Time period to check for new observations. Examples: 'last 30 days', 'this month', 'last month', 'this year', 'last year', 'last week', 'past 6 months', '2024-01-01 to 2024-12-31'"),
		),
		mcp.WithNumber("lookback_years",
			mcp.Description("Number of years to look back for historical data. Species with no observations in this lookback period are considered 'new'. Default: 20 years (recommended). Minimum: 1, Maximum: 50"),
		),
		mcp.WithNumber("rate_limit",
			mcp.Description("Seconds to wait between API calls to iNaturalist. Default: 1.2 (50 requests/min). Range: 0.6-2.0. Lower = faster but may hit rate limits."),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format for the results. 'markdown' returns formatted text, 'html' returns a styled HTML report. Default: 'markdown'."),
			mcp.DefaultString(formatMarkdown),
			mcp.Enum(formatMarkdown, formatHTML),
		),
	)
}

// Handle processes the find_new_species_in_region tool call.
func (t *findNewSpeciesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	region := req.GetString("region", "")
	if region == "" {
		return mcp.NewToolResultError("'region' is required"), nil
	}
	timePeriod := req.GetString("time_period", "")
	if timePeriod == "" {
		return mcp.NewToolResultError("'time_period' is required"), nil
	}
	lookback := t.deps.settings.Diff.LookbackYears
	if v, ok := intArg(req, "lookback_years"); ok {
		lookback = clampInt(v, minLookbackYears, maxLookbackYears)
	}
	rateLimit := t.deps.settings.INat.RateLimit
	if v, ok := floatArg(req, "rate_limit"); ok {
		rateLimit = clampFloat(v, minRateLimit, maxRateLimit)
	}
	format := req.GetString("output_format", formatMarkdown)

	// rate_limit changes pacing, not results, so it stays out of the key.
	key := cacheKey("find_new_species_in_region", region, timePeriod, strconv.Itoa(lookback), format)
	if cached, ok := t.deps.cache.Get(key); ok {
		return mcp.NewToolResultText(cached.(string)), nil
	}

	t.deps.logger.Info("finding new species",
		"region", region,
		"period", timePeriod,
		"lookback_years", lookback,
		"rate_limit", rateLimit,
		"format", format)

	engine, client, err := t.deps.newEngine(engineOpts{
		rateLimit:     rateLimit,
		lookbackYears: lookback,
		verbose:       true,
	})
	if err != nil {
		return nil, err
	}

	res, err := engine.Run(ctx, timePeriod, region)
	if err != nil {
		if result := toolError(err); result != nil {
			return result, nil
		}
		return nil, err
	}

	q := report.Query{Region: region, PeriodExpr: timePeriod}
	var text string
	if format == formatHTML {
		ids := make([]int, 0, len(res.NewSpecies))
		for i := range res.NewSpecies {
			ids = append(ids, res.NewSpecies[i].TaxonID)
		}
		quality, err := report.AnnotateQuality(ctx, client, res.ResolvedPlace.Place.ID, ids)
		if err != nil {
			return nil, err
		}
		text, err = report.ResultHTML(q, res, quality)
		if err != nil {
			return nil, err
		}
	} else {
		text = report.ResultMarkdown(q, res, t.deps.resultLimit())
	}

	t.deps.cache.Set(key, text, gocache.DefaultExpiration)
	return mcp.NewToolResultText(text), nil
}
