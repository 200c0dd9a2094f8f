package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	gocache "github.com/patrickmn/go-cache"

	"github.com/tphakala/inatdiff-go/internal/report"
)

// listSpeciesTool returns the plain species inventory for a region and
// period, without the historical classification.
type listSpeciesTool struct {
	deps *deps
}

func newListSpeciesTool(d *deps) *listSpeciesTool {
	return &listSpeciesTool{deps: d}
}

// Definition returns the MCP tool definition for list_species_in_region.
func (t *listSpeciesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_species_in_region",
		mcp.WithDescription(
			"List all species observed in a region during a specific time period. "+
				"Returns species counts and names. Useful for getting an overview of "+
				"biodiversity in a region without filtering for 'new' species.",
		),
		mcp.WithString("region",
			mcp.Required(),
			mcp.Description("Geographic region name (e.g., 'Oregon', 'California', 'Kenya')."),
		),
		mcp.WithString("time_period",
			mcp.Required(),
			mcp.Description("Time period to query. Examples: 'last month', 'this month', 'this year', 'last year', 'last 30 days', '2024-01-01 to 2024-06-30'"),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format for the results. 'markdown' returns formatted text, 'html' returns a styled HTML report. Default: 'markdown'."),
			mcp.DefaultString(formatMarkdown),
			mcp.Enum(formatMarkdown, formatHTML),
		),
	)
}

// Handle processes the list_species_in_region tool call.
func (t *listSpeciesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	region := req.GetString("region", "")
	if region == "" {
		return mcp.NewToolResultError("'region' is required"), nil
	}
	timePeriod := req.GetString("time_period", "")
	if timePeriod == "" {
		return mcp.NewToolResultError("'time_period' is required"), nil
	}
	format := req.GetString("output_format", formatMarkdown)

	key := cacheKey("list_species_in_region", region, timePeriod, format)
	if cached, ok := t.deps.cache.Get(key); ok {
		return mcp.NewToolResultText(cached.(string)), nil
	}

	t.deps.logger.Info("listing species",
		"region", region,
		"period", timePeriod,
		"format", format)

	engine, client, err := t.deps.newEngine(engineOpts{})
	if err != nil {
		return nil, err
	}

	list, err := engine.ListSpecies(ctx, timePeriod, region)
	if err != nil {
		if result := toolError(err); result != nil {
			return result, nil
		}
		return nil, err
	}

	q := report.Query{Region: region, PeriodExpr: timePeriod}
	var text string
	if format == formatHTML {
		ids := make([]int, 0, len(list.Species))
		for i := range list.Species {
			ids = append(ids, list.Species[i].TaxonID)
		}
		quality, err := report.AnnotateQuality(ctx, client, list.ResolvedPlace.Place.ID, ids)
		if err != nil {
			return nil, err
		}
		text, err = report.SpeciesListHTML(q, list, quality)
		if err != nil {
			return nil, err
		}
	} else {
		text = report.SpeciesListMarkdown(q, list, t.deps.resultLimit())
	}

	t.deps.cache.Set(key, text, gocache.DefaultExpiration)
	return mcp.NewToolResultText(text), nil
}
