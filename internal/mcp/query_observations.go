package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tphakala/inatdiff-go/internal/report"
)

// queryObservationsTool returns the raw observation count for one taxon
// in a region and period.
type queryObservationsTool struct {
	deps *deps
}

func newQueryObservationsTool(d *deps) *queryObservationsTool {
	return &queryObservationsTool{deps: d}
}

// Definition returns the MCP tool definition for query_species_observations.
func (t *queryObservationsTool) Definition() mcp.Tool {
	return mcp.NewTool("query_species_observations",
		mcp.WithDescription(
			"Query detailed observations for a specific species in a region and time period. "+
				"Returns individual observation records (up to 200 per page). Use this when "+
				"you need detailed observation data rather than just counts.",
		),
		mcp.WithString("species_name",
			mcp.Required(),
			mcp.Description("Latin (scientific) name of the species. Examples: 'Canis lupus', 'Panthera leo'"),
		),
		mcp.WithString("region",
			mcp.Required(),
			mcp.Description("Geographic region name."),
		),
		mcp.WithString("time_period",
			mcp.Required(),
			mcp.Description("Time period to query. Examples: 'last 30 days', 'this month', 'last month', 'this year'"),
		),
	)
}

// Handle processes the query_species_observations tool call.
func (t *queryObservationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	speciesName := req.GetString("species_name", "")
	if speciesName == "" {
		return mcp.NewToolResultError("'species_name' is required"), nil
	}
	region := req.GetString("region", "")
	if region == "" {
		return mcp.NewToolResultError("'region' is required"), nil
	}
	timePeriod := req.GetString("time_period", "")
	if timePeriod == "" {
		return mcp.NewToolResultError("'time_period' is required"), nil
	}

	t.deps.logger.Info("querying observations",
		"species", speciesName,
		"region", region,
		"period", timePeriod)

	engine, _, err := t.deps.newEngine(engineOpts{})
	if err != nil {
		return nil, err
	}

	sum, err := engine.CountObservations(ctx, speciesName, timePeriod, region)
	if err != nil {
		if result := toolError(err); result != nil {
			return result, nil
		}
		return nil, err
	}

	q := report.Query{Region: region, PeriodExpr: timePeriod, TaxonName: speciesName}
	return mcp.NewToolResultText(report.ObservationsMarkdown(q, sum)), nil
}
