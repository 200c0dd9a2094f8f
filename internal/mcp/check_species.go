package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tphakala/inatdiff-go/internal/report"
)

// checkSpeciesTool answers the single-species question: was this taxon
// observed in the period, and does it have any prior records.
type checkSpeciesTool struct {
	deps *deps
}

func newCheckSpeciesTool(d *deps) *checkSpeciesTool {
	return &checkSpeciesTool{deps: d}
}

// Definition returns the MCP tool definition for check_if_species_is_new.
func (t *checkSpeciesTool) Definition() mcp.Tool {
	return mcp.NewTool("check_if_species_is_new",
		mcp.WithDescription(
			"Check if a specific species is new to a region. Returns whether the species "+
				"was observed during the time period and if it has any prior historical "+
				"observations. Use this when you want to check a specific species rather "+
				"than finding all new species.",
		),
		mcp.WithString("species_name",
			mcp.Required(),
			mcp.Description("Latin (scientific) name of the species to check. Examples: 'Python bivittatus' (Burmese Python), 'Canis lupus' (Gray Wolf), 'Panthera leo' (Lion)"),
		),
		mcp.WithString("region",
			mcp.Required(),
			mcp.Description("Geographic region name (e.g., 'Florida', 'Oregon', 'Kenya'). Can be a country, state, county, or other place recognized by iNaturalist."),
		),
		mcp.WithString("time_period",
			mcp.Required(),
			mcp.Description("Time period to check for observations. Examples: 'this year', 'last year', 'last 6 months', 'this month', 'last month', '2024-01-01 to 2024-12-31'"),
		),
		mcp.WithNumber("lookback_years",
			mcp.Description("Number of years to look back for historical data. Default: 20 years. Minimum: 1, Maximum: 50"),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format for the results. 'markdown' returns formatted text, 'html' returns a styled HTML report. Default: 'markdown'."),
			mcp.DefaultString(formatMarkdown),
			mcp.Enum(formatMarkdown, formatHTML),
		),
	)
}

// Handle processes the check_if_species_is_new tool call.
func (t *checkSpeciesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	lookback := t.deps.settings.Diff.LookbackYears
	if v, ok := intArg(req, "lookback_years"); ok {
		lookback = clampInt(v, minLookbackYears, maxLookbackYears)
	}
	format := req.GetString("output_format", formatMarkdown)

	t.deps.logger.Info("checking species",
		"species", speciesName,
		"region", region,
		"period", timePeriod,
		"lookback_years", lookback,
		"format", format)

	engine, _, err := t.deps.newEngine(engineOpts{lookbackYears: lookback})
	if err != nil {
		return nil, err
	}

	res, err := engine.RunTaxon(ctx, speciesName, timePeriod, region)
	if err != nil {
		if result := toolError(err); result != nil {
			return result, nil
		}
		return nil, err
	}

	q := report.Query{Region: region, PeriodExpr: timePeriod, TaxonName: speciesName}
	if format == formatHTML {
		text, err := report.TaxonCheckHTML(q, res)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(text), nil
	}
	return mcp.NewToolResultText(report.TaxonCheckMarkdown(q, res)), nil
}
