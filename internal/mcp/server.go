// Package mcp exposes the diff engine as Model Context Protocol tools
// over stdio. This is the composition root for the tool surface: it
// wires settings, the result cache and the per-call engine factory into
// the four tools and registers them on the server.
package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/server"
	gocache "github.com/patrickmn/go-cache"

	"github.com/tphakala/inatdiff-go/internal/conf"
	"github.com/tphakala/inatdiff-go/internal/diff"
	"github.com/tphakala/inatdiff-go/internal/inat"
	"github.com/tphakala/inatdiff-go/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

const serverName = "inat-diff"

// defaultCacheTTL backstops a missing or invalid cache configuration.
const defaultCacheTTL = 15 * time.Minute

// New assembles the MCP server with all four query tools registered.
func New(settings *conf.Settings) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	d := newDeps(settings)

	findNew := newFindNewSpeciesTool(d)
	s.AddTool(findNew.Definition(), findNew.Handle)

	check := newCheckSpeciesTool(d)
	s.AddTool(check.Definition(), check.Handle)

	list := newListSpeciesTool(d)
	s.AddTool(list.Definition(), list.Handle)

	query := newQueryObservationsTool(d)
	s.AddTool(query.Definition(), query.Handle)

	return s
}

// Serve assembles the server and runs it over stdio until the client
// disconnects. Diagnostics must stay on stderr: stdout carries the
// protocol.
func Serve(settings *conf.Settings) error {
	return server.ServeStdio(New(settings))
}

func serverInstructions() string {
	return `This server queries iNaturalist observation data to detect species that
are new to a geographic region. Use find_new_species_in_region for the
main "what appeared here recently" question, check_if_species_is_new for
a single species, list_species_in_region for a plain biodiversity
overview, and query_species_observations for raw observation counts.

Queries run against the live iNaturalist API with conservative rate
limiting, so large regions can take minutes. Place resolution is fuzzy:
responses flag low-confidence matches, and those warnings should be
passed on to the user.

Use Latin scientific names for species arguments (e.g. 'Canis lupus',
not 'wolf') and plain place names for regions (e.g. 'Oregon', not
'OR').`
}

// deps carries the shared collaborators behind every tool.
type deps struct {
	settings *conf.Settings
	cache    *gocache.Cache
	logger   *slog.Logger
}

func newDeps(settings *conf.Settings) *deps {
	ttl := settings.MCP.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &deps{
		settings: settings,
		cache:    gocache.New(ttl, ttl*2),
		logger:   logging.ForService("mcp"),
	}
}

// engineOpts are the per-call overrides tool arguments may apply on top
// of the configured defaults. Zero values keep the configuration.
type engineOpts struct {
	rateLimit     float64 // seconds between API requests
	lookbackYears int
	verbose       bool
}

// newEngine builds a fresh engine for one tool call. Engines are built
// per call because the rate limiter is fixed at client construction and
// tools accept a rate_limit argument.
func (d *deps) newEngine(opts engineOpts) (*diff.Engine, *inat.Client, error) {
	settings := *d.settings // shallow copy, only scalar fields change
	if opts.rateLimit > 0 {
		settings.INat.RateLimit = opts.rateLimit
	}
	if opts.lookbackYears > 0 {
		settings.Diff.LookbackYears = opts.lookbackYears
	}
	if opts.verbose {
		settings.Diff.Verbose = true
	}

	client, err := inat.NewClient(inat.ConfigFromSettings(&settings))
	if err != nil {
		return nil, nil, err
	}
	return diff.NewEngine(client, &settings), client, nil
}

// resultLimit returns how many species a tool response lists.
func (d *deps) resultLimit() int {
	if d.settings.MCP.ResultLimit > 0 {
		return d.settings.MCP.ResultLimit
	}
	return 50
}
