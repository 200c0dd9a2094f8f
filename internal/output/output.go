// Package output turns finished query results into console documents and
// saved files. It consumes the result structures and never alters their
// contents, so rendering the same result twice costs no API calls.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tphakala/inatdiff-go/internal/conf"
	"github.com/tphakala/inatdiff-go/internal/diff"
	"github.com/tphakala/inatdiff-go/internal/report"
)

// Options controls how results are rendered and where they are saved.
type Options struct {
	Format string // console format: text, json or markdown
	Limit  int    // species shown before truncation
	File   string // path to save the raw result, empty to skip
}

// FromSettings derives render options from loaded application settings.
func FromSettings(settings *conf.Settings) Options {
	return Options{
		Format: settings.Output.Format,
		Limit:  settings.Output.SpeciesDisplayLimit,
		File:   settings.Output.File,
	}
}

// Result renders a full new-species diff in the configured format.
func Result(q report.Query, res *diff.Result, opts Options) (string, error) {
	switch opts.Format {
	case "json":
		return marshalJSON(res)
	case "markdown":
		return report.ResultMarkdown(q, res, opts.Limit), nil
	default:
		return report.ResultText(q, res, opts.Limit), nil
	}
}

// TaxonCheck renders a single-species check in the configured format.
func TaxonCheck(q report.Query, res *diff.Result, opts Options) (string, error) {
	switch opts.Format {
	case "json":
		return marshalJSON(res)
	case "markdown":
		return report.TaxonCheckMarkdown(q, res), nil
	default:
		return report.TaxonCheckText(q, res), nil
	}
}

// SpeciesList renders a species list in the configured format.
func SpeciesList(q report.Query, list *diff.SpeciesList, opts Options) (string, error) {
	switch opts.Format {
	case "json":
		return marshalJSON(list)
	case "markdown":
		return report.SpeciesListMarkdown(q, list, opts.Limit), nil
	default:
		return report.SpeciesListText(q, list, opts.Limit), nil
	}
}

// Observations renders an observation count summary in the configured format.
func Observations(q report.Query, sum *diff.ObservationSummary, opts Options) (string, error) {
	switch opts.Format {
	case "json":
		return marshalJSON(sum)
	case "markdown":
		return report.ObservationsMarkdown(q, sum), nil
	default:
		return report.ObservationsText(q, sum), nil
	}
}

// Emit prints the rendered document on stdout and, when a file path is
// configured, saves the raw result next to it.
func Emit(rendered string, result any, opts Options) error {
	fmt.Println(rendered)
	if opts.File == "" {
		return nil
	}
	if err := Save(opts.File, result); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Results saved to:", opts.File)
	return nil
}

// Save writes the raw result to path, as YAML when the extension is
// .yaml or .yml and as indented JSON otherwise.
func Save(path string, result any) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(result)
	default:
		data, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("error marshaling results: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing results to %s: %w", path, err)
	}
	return nil
}

// SaveHTML writes a rendered HTML document to path.
func SaveHTML(path, doc string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("error writing HTML report to %s: %w", path, err)
	}
	return nil
}

func marshalJSON(result any) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshaling results to JSON: %w", err)
	}
	return string(data), nil
}
