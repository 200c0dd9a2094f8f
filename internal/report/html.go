package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tphakala/inatdiff-go/internal/diff"
)

//go:embed views/*.html
var viewsFS embed.FS

var (
	reportTemplates = template.Must(template.New("").ParseFS(viewsFS, "views/*.html"))
	rankTitle       = cases.Title(language.English)
)

// layoutData fills the outer HTML document shell.
type layoutData struct {
	Title   string
	Content template.HTML
}

// stat is one summary card.
type stat struct {
	Value string
	Label string
}

// speciesItem is one row in a species list. All counts arrive
// pre-formatted so the templates stay free of logic.
type speciesItem struct {
	DisplayName    string
	LatinName      string
	IsNew          bool
	Rank           string
	IconicTaxon    string
	ObsCount       string
	HistoricalNote string
	QualityLabel   string
	Link           string
}

type diffPage struct {
	Region         string
	PeriodExpr     string
	Period         string
	LookbackYears  int
	LookbackPeriod string
	FallbackNote   string
	Stats          []stat
	NewCount       string
	NewSpecies     []speciesItem
}

type listPage struct {
	Region       string
	PeriodExpr   string
	Period       string
	FallbackNote string
	Stats        []stat
	SpeciesCount string
	Species      []speciesItem
}

type checkPage struct {
	TaxonName    string
	Region       string
	PeriodExpr   string
	Period       string
	FallbackNote string
	IsNew        bool
	ObsCount     string
	Analysis     string
	Link         string
}

// renderDocument executes a content template into a buffer first, then
// injects the result into the layout. Buffering keeps half-written
// documents from escaping when a template fails mid-render.
func renderDocument(title, contentTemplate string, data any) (string, error) {
	var content bytes.Buffer
	if err := reportTemplates.ExecuteTemplate(&content, contentTemplate, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", contentTemplate, err)
	}

	var doc bytes.Buffer
	err := reportTemplates.ExecuteTemplate(&doc, "layout", layoutData{
		Title:   title,
		Content: template.HTML(content.String()), //nolint:gosec // template output, already escaped
	})
	if err != nil {
		return "", fmt.Errorf("executing layout: %w", err)
	}
	return doc.String(), nil
}

// fallbackNote words the low-confidence place warning for HTML headers.
func fallbackNote(resolved string) string {
	return fmt.Sprintf("No exact place match found - showing results for %s (first search result)", resolved)
}

// recordItem builds a list row from a plain species record.
func recordItem(sp *diff.SpeciesRecord, placeID int, quality QualityLabels) speciesItem {
	item := speciesItem{
		DisplayName: sp.ScientificName,
		Rank:        rankTitle.String(sp.Rank),
		IconicTaxon: sp.IconicTaxon,
		ObsCount:    formatCount(sp.ObservationCount),
		Link:        observationsURL(placeID, sp.TaxonID),
	}
	if sp.CommonName != "" {
		item.DisplayName = sp.CommonName
		item.LatinName = sp.ScientificName
	}
	if label := quality.Label(sp.TaxonID); label != "" {
		item.QualityLabel = label
	}
	return item
}

// classifiedItem builds a list row carrying the historical verdict.
func classifiedItem(sp *diff.ClassifiedSpecies, placeID int, quality QualityLabels) speciesItem {
	item := recordItem(&sp.SpeciesRecord, placeID, quality)
	item.IsNew = sp.IsNew
	if sp.HistoricalCount == 0 {
		item.HistoricalNote = "No historical observations"
	} else {
		item.HistoricalNote = fmt.Sprintf("Historical: %s obs.", formatCount(sp.HistoricalCount))
	}
	return item
}

// ResultHTML renders a full diff as a standalone HTML document.
// Established species appear in the summary cards only; the species
// section lists the new arrivals. Pass nil quality to omit grade lines.
func ResultHTML(q Query, res *diff.Result, quality QualityLabels) (string, error) {
	page := diffPage{
		Region:         q.Region,
		PeriodExpr:     q.PeriodExpr,
		Period:         res.CurrentPeriod.String(),
		LookbackYears:  lookbackYears(res),
		LookbackPeriod: res.LookbackPeriod.String(),
		Stats: []stat{
			{Value: formatCount(res.TotalSpecies()), Label: "Total Species in Period"},
			{Value: formatCount(len(res.NewSpecies)), Label: "New Species (No Historical Obs.)"},
			{Value: formatCount(len(res.EstablishedSpecies)), Label: "Established Species"},
		},
		NewCount: formatCount(len(res.NewSpecies)),
	}
	if !res.ResolvedPlace.MatchType.Confident() {
		page.FallbackNote = fallbackNote(res.ResolvedPlace.Place.BestName())
	}
	for i := range res.NewSpecies {
		page.NewSpecies = append(page.NewSpecies, classifiedItem(&res.NewSpecies[i], res.ResolvedPlace.Place.ID, quality))
	}

	return renderDocument("New Species in "+q.Region, "newSpecies", page)
}

// SpeciesListHTML renders a species list as a standalone HTML document.
func SpeciesListHTML(q Query, list *diff.SpeciesList, quality QualityLabels) (string, error) {
	page := listPage{
		Region:     q.Region,
		PeriodExpr: q.PeriodExpr,
		Period:     list.Period.String(),
		Stats: []stat{
			{Value: formatCount(list.SpeciesCount), Label: "Unique Species"},
			{Value: formatCount(list.TotalObservations), Label: "Total Observations"},
		},
		SpeciesCount: formatCount(list.SpeciesCount),
	}
	if !list.ResolvedPlace.MatchType.Confident() {
		page.FallbackNote = fallbackNote(list.ResolvedPlace.Place.BestName())
	}
	for i := range list.Species {
		page.Species = append(page.Species, recordItem(&list.Species[i], list.ResolvedPlace.Place.ID, quality))
	}

	return renderDocument("Species in "+q.Region, "speciesList", page)
}

// TaxonCheckHTML renders a single-species check as a standalone HTML
// document.
func TaxonCheckHTML(q Query, res *diff.Result) (string, error) {
	out := summarizeCheck(res)
	page := checkPage{
		TaxonName:  q.TaxonName,
		Region:     q.Region,
		PeriodExpr: q.PeriodExpr,
		Period:     res.CurrentPeriod.String(),
		IsNew:      out.IsNew,
		ObsCount:   formatCount(out.CurrentCount),
		Analysis:   checkAnalysis(q, res, out),
	}
	if !res.ResolvedPlace.MatchType.Confident() {
		page.FallbackNote = fallbackNote(res.ResolvedPlace.Place.BestName())
	}
	if out.TaxonID > 0 {
		page.Link = observationsURL(res.ResolvedPlace.Place.ID, out.TaxonID)
	}

	return renderDocument(q.TaxonName+" in "+q.Region, "taxonCheck", page)
}
