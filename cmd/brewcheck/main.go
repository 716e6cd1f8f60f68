// Command brewcheck loads a brewery file the way the service does and reports
// its integrity: schema variant, record counts, identifiers, coordinates, and
// palette coverage of the categories.
//
// Usage:
//
//	go run ./cmd/brewcheck -data data/na_breweries_combined.csv [-palette palette.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/couchcryptid/brewmap/internal/adapter/tabular"
	"github.com/couchcryptid/brewmap/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// maxListed caps the errors printed per phase.
const maxListed = 25

func main() {
	data := flag.String("data", "", "path or http(s) URL of the brewery file")
	palettePath := flag.String("palette", "", "optional palette YAML file")
	timeout := flag.Duration("timeout", 30*time.Second, "fetch timeout for URLs")
	flag.Parse()

	if *data == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(os.Stdout, *data, *palettePath, *timeout))
}

func run(out io.Writer, data, palettePath string, timeout time.Duration) int {
	palette := domain.DefaultPalette()
	if palettePath != "" {
		raw, err := os.ReadFile(palettePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read palette: %v\n", err)
			return 1
		}
		if palette, err = domain.ParsePalette(raw); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
	}

	fmt.Fprintln(out, "=== Brewery Data Integrity Check ===")
	fmt.Fprintln(out)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	table, err := tabular.NewSource(data, timeout, logger).Fetch(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load %s: %v\n", data, err)
		return 1
	}
	ds := domain.NewDataset(table)

	phases := []*phase{
		checkIdentifiers(ds.Records, table.Lines),
		checkCoordinates(ds.Records, table.Lines),
		checkPaletteCoverage(ds.Records, palette),
	}

	allPassed := report(out, phases)

	facets := domain.BuildFacets(ds.Records, "")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Schema: %s (%d columns)\n", ds.Schema, len(ds.Fields))
	fmt.Fprintf(out, "Records: %s total, %s renderable\n",
		domain.FormatCount(len(ds.Records)), domain.FormatCount(ds.RenderableCount()))
	fmt.Fprintf(out, "Facets: %d categories, %d countries, %d regions\n",
		len(facets.Categories), len(facets.Countries), len(facets.Regions))

	if allPassed {
		fmt.Fprintln(out, "\nAll checks passed.")
		return 0
	}
	fmt.Fprintln(out, "\nCheck FAILED.")
	return 1
}

func report(out io.Writer, phases []*phase) bool {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-36s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxListed {
				fmt.Fprintf(out, "  ... %d more\n", len(p.errors)-maxListed)
				break
			}
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}
	return allPassed
}

// lineIndex maps a record index to its line in the file.
type lineIndex []int

func (l lineIndex) at(i int) int {
	if i < len(l) {
		return l[i]
	}
	return i + 2
}

// checkIdentifiers flags rows without an id and ids used more than once.
func checkIdentifiers(records []domain.Brewery, lines lineIndex) *phase {
	p := &phase{name: "Identifiers"}
	first := make(map[string]int, len(records))
	for i, b := range records {
		if b.ID == "" {
			p.errorf("line %d: missing id", lines.at(i))
			continue
		}
		if j, dup := first[b.ID]; dup {
			p.errorf("line %d: id %q already used on line %d", lines.at(i), b.ID, lines.at(j))
			continue
		}
		first[b.ID] = i
	}
	return p
}

// checkCoordinates flags rows that cannot be placed on the map or whose
// position is outside the valid range.
func checkCoordinates(records []domain.Brewery, lines lineIndex) *phase {
	p := &phase{name: "Coordinates"}
	for i, b := range records {
		lat, lon, ok := b.Position()
		switch {
		case !ok:
			p.errorf("line %d (%s): unparseable coordinates lat=%v lon=%v",
				lines.at(i), b.DisplayName(), b.Latitude.Raw, b.Longitude.Raw)
		case lat < -90 || lat > 90 || lon < -180 || lon > 180:
			p.errorf("line %d (%s): out of range lat=%g lon=%g", lines.at(i), b.DisplayName(), lat, lon)
		}
	}
	return p
}

// checkPaletteCoverage flags categories that fall back to the unknown color.
func checkPaletteCoverage(records []domain.Brewery, palette *domain.Palette) *phase {
	p := &phase{name: "Palette coverage"}
	uncovered := map[string]int{}
	for _, b := range records {
		if !palette.Has(b.Category) {
			uncovered[domain.CategoryKey(b.Category)]++
		}
	}
	keys := make([]string, 0, len(uncovered))
	for k := range uncovered {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.errorf("category %q (%d records) has no palette color", k, uncovered[k])
	}
	return p
}
