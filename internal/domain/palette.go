package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnknownCategory is the sentinel key for records without a category.
const UnknownCategory = "unknown"

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Color is a CSS hex color, e.g. "#ff4d4d".
type Color string

// LegendEntry is one row of the legend.
type LegendEntry struct {
	Category string `json:"category" yaml:"category"`
	Color    Color  `json:"color" yaml:"color"`
}

// Palette maps category keys to colors. Its order is the legend order; it is
// not re-sorted by frequency.
type Palette struct {
	order  []LegendEntry
	colors map[string]Color
}

var defaultEntries = []LegendEntry{
	{"brewpub", "#ff4d4d"},
	{"taproom", "#ff7043"},
	{"micro", "#ffa726"},
	{"nano", "#ffcc80"},
	{"meadery", "#ffd54f"},
	{"cidery", "#ffeb3b"},
	{"location", "#cddc39"},
	{"bar", "#66bb6a"},
	{"proprietor", "#26a69a"},
	{"regional", "#29b6f6"},
	{"contract", "#1e88e5"},
	{"large", "#1976d2"},
	{"planning", "#546e7a"},
	{"closed", "#455a64"},
	{UnknownCategory, "#000000"},
}

// DefaultPalette returns the curated brewery-type palette.
func DefaultPalette() *Palette {
	p, err := NewPalette(defaultEntries)
	if err != nil {
		panic(err)
	}
	return p
}

// NewPalette validates entries and builds a palette. Category names are keyed
// case-insensitively. When no "unknown" entry is given, one is appended with
// the default fallback color.
func NewPalette(entries []LegendEntry) (*Palette, error) {
	p := &Palette{
		order:  make([]LegendEntry, 0, len(entries)+1),
		colors: make(map[string]Color, len(entries)+1),
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Category) == "" {
			return nil, fmt.Errorf("palette entry %d: empty category", i)
		}
		if !hexColorRe.MatchString(string(e.Color)) {
			return nil, fmt.Errorf("palette entry %q: invalid color %q", e.Category, e.Color)
		}
		key := CategoryKey(e.Category)
		if _, dup := p.colors[key]; dup {
			return nil, fmt.Errorf("palette entry %q: duplicate category", e.Category)
		}
		p.colors[key] = e.Color
		p.order = append(p.order, LegendEntry{Category: key, Color: e.Color})
	}
	if _, ok := p.colors[UnknownCategory]; !ok {
		fallback := defaultEntries[len(defaultEntries)-1]
		p.colors[UnknownCategory] = fallback.Color
		p.order = append(p.order, fallback)
	}
	return p, nil
}

// paletteFile is the YAML shape of a palette override.
type paletteFile struct {
	Categories []LegendEntry `yaml:"categories"`
}

// ParsePalette reads a YAML palette:
//
//	categories:
//	  - category: brewpub
//	    color: "#ff4d4d"
func ParsePalette(data []byte) (*Palette, error) {
	var f paletteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse palette: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, errors.New("parse palette: no categories")
	}
	return NewPalette(f.Categories)
}

// CategoryKey normalizes a category for coloring: lower-case, and the empty
// string becomes UnknownCategory.
func CategoryKey(category string) string {
	if category == "" {
		return UnknownCategory
	}
	return strings.ToLower(category)
}

// ColorFor resolves a category to its color. Unlisted categories, including
// the empty one, get the fallback color.
func (p *Palette) ColorFor(category string) Color {
	if c, ok := p.colors[CategoryKey(category)]; ok {
		return c
	}
	return p.colors[UnknownCategory]
}

// Has reports whether the category has its own palette entry.
func (p *Palette) Has(category string) bool {
	_, ok := p.colors[CategoryKey(category)]
	return ok
}

// Legend returns the entries in palette order.
func (p *Palette) Legend() []LegendEntry {
	return append([]LegendEntry(nil), p.order...)
}
