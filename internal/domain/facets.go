package domain

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Facets holds the option lists for the select controls. The "any" option is
// implicit (the empty string) and is not part of the lists.
type Facets struct {
	Categories []string `json:"categories"`
	Countries  []string `json:"countries"`
	Regions    []string `json:"regions"`
	// Country is the selection the region list was scoped to.
	Country string `json:"country"`
}

// BuildFacets computes all option lists. Categories and countries come from the
// full record set; regions are scoped to country ("" for all).
func BuildFacets(records []Brewery, country string) Facets {
	return Facets{
		Categories: Categories(records),
		Countries:  Countries(records),
		Regions:    Regions(records, country),
		Country:    country,
	}
}

// Categories lists the distinct non-empty categories, collated.
func Categories(records []Brewery) []string {
	return distinct(records, func(b Brewery) (string, bool) {
		return b.Category, true
	})
}

// Countries lists the distinct non-empty countries, collated.
func Countries(records []Brewery) []string {
	return distinct(records, func(b Brewery) (string, bool) {
		return b.Country, true
	})
}

// Regions lists the distinct non-empty regions among records in country, or
// among all records when country is "".
func Regions(records []Brewery, country string) []string {
	return distinct(records, func(b Brewery) (string, bool) {
		if country != "" && b.Country != country {
			return "", false
		}
		return b.Region, true
	})
}

func distinct(records []Brewery, pick func(Brewery) (string, bool)) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, b := range records {
		v, ok := pick(b)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sortLocale(out)
	return out
}

// sortLocale sorts with locale-aware collation. A Collator is not safe for
// concurrent use, so each call builds its own.
func sortLocale(values []string) {
	collate.New(language.English).SortStrings(values)
}
