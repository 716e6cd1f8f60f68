package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/paulmach/orb"
	"golang.org/x/text/unicode/norm"
)

// Criteria is the set of active filters. An empty field means "any".
type Criteria struct {
	Category string `json:"category"`
	Country  string `json:"country"`
	Region   string `json:"region"`
	Query    string `json:"query"`
}

// Fold normalizes text for accent- and case-insensitive comparison:
// NFD, drop combining diacritical marks (U+0300–U+036F), lower-case.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	d := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(d))
	for _, r := range d {
		if r >= '\u0300' && r <= '\u036f' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// searchKey is the haystack the free-text query is matched against.
func (b Brewery) searchKey() string {
	return Fold(b.Name) + " " + Fold(b.City) + " " + Fold(b.PostalCode)
}

// Filter returns the records matching every active predicate, in their
// original order. Category, country and region compare exactly; the query is
// a folded substring match over name, city and postal code. Region is not
// checked against the selected country, so a stale region yields no records.
func Filter(records []Brewery, c Criteria) []Brewery {
	q := Fold(c.Query)
	out := make([]Brewery, 0, len(records))
	for _, b := range records {
		if c.Category != "" && b.Category != c.Category {
			continue
		}
		if c.Country != "" && b.Country != c.Country {
			continue
		}
		if c.Region != "" && b.Region != c.Region {
			continue
		}
		if q != "" && !strings.Contains(b.searchKey(), q) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Marker is a renderable record handed to the point renderer, with its
// resolved color and category tag attached.
type Marker struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Lat      float64    `json:"lat"`
	Lon      float64    `json:"lon"`
	Category string     `json:"category"`
	Color    Color      `json:"color"`
	Popup    MarkerCard `json:"popup"`
}

// Point returns the marker position in orb's lon/lat order.
func (m Marker) Point() orb.Point {
	return orb.Point{m.Lon, m.Lat}
}

// MarkerCard carries the popup contents. Empty parts are omitted.
type MarkerCard struct {
	Name    string     `json:"name"`
	Type    string     `json:"type,omitempty"`
	Address string     `json:"address"`
	Phone   *PhoneLink `json:"phone,omitempty"`
	Website string     `json:"website,omitempty"`
}

// Markers builds markers for the records that can be placed on the map,
// preserving order. Records with invalid coordinates are skipped.
func Markers(records []Brewery, p *Palette) []Marker {
	out := make([]Marker, 0, len(records))
	for _, b := range records {
		lat, lon, ok := b.Position()
		if !ok {
			continue
		}
		out = append(out, newMarker(b, lat, lon, p))
	}
	return out
}

func newMarker(b Brewery, lat, lon float64, p *Palette) Marker {
	card := MarkerCard{
		Name:    b.DisplayName(),
		Type:    b.Category,
		Address: b.Address(),
		Website: b.WebsiteURL(),
	}
	if phone, ok := b.PhoneLink(); ok {
		card.Phone = &phone
	}
	return Marker{
		ID:       b.ID,
		Title:    b.Name,
		Lat:      lat,
		Lon:      lon,
		Category: CategoryKey(b.Category),
		Color:    p.ColorFor(b.Category),
		Popup:    card,
	}
}

// truncateQuery bounds a query by runes so log lines stay short.
func truncateQuery(q string, n int) string {
	if utf8.RuneCountInString(q) <= n {
		return q
	}
	r := []rune(q)
	return string(r[:n]) + "…"
}

// LogAttrs renders criteria as slog key-value pairs.
func (c Criteria) LogAttrs() []any {
	return []any{
		"category", c.Category,
		"country", c.Country,
		"region", c.Region,
		"query", truncateQuery(c.Query, 32),
	}
}
