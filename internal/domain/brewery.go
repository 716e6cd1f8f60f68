package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names of the tabular source.
const (
	ColID              = "id"
	ColName            = "name"
	ColBreweryType     = "brewery_type"
	ColAddress1        = "address_1"
	ColCity            = "city"
	ColState           = "state"
	ColPostalCode      = "postal_code"
	ColCountry         = "country"
	ColLatitude        = "latitude"
	ColLongitude       = "longitude"
	ColPhone           = "phone"
	ColWebsiteURL      = "website_url"
	ColSource          = "source"
	ColSourceState     = "source_state"
	ColSourceStateCode = "source_state_code"
)

// RequiredColumns lists the columns both accepted schemas carry.
var RequiredColumns = []string{
	ColID, ColName, ColBreweryType, ColAddress1, ColCity, ColState,
	ColPostalCode, ColCountry, ColLatitude, ColLongitude, ColPhone,
	ColWebsiteURL, ColSourceState, ColSourceStateCode,
}

// RawRow is one parsed row: column name to raw cell value. Cells may be
// strings, numbers, nil, or absent.
type RawRow map[string]any

// Table is what the tabular parser hands over after a successful fetch.
type Table struct {
	Rows   []RawRow
	Fields []string
	// Lines holds the 1-based source line of each row, when the parser knows it.
	Lines []int
}

// Coord holds a raw latitude or longitude value as the parser produced it.
type Coord struct {
	Raw any
}

// Float parses the raw value. ok is false unless it is a finite number.
func (c Coord) Float() (float64, bool) {
	var v float64
	switch raw := c.Raw.(type) {
	case float64:
		v = raw
	case float32:
		v = float64(raw)
	case int:
		v = float64(raw)
	case int64:
		v = float64(raw)
	case json.Number:
		f, err := raw.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// MarshalJSON writes a number when the value parses and the raw value otherwise.
// Non-finite floats are written as text since JSON has no encoding for them.
func (c Coord) MarshalJSON() ([]byte, error) {
	if f, ok := c.Float(); ok {
		return json.Marshal(f)
	}
	switch raw := c.Raw.(type) {
	case float64:
		return json.Marshal(strconv.FormatFloat(raw, 'g', -1, 64))
	case float32:
		return json.Marshal(strconv.FormatFloat(float64(raw), 'g', -1, 32))
	}
	return json.Marshal(c.Raw)
}

// UnmarshalJSON keeps whatever JSON value it is given as Raw.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Raw = raw
	return nil
}

// Brewery is one canonical record after normalization.
type Brewery struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"brewery_type"`
	Address1   string `json:"address_1"`
	City       string `json:"city"`
	Region     string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Latitude   Coord  `json:"latitude"`
	Longitude  Coord  `json:"longitude"`
	Phone      string `json:"phone"`
	Website    string `json:"website_url"`

	// Provenance, display only.
	Source          string `json:"source"`
	SourceState     string `json:"source_state"`
	SourceStateCode string `json:"source_state_code"`
}

// Position returns the parsed coordinates. ok is false when the record cannot
// be placed on the map.
func (b Brewery) Position() (lat, lon float64, ok bool) {
	lat, okLat := b.Latitude.Float()
	lon, okLon := b.Longitude.Float()
	if !okLat || !okLon {
		return 0, 0, false
	}
	return lat, lon, true
}

// Renderable reports whether both coordinates parse to finite numbers.
func (b Brewery) Renderable() bool {
	_, _, ok := b.Position()
	return ok
}

// Dataset is the canonical record set of one load. It is never mutated.
type Dataset struct {
	Records  []Brewery
	Fields   []string
	Schema   string
	LoadedAt time.Time
}

// NewDataset normalizes a parsed table into a Dataset stamped with the load time.
func NewDataset(t Table) *Dataset {
	return &Dataset{
		Records:  Normalize(t.Rows, t.Fields),
		Fields:   append([]string(nil), t.Fields...),
		Schema:   SchemaVariant(t.Fields),
		LoadedAt: clock.Now(),
	}
}

// RenderableCount counts records with valid coordinates.
func (d *Dataset) RenderableCount() int {
	n := 0
	for i := range d.Records {
		if d.Records[i].Renderable() {
			n++
		}
	}
	return n
}
