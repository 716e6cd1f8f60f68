package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const (
	// Schema15 is the header schema that carries the "source" column.
	Schema15 = "15-column"
	// Schema14 is the header schema without it.
	Schema14 = "14-column"

	defaultDisplayName = "Brewery"
)

var (
	nonDigitRe  = regexp.MustCompile(`\D`)
	urlSchemeRe = regexp.MustCompile(`(?i)^https?://`)
)

// SchemaVariant names the header schema given the fields actually present.
func SchemaVariant(fields []string) string {
	if slices.Contains(fields, ColSource) {
		return Schema15
	}
	return Schema14
}

// Normalize maps raw rows onto the canonical Brewery shape. It never fails:
// missing or nil cells become "", coordinates are carried raw, and "source" is
// only read when the header contains it.
func Normalize(rows []RawRow, fields []string) []Brewery {
	hasSource := slices.Contains(fields, ColSource)
	out := make([]Brewery, 0, len(rows))
	for _, row := range rows {
		out = append(out, normalizeRow(row, hasSource))
	}
	return out
}

func normalizeRow(row RawRow, hasSource bool) Brewery {
	b := Brewery{
		ID:              stringCell(row, ColID),
		Name:            stringCell(row, ColName),
		Category:        stringCell(row, ColBreweryType),
		Address1:        stringCell(row, ColAddress1),
		City:            stringCell(row, ColCity),
		Region:          stringCell(row, ColState),
		PostalCode:      stringCell(row, ColPostalCode),
		Country:         stringCell(row, ColCountry),
		Latitude:        Coord{Raw: row[ColLatitude]},
		Longitude:       Coord{Raw: row[ColLongitude]},
		Phone:           stringCell(row, ColPhone),
		Website:         stringCell(row, ColWebsiteURL),
		SourceState:     stringCell(row, ColSourceState),
		SourceStateCode: stringCell(row, ColSourceStateCode),
	}
	if hasSource {
		b.Source = stringCell(row, ColSource)
	}
	return b
}

// stringCell reads a cell as a string, defaulting missing and nil to "".
func stringCell(row RawRow, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// DisplayName substitutes a default label for unnamed breweries.
func (b Brewery) DisplayName() string {
	if b.Name == "" {
		return defaultDisplayName
	}
	return b.Name
}

// Address joins line, city, region and postal code, omitting empties.
func (b Brewery) Address() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{b.Address1, b.City, b.Region, b.PostalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// WebsiteURL returns an absolute link, adding https:// when no scheme is given.
func (b Brewery) WebsiteURL() string {
	s := strings.TrimSpace(b.Website)
	if s == "" {
		return ""
	}
	if urlSchemeRe.MatchString(s) {
		return s
	}
	return "https://" + strings.TrimLeft(s, "/")
}

// PhoneLink is a phone number ready for display and a tel: link.
type PhoneLink struct {
	Display string `json:"display"`
	Tel     string `json:"tel"`
}

// PhoneLink formats North American numbers as (xxx) xxx-xxxx with an E.164
// tel target. Other inputs are displayed as given. ok is false when there is
// no phone number.
func (b Brewery) PhoneLink() (PhoneLink, bool) {
	if b.Phone == "" {
		return PhoneLink{}, false
	}
	digits := nonDigitRe.ReplaceAllString(b.Phone, "")

	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return PhoneLink{
			Display: fmt.Sprintf("(%s) %s-%s", digits[1:4], digits[4:7], digits[7:]),
			Tel:     "+" + digits,
		}, true
	case len(digits) == 10:
		return PhoneLink{
			Display: fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:]),
			Tel:     "+1" + digits,
		}, true
	default:
		return PhoneLink{Display: b.Phone, Tel: digits}, true
	}
}
