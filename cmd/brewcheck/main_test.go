package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/brewmap/internal/domain"
)

const header = "id,name,brewery_type,address_1,city,state,postal_code,country,latitude,longitude,phone,website_url,source_state,source_state_code\n"

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "breweries.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRun_Clean(t *testing.T) {
	path := writeFile(t, header+
		"1,Minnow Brewing,micro,,Duluth,MN,,US,45.0,-93.0,,,,\n"+
		"2,Lakeside,brewpub,,Toronto,ON,,CA,43.6,-79.4,,,,\n")

	var out bytes.Buffer
	code := run(&out, path, "", time.Second)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "All checks passed.")
	assert.Contains(t, out.String(), "Records: 2 total, 2 renderable")
	assert.Contains(t, out.String(), "Facets: 2 categories, 2 countries, 2 regions")
}

func TestRun_ReportsDefects(t *testing.T) {
	path := writeFile(t, header+
		"1,Minnow Brewing,micro,,Duluth,MN,,US,45.0,-93.0,,,,\n"+
		"1,Copy,winery,,Duluth,MN,,US,bad,-93.0,,,,\n")

	var out bytes.Buffer
	code := run(&out, path, "", time.Second)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), `line 3: id "1" already used on line 2`)
	assert.Contains(t, out.String(), "line 3 (Copy): unparseable coordinates")
	assert.Contains(t, out.String(), `category "winery" (1 records) has no palette color`)
}

func TestRun_ReportsSourceLines(t *testing.T) {
	path := writeFile(t, header+
		"\n"+
		"1,Minnow Brewing,micro,,Duluth,MN,,US,45.0,-93.0,,,,\n"+
		"\n"+
		"2,\"Two\nLines\",micro,,Duluth,MN,,US,45.0,-93.0,,,,\n"+
		"1,Copy,micro,,Duluth,MN,,US,bad,-93.0,,,,\n")

	var out bytes.Buffer
	run(&out, path, "", time.Second)

	assert.Contains(t, out.String(), `line 7: id "1" already used on line 3`)
	assert.Contains(t, out.String(), "line 7 (Copy): unparseable coordinates")
}

func TestLineIndex(t *testing.T) {
	assert.Equal(t, 9, lineIndex{4, 9}.at(1))
	assert.Equal(t, 4, lineIndex(nil).at(2), "header is line 1 when lines are unknown")
}

func TestRun_MissingFile(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 1, run(&out, filepath.Join(t.TempDir(), "missing.csv"), "", time.Second))
}

func TestCheckCoordinates_OutOfRange(t *testing.T) {
	records := []domain.Brewery{{
		Name:      "Nowhere",
		Latitude:  domain.Coord{Raw: 123.0},
		Longitude: domain.Coord{Raw: 0.0},
	}}

	p := checkCoordinates(records, nil)

	require.Len(t, p.errors, 1)
	assert.Contains(t, p.errors[0], "out of range")
}

func TestReport_CapsListedErrors(t *testing.T) {
	p := &phase{name: "Many"}
	for i := 0; i < maxListed+5; i++ {
		p.errorf("error %d", i)
	}

	var out bytes.Buffer
	assert.False(t, report(&out, []*phase{p}))
	assert.Contains(t, out.String(), "... 5 more")
}
