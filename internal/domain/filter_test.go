package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(records []Brewery) []string {
	out := make([]string, len(records))
	for i, b := range records {
		out[i] = b.ID
	}
	return out
}

func TestFold(t *testing.T) {
	assert.Equal(t, Fold("cafe"), Fold("Café"))
	assert.Equal(t, "creme brulee", Fold("Crème Brûlée"))
	assert.Equal(t, "sao paulo", Fold("SÃO PAULO"))
	assert.Equal(t, "", Fold(""))
	assert.Equal(t, " ", Fold(" "), "folding does not trim")
}

func TestFilter(t *testing.T) {
	records := Normalize(scenarioRows(), fields15)

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"no filters", Criteria{}, []string{"1", "2", "3"}},
		{"country", Criteria{Country: "US"}, []string{"1", "2"}},
		{"country and query", Criteria{Country: "US", Query: "nan"}, []string{"2"}},
		{"category is exact", Criteria{Category: "Micro"}, []string{}},
		{"category", Criteria{Category: "micro"}, []string{"1"}},
		{"region", Criteria{Region: "ON"}, []string{"3"}},
		{"stale region after country change", Criteria{Country: "US", Region: "ON"}, []string{}},
		{"accent-insensitive query", Criteria{Query: "CAFE"}, []string{"3"}},
		{"query matches city", Criteria{Query: "madi"}, []string{"2"}},
		{"query ignores category", Criteria{Query: "micro"}, []string{}},
		{"query ignores region", Criteria{Query: "mn"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(records, tt.criteria)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter_PreservesOrderAndIsPure(t *testing.T) {
	records := Normalize(scenarioRows(), fields15)
	snapshot := append([]Brewery(nil), records...)
	c := Criteria{Country: "US"}

	first := Filter(records, c)
	second := Filter(records, c)

	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, ids(snapshot), ids(records), "input must not be reordered")
	assert.Equal(t, []string{"1", "2"}, ids(first))
}

func TestMarkers(t *testing.T) {
	p := DefaultPalette()
	records := Normalize(scenarioRows(), fields15)

	markers := Markers(records, p)

	require.Len(t, markers, 2)
	assert.Equal(t, "1", markers[0].ID)
	assert.Equal(t, "micro", markers[0].Category)
	assert.Equal(t, Color("#ffa726"), markers[0].Color)
	assert.InDelta(t, -93.0, markers[0].Point().X(), 1e-9)
	assert.InDelta(t, 45.0, markers[0].Point().Y(), 1e-9)

	assert.Equal(t, "3", markers[1].ID)
	assert.Equal(t, UnknownCategory, markers[1].Category)
	assert.Equal(t, p.ColorFor(UnknownCategory), markers[1].Color)
	assert.Empty(t, markers[1].Popup.Type)
}

func TestScenario(t *testing.T) {
	records := Normalize(scenarioRows(), fields15)
	p := DefaultPalette()

	assert.Len(t, records, 3)
	assert.Len(t, Filter(records, Criteria{}), 3)
	assert.Len(t, Markers(Filter(records, Criteria{}), p), 2)
	assert.Len(t, Filter(records, Criteria{Country: "US"}), 2)

	narrowed := Filter(records, Criteria{Country: "US", Query: "nan"})
	require.Len(t, narrowed, 1)
	assert.Equal(t, "nano", narrowed[0].Category)
	assert.Empty(t, Markers(narrowed, p), "non-renderable but still counted")
}

func TestCriteriaLogAttrs(t *testing.T) {
	attrs := Criteria{Query: "a very long query string that goes on and on"}.LogAttrs()
	require.Len(t, attrs, 8)
	assert.Equal(t, "query", attrs[6])
	assert.Equal(t, "a very long query string that go…", attrs[7])
}
