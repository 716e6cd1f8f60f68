package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFacets(t *testing.T) {
	records := Normalize([]RawRow{
		{"brewery_type": "micro", "country": "United States", "state": "Wisconsin"},
		{"brewery_type": "brewpub", "country": "United States", "state": "Minnesota"},
		{"brewery_type": "", "country": "Canada", "state": "Ontario"},
		{"brewery_type": "micro", "country": "Canada", "state": "Québec"},
		{"brewery_type": "nano", "country": "United States", "state": ""},
		{"brewery_type": "Taproom", "country": "", "state": "Alberta"},
	}, fields14)

	t.Run("categories exclude empty and ignore filters", func(t *testing.T) {
		assert.Equal(t, []string{"brewpub", "micro", "nano", "Taproom"}, Categories(records))
	})

	t.Run("countries", func(t *testing.T) {
		assert.Equal(t, []string{"Canada", "United States"}, Countries(records))
	})

	t.Run("regions scoped to country", func(t *testing.T) {
		assert.Equal(t, []string{"Ontario", "Québec"}, Regions(records, "Canada"))
		assert.Equal(t, []string{"Minnesota", "Wisconsin"}, Regions(records, "United States"))
	})

	t.Run("any country restores the full region set", func(t *testing.T) {
		assert.Equal(t, []string{"Alberta", "Minnesota", "Ontario", "Québec", "Wisconsin"}, Regions(records, ""))
	})

	t.Run("unknown country yields no regions", func(t *testing.T) {
		assert.Empty(t, Regions(records, "Mexico"))
	})

	t.Run("empty input", func(t *testing.T) {
		f := BuildFacets(nil, "")
		assert.NotNil(t, f.Categories)
		assert.Empty(t, f.Categories)
		assert.Empty(t, f.Countries)
		assert.Empty(t, f.Regions)
	})

	t.Run("bundle", func(t *testing.T) {
		f := BuildFacets(records, "Canada")
		assert.Equal(t, "Canada", f.Country)
		assert.Equal(t, []string{"Ontario", "Québec"}, f.Regions)
		assert.Len(t, f.Categories, 4)
	})
}
