package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/brewmap/internal/domain"
)

func loadedState(t *testing.T) State {
	t.Helper()
	s, recomputed := Update(NewState(domain.DefaultPalette()), Loaded{Dataset: scenarioDataset()})
	require.True(t, recomputed)
	return s
}

func TestUpdate_Loaded(t *testing.T) {
	s := loadedState(t)

	assert.Equal(t, []string{"1", "2", "3"}, activeIDs(s))
	assert.Len(t, s.Markers, 2)
	assert.Equal(t, []string{"micro", "nano"}, s.Facets.Categories)
	assert.Equal(t, []string{"CA", "US"}, s.Facets.Countries)
	assert.Equal(t, []string{"MN", "ON", "WI"}, s.Facets.Regions)
}

func TestUpdate_CountryRescopesRegions(t *testing.T) {
	s := loadedState(t)

	s, _ = Update(s, CountryChanged{Value: "US"})
	assert.Equal(t, []string{"1", "2"}, activeIDs(s))
	assert.Equal(t, []string{"MN", "WI"}, s.Facets.Regions)
	assert.Equal(t, "US", s.Facets.Country)

	s, _ = Update(s, CountryChanged{Value: ""})
	assert.Equal(t, []string{"MN", "ON", "WI"}, s.Facets.Regions, "any country restores all regions")
}

func TestUpdate_StaleRegionYieldsEmptySubset(t *testing.T) {
	s := loadedState(t)

	s, _ = Update(s, RegionChanged{Value: "ON"})
	require.Equal(t, []string{"3"}, activeIDs(s))

	s, _ = Update(s, CountryChanged{Value: "US"})
	assert.Equal(t, "ON", s.Criteria.Region, "region selection is not corrected")
	assert.Empty(t, activeIDs(s))
	assert.NotContains(t, s.Facets.Regions, "ON")
}

func TestUpdate_QueryTypedDoesNotRecompute(t *testing.T) {
	s := loadedState(t)

	next, recomputed := Update(s, QueryTyped{Value: "nan"})

	assert.False(t, recomputed)
	assert.Equal(t, "nan", next.QueryText)
	assert.Empty(t, next.Criteria.Query)
	assert.Len(t, next.Active, 3)
}

func TestUpdate_SelectCommitsTypedQuery(t *testing.T) {
	s := loadedState(t)
	s, _ = Update(s, QueryTyped{Value: "nan"})

	s, recomputed := Update(s, CategoryChanged{Value: "nano"})

	require.True(t, recomputed)
	assert.Equal(t, "nan", s.Criteria.Query)
	assert.Equal(t, []string{"2"}, activeIDs(s))
}

func TestUpdate_QueryCommitted(t *testing.T) {
	s := loadedState(t)

	s, _ = Update(s, CountryChanged{Value: "US"})
	s, recomputed := Update(s, queryCommitted{value: "nan"})

	require.True(t, recomputed)
	assert.Equal(t, []string{"2"}, activeIDs(s))
	assert.Empty(t, s.Markers, "the nano record is counted but not rendered")
	assert.Equal(t, 1, s.Snapshot().Count)
}

func TestUpdate_Reset(t *testing.T) {
	s := loadedState(t)
	s, _ = Update(s, CategoryChanged{Value: "micro"})
	s, _ = Update(s, CountryChanged{Value: "US"})
	s, _ = Update(s, RegionChanged{Value: "MN"})
	s, _ = Update(s, QueryTyped{Value: "min"})
	s, _ = Update(s, queryCommitted{value: "min"})
	s.View = MapView{Zoom: 11}

	s, _ = Update(s, Reset{})

	assert.Equal(t, domain.Criteria{}, s.Criteria)
	assert.Empty(t, s.QueryText)
	assert.Equal(t, []string{"MN", "ON", "WI"}, s.Facets.Regions)
	assert.Equal(t, InitialView, s.View)
	assert.Len(t, s.Active, 3)
}

func TestUpdate_LoadFailed(t *testing.T) {
	s, recomputed := Update(NewState(domain.DefaultPalette()), LoadFailed{Err: errors.New("boom")})

	require.True(t, recomputed)
	assert.Empty(t, s.Active)
	assert.Empty(t, s.Facets.Categories)

	snap := s.Snapshot()
	assert.Equal(t, SnapshotLoadFailed, snap.Type)
	assert.Equal(t, LoadFailedNotice, snap.Notice)
	assert.Equal(t, 0, snap.Count)

	s, _ = Update(s, CategoryChanged{Value: "micro"})
	assert.Empty(t, s.Active, "filters keep working on an empty set")
}

func TestUpdate_IsPure(t *testing.T) {
	s := loadedState(t)
	before := activeIDs(s)

	_, _ = Update(s, CountryChanged{Value: "CA"})

	assert.Equal(t, before, activeIDs(s))
	assert.Empty(t, s.Criteria.Country)
}

func TestSnapshot(t *testing.T) {
	snap := loadedState(t).Snapshot()

	assert.Equal(t, SnapshotView, snap.Type)
	assert.Empty(t, snap.Notice)
	assert.Equal(t, 3, snap.Count)
	assert.Equal(t, "3", snap.CountDisplay)
	assert.Equal(t, 2, snap.Renderable)
	assert.Len(t, snap.Legend, 15)
	assert.Equal(t, InitialView, snap.View)
}
