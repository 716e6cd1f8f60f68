package session

import (
	"github.com/paulmach/orb"

	"github.com/couchcryptid/brewmap/internal/domain"
)

// MapView is the map camera. Center is in orb's lon/lat order.
type MapView struct {
	Center orb.Point `json:"center"`
	Zoom   int       `json:"zoom"`
}

// InitialView frames the continental US and southern Canada.
var InitialView = MapView{Center: orb.Point{-93.3, 45.3}, Zoom: 4}

// Event is a discrete UI event applied to a session State.
type Event interface {
	trigger() string
}

// Loaded is dispatched once the dataset load succeeds.
type Loaded struct{ Dataset *domain.Dataset }

// LoadFailed is dispatched when the dataset could not be loaded.
type LoadFailed struct{ Err error }

// CategoryChanged selects a category ("" for any).
type CategoryChanged struct{ Value string }

// CountryChanged selects a country ("" for any) and rescopes the region list.
type CountryChanged struct{ Value string }

// RegionChanged selects a region ("" for any).
type RegionChanged struct{ Value string }

// QueryTyped is one keystroke in the search box. It is debounced.
type QueryTyped struct{ Value string }

// Reset clears every filter and restores the initial map view.
type Reset struct{}

// queryCommitted is the debounced search value, tagged with its generation.
type queryCommitted struct {
	gen   uint64
	value string
}

func (Loaded) trigger() string          { return "load" }
func (LoadFailed) trigger() string      { return "load" }
func (CategoryChanged) trigger() string { return "category" }
func (CountryChanged) trigger() string  { return "country" }
func (RegionChanged) trigger() string   { return "region" }
func (QueryTyped) trigger() string      { return "query" }
func (Reset) trigger() string           { return "reset" }
func (queryCommitted) trigger() string  { return "query" }

// State is everything one map session knows. Update never mutates the slices
// of a previous State; each recomputation replaces them wholesale.
type State struct {
	Dataset  *domain.Dataset
	Palette  *domain.Palette
	LoadErr  error
	Criteria domain.Criteria
	// QueryText is the search box content, which may not be committed yet.
	QueryText string
	Facets    domain.Facets
	Active    []domain.Brewery
	Markers   []domain.Marker
	View      MapView
}

// NewState returns the empty pre-load state.
func NewState(p *domain.Palette) State {
	return State{
		Palette: p,
		Facets:  domain.BuildFacets(nil, ""),
		Active:  []domain.Brewery{},
		Markers: []domain.Marker{},
		View:    InitialView,
	}
}

func (s State) records() []domain.Brewery {
	if s.Dataset == nil {
		return nil
	}
	return s.Dataset.Records
}

// Update applies ev and reports whether the active subset was recomputed.
// Select events filter with the search box as typed, committing any pending
// keystrokes. Changing the country rescopes the region options but keeps the
// selected region, which then may match nothing.
func Update(s State, ev Event) (State, bool) {
	switch e := ev.(type) {
	case Loaded:
		s.Dataset = e.Dataset
		s.LoadErr = nil
		s.Facets = domain.BuildFacets(s.records(), s.Criteria.Country)
		s.Criteria.Query = s.QueryText
	case LoadFailed:
		s.Dataset = nil
		s.LoadErr = e.Err
		s.Facets = domain.BuildFacets(nil, "")
	case CategoryChanged:
		s.Criteria.Category = e.Value
		s.Criteria.Query = s.QueryText
	case CountryChanged:
		s.Criteria.Country = e.Value
		s.Facets.Regions = domain.Regions(s.records(), e.Value)
		s.Facets.Country = e.Value
		s.Criteria.Query = s.QueryText
	case RegionChanged:
		s.Criteria.Region = e.Value
		s.Criteria.Query = s.QueryText
	case QueryTyped:
		s.QueryText = e.Value
		return s, false
	case queryCommitted:
		s.Criteria.Query = e.value
	case Reset:
		s.Criteria = domain.Criteria{}
		s.QueryText = ""
		s.Facets.Regions = domain.Regions(s.records(), "")
		s.Facets.Country = ""
		s.View = InitialView
	default:
		return s, false
	}

	s.Active = domain.Filter(s.records(), s.Criteria)
	s.Markers = domain.Markers(s.Active, s.Palette)
	return s, true
}

// Snapshot types.
const (
	SnapshotView       = "view"
	SnapshotLoadFailed = "load_failed"
)

// LoadFailedNotice is shown to the user when the dataset cannot be loaded.
const LoadFailedNotice = "Failed to load brewery data. Please check the data source."

// Snapshot is the full view pushed to the client after each recomputation.
type Snapshot struct {
	Type         string               `json:"type"`
	Notice       string               `json:"notice,omitempty"`
	Count        int                  `json:"count"`
	CountDisplay string               `json:"count_display"`
	Renderable   int                  `json:"renderable"`
	Criteria     domain.Criteria      `json:"criteria"`
	QueryText    string               `json:"query_text"`
	Facets       domain.Facets        `json:"facets"`
	Markers      []domain.Marker      `json:"markers"`
	Legend       []domain.LegendEntry `json:"legend"`
	View         MapView              `json:"view"`
}

// Snapshot renders the state for the client.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		Type:         SnapshotView,
		Count:        len(s.Active),
		CountDisplay: domain.FormatCount(len(s.Active)),
		Renderable:   len(s.Markers),
		Criteria:     s.Criteria,
		QueryText:    s.QueryText,
		Facets:       s.Facets,
		Markers:      s.Markers,
		Legend:       s.Palette.Legend(),
		View:         s.View,
	}
	if s.LoadErr != nil {
		snap.Type = SnapshotLoadFailed
		snap.Notice = LoadFailedNotice
	}
	return snap
}
