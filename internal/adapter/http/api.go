package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/brewmap/internal/domain"
	"github.com/couchcryptid/brewmap/internal/session"
)

// breweryView is a record plus the fields a detail card shows.
type breweryView struct {
	domain.Brewery
	DisplayName string            `json:"display_name"`
	Address     string            `json:"address"`
	WebsiteURL  string            `json:"website"`
	PhoneLink   *domain.PhoneLink `json:"phone_link,omitempty"`
	Renderable  bool              `json:"renderable"`
}

func newBreweryView(b domain.Brewery) breweryView {
	v := breweryView{
		Brewery:     b,
		DisplayName: b.DisplayName(),
		Address:     b.Address(),
		WebsiteURL:  b.WebsiteURL(),
		Renderable:  b.Renderable(),
	}
	if link, ok := b.PhoneLink(); ok {
		v.PhoneLink = &link
	}
	return v
}

type breweriesResponse struct {
	Count        int           `json:"count"`
	CountDisplay string        `json:"count_display"`
	Renderable   int           `json:"renderable"`
	Records      []breweryView `json:"records"`
}

type clustersResponse struct {
	Zoom     int              `json:"zoom"`
	Clusters []domain.Cluster `json:"clusters"`
}

// dataset writes a 503 and returns false while no dataset is available.
func (s *Server) dataset(w http.ResponseWriter) (*domain.Dataset, bool) {
	ds, err := s.deps.Catalog.Dataset()
	switch {
	case errors.Is(err, session.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return nil, false
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, session.LoadFailedNotice+" "+err.Error())
		return nil, false
	}
	return ds, true
}

func criteriaFrom(r *http.Request) domain.Criteria {
	q := r.URL.Query()
	return domain.Criteria{
		Category: q.Get("category"),
		Country:  q.Get("country"),
		Region:   q.Get("region"),
		Query:    q.Get("q"),
	}
}

// filter applies the request criteria and records the recomputation.
func (s *Server) filter(ds *domain.Dataset, c domain.Criteria) []domain.Brewery {
	start := time.Now()
	active := domain.Filter(ds.Records, c)
	s.deps.Metrics.FilterRecomputations.WithLabelValues("api").Inc()
	s.deps.Metrics.FilterDuration.Observe(time.Since(start).Seconds())
	return active
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, domain.BuildFacets(ds.Records, r.URL.Query().Get("country")))
}

func (s *Server) handleBreweries(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	active := s.filter(ds, criteriaFrom(r))

	resp := breweriesResponse{
		Count:        len(active),
		CountDisplay: domain.FormatCount(len(active)),
		Records:      make([]breweryView, len(active)),
	}
	for i, b := range active {
		resp.Records[i] = newBreweryView(b)
		if b.Renderable() {
			resp.Renderable++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, domain.Markers(s.filter(ds, criteriaFrom(r)), s.deps.Palette))
}

func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	zoom := session.InitialView.Zoom
	if raw := r.URL.Query().Get("zoom"); raw != "" {
		z, err := strconv.Atoi(raw)
		if err != nil || z < 0 {
			writeError(w, http.StatusBadRequest, "zoom must be a non-negative integer")
			return
		}
		zoom = z
	}

	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	markers := domain.Markers(s.filter(ds, criteriaFrom(r)), s.deps.Palette)
	writeJSON(w, http.StatusOK, clustersResponse{
		Zoom:     zoom,
		Clusters: s.deps.Clusterer.Cluster(markers, zoom),
	})
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Palette.Legend())
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if s.deps.Versions == nil {
		writeJSON(w, http.StatusOK, domain.UnknownBadge())
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Versions.Badge(r.Context()))
}
