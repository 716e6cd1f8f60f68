// Package cluster groups map markers into geohash cells sized by zoom level.
package cluster

import (
	"github.com/mmcloughlin/geohash"

	"github.com/couchcryptid/brewmap/internal/domain"
)

// DisableAtZoom is the zoom level from which every marker stands alone.
const DisableAtZoom = 12

// Clusterer merges markers that share a geohash prefix.
type Clusterer struct {
	palette *domain.Palette
}

// NewClusterer creates a Clusterer coloring clusters with p.
func NewClusterer(p *domain.Palette) *Clusterer {
	return &Clusterer{palette: p}
}

// Precision returns the geohash length used at zoom; zero disables clustering.
func Precision(zoom int) uint {
	switch {
	case zoom >= DisableAtZoom:
		return 0
	case zoom <= 2:
		return 2
	case zoom <= 4:
		return 3
	case zoom <= 7:
		return 4
	case zoom <= 9:
		return 5
	default:
		return 6
	}
}

// Cluster groups markers for zoom. Clusters are ordered by the first
// appearance of their cell in markers.
func (c *Clusterer) Cluster(markers []domain.Marker, zoom int) []domain.Cluster {
	precision := Precision(zoom)
	if precision == 0 {
		out := make([]domain.Cluster, len(markers))
		for i, m := range markers {
			key := geohash.EncodeWithPrecision(m.Lat, m.Lon, 12)
			out[i] = domain.NewCluster(key, []domain.Marker{m}, c.palette)
		}
		return out
	}

	index := make(map[string]int)
	var keys []string
	var groups [][]domain.Marker
	for _, m := range markers {
		key := geohash.EncodeWithPrecision(m.Lat, m.Lon, precision)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			keys = append(keys, key)
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], m)
	}

	out := make([]domain.Cluster, len(groups))
	for i, g := range groups {
		out[i] = domain.NewCluster(keys[i], g, c.palette)
	}
	return out
}
