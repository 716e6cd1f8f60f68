package domain

import "github.com/paulmach/orb"

// Cluster is a group of markers merged by the spatial collaborator, colored
// by its majority category.
type Cluster struct {
	Key      string    `json:"key"`
	Count    int       `json:"count"`
	Lat      float64   `json:"lat"`
	Lon      float64   `json:"lon"`
	Bounds   orb.Bound `json:"bounds"`
	Category string    `json:"category"`
	Color    Color     `json:"color"`
	// Marker is set when the cluster holds a single marker.
	Marker *Marker `json:"marker,omitempty"`
}

// MajorityCategory returns the most frequent category key. Members are counted
// in order and the leader is replaced only on a strict improvement, so a tie
// goes to the category that reached the count first. An empty group yields
// UnknownCategory.
func MajorityCategory(categories []string) string {
	counts := make(map[string]int, len(categories))
	top, best := UnknownCategory, 0
	for _, c := range categories {
		key := CategoryKey(c)
		counts[key]++
		if counts[key] > best {
			best = counts[key]
			top = key
		}
	}
	return top
}

// NewCluster summarizes a member group: count, mean position, bounds and the
// majority color.
func NewCluster(key string, members []Marker, p *Palette) Cluster {
	c := Cluster{Key: key, Count: len(members)}
	if len(members) == 0 {
		c.Category = UnknownCategory
		c.Color = p.ColorFor(UnknownCategory)
		return c
	}

	categories := make([]string, len(members))
	points := make(orb.MultiPoint, len(members))
	var sumLat, sumLon float64
	for i, m := range members {
		categories[i] = m.Category
		points[i] = m.Point()
		sumLat += m.Lat
		sumLon += m.Lon
	}

	c.Lat = sumLat / float64(len(members))
	c.Lon = sumLon / float64(len(members))
	c.Bounds = points.Bound()
	c.Category = MajorityCategory(categories)
	c.Color = ClusterColor(p, categories)
	if len(members) == 1 {
		m := members[0]
		c.Marker = &m
	}
	return c
}

// ClusterColor is the palette color of the members' majority category.
func ClusterColor(p *Palette, categories []string) Color {
	return p.ColorFor(MajorityCategory(categories))
}
