package geo

import (
	"github.com/paulmach/orb"
)

// LatLon is a geographic position in degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Feature is one country's boundary geometry. Geometry is an orb.Polygon or
// orb.MultiPolygon with (lon, lat) points; ring 0 of each polygon is the outer
// boundary and the remaining rings are holes.
type Feature struct {
	Name     string       `json:"name"`
	Geometry orb.Geometry `json:"geometry"`
}

// NewFeature returns a feature for the given name and geometry.
func NewFeature(name string, g orb.Geometry) *Feature {
	return &Feature{Name: name, Geometry: g}
}

// Polygons returns the feature's sub-polygons. A Polygon yields itself, a
// MultiPolygon yields each member, and any other geometry yields nothing.
func (f *Feature) Polygons() []orb.Polygon {
	if f == nil {
		return nil
	}
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return []orb.Polygon(g)
	default:
		return nil
	}
}

// IsPolygonal reports whether the geometry is a Polygon or MultiPolygon.
func (f *Feature) IsPolygonal() bool {
	if f == nil {
		return false
	}
	switch f.Geometry.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return true
	default:
		return false
	}
}

// Bound returns the lon/lat bounding box of the geometry.
func (f *Feature) Bound() orb.Bound {
	if f == nil || f.Geometry == nil {
		return orb.Bound{}
	}
	return f.Geometry.Bound()
}
