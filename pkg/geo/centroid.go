package geo

import "github.com/paulmach/orb"

// Centroid returns the arithmetic mean of the outer ring's vertices of the
// first sub-polygon. The closing vertex of a closed ring is counted once.
//
// This is not the area-weighted centroid: it is biased toward densely sampled
// stretches of coastline and can fall outside concave shapes. It only serves as
// a camera target and as the origin of the approximate distance metric.
func Centroid(f *Feature) (LatLon, bool) {
	polys := f.Polygons()
	if len(polys) == 0 || len(polys[0]) == 0 {
		return LatLon{}, false
	}
	return RingMean(polys[0][0])
}

// RingMean returns the mean vertex of a ring, ignoring the closing duplicate.
func RingMean(r orb.Ring) (LatLon, bool) {
	pts := OpenRing(r)
	if len(pts) == 0 {
		return LatLon{}, false
	}
	var sumLon, sumLat float64
	for _, p := range pts {
		sumLon += p.Lon()
		sumLat += p.Lat()
	}
	n := float64(len(pts))
	return LatLon{Lat: sumLat / n, Lon: sumLon / n}, true
}

// OpenRing returns the ring without its closing duplicate vertex. The
// returned slice shares storage with r.
func OpenRing(r orb.Ring) orb.Ring {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return r[:len(r)-1]
	}
	return r
}
