package geo

import "github.com/paulmach/orb"

// NormalizeWinding returns copies of the rings with the outer ring (index 0)
// counter-clockwise and every hole clockwise, treating longitude as x and
// latitude as y. A ring with no signed area counts as clockwise. Rings with
// fewer than two points are copied as they are. The input rings are not
// modified.
func NormalizeWinding(rings []orb.Ring) []orb.Ring {
	out := make([]orb.Ring, len(rings))
	for i, ring := range rings {
		r := ring.Clone()
		if len(r) < 2 {
			out[i] = r
			continue
		}
		ccw := IsCCW(r)
		if (i == 0 && !ccw) || (i > 0 && ccw) {
			r.Reverse()
		}
		out[i] = r
	}
	return out
}

// IsCCW reports whether the ring's signed shoelace area is positive.
func IsCCW(r orb.Ring) bool {
	if len(r) < 3 {
		return false
	}
	return r.Orientation() == orb.CCW
}
