package proximity

import (
	"errors"
	"fmt"

	"github.com/chazu/orbis/pkg/geo"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// AdjacencyKind classifies the outcome of an adjacency check.
type AdjacencyKind int

const (
	Disjoint     AdjacencyKind = iota // no shared boundary or area
	Touching                          // boundaries meet within the touch tolerance
	Intersecting                      // interiors overlap
	Failed                            // geometry could not be evaluated
)

func (k AdjacencyKind) String() string {
	switch k {
	case Disjoint:
		return "disjoint"
	case Touching:
		return "touching"
	case Intersecting:
		return "intersecting"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("AdjacencyKind(%d)", int(k))
	}
}

// AdjacencyResult is the explicit outcome of an adjacency check. Err is set
// only when Kind is Failed.
type AdjacencyResult struct {
	Kind AdjacencyKind
	Err  error
}

// Adjacent reports whether the two features touch or intersect.
func (r AdjacencyResult) Adjacent() bool {
	return r.Kind == Touching || r.Kind == Intersecting
}

// AdjacencyFunc decides whether two features share a border or overlap.
type AdjacencyFunc func(a, b *geo.Feature) AdjacencyResult

// ErrGeometryFault wraps a panic raised while evaluating geometry.
var ErrGeometryFault = errors.New("proximity: geometry fault")

// guard converts a panic inside fn into a Failed result.
func guard(fn AdjacencyFunc) AdjacencyFunc {
	return func(a, b *geo.Feature) (res AdjacencyResult) {
		defer func() {
			if r := recover(); r != nil {
				res = AdjacencyResult{Kind: Failed, Err: fmt.Errorf("%w: %v", ErrGeometryFault, r)}
			}
		}()
		return fn(a, b)
	}
}

// CheckAdjacency reports whether a and b touch or intersect on the sphere.
// Boundaries touch when any vertex of one lies within tolerance of an edge of
// the other. Interiors intersect when the s2 polygons share area. Invalid
// loops and panics inside the geometry library yield a Failed result.
func CheckAdjacency(a, b *geo.Feature, tolerance s1.Angle) AdjacencyResult {
	return guard(func(a, b *geo.Feature) AdjacencyResult {
		return checkAdjacency(a, b, tolerance)
	})(a, b)
}

func checkAdjacency(a, b *geo.Feature, tolerance s1.Angle) AdjacencyResult {
	pa, err := toS2(a)
	if err != nil {
		return AdjacencyResult{Kind: Failed, Err: err}
	}
	pb, err := toS2(b)
	if err != nil {
		return AdjacencyResult{Kind: Failed, Err: err}
	}

	pad := tolerance.Degrees()
	for _, x := range pa {
		for _, y := range pb {
			if !x.bound.Pad(pad).Intersects(y.bound) {
				continue
			}
			if touches(x.lines, y.lines, tolerance) || touches(y.lines, x.lines, tolerance) {
				return AdjacencyResult{Kind: Touching}
			}
		}
	}
	for _, x := range pa {
		for _, y := range pb {
			if x.bound.Intersects(y.bound) && x.poly.Intersects(y.poly) {
				return AdjacencyResult{Kind: Intersecting}
			}
		}
	}
	return AdjacencyResult{Kind: Disjoint}
}

// s2Polygon is one sub-polygon in both s2 and boundary-line form.
type s2Polygon struct {
	poly  *s2.Polygon
	lines [][]s2.Point
	bound orb.Bound
}

func toS2(f *geo.Feature) ([]s2Polygon, error) {
	var out []s2Polygon
	for pi, poly := range f.Polygons() {
		rings := geo.NormalizeWinding(poly)
		var loops []*s2.Loop
		var lines [][]s2.Point
		for ri, ring := range rings {
			pts := loopPoints(ring)
			if len(pts) < 3 {
				if ri == 0 {
					break
				}
				continue
			}
			loop := s2.LoopFromPoints(pts)
			if err := loop.Validate(); err != nil {
				return nil, fmt.Errorf("proximity: %q polygon %d ring %d: %w", f.Name, pi, ri, err)
			}
			loops = append(loops, loop)
			lines = append(lines, closeLine(pts))
		}
		if len(loops) == 0 {
			continue
		}
		out = append(out, s2Polygon{
			poly:  s2.PolygonFromOrientedLoops(loops),
			lines: lines,
			bound: poly.Bound(),
		})
	}
	return out, nil
}

// loopPoints converts an open ring to s2 points, dropping consecutive
// duplicates, which s2 rejects as degenerate edges.
func loopPoints(r orb.Ring) []s2.Point {
	open := geo.OpenRing(r)
	pts := make([]s2.Point, 0, len(open))
	for _, p := range open {
		sp := toPoint(p)
		if n := len(pts); n > 0 && pts[n-1] == sp {
			continue
		}
		pts = append(pts, sp)
	}
	for len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func closeLine(pts []s2.Point) []s2.Point {
	line := make([]s2.Point, len(pts), len(pts)+1)
	copy(line, pts)
	return append(line, pts[0])
}

func toPoint(p orb.Point) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat(), p.Lon()))
}

// touches reports whether any vertex of a lies within tol of a segment of b.
func touches(a, b [][]s2.Point, tol s1.Angle) bool {
	for _, la := range a {
		for _, v := range la {
			if d, ok := minDistance(v, b); ok && d <= tol {
				return true
			}
		}
	}
	return false
}

// minDistance returns the smallest angle between p and any segment of lines.
// A single-point line counts as that point.
func minDistance(p s2.Point, lines [][]s2.Point) (s1.Angle, bool) {
	best := s1.InfAngle()
	found := false
	for _, line := range lines {
		switch len(line) {
		case 0:
			continue
		case 1:
			if d := p.Distance(line[0]); d < best {
				best = d
			}
			found = true
			continue
		}
		for i := 1; i < len(line); i++ {
			if d := s2.DistanceFromSegment(p, line[i-1], line[i]); d < best {
				best = d
			}
			found = true
		}
	}
	return best, found
}
