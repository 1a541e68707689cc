// Package proximity scores how close a guessed country is to the target.
//
// The score is zero when the guess is the target or shares a border with it.
// Otherwise it is the great-circle distance in kilometres from the guess's
// vertex-mean centroid to the nearest boundary segment of the target. The
// measure is not symmetric: swapping guess and target generally changes it.
package proximity

import (
	"github.com/chazu/orbis/pkg/geo"
	"github.com/chazu/orbis/pkg/logging"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/sirupsen/logrus"
)

// EarthRadiusKm is the mean Earth radius used to convert angles to distance.
const EarthRadiusKm = 6371.0088

// DefaultTouchToleranceKm is the distance under which two boundaries are
// considered to touch.
const DefaultTouchToleranceKm = 0.01

// Tier records which rule produced a score.
type Tier int

const (
	TierUnscored Tier = iota // missing or unnamed input, or no usable geometry
	TierIdentity             // guess is the target
	TierAdjacent             // guess borders or overlaps the target
	TierBorder               // centroid to border distance
)

func (t Tier) String() string {
	switch t {
	case TierUnscored:
		return "unscored"
	case TierIdentity:
		return "identity"
	case TierAdjacent:
		return "adjacent"
	case TierBorder:
		return "border"
	default:
		return "unknown"
	}
}

// Score is a proximity result.
type Score struct {
	Km   float64
	Tier Tier
}

// Scorer computes proximity scores. The zero value is not usable; call New.
type Scorer struct {
	log       logrus.FieldLogger
	tolerance s1.Angle
	adjacency AdjacencyFunc
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithLogger sets the logger used for adjacency failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scorer) { s.log = l }
}

// WithTouchToleranceKm sets how close two boundaries must be to touch.
func WithTouchToleranceKm(km float64) Option {
	return func(s *Scorer) { s.tolerance = kmToAngle(km) }
}

// WithAdjacency replaces the adjacency predicate. Panics raised by fn are
// still converted into failed checks.
func WithAdjacency(fn AdjacencyFunc) Option {
	return func(s *Scorer) { s.adjacency = fn }
}

// New returns a Scorer with the default touch tolerance.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		log:       logging.Named("proximity"),
		tolerance: kmToAngle(DefaultTouchToleranceKm),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.adjacency == nil {
		tol := s.tolerance
		s.adjacency = func(a, b *geo.Feature) AdjacencyResult {
			return CheckAdjacency(a, b, tol)
		}
	}
	s.adjacency = guard(s.adjacency)
	return s
}

// Distance returns the proximity of guess to target in kilometres.
func (s *Scorer) Distance(guess, target *geo.Feature) float64 {
	return s.Score(guess, target).Km
}

// Score returns the proximity of guess to target along with the rule that
// produced it. Missing or unnamed features score zero.
func (s *Scorer) Score(guess, target *geo.Feature) Score {
	if guess == nil || target == nil || guess.Name == "" || target.Name == "" {
		return Score{Tier: TierUnscored}
	}
	if guess.Name == target.Name {
		return Score{Tier: TierIdentity}
	}

	adj := s.adjacency(guess, target)
	switch {
	case adj.Adjacent():
		return Score{Tier: TierAdjacent}
	case adj.Kind == Failed:
		s.log.WithFields(logrus.Fields{
			"guess":  guess.Name,
			"target": target.Name,
		}).WithError(adj.Err).Warn("adjacency check failed, using border distance")
	}

	c, ok := geo.Centroid(guess)
	if !ok {
		return Score{Tier: TierUnscored}
	}
	km, ok := PointToBoundaryKm(c, BoundaryLines(target))
	if !ok {
		return Score{Tier: TierUnscored}
	}
	return Score{Km: km, Tier: TierBorder}
}

// BoundaryLines returns every ring of every sub-polygon of f, holes
// included, as closed s2 polylines.
func BoundaryLines(f *geo.Feature) [][]s2.Point {
	var lines [][]s2.Point
	for _, poly := range f.Polygons() {
		for _, ring := range poly {
			pts := loopPoints(ring)
			switch len(pts) {
			case 0:
			case 1:
				lines = append(lines, pts)
			default:
				lines = append(lines, closeLine(pts))
			}
		}
	}
	return lines
}

// PointToBoundaryKm returns the great-circle distance from p to the nearest
// segment of lines. It reports false when lines holds no points.
func PointToBoundaryKm(p geo.LatLon, lines [][]s2.Point) (float64, bool) {
	pt := s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon))
	d, ok := minDistance(pt, lines)
	if !ok {
		return 0, false
	}
	return d.Radians() * EarthRadiusKm, true
}

func kmToAngle(km float64) s1.Angle {
	return s1.Angle(km / EarthRadiusKm)
}
