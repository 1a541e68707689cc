// Package sphere maps geographic coordinates onto the globe's 3D sphere and
// computes outward-facing normals for meshes laid on it.
package sphere

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	// BaseRadius is the radius of the ocean sphere.
	BaseRadius = 1.0
	// LandOffset lifts land surfaces above the ocean sphere to avoid z-fighting.
	LandOffset = 1.05
	// LandRadius is the radius land meshes are projected at by default.
	LandRadius = BaseRadius * LandOffset
)

const deg = math.Pi / 180

// Project maps (lon, lat) in degrees to a point on a sphere of the given
// radius. The colatitude is φ = (90 − lat)° and the azimuth θ = (lon + 180)°;
// the result is (−R·sinφ·cosθ, R·cosφ, R·sinφ·sinθ), with +Y at the north pole.
func Project(lon, lat, radius float64) v3.Vec {
	phi := (90 - lat) * deg
	theta := (lon + 180) * deg
	sinPhi := math.Sin(phi)
	return v3.Vec{
		X: -radius * sinPhi * math.Cos(theta),
		Y: radius * math.Cos(phi),
		Z: radius * sinPhi * math.Sin(theta),
	}
}

// Unproject is the inverse of Project. It returns lon in (−180, 180] and lat
// in [−90, 90]. The origin maps to (0, 0).
func Unproject(p v3.Vec) (lon, lat float64) {
	r := p.Length()
	if r == 0 {
		return 0, 0
	}
	phi := math.Acos(clamp(p.Y/r, -1, 1))
	lat = 90 - phi/deg

	theta := math.Atan2(p.Z, -p.X)
	lon = theta/deg - 180
	if lon <= -180 {
		lon += 360
	}
	return lon, lat
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
