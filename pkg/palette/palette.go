// Package palette maps a proximity distance to a guess color.
//
// Zero (the target itself or a neighbor) is pure red. From there the color
// runs red to orange up to 2000 km, orange to yellow up to 8000 km, and
// yellow to a pale tan at MaxDistanceKm. Distances beyond the maximum clamp
// to the tan end.
package palette

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	NearKm        = 2000.0
	MidKm         = 8000.0
	MaxDistanceKm = 20000.0
)

var (
	Red     = colorful.Color{R: 1, G: 0, B: 0}
	Orange  = colorful.Color{R: 1, G: 165.0 / 255, B: 0}
	Yellow  = colorful.Color{R: 1, G: 1, B: 0}
	PaleTan = colorful.Color{R: 245.0 / 255, G: 222.0 / 255, B: 179.0 / 255}
)

// Palette holds the band edges. The zero value is not usable; use Default
// or New.
type Palette struct {
	near, mid, max float64
}

// Default is the palette with the standard band edges.
var Default = Palette{near: NearKm, mid: MidKm, max: MaxDistanceKm}

// New returns a palette whose last band ends at maxKm. A maxKm at or below
// MidKm falls back to MaxDistanceKm.
func New(maxKm float64) Palette {
	if !(maxKm > MidKm) || math.IsInf(maxKm, 0) {
		maxKm = MaxDistanceKm
	}
	return Palette{near: NearKm, mid: MidKm, max: maxKm}
}

// Color returns the color for a distance in kilometres. Negative and NaN
// distances are treated as zero.
func (p Palette) Color(km float64) colorful.Color {
	if !(km > 0) {
		return Red
	}
	switch {
	case km < p.near:
		return Red.BlendRgb(Orange, km/p.near)
	case km < p.mid:
		return Orange.BlendRgb(Yellow, (km-p.near)/(p.mid-p.near))
	default:
		t := math.Min((km-p.mid)/(p.max-p.mid), 1)
		return Yellow.BlendRgb(PaleTan, t)
	}
}

// Hex returns Color(km) as "#rrggbb".
func (p Palette) Hex(km float64) string {
	return p.Color(km).Clamped().Hex()
}

// Color maps km with the default palette.
func Color(km float64) colorful.Color {
	return Default.Color(km)
}

// Hex maps km with the default palette and formats it as "#rrggbb".
func Hex(km float64) string {
	return Default.Hex(km)
}
