// Package earcut implements the kernel.Triangulator interface on top of
// github.com/rclancey/go-earcut, a port of mapbox's ear-clipping
// triangulator. Holes are bridged into the outer ring and degenerate input
// yields no triangles rather than an error.
package earcut

import (
	"fmt"

	mapbox "github.com/rclancey/go-earcut"

	"github.com/chazu/orbis/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Triangulator = (*Earcut)(nil)

// dim is the number of values per vertex in the flat coordinate array.
const dim = 2

// Earcut implements kernel.Triangulator. It holds no state and is safe for
// concurrent use.
type Earcut struct{}

// New returns a new Earcut triangulator.
func New() *Earcut {
	return &Earcut{}
}

// Triangulate decomposes the polygon into triangles. See kernel.Triangulator.
// The coordinate array and hole indices are checked before they reach the
// underlying library, which indexes them without bounds checks.
func (e *Earcut) Triangulate(coords []float64, holes []int) ([]int, error) {
	if len(coords)%dim != 0 {
		return nil, fmt.Errorf("earcut: coordinate array length %d is odd", len(coords))
	}
	n := len(coords) / dim
	prevHole := 0
	for _, h := range holes {
		if h <= prevHole || h >= n {
			return nil, fmt.Errorf("earcut: hole index %d out of order or range (vertices=%d)", h, n)
		}
		prevHole = h
	}

	tris, err := mapbox.Earcut(coords, holes, dim)
	if err != nil {
		return nil, fmt.Errorf("earcut: %w", err)
	}
	return tris, nil
}
