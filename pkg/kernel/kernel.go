// Package kernel defines the mesh type shared by the globe pipeline and the
// abstract triangulation primitive it depends on. Implementations (earcut)
// sit behind the Triangulator interface so the mesh builder can swap
// backends without changing the rest of the system.
package kernel

// Triangulator is the abstract planar triangulation interface.
type Triangulator interface {
	// Triangulate decomposes a polygon given as a flat 2D coordinate array
	// [x0,y0, x1,y1, ...] into triangles. holes holds the vertex index at
	// which each hole ring starts; the outer ring runs from vertex 0 to the
	// first hole. The result is a flat list of vertex indices, three per
	// triangle. A polygon that collapses to nothing yields an empty result
	// and no error.
	Triangulate(coords []float64, holes []int) ([]int, error)
}
