// Package tessellate turns country boundary rings into triangle meshes laid
// on the globe sphere. One mesh is produced per sub-polygon.
package tessellate

import (
	"fmt"

	"github.com/chazu/orbis/pkg/geo"
	"github.com/chazu/orbis/pkg/kernel"
	"github.com/chazu/orbis/pkg/kernel/earcut"
	"github.com/chazu/orbis/pkg/sphere"
	"github.com/paulmach/orb"
)

// Builder triangulates polygons and projects them onto a sphere. It holds no
// mutable state and may be shared between goroutines as long as its
// Triangulator is safe for concurrent use.
type Builder struct {
	triangulator kernel.Triangulator
	radius       float64
}

// Option configures a Builder.
type Option func(*Builder)

// WithTriangulator replaces the default ear-clipping triangulator.
func WithTriangulator(t kernel.Triangulator) Option {
	return func(b *Builder) { b.triangulator = t }
}

// WithRadius sets the projection radius. The default is sphere.LandRadius.
func WithRadius(r float64) Option {
	return func(b *Builder) { b.radius = r }
}

// New returns a Builder using earcut at sphere.LandRadius unless overridden.
func New(opts ...Option) *Builder {
	b := &Builder{
		triangulator: earcut.New(),
		radius:       sphere.LandRadius,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Radius returns the projection radius.
func (b *Builder) Radius() float64 {
	return b.radius
}

// BuildFeature produces one mesh per sub-polygon of the feature, each tagged
// with the feature's name. Sub-polygons that collapse to zero triangles are
// dropped, so a feature can yield no meshes at all.
func (b *Builder) BuildFeature(f *geo.Feature) ([]*kernel.Mesh, error) {
	if f == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	for i, poly := range f.Polygons() {
		mesh, err := b.BuildCountryMesh(poly)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %q polygon %d: %w", f.Name, i, err)
		}
		if mesh == nil {
			continue
		}
		mesh.Country = f.Name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// BuildCountryMesh triangulates one polygon (outer ring followed by holes)
// and projects it onto the sphere. It returns a nil mesh and nil error when
// the polygon yields no triangles.
func (b *Builder) BuildCountryMesh(rings []orb.Ring) (*kernel.Mesh, error) {
	if len(rings) == 0 {
		return nil, nil
	}

	coords, holes := flatten(geo.NormalizeWinding(rings))
	if len(coords) == 0 {
		return nil, nil
	}

	tris, err := b.triangulator.Triangulate(coords, holes)
	if err != nil {
		return nil, fmt.Errorf("triangulate: %w", err)
	}
	if len(tris) == 0 {
		return nil, nil
	}

	numVerts := len(coords) / 2
	vertices := make([]float32, 0, numVerts*3)
	for i := 0; i < numVerts; i++ {
		p := sphere.Project(coords[2*i], coords[2*i+1], b.radius)
		vertices = append(vertices, float32(p.X), float32(p.Y), float32(p.Z))
	}

	indices := make([]uint32, len(tris))
	for i, idx := range tris {
		indices[i] = uint32(idx)
	}
	sphere.OrientOutward(vertices, indices)

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  sphere.VertexNormals(vertices, indices),
		Indices:  indices,
	}, nil
}

// flatten concatenates the rings into one [lon0,lat0, lon1,lat1, ...] array,
// dropping each ring's closing vertex, and records the vertex index at which
// every ring after the first starts. Empty rings are skipped.
func flatten(rings []orb.Ring) ([]float64, []int) {
	var coords []float64
	var holes []int
	for i, ring := range rings {
		open := geo.OpenRing(ring)
		if len(open) == 0 {
			if i == 0 {
				return nil, nil
			}
			continue
		}
		if i > 0 {
			holes = append(holes, len(coords)/2)
		}
		for _, p := range open {
			coords = append(coords, p.Lon(), p.Lat())
		}
	}
	return coords, holes
}
