package tessellate_test

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/orbis/pkg/geo"
	"github.com/chazu/orbis/pkg/kernel"
	"github.com/chazu/orbis/pkg/sphere"
	"github.com/chazu/orbis/pkg/tessellate"
	"github.com/paulmach/orb"
)

// squareCW returns a closed clockwise ring spanning [x0,x1]x[y0,y1].
func squareCW(x0, y0, x1, y1 float64) orb.Ring {
	return orb.Ring{{x0, y0}, {x0, y1}, {x1, y1}, {x1, y0}, {x0, y0}}
}

// squareCCW returns a closed counter-clockwise ring spanning [x0,x1]x[y0,y1].
func squareCCW(x0, y0, x1, y1 float64) orb.Ring {
	return orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
}

// checkMesh verifies the structural and spherical invariants of a mesh.
func checkMesh(t *testing.T, m *kernel.Mesh, radius float64) {
	t.Helper()
	if err := m.Validate(); err != nil {
		t.Fatalf("mesh invalid: %v", err)
	}
	for i := 0; i < m.VertexCount(); i++ {
		x, y, z := float64(m.Vertices[i*3]), float64(m.Vertices[i*3+1]), float64(m.Vertices[i*3+2])
		r := math.Sqrt(x*x + y*y + z*z)
		if math.Abs(r-radius) > 1e-5 {
			t.Errorf("vertex %d at radius %f, want %f", i, r, radius)
		}
		nx, ny, nz := float64(m.Normals[i*3]), float64(m.Normals[i*3+1]), float64(m.Normals[i*3+2])
		if nx*x+ny*y+nz*z <= 0 {
			t.Errorf("normal %d points toward the sphere center", i)
		}
	}
}

func TestSquareEndToEnd(t *testing.T) {
	ring := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	// The ring above is CCW; build from its clockwise mirror so the builder
	// has to reverse it.
	cw := orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
	if geo.IsCCW(cw) {
		t.Fatal("test ring should start clockwise")
	}

	for name, r := range map[string]orb.Ring{"ccw": ring, "cw": cw} {
		t.Run(name, func(t *testing.T) {
			m, err := tessellate.New().BuildCountryMesh([]orb.Ring{r})
			if err != nil {
				t.Fatalf("BuildCountryMesh failed: %v", err)
			}
			if m == nil {
				t.Fatal("expected a mesh, got nil")
			}
			if m.TriangleCount() != 2 {
				t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
			}
			if m.VertexCount() != 4 {
				t.Errorf("expected 4 vertices, got %d", m.VertexCount())
			}
			checkMesh(t, m, sphere.BaseRadius*1.05)
		})
	}
}

func TestNormalizeWinding(t *testing.T) {
	tests := []struct {
		name  string
		rings []orb.Ring
	}{
		{"ccw outer", []orb.Ring{squareCCW(0, 0, 10, 10)}},
		{"cw outer", []orb.Ring{squareCW(0, 0, 10, 10)}},
		{"cw outer ccw hole", []orb.Ring{squareCW(0, 0, 10, 10), squareCCW(2, 2, 4, 4)}},
		{"ccw outer cw holes", []orb.Ring{squareCCW(0, 0, 10, 10), squareCW(2, 2, 4, 4), squareCW(6, 6, 8, 8)}},
		{"mixed holes", []orb.Ring{squareCCW(0, 0, 10, 10), squareCCW(2, 2, 4, 4), squareCW(6, 6, 8, 8)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := geo.NormalizeWinding(tt.rings)
			if len(out) != len(tt.rings) {
				t.Fatalf("got %d rings, want %d", len(out), len(tt.rings))
			}
			if !geo.IsCCW(out[0]) {
				t.Error("outer ring should be counter-clockwise")
			}
			for i := 1; i < len(out); i++ {
				if geo.IsCCW(out[i]) {
					t.Errorf("hole %d should be clockwise", i)
				}
			}
		})
	}
}

func TestNormalizeWindingDoesNotMutateInput(t *testing.T) {
	in := squareCW(0, 0, 1, 1)
	orig := in.Clone()
	geo.NormalizeWinding([]orb.Ring{in})
	if !in.Equal(orig) {
		t.Errorf("input ring was modified: %v", in)
	}
}

func TestDegenerateMesh(t *testing.T) {
	p := orb.Point{3, 3}
	tests := []struct {
		name  string
		rings []orb.Ring
	}{
		{"coincident points", []orb.Ring{{p, p, p, p}}},
		{"collinear points", []orb.Ring{{{0, 0}, {1, 0}, {2, 0}, {0, 0}}}},
		{"no rings", nil},
		{"empty outer", []orb.Ring{{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tessellate.New().BuildCountryMesh(tt.rings)
			if err != nil {
				t.Fatalf("BuildCountryMesh failed: %v", err)
			}
			if m != nil {
				t.Fatalf("expected nil mesh, got %d triangles", m.TriangleCount())
			}
		})
	}
}

func TestPolygonWithHole(t *testing.T) {
	rings := []orb.Ring{squareCW(0, 0, 10, 10), squareCCW(3, 3, 7, 7)}
	m, err := tessellate.New().BuildCountryMesh(rings)
	if err != nil {
		t.Fatalf("BuildCountryMesh failed: %v", err)
	}
	if m == nil {
		t.Fatal("expected a mesh, got nil")
	}
	if m.VertexCount() != 8 {
		t.Errorf("expected 8 vertices, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 8 {
		t.Errorf("expected 8 triangles, got %d", m.TriangleCount())
	}
	checkMesh(t, m, sphere.LandRadius)
}

func TestCustomRadius(t *testing.T) {
	b := tessellate.New(tessellate.WithRadius(2))
	m, err := b.BuildCountryMesh([]orb.Ring{squareCCW(10, 10, 12, 12)})
	if err != nil {
		t.Fatalf("BuildCountryMesh failed: %v", err)
	}
	checkMesh(t, m, 2)
}

func TestBuildFeaturePolygon(t *testing.T) {
	f := geo.NewFeature("Squareland", orb.Polygon{squareCCW(0, 0, 1, 1)})
	meshes, err := tessellate.New().BuildFeature(f)
	if err != nil {
		t.Fatalf("BuildFeature failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	if meshes[0].Country != "Squareland" {
		t.Errorf("expected Country %q, got %q", "Squareland", meshes[0].Country)
	}
}

func TestBuildFeatureMultiPolygon(t *testing.T) {
	p := orb.Point{50, 50}
	f := geo.NewFeature("Archipelago", orb.MultiPolygon{
		{squareCCW(0, 0, 1, 1)},
		{squareCW(5, 5, 6, 6)},
		{{p, p, p, p}}, // collapses, dropped
	})
	meshes, err := tessellate.New().BuildFeature(f)
	if err != nil {
		t.Fatalf("BuildFeature failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	for _, m := range meshes {
		if m.Country != "Archipelago" {
			t.Errorf("expected Country %q, got %q", "Archipelago", m.Country)
		}
		checkMesh(t, m, sphere.LandRadius)
	}
}

func TestBuildFeatureNil(t *testing.T) {
	meshes, err := tessellate.New().BuildFeature(nil)
	if err != nil || meshes != nil {
		t.Fatalf("BuildFeature(nil) = %v, %v; want nil, nil", meshes, err)
	}
}

// failingTriangulator always errors.
type failingTriangulator struct{}

func (failingTriangulator) Triangulate([]float64, []int) ([]int, error) {
	return nil, errors.New("boom")
}

func TestTriangulatorErrorPropagates(t *testing.T) {
	b := tessellate.New(tessellate.WithTriangulator(failingTriangulator{}))
	f := geo.NewFeature("Broken", orb.Polygon{squareCCW(0, 0, 1, 1)})
	_, err := b.BuildFeature(f)
	if err == nil {
		t.Fatal("expected error from failing triangulator")
	}
	if got := err.Error(); got != `tessellate: "Broken" polygon 0: triangulate: boom` {
		t.Errorf("unexpected error text: %s", got)
	}
}
