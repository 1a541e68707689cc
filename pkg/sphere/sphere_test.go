package sphere

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestProjectRadiusInvariant(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 7.5 {
		for lon := -180.0; lon <= 180; lon += 15 {
			p := Project(lon, lat, LandRadius)
			if got := p.Length(); math.Abs(got-LandRadius) > 1e-12 {
				t.Fatalf("Project(%v, %v) radius = %.15f, want %.15f", lon, lat, got, LandRadius)
			}
		}
	}
}

func TestProjectKnownPoints(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		want     v3.Vec
	}{
		{"null island", 0, 0, v3.Vec{X: 1, Y: 0, Z: 0}},
		{"north pole", 0, 90, v3.Vec{X: 0, Y: 1, Z: 0}},
		{"south pole", 0, -90, v3.Vec{X: 0, Y: -1, Z: 0}},
		{"90 east", 90, 0, v3.Vec{X: 0, Y: 0, Z: -1}},
		{"90 west", -90, 0, v3.Vec{X: 0, Y: 0, Z: 1}},
		{"antimeridian", 180, 0, v3.Vec{X: -1, Y: 0, Z: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.lon, tt.lat, BaseRadius)
			if got.Sub(tt.want).Length() > 1e-12 {
				t.Errorf("Project(%v, %v) = %v, want %v", tt.lon, tt.lat, got, tt.want)
			}
		})
	}
}

func TestUnprojectInvertsProject(t *testing.T) {
	points := [][2]float64{{0, 0}, {12.5, 41.9}, {-74, 40.7}, {151.2, -33.9}, {179, 10}, {-179, -10}}
	for _, pt := range points {
		lon, lat := Unproject(Project(pt[0], pt[1], LandRadius))
		if math.Abs(lon-pt[0]) > 1e-9 || math.Abs(lat-pt[1]) > 1e-9 {
			t.Errorf("Unproject(Project(%v, %v)) = (%v, %v)", pt[0], pt[1], lon, lat)
		}
	}
	if lon, lat := Unproject(v3.Vec{}); lon != 0 || lat != 0 {
		t.Errorf("Unproject(origin) = (%v, %v), want (0, 0)", lon, lat)
	}
}

// patch returns two triangles on the sphere near (0,0), wound inward.
func patch() ([]float32, []uint32) {
	var verts []float32
	for _, ll := range [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		p := Project(ll[0], ll[1], LandRadius)
		verts = append(verts, float32(p.X), float32(p.Y), float32(p.Z))
	}
	// Clockwise in lon/lat, which faces the sphere center.
	return verts, []uint32{0, 2, 1, 0, 3, 2}
}

func TestOrientOutward(t *testing.T) {
	verts, idx := patch()
	OrientOutward(verts, idx)
	for k := 0; k < len(idx); k += 3 {
		n, c := faceNormal(verts, idx[k], idx[k+1], idx[k+2])
		if n.Dot(c) <= 0 {
			t.Errorf("triangle %d still faces inward", k/3)
		}
	}
}

func TestVertexNormalsPointOutward(t *testing.T) {
	verts, idx := patch()
	normals := VertexNormals(verts, idx)
	if len(normals) != len(verts) {
		t.Fatalf("normals length %d != vertices length %d", len(normals), len(verts))
	}
	for i := 0; i < len(verts)/3; i++ {
		n := vertex(normals, uint32(i))
		p := vertex(verts, uint32(i))
		if math.Abs(n.Length()-1) > 1e-5 {
			t.Errorf("normal %d length = %f, want 1", i, n.Length())
		}
		if n.Dot(p) <= 0 {
			t.Errorf("normal %d points inward", i)
		}
	}
}

func TestVertexNormalsIsolatedVertexIsRadial(t *testing.T) {
	p := Project(30, 30, LandRadius)
	verts := []float32{float32(p.X), float32(p.Y), float32(p.Z)}
	n := vertex(VertexNormals(verts, nil), 0)
	want := p.Normalize()
	if n.Sub(want).Length() > 1e-6 {
		t.Errorf("normal = %v, want radial %v", n, want)
	}
}
