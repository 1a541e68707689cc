package sphere

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// vertex returns vertex i of a flat float32 array as a vector.
func vertex(vertices []float32, i uint32) v3.Vec {
	return v3.Vec{
		X: float64(vertices[i*3]),
		Y: float64(vertices[i*3+1]),
		Z: float64(vertices[i*3+2]),
	}
}

// faceNormal returns the unnormalized normal of triangle (a, b, c).
func faceNormal(vertices []float32, a, b, c uint32) (n, centroid v3.Vec) {
	va, vb, vc := vertex(vertices, a), vertex(vertices, b), vertex(vertices, c)
	n = vb.Sub(va).Cross(vc.Sub(va))
	centroid = va.Add(vb).Add(vc).DivScalar(3)
	return n, centroid
}

// OrientOutward rewrites the index array in place so that every triangle is
// wound counter-clockwise when seen from outside the sphere. Degenerate
// triangles are left as they are.
func OrientOutward(vertices []float32, indices []uint32) {
	for t := 0; t+2 < len(indices); t += 3 {
		n, c := faceNormal(vertices, indices[t], indices[t+1], indices[t+2])
		if n.Dot(c) < 0 {
			indices[t+1], indices[t+2] = indices[t+2], indices[t+1]
		}
	}
}

// VertexNormals generates per-vertex normals by accumulating the
// area-weighted face normals of all triangles incident on each vertex. Every
// normal is flipped to point away from the sphere center; vertices whose
// accumulated normal vanishes fall back to the radial direction.
func VertexNormals(vertices []float32, indices []uint32) []float32 {
	numVerts := len(vertices) / 3
	acc := make([]v3.Vec, numVerts)

	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		n, _ := faceNormal(vertices, i0, i1, i2)
		for _, idx := range []uint32{i0, i1, i2} {
			acc[idx] = acc[idx].Add(n)
		}
	}

	normals := make([]float32, numVerts*3)
	for i := range acc {
		radial := vertex(vertices, uint32(i))
		n := acc[i]
		if n.Length() < 1e-12 {
			n = radial
		}
		if n.Dot(radial) < 0 {
			n = n.Neg()
		}
		if n.Length() > 1e-12 {
			n = n.Normalize()
		}
		normals[i*3+0] = float32(n.X)
		normals[i*3+1] = float32(n.Y)
		normals[i*3+2] = float32(n.Z)
	}
	return normals
}
