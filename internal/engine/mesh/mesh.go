// Package mesh provides triangle mesh geometry for loaded and procedural parts.
package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an unindexed triangle soup: every three consecutive positions form
// one triangle. Normals are per vertex and run parallel to Positions.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
}

// New creates a mesh from triangle positions and computes flat normals.
func New(positions []mgl32.Vec3) *Mesh {
	m := &Mesh{Positions: positions}
	m.ComputeNormals()
	return m
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Positions) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Positions) < 3
}

// Triangle returns the three corners of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c mgl32.Vec3) {
	return m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]
}

// Bounds returns the axis-aligned bounding box of the mesh.
// An empty mesh reports a zero box.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if m.IsEmpty() {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	inf := float32(math.Inf(1))
	min = mgl32.Vec3{inf, inf, inf}
	max = mgl32.Vec3{-inf, -inf, -inf}
	for _, p := range m.Positions {
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return min, max
}

// Center translates the geometry so its bounding-box centre sits at the
// origin and returns the offset that was removed.
func (m *Mesh) Center() mgl32.Vec3 {
	if m.IsEmpty() {
		return mgl32.Vec3{}
	}
	min, max := m.Bounds()
	c := min.Add(max).Mul(0.5)
	for i := range m.Positions {
		m.Positions[i] = m.Positions[i].Sub(c)
	}
	return c
}

// ComputeNormals replaces the normals with flat face normals.
func (m *Mesh) ComputeNormals() {
	m.Normals = make([]mgl32.Vec3, len(m.Positions))
	for i := 0; i+2 < len(m.Positions); i += 3 {
		a, b, c := m.Positions[i], m.Positions[i+1], m.Positions[i+2]
		n := b.Sub(a).Cross(c.Sub(a))
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		m.Normals[i], m.Normals[i+1], m.Normals[i+2] = n, n, n
	}
}

// Clone returns a deep copy so callers can center or transform the copy
// without touching a cached original.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	out := &Mesh{
		Positions: make([]mgl32.Vec3, len(m.Positions)),
		Normals:   make([]mgl32.Vec3, len(m.Normals)),
	}
	copy(out.Positions, m.Positions)
	copy(out.Normals, m.Normals)
	return out
}

// Interleaved returns position+normal pairs as a flat float slice for GPU upload.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Positions)*6)
	for i, p := range m.Positions {
		var n mgl32.Vec3
		if i < len(m.Normals) {
			n = m.Normals[i]
		}
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2])
	}
	return out
}
