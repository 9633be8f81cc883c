// Package picking provides ray casting and object picking utilities.
package picking

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tekalign/internal/engine/mesh"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Hit describes the nearest intersection along a ray.
type Hit struct {
	Distance float32
	Point    mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// NDC converts pixel coordinates to normalized device coordinates (-1 to 1, Y up).
func NDC(screenX, screenY, viewportW, viewportH float32) (x, y float32) {
	return 2.0*screenX/viewportW - 1.0, 1.0 - 2.0*screenY/viewportH
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX, ndcY := NDC(screenX, screenY, viewportW, viewportH)
	return NDCToRay(ndcX, ndcY, invViewProj)
}

// NDCToRay builds a ray through the near and far planes at the given NDC point.
func NDCToRay(ndcX, ndcY float32, invViewProj mgl32.Mat4) Ray {
	nearWorld := Unproject(mgl32.Vec3{ndcX, ndcY, -1}, invViewProj)
	farWorld := Unproject(mgl32.Vec3{ndcX, ndcY, 1}, invViewProj)

	dir := farWorld.Sub(nearWorld)
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	return Ray{Origin: nearWorld, Direction: dir}
}

// Unproject maps an NDC point back to world space with a perspective divide.
func Unproject(ndc mgl32.Vec3, invViewProj mgl32.Mat4) mgl32.Vec3 {
	p := invViewProj.Mul4x1(ndc.Vec4(1))
	if p[3] != 0 {
		return mgl32.Vec3{p[0] / p[3], p[1] / p[3], p[2] / p[3]}
	}
	return p.Vec3()
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		if r.Direction[axis] != 0 {
			t1 := (box.Min[axis] - r.Origin[axis]) / r.Direction[axis]
			t2 := (box.Max[axis] - r.Origin[axis]) / r.Direction[axis]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if r.Origin[axis] < box.Min[axis] || r.Origin[axis] > box.Max[axis] {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// intersectEpsilon rejects rays parallel to a triangle's plane.
const intersectEpsilon = 1e-7

// IntersectTriangle runs the Möller–Trumbore test and returns the distance
// along the ray. Triangles are double sided.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (t float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -intersectEpsilon && det < intersectEpsilon {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = e2.Dot(q) * inv
	if t <= intersectEpsilon {
		return 0, false
	}
	return t, true
}

// IntersectMesh tests every triangle of m transformed by world and returns
// the nearest hit. A quick box test rejects misses before the triangle loop.
func (r Ray) IntersectMesh(m *mesh.Mesh, world mgl32.Mat4) (Hit, bool) {
	if m.IsEmpty() {
		return Hit{}, false
	}
	min, max := m.Bounds()
	if _, ok := r.IntersectAABB(TransformAABB(AABB{Min: min, Max: max}, world)); !ok {
		return Hit{}, false
	}

	best := float32(gomath.MaxFloat32)
	found := false
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		t, ok := r.IntersectTriangle(
			mgl32.TransformCoordinate(a, world),
			mgl32.TransformCoordinate(b, world),
			mgl32.TransformCoordinate(c, world),
		)
		if ok && t < best {
			best = t
			found = true
		}
	}
	if !found {
		return Hit{}, false
	}
	return Hit{Distance: best, Point: r.At(best)}, true
}

// NewAABB creates an AABB from two corners, handling swapped components.
func NewAABB(a, b mgl32.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	for i := 0; i < 3; i++ {
		if box.Min[i] > box.Max[i] {
			box.Min[i], box.Max[i] = box.Max[i], box.Min[i]
		}
	}
	return box
}

// BoxAround returns a box of the given full size centred on p.
func BoxAround(p, size mgl32.Vec3) AABB {
	half := size.Mul(0.5)
	return NewAABB(p.Sub(half), p.Add(half))
}

// TransformAABB returns the world-space box enclosing all eight corners of
// a local box transformed by m.
func TransformAABB(box AABB, m mgl32.Mat4) AABB {
	inf := float32(gomath.Inf(1))
	out := AABB{Min: mgl32.Vec3{inf, inf, inf}, Max: mgl32.Vec3{-inf, -inf, -inf}}
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{box.Min[0], box.Min[1], box.Min[2]}
		if i&1 != 0 {
			corner[0] = box.Max[0]
		}
		if i&2 != 0 {
			corner[1] = box.Max[1]
		}
		if i&4 != 0 {
			corner[2] = box.Max[2]
		}
		w := mgl32.TransformCoordinate(corner, m)
		for k := 0; k < 3; k++ {
			if w[k] < out.Min[k] {
				out.Min[k] = w[k]
			}
			if w[k] > out.Max[k] {
				out.Max[k] = w[k]
			}
		}
	}
	return out
}

// Union grows a to enclose b.
func (a AABB) Union(b AABB) AABB {
	for k := 0; k < 3; k++ {
		if b.Min[k] < a.Min[k] {
			a.Min[k] = b.Min[k]
		}
		if b.Max[k] > a.Max[k] {
			a.Max[k] = b.Max[k]
		}
	}
	return a
}

// Center returns the midpoint of the box.
func (a AABB) Center() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}
