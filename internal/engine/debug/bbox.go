// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tekalign/internal/engine/picking"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding is the default padding for selection boxes.
const DefaultBBoxPadding = 1.0

// BoxEdges returns the 12 edges of box as endpoint pairs, grown by padding
// on every side.
func BoxEdges(box picking.AABB, padding float32) []mgl32.Vec3 {
	pad := mgl32.Vec3{padding, padding, padding}
	lo, hi := box.Min.Sub(pad), box.Max.Add(pad)
	corner := func(x, y, z bool) mgl32.Vec3 {
		c := lo
		if x {
			c[0] = hi[0]
		}
		if y {
			c[1] = hi[1]
		}
		if z {
			c[2] = hi[2]
		}
		return c
	}

	edges := make([]mgl32.Vec3, 0, BBoxWireframeVertexCount)
	for _, y := range []bool{false, true} {
		// bottom then top ring
		edges = append(edges,
			corner(false, y, false), corner(true, y, false),
			corner(true, y, false), corner(true, y, true),
			corner(true, y, true), corner(false, y, true),
			corner(false, y, true), corner(false, y, false),
		)
	}
	for _, xz := range [4][2]bool{{false, false}, {true, false}, {true, true}, {false, true}} {
		edges = append(edges, corner(xz[0], false, xz[1]), corner(xz[0], true, xz[1]))
	}
	return edges
}

// AppendLines appends each endpoint as position followed by color.
func AppendLines(dst []float32, points []mgl32.Vec3, color mgl32.Vec3) []float32 {
	for _, p := range points {
		dst = append(dst, p[0], p[1], p[2], color[0], color[1], color[2])
	}
	return dst
}
