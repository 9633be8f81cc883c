package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tekalign/internal/engine/picking"
)

// Scene owns the root of the node tree.
type Scene struct {
	root *Node
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{root: NewNode("scene", KindRoot)}
}

// Root returns the root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Add places n directly under the root keeping its local transform.
func (s *Scene) Add(n *Node) {
	s.root.Add(n)
}

// Attach places n under the root keeping its world transform.
func (s *Scene) Attach(n *Node) {
	s.root.Attach(n)
}

// Remove detaches n from the root. Removing a node that is not in the
// scene is a no-op.
func (s *Scene) Remove(n *Node) bool {
	if n == nil {
		return false
	}
	return s.root.Remove(n)
}

// Contains reports whether n is a direct child of the root.
func (s *Scene) Contains(n *Node) bool {
	return n != nil && n.parent == s.root
}

// Groups returns the top-level group nodes in insertion order.
func (s *Scene) Groups() []*Node {
	var out []*Node
	for _, c := range s.root.children {
		if c.Kind == KindGroup {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of nodes in the tree, root included.
func (s *Scene) Len() int {
	n := 0
	s.root.Walk(func(*Node) bool {
		n++
		return true
	})
	return n
}

// WorldBounds returns the world box of a node's mesh or pick extent.
func WorldBounds(n *Node) (picking.AABB, bool) {
	switch {
	case !n.Mesh.IsEmpty():
		min, max := n.Mesh.Bounds()
		return picking.TransformAABB(picking.AABB{Min: min, Max: max}, n.World()), true
	case n.Extent != (mgl32.Vec3{}):
		return picking.TransformAABB(picking.BoxAround(mgl32.Vec3{}, n.Extent), n.World()), true
	}
	return picking.AABB{}, false
}

// ContentBounds returns the world box around the part children of
// group, or false when it has none.
func ContentBounds(group *Node) (picking.AABB, bool) {
	var box picking.AABB
	found := false
	for _, c := range group.children {
		if c.Kind != KindPart {
			continue
		}
		b, ok := WorldBounds(c)
		if !ok {
			continue
		}
		if !found {
			box = b
			found = true
			continue
		}
		box = box.Union(b)
	}
	return box, found
}

// CenterOnContent moves a group's origin to the centre of its part children
// without moving them in world space. Non-part children such as handles keep
// their local offsets and so follow the new origin.
func CenterOnContent(group *Node) {
	box, ok := ContentBounds(group)
	if !ok {
		return
	}

	localCenter := mgl32.TransformCoordinate(box.Center(), group.World().Inv())
	parentWorld := mgl32.Ident4()
	if group.parent != nil {
		parentWorld = group.parent.World()
	}
	group.Position = mgl32.TransformCoordinate(box.Center(), parentWorld.Inv())
	for _, c := range group.children {
		if c.Kind == KindPart {
			c.Position = c.Position.Sub(localCenter)
		}
	}
}

// Intersect tests r against a single node: triangles when it has a mesh,
// otherwise its pick extent.
func Intersect(r picking.Ray, n *Node) (picking.Hit, bool) {
	if !n.Mesh.IsEmpty() {
		return r.IntersectMesh(n.Mesh, n.World())
	}
	box, ok := WorldBounds(n)
	if !ok {
		return picking.Hit{}, false
	}
	t, hit := r.IntersectAABB(box)
	if !hit {
		return picking.Hit{}, false
	}
	return picking.Hit{Distance: t, Point: r.At(t)}, true
}

// IntersectParts returns the nearest visible part under r among n and its
// descendants.
func IntersectParts(r picking.Ray, n *Node) (*Node, picking.Hit, bool) {
	var (
		best    *Node
		bestHit picking.Hit
	)
	n.Walk(func(c *Node) bool {
		if !c.Visible {
			return false
		}
		if c.Kind != KindPart && c.Kind != KindBase {
			return true
		}
		if h, ok := Intersect(r, c); ok && (best == nil || h.Distance < bestHit.Distance) {
			best, bestHit = c, h
		}
		return true
	})
	return best, bestHit, best != nil
}
