// Package scene implements the node hierarchy the editor manipulates.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tekalign/internal/engine/mesh"
)

// Kind tells the editor what a node stands for.
type Kind int

const (
	KindRoot Kind = iota
	KindBase
	KindGroup
	KindPart
	KindHandle
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindBase:
		return "base"
	case KindGroup:
		return "group"
	case KindPart:
		return "part"
	case KindHandle:
		return "handle"
	}
	return "unknown"
}

// Axis unit vectors.
var (
	AxisX = mgl32.Vec3{1, 0, 0}
	AxisY = mgl32.Vec3{0, 1, 0}
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// Node is one element of the scene tree. Transform fields are local to the
// parent; World composes the chain.
type Node struct {
	Name     string
	Kind     Kind
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Visible  bool

	Mesh    *mesh.Mesh
	Color   mgl32.Vec3
	Texture string

	// Extent is the local pick box for nodes drawn as billboards.
	Extent mgl32.Vec3

	parent   *Node
	children []*Node
}

// NewNode creates a visible node with an identity transform.
func NewNode(name string, kind Kind) *Node {
	return &Node{
		Name:     name,
		Kind:     kind,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Visible:  true,
		Color:    mgl32.Vec3{1, 1, 1},
	}
}

// Parent returns the parent node, or nil for detached nodes and the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the child list. Callers must not modify it.
func (n *Node) Children() []*Node {
	return n.children
}

// Add appends child keeping its local transform, re-parenting if needed.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child. It reports false when child is not a direct child.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Attach re-parents child under n while preserving its world transform.
func (n *Node) Attach(child *Node) {
	if child == nil || child == n {
		return
	}
	world := child.World()
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.setMatrix(n.World().Inv().Mul4(world))
	child.parent = n
	n.children = append(n.children, child)
}

// FindChild returns the first direct child with the given name.
func (n *Node) FindChild(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Local returns the local transform matrix (T * R * S).
func (n *Node) Local() mgl32.Mat4 {
	return mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2]).
		Mul4(n.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
}

// World returns the world transform matrix.
func (n *Node) World() mgl32.Mat4 {
	m := n.Local()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Local().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.World().Col(3).Vec3()
}

// RotateOnAxis rotates the node about a local axis. The axis is normalized.
func (n *Node) RotateOnAxis(axis mgl32.Vec3, angle float32) {
	if axis.Len() == 0 {
		return
	}
	n.Rotation = n.Rotation.Mul(mgl32.QuatRotate(angle, axis.Normalize())).Normalize()
}

// RotateX rotates about the local X axis.
func (n *Node) RotateX(angle float32) { n.RotateOnAxis(AxisX, angle) }

// RotateY rotates about the local Y axis.
func (n *Node) RotateY(angle float32) { n.RotateOnAxis(AxisY, angle) }

// RotateZ rotates about the local Z axis.
func (n *Node) RotateZ(angle float32) { n.RotateOnAxis(AxisZ, angle) }

// SetEuler sets the rotation from XYZ-ordered euler angles in radians.
func (n *Node) SetEuler(x, y, z float32) {
	n.Rotation = EulerXYZ(x, y, z)
}

// EulerXYZ composes X, then Y, then Z rotations (matrix Rx * Ry * Rz).
func EulerXYZ(x, y, z float32) mgl32.Quat {
	return mgl32.QuatRotate(x, AxisX).
		Mul(mgl32.QuatRotate(y, AxisY)).
		Mul(mgl32.QuatRotate(z, AxisZ)).
		Normalize()
}

// setMatrix decomposes m into position, rotation and scale. Shear is lost.
func (n *Node) setMatrix(m mgl32.Mat4) {
	n.Position = m.Col(3).Vec3()
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	n.Scale = mgl32.Vec3{sx, sy, sz}

	var r mgl32.Mat4
	if sx != 0 {
		r.SetCol(0, m.Col(0).Mul(1/sx))
	}
	if sy != 0 {
		r.SetCol(1, m.Col(1).Mul(1/sy))
	}
	if sz != 0 {
		r.SetCol(2, m.Col(2).Mul(1/sz))
	}
	r.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	n.Rotation = mgl32.Mat4ToQuat(r).Normalize()
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// EffectivelyVisible reports whether n and all its ancestors are visible.
func (n *Node) EffectivelyVisible() bool {
	for p := n; p != nil; p = p.parent {
		if !p.Visible {
			return false
		}
	}
	return true
}
