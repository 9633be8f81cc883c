package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tekalign/internal/engine/mesh"
	"github.com/Faultbox/tekalign/internal/engine/picking"
)

func unitTriangle() *mesh.Mesh {
	return mesh.New([]mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {0, 1, 0}})
}

func TestAttachPreservesWorld(t *testing.T) {
	s := New()
	group := NewNode("group", KindGroup)
	group.Position = mgl32.Vec3{5, 0, 0}
	group.RotateOnAxis(mgl32.Vec3{0, 1, 1.5}, 0.1)
	s.Add(group)

	part := NewNode("core", KindPart)
	part.Position = mgl32.Vec3{1, 2, 3}
	part.SetEuler(-0.1, 0, 1.65)
	before := part.World()

	group.Attach(part)

	require.Same(t, group, part.Parent())
	assert.True(t, part.World().ApproxEqualThreshold(before, 1e-4), "world changed:\n%v\n%v", before, part.World())
	assert.False(t, part.Position.ApproxEqual(mgl32.Vec3{1, 2, 3}), "local position should be re-expressed")
}

func TestAddKeepsLocal(t *testing.T) {
	group := NewNode("group", KindGroup)
	group.Position = mgl32.Vec3{5, 0, 0}

	h := NewNode("pointTop", KindHandle)
	h.Position = mgl32.Vec3{0.9, 8, -0.8}
	group.Add(h)

	assert.Equal(t, mgl32.Vec3{0.9, 8, -0.8}, h.Position)
	assert.True(t, h.WorldPosition().ApproxEqual(mgl32.Vec3{5.9, 8, -0.8}))
	assert.Same(t, h, group.FindChild("pointTop"))
	assert.Nil(t, group.FindChild("pointLeft"))
}

func TestReparentMovesChild(t *testing.T) {
	a := NewNode("a", KindGroup)
	b := NewNode("b", KindGroup)
	c := NewNode("c", KindPart)

	a.Add(c)
	b.Add(c)

	assert.Empty(t, a.Children())
	assert.Len(t, b.Children(), 1)
	assert.False(t, a.Remove(c))
}

func TestSceneGroupsAndRemove(t *testing.T) {
	s := New()
	base := NewNode("base", KindBase)
	g1 := NewNode("g1", KindGroup)
	g2 := NewNode("g2", KindGroup)
	s.Add(base)
	s.Add(g1)
	s.Add(g2)

	assert.Equal(t, []*Node{g1, g2}, s.Groups())
	assert.True(t, s.Contains(g1))

	assert.True(t, s.Remove(g1))
	assert.False(t, s.Remove(g1))
	assert.False(t, s.Remove(nil))
	assert.Equal(t, []*Node{g2}, s.Groups())
	assert.Equal(t, 3, s.Len())
}

func TestLocalRotations(t *testing.T) {
	n := NewNode("n", KindGroup)
	n.RotateX(0.3)
	n.RotateZ(0.2)

	want := mgl32.QuatRotate(0.3, AxisX).Mul(mgl32.QuatRotate(0.2, AxisZ))
	assert.True(t, n.Rotation.ApproxEqualThreshold(want, 1e-5))

	// Zero axis is ignored
	n.RotateOnAxis(mgl32.Vec3{}, 1)
	assert.True(t, n.Rotation.ApproxEqualThreshold(want, 1e-5))
}

func TestEulerXYZMatchesMatrixOrder(t *testing.T) {
	q := EulerXYZ(-0.1, 0.2, 1.65)
	m := mgl32.HomogRotate3DX(-0.1).Mul4(mgl32.HomogRotate3DY(0.2)).Mul4(mgl32.HomogRotate3DZ(1.65))
	assert.True(t, q.Mat4().ApproxEqualThreshold(m, 1e-5))
}

func TestCenterOnContent(t *testing.T) {
	s := New()
	group := NewNode("group", KindGroup)
	s.Add(group)

	core := NewNode("core", KindPart)
	core.Mesh = unitTriangle()
	core.Position = mgl32.Vec3{20, 10, 0}
	group.Add(core)

	handle := NewNode("pointTop", KindHandle)
	handle.Position = mgl32.Vec3{0.9, 8, -0.8}
	group.Add(handle)

	before := core.WorldPosition()
	CenterOnContent(group)

	assert.True(t, core.WorldPosition().ApproxEqualThreshold(before, 1e-4))
	assert.True(t, group.Position.ApproxEqualThreshold(mgl32.Vec3{20, 10, 0}, 1e-4), "group at %v", group.Position)
	// Handle keeps its offset relative to the new origin
	assert.Equal(t, mgl32.Vec3{0.9, 8, -0.8}, handle.Position)
	assert.True(t, handle.WorldPosition().ApproxEqualThreshold(mgl32.Vec3{20.9, 18, -0.8}, 1e-4))
}

func TestCenterOnContentWithoutParts(t *testing.T) {
	group := NewNode("group", KindGroup)
	group.Position = mgl32.Vec3{1, 1, 1}
	CenterOnContent(group)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, group.Position)
}

func TestWorldBoundsFromExtent(t *testing.T) {
	h := NewNode("pointRight", KindHandle)
	h.Position = mgl32.Vec3{8, -0.5, 0}
	h.Extent = mgl32.Vec3{3, 1.4, 1}

	box, ok := WorldBounds(h)
	require.True(t, ok)
	assert.InDelta(t, 6.5, box.Min.X(), 1e-5)
	assert.InDelta(t, 9.5, box.Max.X(), 1e-5)

	_, ok = WorldBounds(NewNode("empty", KindPart))
	assert.False(t, ok)
}

func TestEffectivelyVisible(t *testing.T) {
	g := NewNode("g", KindGroup)
	p := NewNode("p", KindPart)
	g.Add(p)

	assert.True(t, p.EffectivelyVisible())
	g.Visible = false
	assert.False(t, p.EffectivelyVisible())
}

func TestIntersectPartsSkipsHidden(t *testing.T) {
	s := New()
	g := NewNode("g", KindGroup)
	s.Add(g)

	near := NewNode("near", KindPart)
	near.Extent = mgl32.Vec3{2, 2, 2}
	near.Position = mgl32.Vec3{0, 0, 10}
	far := NewNode("far", KindPart)
	far.Extent = mgl32.Vec3{2, 2, 2}
	g.Add(near)
	g.Add(far)

	r := picking.Ray{Origin: mgl32.Vec3{0, 0, 100}, Direction: mgl32.Vec3{0, 0, -1}}
	hit, _, ok := IntersectParts(r, s.Root())
	require.True(t, ok)
	assert.Same(t, near, hit)

	near.Visible = false
	hit, _, ok = IntersectParts(r, s.Root())
	require.True(t, ok)
	assert.Same(t, far, hit)

	g.Visible = false
	_, _, ok = IntersectParts(r, s.Root())
	assert.False(t, ok)
}
