package drag

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tekalign/internal/editor/handles"
	"github.com/Faultbox/tekalign/internal/engine/picking"
	"github.com/Faultbox/tekalign/internal/engine/scene"
)

type fakeOrbit struct {
	rotate, pan bool
}

func (o *fakeOrbit) SetRotateEnabled(v bool) { o.rotate = v }
func (o *fakeOrbit) SetPanEnabled(v bool)    { o.pan = v }

// fakeView maps one pixel to one world unit and shoots rays down -Z.
type fakeView struct {
	eye mgl32.Vec3
}

func (v *fakeView) Eye() mgl32.Vec3                     { return v.eye }
func (v *fakeView) Unproject(ndc mgl32.Vec3) mgl32.Vec3 { return ndc }
func (v *fakeView) NDC(x, y float32) (float32, float32) { return x / 100, y / 100 }
func (v *fakeView) Ray(x, y float32) picking.Ray {
	return picking.Ray{Origin: mgl32.Vec3{x, y, 100}, Direction: mgl32.Vec3{0, 0, -1}}
}

type groupList []*scene.Node

func (l groupList) All() []*scene.Node { return l }

func newGroup(t *testing.T) *scene.Node {
	t.Helper()
	g := scene.NewNode("group", scene.KindGroup)
	core := scene.NewNode("core", scene.KindPart)
	core.Extent = mgl32.Vec3{4, 4, 4}
	g.Add(core)
	require.Equal(t, 4, handles.NewManager(handles.DefaultBands(), nil).Ensure(g))
	return g
}

func setup(t *testing.T) (*Machine, *scene.Node, *fakeOrbit, *fakeView) {
	t.Helper()
	g := newGroup(t)
	o := &fakeOrbit{rotate: true, pan: true}
	v := &fakeView{eye: mgl32.Vec3{35, 0, 350}}
	return New(DefaultParams(), o, v, groupList{g}), g, o, v
}

func rotation(steps ...mgl32.Quat) mgl32.Quat {
	q := mgl32.QuatIdent()
	for _, s := range steps {
		q = q.Mul(s)
	}
	return q.Normalize()
}

func rx(a float32) mgl32.Quat { return mgl32.QuatRotate(a, scene.AxisX) }
func ry(a float32) mgl32.Quat { return mgl32.QuatRotate(a, scene.AxisY) }
func rz(a float32) mgl32.Quat { return mgl32.QuatRotate(a, scene.AxisZ) }

func TestTopHandleSign(t *testing.T) {
	const tx, tz = float32(35) / 17500, float32(350) / 17500

	tests := []struct {
		name string
		toX  float32
		want mgl32.Quat
	}{
		{"pointer moves left", -49, rotation(rx(tx), rz(tz))},
		{"pointer moves right", 51, rotation(rx(-tx), rz(-tz))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, g, o, _ := setup(t)
			require.True(t, m.PointerDown(1, 8))
			assert.Equal(t, Top, m.Direction(g))
			assert.False(t, o.rotate)

			m.PointerMove(tt.toX, 8)
			assert.True(t, g.Rotation.ApproxEqualThreshold(tt.want, 1e-5), "got %v want %v", g.Rotation, tt.want)
		})
	}
}

func TestTopSignsAreOpposite(t *testing.T) {
	left, gl, _, _ := setup(t)
	left.PointerDown(1, 8)
	left.PointerMove(-49, 8)

	right, gr, _, _ := setup(t)
	right.PointerDown(1, 8)
	right.PointerMove(51, 8)

	// Rotating back by the opposite increment restores identity.
	assert.True(t, gl.Rotation.Mul(gr.Rotation).ApproxEqualThreshold(mgl32.QuatIdent(), 1e-4) ||
		gr.Rotation.Mul(gl.Rotation).ApproxEqualThreshold(mgl32.QuatIdent(), 1e-4))
}

func TestBottomHandleFlipped(t *testing.T) {
	const tx, tz = float32(35) / 17500, float32(350) / 17500

	m, g, _, _ := setup(t)
	require.True(t, m.PointerDown(-0.2, -8))
	assert.Equal(t, Bottom, m.Direction(g))
	m.PointerMove(-50, -8)
	assert.True(t, g.Rotation.ApproxEqualThreshold(rotation(rx(-tx), rz(-tz)), 1e-5))

	m2, g2, _, _ := setup(t)
	require.True(t, m2.PointerDown(-0.2, -8))
	m2.PointerMove(50, -8)
	assert.True(t, g2.Rotation.ApproxEqualThreshold(rotation(rz(tz), rx(tx)), 1e-5))
}

func TestLeftRightSpin(t *testing.T) {
	tests := []struct {
		name         string
		downX, downY float32
		dir          Direction
		want         float32
	}{
		{"left", -8, 0.5, Left, 0.3},
		{"right", 8, -0.5, Right, -0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, g, _, _ := setup(t)
			require.True(t, m.PointerDown(tt.downX, tt.downY))
			assert.Equal(t, tt.dir, m.Direction(g))

			m.PointerMove(tt.downX+10, tt.downY)
			m.PointerMove(tt.downX+30, tt.downY)
			assert.True(t, g.Rotation.ApproxEqualThreshold(ry(tt.want), 1e-5), "got %v", g.Rotation)
		})
	}
}

func TestGroupDragSetsAbsolutePosition(t *testing.T) {
	m, g, o, _ := setup(t)
	require.True(t, m.PointerDown(0, 0))
	assert.Equal(t, Group, m.Direction(g))
	assert.True(t, m.BeingDragged())
	assert.False(t, o.rotate)
	assert.False(t, o.pan)

	m.PointerMove(50, 20)
	world := mgl32.Vec3{0.5 * 210, 0.2 * 205, 0}
	first := world.Mul(0.085)
	assert.True(t, g.Position.ApproxEqualThreshold(first, 1e-4), "got %v", g.Position)

	m.PointerMove(50, 20)
	second := world.Sub(first).Mul(0.085)
	assert.True(t, g.Position.ApproxEqualThreshold(second, 1e-4), "got %v", g.Position)
	assert.True(t, g.Rotation.ApproxEqualThreshold(mgl32.QuatIdent(), 1e-6), "group moves do not rotate")
}

func TestReleaseClearsEverything(t *testing.T) {
	release := map[string]func(m *Machine){
		"pointer up":    func(m *Machine) { m.PointerUp(5, 5) },
		"pointer leave": func(m *Machine) { m.PointerLeave() },
	}
	for name, fn := range release {
		t.Run(name, func(t *testing.T) {
			m, g, o, _ := setup(t)
			require.True(t, m.PointerDown(0, 0))
			m.PointerMove(10, 10)

			fn(m)
			assert.Equal(t, None, m.Direction(g))
			assert.False(t, m.Active())
			assert.False(t, m.BeingDragged())
			assert.True(t, o.rotate)
			assert.True(t, o.pan)
			assert.True(t, m.ConsumeRelease())
			assert.False(t, m.ConsumeRelease())

			before := g.Position
			m.PointerMove(40, 40)
			assert.Equal(t, before, g.Position)
		})
	}
}

func TestPointerDownMiss(t *testing.T) {
	m, g, o, _ := setup(t)
	assert.False(t, m.PointerDown(500, 500))
	assert.Equal(t, None, m.Direction(g))
	assert.True(t, o.rotate)

	m.PointerUp(500, 500)
	assert.False(t, m.ConsumeRelease(), "release without grab")
}

func TestHiddenHandleNotGrabbed(t *testing.T) {
	m, g, _, _ := setup(t)
	handles.Find(g, handles.RoleTop).Visible = false
	assert.False(t, m.PointerDown(1, 8))
}

func TestHoverDisablesOrbitRotate(t *testing.T) {
	m, _, o, _ := setup(t)
	m.PointerMove(200, 200)
	assert.True(t, o.rotate)
	m.PointerMove(1, 8)
	assert.False(t, o.rotate)
	m.PointerUp(1, 8)
	assert.True(t, o.rotate)
}

func TestLastPointerRecorded(t *testing.T) {
	m, g, _, _ := setup(t)
	m.PointerMove(12, 34)
	x, y := m.LastPointer(g)
	assert.Equal(t, float32(12), x)
	assert.Equal(t, float32(34), y)

	m.PointerDown(1, 8)
	x, y = m.LastPointer(g)
	assert.Equal(t, float32(1), x)
	assert.Equal(t, float32(8), y)
}

func TestBody(t *testing.T) {
	g := newGroup(t)
	b := Body(g)
	require.NotNil(t, b)
	assert.Equal(t, "core", b.Name)
	assert.Nil(t, Body(scene.NewNode("empty", scene.KindGroup)))
}

func TestGrabWithoutMotionKeepsClick(t *testing.T) {
	m, g, _, _ := setup(t)
	require.True(t, m.PointerDown(0, 0))
	m.PointerUp(0, 0)
	assert.False(t, m.ConsumeRelease())
	assert.Equal(t, mgl32.Vec3{}, g.Position)
}
