package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func newTestCamera() *Camera {
	c := New(30, 10, 100000, 1400, 1400)
	c.Position = mgl32.Vec3{0, 0, 350}
	return c
}

func TestForwardAndAspect(t *testing.T) {
	c := newTestCamera()
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, c.Forward())
	assert.Equal(t, float32(1), c.Aspect())

	c.SetViewport(1600, 800)
	assert.Equal(t, float32(2), c.Aspect())

	// Invalid sizes are ignored
	c.SetViewport(0, 10)
	assert.Equal(t, float32(2), c.Aspect())

	c.Target = c.Position
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, c.Forward())
}

func TestRayThroughCentre(t *testing.T) {
	c := newTestCamera()
	r := c.Ray(700, 700)
	assert.True(t, r.Direction.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4))

	// Unprojecting the centre of the near plane lands on the axis
	p := c.Unproject(mgl32.Vec3{0, 0, -1})
	assert.InDelta(t, 0, p.X(), 1e-3)
	assert.InDelta(t, 340, p.Z(), 1e-2)
}

func TestOrbitDerivesState(t *testing.T) {
	c := newTestCamera()
	o := NewOrbitControls(c)
	assert.InDelta(t, 350, o.Distance, 1e-4)
	assert.InDelta(t, 0, o.Pitch, 1e-6)
	assert.InDelta(t, 0, o.Yaw, 1e-6)
}

func TestOrbitRotateRespectsFlags(t *testing.T) {
	c := newTestCamera()
	o := NewOrbitControls(c)

	o.SetRotateEnabled(false)
	o.PointerDown(ButtonLeft, 0, 0)
	o.PointerMove(50, 0)
	assert.Equal(t, mgl32.Vec3{0, 0, 350}, c.Position)

	o.SetRotateEnabled(true)
	o.PointerMove(100, 0)
	assert.NotEqual(t, mgl32.Vec3{0, 0, 350}, c.Position)
	assert.InDelta(t, 350, c.Position.Sub(c.Target).Len(), 1e-2)

	o.PointerUp()
	before := c.Position
	o.PointerMove(200, 0)
	assert.Equal(t, before, c.Position)
}

func TestOrbitDisabledIgnoresEverything(t *testing.T) {
	c := newTestCamera()
	o := NewOrbitControls(c)
	o.SetEnabled(false)

	o.PointerDown(ButtonLeft, 0, 0)
	o.PointerMove(50, 50)
	o.Wheel(1)
	assert.Equal(t, mgl32.Vec3{0, 0, 350}, c.Position)
	assert.False(t, o.Enabled())
}

func TestOrbitZoomClamps(t *testing.T) {
	c := newTestCamera()
	o := NewOrbitControls(c)

	for i := 0; i < 50; i++ {
		o.Wheel(1)
	}
	assert.Equal(t, float32(125), o.Distance)

	for i := 0; i < 50; i++ {
		o.Wheel(-1)
	}
	assert.Equal(t, float32(450), o.Distance)

	o.SetZoomEnabled(false)
	o.Wheel(1)
	assert.Equal(t, float32(450), o.Distance)
}

func TestOrbitPanMovesTarget(t *testing.T) {
	c := newTestCamera()
	o := NewOrbitControls(c)

	o.PointerDown(ButtonRight, 0, 0)
	o.PointerMove(10, 0)
	assert.Less(t, c.Target.X(), float32(0))
	assert.InDelta(t, 350, c.Position.Sub(c.Target).Len(), 1e-2)

	o.SetPanEnabled(false)
	before := c.Target
	o.PointerMove(30, 0)
	assert.Equal(t, before, c.Target)
}

func TestBillboardFacesCamera(t *testing.T) {
	c := newTestCamera()
	c.Position = mgl32.Vec3{200, 150, 250}
	view := c.View()
	p := mgl32.Vec3{3, 4, 5}

	m := Billboard(p, view)
	assert.True(t, m.Col(3).Vec3().ApproxEqualThreshold(p, 1e-4), "placed at p, got %v", m.Col(3))

	mv := view.Mul4(m)
	assert.True(t, mv.Mat3().ApproxEqualThreshold(mgl32.Ident3(), 1e-4), "no rotation left in view space, got %v", mv.Mat3())

	// The local +Z face points at the eye.
	normal := mgl32.TransformNormal(mgl32.Vec3{0, 0, 1}, m).Normalize()
	toEye := c.Position.Sub(p).Normalize()
	assert.InDelta(t, 1, normal.Dot(toEye), 0.05)
}
