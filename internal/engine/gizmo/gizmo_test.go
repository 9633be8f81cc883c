package gizmo

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tekalign/internal/engine/picking"
	"github.com/Faultbox/tekalign/internal/engine/scene"
)

// rayAt returns a ray shot down -Z through (x, y).
func rayAt(x, y float32) picking.Ray {
	return picking.Ray{Origin: mgl32.Vec3{x, y, 100}, Direction: mgl32.Vec3{0, 0, -1}}
}

func TestAttachDetach(t *testing.T) {
	g := New(10)
	a := scene.NewNode("a", scene.KindGroup)
	b := scene.NewNode("b", scene.KindGroup)

	assert.Nil(t, g.Object())
	g.Detach()

	g.Attach(a)
	assert.Same(t, a, g.Object())
	g.Attach(b)
	assert.Same(t, b, g.Object())
	g.Detach()
	assert.Nil(t, g.Object())
}

func TestPickAxis(t *testing.T) {
	g := New(10)
	n := scene.NewNode("g", scene.KindGroup)
	g.Attach(n)

	assert.Equal(t, 0, g.PickAxis(rayAt(5, 0)))
	assert.Equal(t, 1, g.PickAxis(rayAt(0, 5)))
	assert.Equal(t, NoAxis, g.PickAxis(rayAt(5, 5)))
	assert.Equal(t, NoAxis, g.PickAxis(rayAt(20, 0)), "beyond axis length")

	g.ShowAxes(false, true, true)
	assert.Equal(t, NoAxis, g.PickAxis(rayAt(5, 0)), "hidden axis")

	g.ShowAxes(true, true, true)
	g.SetEnabled(false)
	assert.Equal(t, NoAxis, g.PickAxis(rayAt(5, 0)), "disabled")
}

func TestTranslateDrag(t *testing.T) {
	g := New(10)
	n := scene.NewNode("g", scene.KindGroup)
	g.Attach(n)

	var events []bool
	g.OnDraggingChanged(func(d bool) { events = append(events, d) })

	require.True(t, g.BeginDrag(rayAt(5, 0)))
	assert.True(t, g.Dragging())
	g.DragTo(rayAt(8, 3))
	assert.InDelta(t, 3, n.Position.X(), 1e-4)
	assert.InDelta(t, 0, n.Position.Y(), 1e-4)
	g.EndDrag()

	assert.False(t, g.Dragging())
	assert.Equal(t, []bool{true, false}, events)
}

func TestScaleDrag(t *testing.T) {
	g := New(10)
	g.SetMode(ModeScale)
	n := scene.NewNode("g", scene.KindGroup)
	g.Attach(n)

	require.True(t, g.BeginDrag(rayAt(0, 5)))
	g.DragTo(rayAt(0, 10))
	g.EndDrag()
	assert.InDelta(t, 1, n.Scale.X(), 1e-4)
	assert.InDelta(t, 1.5, n.Scale.Y(), 1e-4)
}

func TestRotateDrag(t *testing.T) {
	g := New(10)
	g.SetMode(ModeRotate)
	n := scene.NewNode("g", scene.KindGroup)
	g.Attach(n)

	require.True(t, g.BeginDrag(rayAt(5, 0)))
	g.DragTo(rayAt(9, 0))
	g.EndDrag()
	assert.False(t, n.Rotation.ApproxEqualThreshold(mgl32.QuatIdent(), 1e-4))
	assert.InDelta(t, 1, n.Rotation.Len(), 1e-4)
}

func TestDetachEndsDrag(t *testing.T) {
	g := New(10)
	n := scene.NewNode("g", scene.KindGroup)
	g.Attach(n)

	var last bool
	g.OnDraggingChanged(func(d bool) { last = d })
	require.True(t, g.BeginDrag(rayAt(5, 0)))
	assert.True(t, last)

	g.Detach()
	assert.False(t, g.Dragging())
	assert.False(t, last)
}

func TestBeginDragMiss(t *testing.T) {
	g := New(10)
	assert.False(t, g.BeginDrag(rayAt(5, 0)), "nothing attached")
	g.Attach(scene.NewNode("g", scene.KindGroup))
	assert.False(t, g.BeginDrag(rayAt(30, 30)))
	assert.False(t, g.Dragging())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "translate", ModeTranslate.String())
	assert.Equal(t, "rotate", ModeRotate.String())
	assert.Equal(t, "scale", ModeScale.String())
}
