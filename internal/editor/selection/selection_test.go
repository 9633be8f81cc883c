package selection

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tekalign/internal/editor/registry"
	"github.com/Faultbox/tekalign/internal/engine/gizmo"
	"github.com/Faultbox/tekalign/internal/engine/picking"
	"github.com/Faultbox/tekalign/internal/engine/scene"
)

type fakeOrbit struct {
	enabled, zoom bool
}

func (o *fakeOrbit) SetEnabled(v bool)     { o.enabled = v }
func (o *fakeOrbit) SetZoomEnabled(v bool) { o.zoom = v }

type fixture struct {
	c     *Controller
	g     *gizmo.Gizmo
	orbit *fakeOrbit
	scene *scene.Scene
	reg   *registry.Registry
}

func newFixture() *fixture {
	f := &fixture{
		g:     gizmo.New(10),
		orbit: &fakeOrbit{enabled: true},
		scene: scene.New(),
		reg:   registry.New(),
	}
	f.c = New(f.g, f.orbit, f.scene, f.reg, DefaultBindings())
	return f
}

// addGroup registers a group with one 2x2x2 part centred at x.
func (f *fixture) addGroup(name string, x float32) *scene.Node {
	g := scene.NewNode(name, scene.KindGroup)
	g.Position = mgl32.Vec3{x, 0, 0}
	p := scene.NewNode("core", scene.KindPart)
	p.Extent = mgl32.Vec3{2, 2, 2}
	g.Add(p)
	f.scene.Add(g)
	f.reg.Register(g)
	return g
}

func rayAt(x, y float32) picking.Ray {
	return picking.Ray{Origin: mgl32.Vec3{x, y, 100}, Direction: mgl32.Vec3{0, 0, -1}}
}

func TestClickSelects(t *testing.T) {
	f := newFixture()
	a := f.addGroup("a", 0)
	b := f.addGroup("b", 20)

	f.c.Click(rayAt(0, 0), false)
	assert.Same(t, a, f.c.Selected())

	f.c.Click(rayAt(20, 0), false)
	assert.Same(t, b, f.c.Selected(), "reselect moves the single attachment")

	f.c.Click(rayAt(50, 50), false)
	assert.Nil(t, f.c.Selected())
	assert.True(t, f.orbit.zoom)
}

func TestClickSuppressed(t *testing.T) {
	f := newFixture()
	a := f.addGroup("a", 0)
	f.c.Select(a)

	f.c.Click(rayAt(50, 50), true)
	assert.Same(t, a, f.c.Selected())
}

func TestClickIgnoresUnregisteredAndHidden(t *testing.T) {
	f := newFixture()
	stray := scene.NewNode("stray", scene.KindGroup)
	p := scene.NewNode("core", scene.KindPart)
	p.Extent = mgl32.Vec3{2, 2, 2}
	stray.Add(p)
	f.scene.Add(stray)

	f.c.Click(rayAt(0, 0), false)
	assert.Nil(t, f.c.Selected())

	g := f.addGroup("g", 0)
	g.Children()[0].Visible = false
	f.c.Click(rayAt(0, 0), false)
	assert.Nil(t, f.c.Selected())
}

func TestRemove(t *testing.T) {
	f := newFixture()
	a := f.addGroup("a", 0)
	f.addGroup("b", 20)

	var removed *scene.Node
	f.c.OnRemoved = func(n *scene.Node) { removed = n }

	assert.False(t, f.c.Remove(), "nothing selected is a no-op")
	assert.Equal(t, 2, f.reg.Len())

	f.c.Select(a)
	assert.True(t, f.c.KeyDown("Delete"))
	assert.Nil(t, f.c.Selected())
	assert.False(t, f.scene.Contains(a))
	assert.Equal(t, 1, f.reg.Len())
	_, ok := f.reg.IDOf(a)
	assert.False(t, ok)
	assert.Same(t, a, removed)
}

func TestTools(t *testing.T) {
	f := newFixture()
	a := f.addGroup("a", 0)
	f.c.Select(a)

	require.True(t, f.c.KeyDown("E"))
	assert.Equal(t, ToolHandles, f.c.Tool())
	assert.False(t, f.g.Enabled())
	for i := 0; i < 3; i++ {
		assert.False(t, f.g.AxisVisible(i))
	}

	require.True(t, f.c.KeyDown("R"))
	assert.Equal(t, gizmo.ModeScale, f.g.Mode())
	assert.True(t, f.g.Enabled())

	require.True(t, f.c.KeyDown("W"))
	assert.Equal(t, gizmo.ModeTranslate, f.g.Mode())
	assert.True(t, f.g.AxisVisible(0))

	assert.False(t, f.c.KeyDown("Q"))
}

func TestGizmoDragSuppressesOrbit(t *testing.T) {
	f := newFixture()
	a := f.addGroup("a", 0)
	f.c.Select(a)

	require.True(t, f.g.BeginDrag(rayAt(5, 0)))
	assert.False(t, f.orbit.enabled)

	f.c.Click(rayAt(50, 50), false)
	assert.Same(t, a, f.c.Selected(), "click during gizmo drag ignored")

	f.g.EndDrag()
	assert.True(t, f.orbit.enabled)
}
