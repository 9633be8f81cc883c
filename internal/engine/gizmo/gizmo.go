// Package gizmo implements the transform widget that attaches to one node.
package gizmo

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tekalign/internal/engine/picking"
	"github.com/Faultbox/tekalign/internal/engine/scene"
)

// Mode selects what an axis drag does to the target.
type Mode int

const (
	ModeTranslate Mode = iota
	ModeRotate
	ModeScale
)

func (m Mode) String() string {
	switch m {
	case ModeTranslate:
		return "translate"
	case ModeRotate:
		return "rotate"
	case ModeScale:
		return "scale"
	}
	return "unknown"
}

// NoAxis is returned by PickAxis when no axis is under the ray.
const NoAxis = -1

var axes = [3]mgl32.Vec3{scene.AxisX, scene.AxisY, scene.AxisZ}

// Gizmo is a three-axis transform widget. At most one node is attached at a
// time; Attach always releases the previous target first.
type Gizmo struct {
	// Size is the axis length in world units. Hit tolerances scale with it.
	Size float32
	// RotateSpeed is radians per world unit dragged along an axis.
	RotateSpeed float32

	mode    Mode
	enabled bool
	show    [3]bool
	target  *scene.Node

	dragging   bool
	moved      bool
	dragAxis   int
	dragParam  float32
	startPos   mgl32.Vec3
	startRot   mgl32.Quat
	startScale mgl32.Vec3
	startWorld mgl32.Vec3
	startDir   mgl32.Vec3

	listeners []func(dragging bool)
}

// New creates an enabled translate gizmo with all axes shown.
func New(size float32) *Gizmo {
	return &Gizmo{
		Size:        size,
		RotateSpeed: 0.05,
		mode:        ModeTranslate,
		enabled:     true,
		show:        [3]bool{true, true, true},
		dragAxis:    NoAxis,
	}
}

// Attach binds the gizmo to n, ending any drag on the previous target.
func (g *Gizmo) Attach(n *scene.Node) {
	g.Detach()
	g.target = n
}

// Detach releases the current target. Detaching with nothing attached is a no-op.
func (g *Gizmo) Detach() {
	if g.dragging {
		g.EndDrag()
	}
	g.target = nil
}

// Object returns the attached node or nil.
func (g *Gizmo) Object() *scene.Node {
	return g.target
}

// Mode returns the active mode.
func (g *Gizmo) Mode() Mode {
	return g.mode
}

// SetMode switches the drag behaviour.
func (g *Gizmo) SetMode(m Mode) {
	g.mode = m
}

// Enabled reports whether axis drags are accepted.
func (g *Gizmo) Enabled() bool {
	return g.enabled
}

// SetEnabled toggles axis drags. Disabling mid-drag ends the drag.
func (g *Gizmo) SetEnabled(v bool) {
	g.enabled = v
	if !v && g.dragging {
		g.EndDrag()
	}
}

// ShowAxes sets per-axis visibility. Hidden axes cannot be picked.
func (g *Gizmo) ShowAxes(x, y, z bool) {
	g.show = [3]bool{x, y, z}
}

// AxisVisible reports whether axis i is shown.
func (g *Gizmo) AxisVisible(i int) bool {
	return i >= 0 && i < 3 && g.show[i]
}

// Dragging reports whether an axis drag is in progress.
func (g *Gizmo) Dragging() bool {
	return g.dragging
}

// OnDraggingChanged registers a listener called whenever a drag starts or ends.
func (g *Gizmo) OnDraggingChanged(fn func(dragging bool)) {
	g.listeners = append(g.listeners, fn)
}

func (g *Gizmo) notify() {
	for _, fn := range g.listeners {
		fn(g.dragging)
	}
}

// AxisDirection returns the world direction of axis i in the target's local space.
func (g *Gizmo) AxisDirection(i int) mgl32.Vec3 {
	if g.target == nil {
		return axes[i]
	}
	return mgl32.TransformNormal(axes[i], g.target.World()).Normalize()
}

// PickAxis returns the index of the shown axis nearest the ray, or NoAxis.
func (g *Gizmo) PickAxis(r picking.Ray) int {
	if g.target == nil || !g.enabled {
		return NoAxis
	}
	origin := g.target.WorldPosition()
	best := NoAxis
	bestDist := float32(gomath.MaxFloat32)
	for i := range axes {
		if !g.show[i] {
			continue
		}
		t, s, d := closestParams(r.Origin, r.Direction, origin, g.AxisDirection(i))
		if t > 0 && s >= 0 && s <= g.Size*1.1 && d < g.Size*0.12 && d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// BeginDrag starts dragging the axis under the ray. It reports false when
// nothing was picked.
func (g *Gizmo) BeginDrag(r picking.Ray) bool {
	axis := g.PickAxis(r)
	if axis == NoAxis {
		return false
	}
	g.startWorld = g.target.WorldPosition()
	g.startDir = g.AxisDirection(axis)
	_, s, _ := closestParams(r.Origin, r.Direction, g.startWorld, g.startDir)
	g.dragAxis = axis
	g.dragParam = s
	g.startPos = g.target.Position
	g.startRot = g.target.Rotation
	g.startScale = g.target.Scale
	g.dragging = true
	g.moved = false
	g.notify()
	return true
}

// DragTo applies the drag for the current ray.
func (g *Gizmo) DragTo(r picking.Ray) {
	if !g.dragging || g.target == nil {
		return
	}
	dir := g.startDir
	_, s, _ := closestParams(r.Origin, r.Direction, g.startWorld, dir)
	delta := s - g.dragParam
	if delta != 0 {
		g.moved = true
	}

	switch g.mode {
	case ModeTranslate:
		worldDelta := dir.Mul(delta)
		if p := g.target.Parent(); p != nil {
			worldDelta = mgl32.TransformNormal(worldDelta, p.World().Inv())
		}
		g.target.Position = g.startPos.Add(worldDelta)
	case ModeRotate:
		g.target.Rotation = g.startRot.Mul(mgl32.QuatRotate(delta*g.RotateSpeed, axes[g.dragAxis])).Normalize()
	case ModeScale:
		f := 1 + delta/g.Size
		if f < 0.01 {
			f = 0.01
		}
		scale := g.startScale
		scale[g.dragAxis] *= f
		g.target.Scale = scale
	}
}

// Moved reports whether the current or last drag changed the target. A press
// on an axis that is released in place leaves it false.
func (g *Gizmo) Moved() bool {
	return g.moved
}

// EndDrag finishes the current drag.
func (g *Gizmo) EndDrag() {
	if !g.dragging {
		return
	}
	g.dragging = false
	g.dragAxis = NoAxis
	g.notify()
}

// closestParams returns the parameters of the closest points between the
// lines o1+t*d1 and o2+s*d2 and the distance between those points.
func closestParams(o1, d1, o2, d2 mgl32.Vec3) (t, s, dist float32) {
	w0 := o1.Sub(o2)
	a := d1.Dot(d1)
	b := d1.Dot(d2)
	c := d2.Dot(d2)
	d := d1.Dot(w0)
	e := d2.Dot(w0)
	denom := a*c - b*b
	if denom > -1e-6 && denom < 1e-6 {
		return 0, 0, float32(gomath.MaxFloat32)
	}
	t = (b*e - c*d) / denom
	s = (a*e - b*d) / denom
	p1 := o1.Add(d1.Mul(t))
	p2 := o2.Add(d2.Mul(s))
	return t, s, p1.Sub(p2).Len()
}
