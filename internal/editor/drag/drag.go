// Package drag turns pointer sequences into handle rotations and whole-group
// moves.
//
// Every group has its own state: at most one direction is active per group
// and the state exists only while a button is held.
package drag

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/tekalign/internal/editor/handles"
	"github.com/Faultbox/tekalign/internal/engine/picking"
	"github.com/Faultbox/tekalign/internal/engine/scene"
	"github.com/Faultbox/tekalign/internal/logger"
)

// Direction is the active grab of a group.
type Direction int

const (
	None Direction = iota
	Top
	Bottom
	Right
	Left
	Group
)

func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Right:
		return "right"
	case Left:
		return "left"
	case Group:
		return "group"
	}
	return "none"
}

func directionOf(r handles.Role) Direction {
	switch r {
	case handles.RoleTop:
		return Top
	case handles.RoleBottom:
		return Bottom
	case handles.RoleRight:
		return Right
	}
	return Left
}

// Orbit is the subset of camera orbit controls the machine suppresses while
// it owns the pointer.
type Orbit interface {
	SetRotateEnabled(bool)
	SetPanEnabled(bool)
}

// Viewer is the camera access the machine needs.
type Viewer interface {
	Eye() mgl32.Vec3
	Unproject(ndc mgl32.Vec3) mgl32.Vec3
	NDC(x, y float32) (float32, float32)
	Ray(x, y float32) picking.Ray
}

// Groups lists the groups that can be grabbed.
type Groups interface {
	All() []*scene.Node
}

// Params holds the tuned drag constants.
type Params struct {
	// TiltDivisor scales camera position components into the top/bottom
	// rotation increment.
	TiltDivisor float32
	// SpinSpeed is radians per pixel for left/right handles.
	SpinSpeed float32
	// GroupMoveScale scales the unprojected offset of a group drag.
	GroupMoveScale float32
	// UnprojectScale multiplies the pointer NDC before unprojection.
	UnprojectScale [2]float32
}

// DefaultParams returns the tuned constants.
func DefaultParams() Params {
	return Params{
		TiltDivisor:    17500,
		SpinSpeed:      0.01,
		GroupMoveScale: 0.085,
		UnprojectScale: [2]float32{210, 205},
	}
}

type state struct {
	dir   Direction
	lastX float32
	lastY float32
}

// Machine is the drag state machine. It runs on the UI goroutine.
type Machine struct {
	params Params
	orbit  Orbit
	view   Viewer
	groups Groups

	states       map[*scene.Node]*state
	beingDragged bool
	moved        bool
	released     bool

	log *zap.Logger
}

// New creates a machine over the given groups.
func New(p Params, orbit Orbit, view Viewer, groups Groups) *Machine {
	return &Machine{
		params: p,
		orbit:  orbit,
		view:   view,
		groups: groups,
		states: make(map[*scene.Node]*state),
		log:    logger.Named("drag"),
	}
}

func (m *Machine) state(g *scene.Node) *state {
	s, ok := m.states[g]
	if !ok {
		s = &state{}
		m.states[g] = s
	}
	return s
}

// Direction returns the active direction for group.
func (m *Machine) Direction(g *scene.Node) Direction {
	if s, ok := m.states[g]; ok {
		return s.dir
	}
	return None
}

// Active reports whether any group is grabbed.
func (m *Machine) Active() bool {
	for _, s := range m.states {
		if s.dir != None {
			return true
		}
	}
	return false
}

// BeingDragged reports whether a whole group is being moved.
func (m *Machine) BeingDragged() bool {
	return m.beingDragged
}

// ConsumeRelease reports whether the last pointer-up ended a grab that moved
// something and clears the flag. Callers use it to swallow the click that
// follows a drag.
func (m *Machine) ConsumeRelease() bool {
	r := m.released
	m.released = false
	return r
}

// Forget drops the state of a removed group.
func (m *Machine) Forget(g *scene.Node) {
	delete(m.states, g)
}

// LastPointer returns the last pointer sample recorded for group.
func (m *Machine) LastPointer(g *scene.Node) (x, y float32) {
	s := m.state(g)
	return s.lastX, s.lastY
}

// Body returns the group's grab target: its first part child, which is the
// core because it is attached before any wing is requested.
func Body(g *scene.Node) *scene.Node {
	for _, c := range g.Children() {
		if c.Kind == scene.KindPart {
			return c
		}
	}
	return nil
}

type grab struct {
	group *scene.Node
	dir   Direction
	dist  float32
}

// pick returns the nearest visible handle or group body under the pointer.
func (m *Machine) pick(x, y float32) (grab, bool) {
	r := m.view.Ray(x, y)
	var best grab
	found := false
	consider := func(g *scene.Node, d Direction, n *scene.Node) {
		if n == nil || !n.EffectivelyVisible() {
			return
		}
		hit, ok := scene.Intersect(r, n)
		if !ok {
			return
		}
		if !found || hit.Distance < best.dist {
			best = grab{group: g, dir: d, dist: hit.Distance}
			found = true
		}
	}
	for _, g := range m.groups.All() {
		for _, role := range handles.Roles {
			consider(g, directionOf(role), handles.Find(g, role))
		}
		consider(g, Group, Body(g))
	}
	return best, found
}

// hoveringHandle reports whether a visible handle is under the pointer.
func (m *Machine) hoveringHandle(x, y float32) bool {
	g, ok := m.pick(x, y)
	return ok && g.dir != Group
}

// PointerDown grabs the handle or group under the pointer and reports whether
// anything was grabbed.
func (m *Machine) PointerDown(x, y float32) bool {
	defer m.record(x, y)
	m.released = false
	m.moved = false

	g, ok := m.pick(x, y)
	if !ok {
		return false
	}
	m.state(g.group).dir = g.dir
	m.orbit.SetRotateEnabled(false)
	if g.dir == Group {
		m.beingDragged = true
		m.orbit.SetPanEnabled(false)
	}
	m.log.Debug("drag start", zap.String("group", g.group.Name), zap.Stringer("direction", g.dir))
	return true
}

// PointerMove applies the active grabs for a motion sample.
func (m *Machine) PointerMove(x, y float32) {
	defer m.record(x, y)

	if !m.Active() {
		if m.hoveringHandle(x, y) {
			m.orbit.SetRotateEnabled(false)
		}
		return
	}

	m.moved = true
	moving := false
	for _, g := range m.groups.All() {
		if m.Direction(g) == Group {
			m.moveGroup(g, x, y)
			moving = true
		}
	}
	if moving {
		return
	}

	eye := m.view.Eye()
	tiltX := eye.X() / m.params.TiltDivisor
	tiltZ := eye.Z() / m.params.TiltDivisor
	for _, g := range m.groups.All() {
		s := m.state(g)
		switch s.dir {
		case Top:
			if s.lastX > x {
				g.RotateX(tiltX)
				g.RotateZ(tiltZ)
			} else {
				g.RotateX(-tiltX)
				g.RotateZ(-tiltZ)
			}
		case Bottom:
			if s.lastX > x {
				g.RotateX(-tiltX)
				g.RotateZ(-tiltZ)
			} else {
				g.RotateZ(tiltZ)
				g.RotateX(tiltX)
			}
		case Left:
			g.RotateY((x - s.lastX) * m.params.SpinSpeed)
		case Right:
			g.RotateY(-(x - s.lastX) * m.params.SpinSpeed)
		}
	}
}

// moveGroup sets the group position from the unprojected pointer. Each sample
// derives an absolute position; nothing accumulates.
func (m *Machine) moveGroup(g *scene.Node, x, y float32) {
	nx, ny := m.view.NDC(x, y)
	world := m.view.Unproject(mgl32.Vec3{
		nx * m.params.UnprojectScale[0],
		ny * m.params.UnprojectScale[1],
		0,
	})
	g.Position = world.Sub(g.Position).Mul(m.params.GroupMoveScale)
}

// PointerUp releases every grab and restores orbit rotation and panning.
func (m *Machine) PointerUp(x, y float32) {
	defer m.record(x, y)
	m.release()
}

// PointerLeave force-releases when the pointer exits the surface, since no
// pointer-up is guaranteed to follow.
func (m *Machine) PointerLeave() {
	m.release()
}

func (m *Machine) release() {
	wasActive := m.Active()
	for _, s := range m.states {
		s.dir = None
	}
	m.beingDragged = false
	m.orbit.SetRotateEnabled(true)
	m.orbit.SetPanEnabled(true)
	if wasActive {
		m.released = m.moved
		m.log.Debug("drag stop", zap.Bool("moved", m.moved))
	}
	m.moved = false
}

func (m *Machine) record(x, y float32) {
	for _, g := range m.groups.All() {
		s := m.state(g)
		s.lastX, s.lastY = x, y
	}
}
