// Package selection attaches the transform gizmo to clicked groups and
// removes the selected group on request.
package selection

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tekalign/internal/editor/registry"
	"github.com/Faultbox/tekalign/internal/engine/gizmo"
	"github.com/Faultbox/tekalign/internal/engine/picking"
	"github.com/Faultbox/tekalign/internal/engine/scene"
	"github.com/Faultbox/tekalign/internal/logger"
)

// Gizmo is the transform widget driven by the controller.
type Gizmo interface {
	Attach(n *scene.Node)
	Detach()
	Object() *scene.Node
	Dragging() bool
	SetMode(m gizmo.Mode)
	SetEnabled(v bool)
	ShowAxes(x, y, z bool)
	OnDraggingChanged(fn func(dragging bool))
}

// Orbit is the subset of orbit controls the controller toggles.
type Orbit interface {
	SetEnabled(v bool)
	SetZoomEnabled(v bool)
}

// Tool is the active manipulation tool.
type Tool int

const (
	// ToolTranslate moves the selected group with the gizmo.
	ToolTranslate Tool = iota
	// ToolHandles hides the gizmo axes so the directional handles drive rotation.
	ToolHandles
	// ToolScale scales the selected group with the gizmo.
	ToolScale
)

func (t Tool) String() string {
	switch t {
	case ToolTranslate:
		return "translate"
	case ToolHandles:
		return "handles"
	case ToolScale:
		return "scale"
	}
	return "unknown"
}

// Bindings maps key names to actions.
type Bindings struct {
	Remove    []string
	Translate string
	Handles   string
	Scale     string
}

// DefaultBindings returns the stock bindings.
func DefaultBindings() Bindings {
	return Bindings{
		Remove:    []string{"Delete"},
		Translate: "W",
		Handles:   "E",
		Scale:     "R",
	}
}

// Controller owns gizmo attachment. Only one group is attached at a time.
type Controller struct {
	gizmo    Gizmo
	orbit    Orbit
	scene    *scene.Scene
	reg      *registry.Registry
	bindings Bindings
	tool     Tool

	// OnRemoved is called after a group has been removed.
	OnRemoved func(group *scene.Node)

	log *zap.Logger
}

// New creates a controller and links gizmo drags to orbit suppression.
func New(g Gizmo, o Orbit, s *scene.Scene, reg *registry.Registry, b Bindings) *Controller {
	c := &Controller{
		gizmo:    g,
		orbit:    o,
		scene:    s,
		reg:      reg,
		bindings: b,
		log:      logger.Named("selection"),
	}
	g.OnDraggingChanged(func(dragging bool) {
		o.SetEnabled(!dragging)
	})
	return c
}

// Tool returns the active tool.
func (c *Controller) Tool() Tool {
	return c.tool
}

// Selected returns the group the gizmo is attached to, or nil.
func (c *Controller) Selected() *scene.Node {
	return c.gizmo.Object()
}

// Select attaches the gizmo to group, detaching it from any previous group.
func (c *Controller) Select(group *scene.Node) {
	c.gizmo.Detach()
	c.gizmo.Attach(group)
	c.log.Debug("gizmo attached", zap.String("group", group.Name))
}

// Click selects the registered group whose visible part is under r. A click
// on nothing detaches the gizmo and re-enables zoom. Suppressed clicks and
// clicks during a gizmo drag are ignored.
func (c *Controller) Click(r picking.Ray, suppressed bool) {
	if suppressed || c.gizmo.Dragging() {
		return
	}

	var (
		best     *scene.Node
		bestDist float32
	)
	for _, g := range c.reg.All() {
		if _, hit, ok := scene.IntersectParts(r, g); ok && (best == nil || hit.Distance < bestDist) {
			best, bestDist = g, hit.Distance
		}
	}
	if best != nil {
		c.Select(best)
		return
	}
	c.orbit.SetZoomEnabled(true)
	if c.gizmo.Object() != nil {
		c.log.Debug("gizmo detached")
	}
	c.gizmo.Detach()
}

// Remove deletes the selected group from the scene and the registry. It
// reports false when nothing is selected.
func (c *Controller) Remove() bool {
	target := c.gizmo.Object()
	if target == nil {
		return false
	}
	c.scene.Remove(target)
	c.gizmo.Detach()
	if id, ok := c.reg.IDOf(target); ok {
		c.reg.Unregister(id)
	}
	c.log.Debug("group removed", zap.String("group", target.Name))
	if c.OnRemoved != nil {
		c.OnRemoved(target)
	}
	return true
}

// SetTool switches the gizmo configuration.
func (c *Controller) SetTool(t Tool) {
	c.tool = t
	switch t {
	case ToolTranslate:
		c.gizmo.SetMode(gizmo.ModeTranslate)
		c.gizmo.SetEnabled(true)
		c.gizmo.ShowAxes(true, true, true)
	case ToolScale:
		c.gizmo.SetMode(gizmo.ModeScale)
		c.gizmo.SetEnabled(true)
		c.gizmo.ShowAxes(true, true, true)
	case ToolHandles:
		c.gizmo.SetEnabled(false)
		c.gizmo.ShowAxes(false, false, false)
	}
	c.log.Debug("tool", zap.Stringer("tool", t))
}

// KeyDown runs the action bound to key and reports whether one matched.
func (c *Controller) KeyDown(key string) bool {
	for _, k := range c.bindings.Remove {
		if k == key {
			c.Remove()
			return true
		}
	}
	switch key {
	case c.bindings.Translate:
		c.SetTool(ToolTranslate)
	case c.bindings.Handles:
		c.SetTool(ToolHandles)
	case c.bindings.Scale:
		c.SetTool(ToolScale)
	default:
		return false
	}
	return true
}
