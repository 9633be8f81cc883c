// Package assembly builds core-plus-wings groups from double clicks and
// applies asynchronously loaded parts to them.
package assembly

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/tekalign/internal/editor/event"
	"github.com/Faultbox/tekalign/internal/editor/handles"
	"github.com/Faultbox/tekalign/internal/editor/registry"
	"github.com/Faultbox/tekalign/internal/engine/scene"
	"github.com/Faultbox/tekalign/internal/logger"
)

// CoreName is the scene name of a group's core part.
const CoreName = "core"

// Loader starts an asynchronous part load whose completion arrives later as
// an event.PartReady with the same ticket.
type Loader interface {
	Request(ctx context.Context, path string, ticket event.Ticket)
}

// Gizmo is the transform widget a new group is handed to.
type Gizmo interface {
	Attach(n *scene.Node)
	Detach()
}

// Params holds the assembly constants.
type Params struct {
	CorePath      string
	CoreTexture   string
	CoreRotationX float32
	CoreRotationZ float32
	CoreColor     mgl32.Vec3
	WingColor     mgl32.Vec3
	WingTexture   string
	CueAxis       mgl32.Vec3
	CueAngle      float32
	WingPattern   string
	WingScale     float32 // for wings with no scale of their own
}

// DefaultParams returns the stock constants.
func DefaultParams() Params {
	return Params{
		CorePath:      "tektonicCoreParts/CoreStep.stl",
		CoreTexture:   "whiteTextureBasic.jpg",
		CoreRotationX: -0.1,
		CoreRotationZ: 1.65,
		CoreColor:     mgl32.Vec3{1, 1, 1},
		WingColor:     mgl32.Vec3{0xab / 255.0, 0xdb / 255.0, 0xe3 / 255.0},
		WingTexture:   "whiteTextureBasic.jpg",
		CueAxis:       mgl32.Vec3{0, 1, 1.5},
		CueAngle:      0.1,
		WingPattern:   "angle",
		WingScale:     DefaultWingScale,
	}
}

type partKind int

const (
	partCore partKind = iota
	partWing
)

type pending struct {
	group registry.ID
	kind  partKind
	point mgl32.Vec3
	wing  Definition
}

// Builder creates groups and attaches their parts as loads complete.
type Builder struct {
	params  Params
	scene   *scene.Scene
	reg     *registry.Registry
	handles *handles.Manager
	gizmo   Gizmo
	loader  Loader

	wings  []Definition
	active int

	next    event.Ticket
	pending map[event.Ticket]pending

	// OnLoadFailed is called for every part whose load fails.
	OnLoadFailed func(path string, err error)
	// OnCoreReady is called once a group's core has been attached.
	OnCoreReady func(group *scene.Node)

	log *zap.Logger
}

// NewBuilder creates a builder.
func NewBuilder(p Params, s *scene.Scene, reg *registry.Registry, hm *handles.Manager, g Gizmo, l Loader, wings []Definition) *Builder {
	return &Builder{
		params:  p,
		scene:   s,
		reg:     reg,
		handles: hm,
		gizmo:   g,
		loader:  l,
		wings:   wings,
		pending: make(map[event.Ticket]pending),
		log:     logger.Named("assembly"),
	}
}

// Wings returns the wing definitions.
func (b *Builder) Wings() []Definition {
	return b.wings
}

// SetActiveWing selects the wing shown by ToggleWings. Out of range indexes
// are ignored.
func (b *Builder) SetActiveWing(i int) {
	if i < 0 || i >= len(b.wings) {
		return
	}
	b.active = i
	b.log.Debug("active wing", zap.String("name", b.wings[i].Name))
}

// ActiveWing returns the selected wing.
func (b *Builder) ActiveWing() (Definition, bool) {
	if b.active < 0 || b.active >= len(b.wings) {
		return Definition{}, false
	}
	return b.wings[b.active], true
}

// ActiveIndex returns the index of the selected wing.
func (b *Builder) ActiveIndex() int {
	return b.active
}

// Pending returns the number of loads still outstanding.
func (b *Builder) Pending() int {
	return len(b.pending)
}

// Create starts a new group anchored at point. The group is registered, given
// its handles and handed to the gizmo immediately; its parts arrive later.
func (b *Builder) Create(ctx context.Context, point mgl32.Vec3) (*scene.Node, registry.ID) {
	group := scene.NewNode("assembly", scene.KindGroup)
	group.Position = point
	b.scene.Add(group)

	id := b.reg.Register(group)
	group.Name = "assembly-" + id.String()[:8]
	b.handles.EnsureAll(b.scene)

	group.RotateOnAxis(b.params.CueAxis, b.params.CueAngle)

	b.gizmo.Detach()
	b.gizmo.Attach(group)

	b.request(ctx, b.params.CorePath, pending{group: id, kind: partCore, point: point})
	b.log.Debug("assembly created", zap.String("group", group.Name), zap.Any("point", point))
	return group, id
}

func (b *Builder) request(ctx context.Context, path string, p pending) {
	b.next++
	t := b.next
	b.pending[t] = p
	b.loader.Request(ctx, path, t)
}

// PartReady applies a completed load and reports whether a part was attached.
// Loads for groups that are no longer registered are dropped.
func (b *Builder) PartReady(ctx context.Context, msg event.PartReady) bool {
	p, ok := b.pending[msg.Ticket]
	if !ok {
		return false
	}
	delete(b.pending, msg.Ticket)

	if msg.Err != nil || msg.Mesh == nil {
		b.log.Warn("part load failed", zap.String("path", msg.Path), zap.Error(msg.Err))
		if b.OnLoadFailed != nil {
			b.OnLoadFailed(msg.Path, msg.Err)
		}
		return false
	}

	group, ok := b.reg.Get(p.group)
	if !ok {
		b.log.Debug("owner gone, dropping part", zap.String("path", msg.Path))
		return false
	}

	switch p.kind {
	case partCore:
		b.attachCore(ctx, p, group, msg)
	case partWing:
		b.attachWing(p, group, msg)
	}
	return true
}

func (b *Builder) attachCore(ctx context.Context, p pending, group *scene.Node, msg event.PartReady) {
	msg.Mesh.Center()
	core := scene.NewNode(CoreName, scene.KindPart)
	core.Mesh = msg.Mesh
	core.Color = b.params.CoreColor
	core.Texture = b.params.CoreTexture
	core.Position = p.point
	core.SetEuler(b.params.CoreRotationX, 0, b.params.CoreRotationZ)

	group.Attach(core)
	scene.CenterOnContent(group)

	for _, w := range b.wings {
		b.request(ctx, w.Path, pending{group: p.group, kind: partWing, wing: w})
	}
	if b.OnCoreReady != nil {
		b.OnCoreReady(group)
	}
}

func (b *Builder) attachWing(p pending, group *scene.Node, msg event.PartReady) {
	msg.Mesh.Center()
	w := p.wing
	wing := scene.NewNode(w.SubName, scene.KindPart)
	wing.Mesh = msg.Mesh
	wing.Color = b.params.WingColor
	wing.Texture = b.params.WingTexture
	wing.SetEuler(w.Rotation[0], w.Rotation[1], 0)
	wing.Position = group.WorldPosition().Add(mgl32.Vec3(w.Offset))
	s := w.EffectiveScale(b.params.WingScale)
	wing.Scale = mgl32.Vec3{s, s, s}

	active, ok := b.ActiveWing()
	wing.Visible = ok && active.SubName == w.SubName

	group.Attach(wing)
}

// ToggleWings shows the active wing in group and hides every other wing.
func (b *Builder) ToggleWings(group *scene.Node) {
	active, ok := b.ActiveWing()
	for _, c := range group.Children() {
		if !IsWingName(c.Name, b.params.WingPattern) {
			continue
		}
		c.Visible = ok && c.Name == active.SubName
	}
}
