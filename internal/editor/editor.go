// Package editor wires the interaction components together and dispatches
// typed input messages to them in arrival order.
package editor

import (
	"context"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/tekalign/internal/config"
	"github.com/Faultbox/tekalign/internal/editor/assembly"
	"github.com/Faultbox/tekalign/internal/editor/drag"
	"github.com/Faultbox/tekalign/internal/editor/event"
	"github.com/Faultbox/tekalign/internal/editor/handles"
	"github.com/Faultbox/tekalign/internal/editor/registry"
	"github.com/Faultbox/tekalign/internal/editor/selection"
	"github.com/Faultbox/tekalign/internal/engine/camera"
	"github.com/Faultbox/tekalign/internal/engine/gizmo"
	"github.com/Faultbox/tekalign/internal/engine/mesh"
	"github.com/Faultbox/tekalign/internal/engine/scene"
	"github.com/Faultbox/tekalign/internal/logger"
)

// BaseName is the scene name of the base model.
const BaseName = "base"

// Editor owns the scene and every interaction component. All methods must be
// called from the UI goroutine.
type Editor struct {
	cfg *config.Config

	scene     *scene.Scene
	registry  *registry.Registry
	handles   *handles.Manager
	drag      *drag.Machine
	builder   *assembly.Builder
	selection *selection.Controller
	gizmo     *gizmo.Gizmo
	camera    *camera.Camera
	orbit     *camera.OrbitControls
	clicks    *event.ClickTracker

	base *scene.Node

	// SynthesizeClicks derives Click and DoubleClick from pointer up/down.
	// Turn it off when the surface reports clicks itself.
	SynthesizeClicks bool

	suppressClick bool

	log *zap.Logger
}

// New builds an editor over cam and orbit. loader receives part loads; marker
// is the optional handle geometry.
func New(cfg *config.Config, cam *camera.Camera, orbit *camera.OrbitControls, loader assembly.Loader, marker *mesh.Mesh) *Editor {
	ic := cfg.Interaction
	e := &Editor{
		cfg:              cfg,
		scene:            scene.New(),
		registry:         registry.New(),
		gizmo:            gizmo.New(12),
		camera:           cam,
		orbit:            orbit,
		clicks:           event.NewClickTracker(float32(ic.ClickSlop), time.Duration(cfg.Orbit.DoubleClickTime)*time.Millisecond),
		SynthesizeClicks: true,
		log:              logger.Named("editor"),
	}

	e.handles = handles.NewManager(handles.Bands{
		TopBottom: ic.TopBottomBand,
		LeftRight: ic.LeftRightBand,
	}, marker)

	e.drag = drag.New(drag.Params{
		TiltDivisor:    ic.TiltDivisor,
		SpinSpeed:      ic.SpinSpeed,
		GroupMoveScale: ic.GroupMoveScale,
		UnprojectScale: ic.UnprojectScale,
	}, orbit, cam, e.registry)

	e.builder = assembly.NewBuilder(assembly.Params{
		CorePath:      cfg.Assets.CoreModel,
		CoreTexture:   cfg.Assets.CoreTexture,
		CoreRotationX: ic.CoreRotationX,
		CoreRotationZ: ic.CoreRotationZ,
		CoreColor:     mgl32.Vec3{1, 1, 1},
		WingColor:     mgl32.Vec3(cfg.Assets.WingColor),
		WingTexture:   cfg.Assets.BaseTexture,
		CueAxis:       mgl32.Vec3(ic.CueAxis),
		CueAngle:      ic.CueAngle,
		WingPattern:   ic.WingNamePattern,
		WingScale:     ic.WingScale,
	}, e.scene, e.registry, e.handles, e.gizmo, loader, assembly.FromConfigs(cfg.Wings))
	e.builder.SetActiveWing(cfg.ActiveWing)

	e.selection = selection.New(e.gizmo, orbit, e.scene, e.registry, selection.Bindings{
		Remove:    cfg.Keys.Remove,
		Translate: cfg.Keys.Translate,
		Handles:   cfg.Keys.Rotate,
		Scale:     cfg.Keys.Scale,
	})

	e.builder.OnCoreReady = func(*scene.Node) {
		e.selection.SetTool(selection.ToolHandles)
	}
	e.builder.OnLoadFailed = func(path string, err error) {
		e.log.Warn("part will not appear", zap.String("path", path), zap.Error(err))
	}
	e.selection.OnRemoved = e.drag.Forget

	return e
}

// Scene returns the scene graph.
func (e *Editor) Scene() *scene.Scene { return e.scene }

// Registry returns the piece registry.
func (e *Editor) Registry() *registry.Registry { return e.registry }

// Builder returns the assembly builder.
func (e *Editor) Builder() *assembly.Builder { return e.builder }

// Selection returns the selection controller.
func (e *Editor) Selection() *selection.Controller { return e.selection }

// Drag returns the drag state machine.
func (e *Editor) Drag() *drag.Machine { return e.drag }

// Gizmo returns the transform gizmo.
func (e *Editor) Gizmo() *gizmo.Gizmo { return e.gizmo }

// Base returns the base model node, or nil before SetBase.
func (e *Editor) Base() *scene.Node { return e.base }

// SetBase installs the model that assemblies are anchored on. The mesh is
// centred and turned by the configured Y rotation.
func (e *Editor) SetBase(m *mesh.Mesh) *scene.Node {
	if e.base != nil {
		e.scene.Remove(e.base)
	}
	m.Center()
	n := scene.NewNode(BaseName, scene.KindBase)
	n.Mesh = m
	n.Texture = e.cfg.Assets.BaseTexture
	n.RotateY(e.cfg.Assets.BaseRotationY)
	e.scene.Add(n)
	e.base = n
	return n
}

// Tick runs the per-frame work: handle visibility follows the camera.
func (e *Editor) Tick() {
	e.handles.UpdateAll(e.scene, e.camera)
}

// Handle dispatches one message.
func (e *Editor) Handle(ctx context.Context, msg event.Message) {
	switch m := msg.(type) {
	case event.PointerDown:
		e.pointerDown(m)
	case event.PointerMove:
		e.pointerMove(m)
	case event.PointerUp:
		e.pointerUp(ctx, m)
	case event.PointerLeave:
		e.pointerLeave()
	case event.Click:
		e.click(m.X, m.Y, e.takeSuppress())
	case event.DoubleClick:
		e.doubleClick(ctx, m.X, m.Y, e.takeSuppress())
	case event.Wheel:
		e.orbit.Wheel(m.Delta)
	case event.KeyDown:
		e.keyDown(m.Key)
	case event.Resize:
		e.camera.SetViewport(m.Width, m.Height)
	case event.PartReady:
		e.builder.PartReady(ctx, m)
	}
}

func orbitButton(b event.Button) camera.Button {
	switch b {
	case event.ButtonMiddle:
		return camera.ButtonMiddle
	case event.ButtonRight:
		return camera.ButtonRight
	}
	return camera.ButtonLeft
}

func (e *Editor) pointerDown(m event.PointerDown) {
	if e.SynthesizeClicks {
		e.clicks.Down(m)
	}
	if m.Button == event.ButtonLeft {
		if e.gizmo.Object() != nil && e.gizmo.BeginDrag(e.camera.Ray(m.X, m.Y)) {
			return
		}
		e.drag.PointerDown(m.X, m.Y)
	}
	e.orbit.PointerDown(orbitButton(m.Button), m.X, m.Y)
}

func (e *Editor) pointerMove(m event.PointerMove) {
	if e.gizmo.Dragging() {
		e.gizmo.DragTo(e.camera.Ray(m.X, m.Y))
		return
	}
	e.drag.PointerMove(m.X, m.Y)
	e.orbit.PointerMove(m.X, m.Y)
}

func (e *Editor) pointerUp(ctx context.Context, m event.PointerUp) {
	gizmoDrag := e.gizmo.Dragging()
	if gizmoDrag {
		e.gizmo.EndDrag()
	}
	e.drag.PointerUp(m.X, m.Y)
	e.orbit.PointerUp()

	suppress := (gizmoDrag && e.gizmo.Moved()) || e.drag.ConsumeRelease()
	if !e.SynthesizeClicks {
		// The surface's own click for this release follows.
		e.suppressClick = suppress
		return
	}
	for _, out := range e.clicks.Up(m) {
		switch c := out.(type) {
		case event.Click:
			e.click(c.X, c.Y, suppress)
		case event.DoubleClick:
			e.doubleClick(ctx, c.X, c.Y, suppress)
		}
	}
}

func (e *Editor) takeSuppress() bool {
	s := e.suppressClick
	e.suppressClick = false
	return s
}

func (e *Editor) pointerLeave() {
	e.gizmo.EndDrag()
	e.drag.PointerLeave()
	e.orbit.PointerUp()
	e.clicks.Reset()
}

func (e *Editor) click(x, y float32, suppressed bool) {
	e.selection.Click(e.camera.Ray(x, y), suppressed || e.drag.BeingDragged())
}

// doubleClick toggles wings on an existing group or builds a new assembly on
// the base model.
func (e *Editor) doubleClick(ctx context.Context, x, y float32, suppressed bool) {
	if suppressed {
		return
	}
	r := e.camera.Ray(x, y)
	for _, g := range e.registry.All() {
		body := drag.Body(g)
		if body == nil {
			continue
		}
		if _, ok := scene.Intersect(r, body); ok {
			e.builder.ToggleWings(g)
			return
		}
	}
	if e.base == nil {
		return
	}
	if hit, ok := scene.Intersect(r, e.base); ok {
		e.builder.Create(ctx, hit.Point)
	}
}

func (e *Editor) keyDown(key string) {
	if key == e.cfg.Keys.NextWing {
		n := len(e.builder.Wings())
		if n > 0 {
			e.builder.SetActiveWing((e.builder.ActiveIndex() + 1) % n)
			e.cfg.ActiveWing = e.builder.ActiveIndex()
			if w, ok := e.cfg.ActiveWingConfig(); ok {
				e.log.Info("active wing", zap.String("name", w.Name), zap.String("preview", w.Preview))
			}
		}
		return
	}
	e.selection.KeyDown(key)
}
