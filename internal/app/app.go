// Package app implements the viewer main loop: window, renderer, camera and
// editor wired over the asset loader.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/tekalign/internal/assets"
	"github.com/Faultbox/tekalign/internal/config"
	"github.com/Faultbox/tekalign/internal/editor"
	"github.com/Faultbox/tekalign/internal/editor/event"
	"github.com/Faultbox/tekalign/internal/editor/handles"
	"github.com/Faultbox/tekalign/internal/engine/camera"
	"github.com/Faultbox/tekalign/internal/engine/debug"
	"github.com/Faultbox/tekalign/internal/engine/input"
	"github.com/Faultbox/tekalign/internal/engine/mesh"
	"github.com/Faultbox/tekalign/internal/engine/renderer"
	"github.com/Faultbox/tekalign/internal/engine/window"
	"github.com/Faultbox/tekalign/internal/logger"
)

// App is the running viewer.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	camera *camera.Camera
	orbit  *camera.OrbitControls

	assets *assets.Manager
	loader *assets.Loader
	editor *editor.Editor

	ctx    context.Context
	cancel context.CancelFunc
	title  string

	screenshots *debug.ScreenshotCapture
	capture     bool

	log *zap.Logger
}

// New creates the window and every subsystem and loads the base model.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger.Named("app"),
	}
	vp := cfg.Viewport
	a.log.Info("initializing viewer",
		zap.String("title", vp.Title),
		zap.Int("width", vp.Width),
		zap.Int("height", vp.Height),
		zap.String("assets", cfg.Assets.Root),
	)

	var err error
	a.window, err = window.New(window.Config{
		Title:  vp.Title,
		Width:  vp.Width,
		Height: vp.Height,
		VSync:  vp.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	a.assets = assets.NewManager(cfg.Assets.Root)

	// Renderer must come after the window, since the GL context must exist.
	dw, dh := a.window.Size()
	a.renderer, err = renderer.New(renderer.DefaultConfig(dw, dh), a.assets)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New(a.window)
	a.camera, a.orbit = newCamera(cfg)
	a.loader = assets.NewLoader(a.assets, cfg.Assets.MaxParallel)
	a.ctx, a.cancel = context.WithCancel(context.Background())

	marker, err := mesh.Box(handles.Size, 0.2)
	if err != nil {
		a.log.Warn("handle marker unavailable, handles will be pick-only", zap.Error(err))
		marker = nil
	}
	a.editor = editor.New(cfg, a.camera, a.orbit, a.loader, marker)

	base, err := a.assets.LoadMesh(cfg.Assets.BaseModel)
	if err != nil {
		a.log.Warn("base model will not appear", zap.String("path", cfg.Assets.BaseModel), zap.Error(err))
	} else {
		a.editor.SetBase(base)
		a.log.Info("base model loaded", zap.String("path", cfg.Assets.BaseModel), zap.Int("triangles", base.TriangleCount()))
	}

	a.screenshots = debug.NewScreenshotCapture(vp.ScreenshotDir, "tekalign")
	a.updateTitle()
	return a, nil
}

// newCamera places the camera on +Z at the configured distance and applies
// the orbit limits.
func newCamera(cfg *config.Config) (*camera.Camera, *camera.OrbitControls) {
	vp := cfg.Viewport
	cam := camera.New(vp.FOV, vp.Near, vp.Far, vp.Width, vp.Height)
	cam.Position = mgl32.Vec3{0, 0, vp.CameraDistance}

	orbit := camera.NewOrbitControls(cam)
	oc := cfg.Orbit
	orbit.MinDistance = oc.MinDistance
	orbit.MaxDistance = oc.MaxDistance
	orbit.RotateSpeed = oc.RotateSpeed
	orbit.ZoomSpeed = oc.ZoomSpeed
	orbit.PanSpeed = oc.PanSpeed
	return cam, orbit
}

// Run starts the main loop and returns when the window closes or the quit
// key is pressed.
func (a *App) Run() error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()
	a.log.Info("starting main loop")

	for a.running {
		if a.input.Update() {
			a.running = false
			break
		}
		for _, msg := range a.input.Messages() {
			a.dispatch(msg)
		}
		a.loader.Drain(func(res assets.Result) {
			a.editor.Handle(a.ctx, event.PartReady{
				Ticket: res.Ticket,
				Path:   res.Path,
				Mesh:   res.Mesh,
				Err:    res.Err,
			})
		})

		a.editor.Tick()
		a.updateTitle()
		a.renderer.Render(a.editor.Scene(), a.camera, a.editor.Gizmo())
		if a.capture {
			a.capture = false
			a.saveScreenshot()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Int("groups", a.editor.Registry().Len()))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (a *App) dispatch(msg event.Message) {
	switch m := msg.(type) {
	case event.KeyDown:
		switch m.Key {
		case a.cfg.Keys.Quit:
			a.running = false
			return
		case a.cfg.Keys.Screenshot:
			a.capture = true
			return
		case a.cfg.Keys.DebugLog:
			a.log.Info("log level changed", zap.String("level", logger.ToggleDebug()))
			return
		}
	case event.Resize:
		a.renderer.Resize(a.window.Size())
	}
	a.editor.Handle(a.ctx, msg)
}

func (a *App) saveScreenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	name, err := a.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("file", name))
}

// updateTitle appends the active wing to the key hint.
func (a *App) updateTitle() {
	title := a.cfg.Viewport.Title
	if w, ok := a.cfg.ActiveWingConfig(); ok {
		title = fmt.Sprintf("%s | wing: %s [%s] (%s)", title, w.Name, filepath.Base(w.Preview), a.cfg.Keys.NextWing)
	}
	if title != a.title {
		a.window.SetTitle(title)
		a.title = title
	}
}

// Close stops pending loads and releases every resource.
func (a *App) Close() {
	a.log.Info("closing viewer")
	if a.cancel != nil {
		a.cancel()
	}
	if a.loader != nil {
		a.loader.Wait()
	}
	if a.assets != nil {
		a.assets.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
