package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota + 1
	ButtonMiddle
	ButtonRight
)

type orbitAction int

const (
	actionNone orbitAction = iota
	actionRotate
	actionPan
)

// maxPitch keeps the camera off the poles so LookAt stays defined.
const maxPitch = gomath.Pi/2 - 0.01

// OrbitControls orbits a camera around its target. Left drag rotates,
// middle and right drag pan, the wheel zooms. Each gesture has its own
// enable flag so interaction code can suppress it during manipulation.
type OrbitControls struct {
	camera *Camera

	Distance float32
	Pitch    float32
	Yaw      float32

	MinDistance float32
	MaxDistance float32
	RotateSpeed float32
	ZoomSpeed   float32
	PanSpeed    float32

	enabled      bool
	enableRotate bool
	enablePan    bool
	enableZoom   bool

	action       orbitAction
	lastX, lastY float32
}

// NewOrbitControls derives distance, pitch and yaw from the camera's
// current placement around its target.
func NewOrbitControls(c *Camera) *OrbitControls {
	o := &OrbitControls{
		camera:       c,
		MinDistance:  125,
		MaxDistance:  450,
		RotateSpeed:  0.005,
		ZoomSpeed:    0.1,
		PanSpeed:     0.5,
		enabled:      true,
		enableRotate: true,
		enablePan:    true,
		enableZoom:   true,
	}
	offset := c.Position.Sub(c.Target)
	o.Distance = offset.Len()
	if o.Distance > 0 {
		o.Pitch = float32(gomath.Asin(float64(offset.Y() / o.Distance)))
		o.Yaw = float32(gomath.Atan2(float64(offset.X()), float64(offset.Z())))
	}
	return o
}

// SetEnabled toggles the controls as a whole.
func (o *OrbitControls) SetEnabled(v bool) {
	o.enabled = v
	if !v {
		o.action = actionNone
	}
}

// SetRotateEnabled toggles drag rotation.
func (o *OrbitControls) SetRotateEnabled(v bool) { o.enableRotate = v }

// SetPanEnabled toggles panning.
func (o *OrbitControls) SetPanEnabled(v bool) { o.enablePan = v }

// SetZoomEnabled toggles wheel zoom.
func (o *OrbitControls) SetZoomEnabled(v bool) { o.enableZoom = v }

// Enabled reports the master flag.
func (o *OrbitControls) Enabled() bool { return o.enabled }

// RotateEnabled reports the rotate flag.
func (o *OrbitControls) RotateEnabled() bool { return o.enableRotate }

// PanEnabled reports the pan flag.
func (o *OrbitControls) PanEnabled() bool { return o.enablePan }

// ZoomEnabled reports the zoom flag.
func (o *OrbitControls) ZoomEnabled() bool { return o.enableZoom }

// PointerDown starts a rotate or pan gesture depending on the button.
func (o *OrbitControls) PointerDown(b Button, x, y float32) {
	o.lastX, o.lastY = x, y
	switch b {
	case ButtonLeft:
		o.action = actionRotate
	case ButtonMiddle, ButtonRight:
		o.action = actionPan
	default:
		o.action = actionNone
	}
}

// PointerMove continues the active gesture. Flags are checked on every
// sample so a flag cleared mid-gesture stops it immediately.
func (o *OrbitControls) PointerMove(x, y float32) {
	dx, dy := x-o.lastX, y-o.lastY
	o.lastX, o.lastY = x, y
	if !o.enabled {
		return
	}
	switch o.action {
	case actionRotate:
		if o.enableRotate {
			o.Rotate(dx, dy)
		}
	case actionPan:
		if o.enablePan {
			o.Pan(dx, dy)
		}
	}
}

// PointerUp ends the active gesture.
func (o *OrbitControls) PointerUp() {
	o.action = actionNone
}

// Wheel zooms by the scroll delta.
func (o *OrbitControls) Wheel(delta float32) {
	if !o.enabled || !o.enableZoom {
		return
	}
	o.Distance -= delta * o.Distance * o.ZoomSpeed
	o.clampDistance()
	o.Update()
}

// Rotate updates yaw and pitch from a pixel delta.
func (o *OrbitControls) Rotate(dx, dy float32) {
	o.Yaw -= dx * o.RotateSpeed
	o.Pitch += dy * o.RotateSpeed
	if o.Pitch < -maxPitch {
		o.Pitch = -maxPitch
	}
	if o.Pitch > maxPitch {
		o.Pitch = maxPitch
	}
	o.Update()
}

// Pan moves the target in the camera plane.
func (o *OrbitControls) Pan(dx, dy float32) {
	forward := o.camera.Forward()
	right := forward.Cross(o.camera.Up).Normalize()
	up := right.Cross(forward).Normalize()
	scale := o.PanSpeed * o.Distance / 350
	delta := right.Mul(-dx * scale).Add(up.Mul(dy * scale))
	o.camera.Target = o.camera.Target.Add(delta)
	o.Update()
}

func (o *OrbitControls) clampDistance() {
	if o.Distance < o.MinDistance {
		o.Distance = o.MinDistance
	}
	if o.Distance > o.MaxDistance {
		o.Distance = o.MaxDistance
	}
}

// Update writes the orbit state back into the camera position.
func (o *OrbitControls) Update() {
	cp := float64(o.Pitch)
	cy := float64(o.Yaw)
	offset := mgl32.Vec3{
		o.Distance * float32(gomath.Cos(cp)*gomath.Sin(cy)),
		o.Distance * float32(gomath.Sin(cp)),
		o.Distance * float32(gomath.Cos(cp)*gomath.Cos(cy)),
	}
	o.camera.Position = o.camera.Target.Add(offset)
}
