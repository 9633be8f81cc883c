// Package camera provides the perspective camera and orbit controls.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tekalign/internal/engine/picking"
)

// Camera is a perspective camera looking at a target point.
type Camera struct {
	FOV  float32 // vertical field of view in degrees
	Near float32
	Far  float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	width, height float32
}

// New creates a camera for a viewport of the given pixel size.
func New(fov, near, far float32, width, height int) *Camera {
	c := &Camera{
		FOV:  fov,
		Near: near,
		Far:  far,
		Up:   mgl32.Vec3{0, 1, 0},
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the viewport size and aspect ratio.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width = float32(width)
	c.height = float32(height)
}

// Viewport returns the viewport size in pixels.
func (c *Camera) Viewport() (width, height float32) {
	return c.width, c.height
}

// Aspect returns width / height.
func (c *Camera) Aspect() float32 {
	if c.height == 0 {
		return 1
	}
	return c.width / c.height
}

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect(), c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Forward returns the normalized looking direction.
func (c *Camera) Forward() mgl32.Vec3 {
	d := c.Target.Sub(c.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

// Eye returns the camera position. It exists so the camera satisfies the
// small viewer interfaces of the editor packages.
func (c *Camera) Eye() mgl32.Vec3 {
	return c.Position
}

// Unproject maps an NDC point to world space.
func (c *Camera) Unproject(ndc mgl32.Vec3) mgl32.Vec3 {
	return picking.Unproject(ndc, c.ViewProjection().Inv())
}

// NDC converts pixel coordinates to normalized device coordinates.
func (c *Camera) NDC(x, y float32) (float32, float32) {
	return picking.NDC(x, y, c.width, c.height)
}

// Ray returns the world-space pick ray through a pixel.
func (c *Camera) Ray(x, y float32) picking.Ray {
	return picking.ScreenToRay(x, y, c.width, c.height, c.ViewProjection().Inv())
}

// Billboard returns a model matrix that places an object at p with its local
// axes aligned to the view, so it always faces the camera.
func Billboard(p mgl32.Vec3, view mgl32.Mat4) mgl32.Mat4 {
	return mgl32.Translate3D(p.X(), p.Y(), p.Z()).Mul4(view.Mat3().Transpose().Mat4())
}
