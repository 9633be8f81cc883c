// Package renderer draws the editor scene with matcap shading.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/tekalign/internal/engine/camera"
	"github.com/Faultbox/tekalign/internal/engine/debug"
	"github.com/Faultbox/tekalign/internal/engine/gizmo"
	"github.com/Faultbox/tekalign/internal/engine/mesh"
	"github.com/Faultbox/tekalign/internal/engine/scene"
	"github.com/Faultbox/tekalign/internal/engine/shader"
	"github.com/Faultbox/tekalign/internal/engine/texture"
	"github.com/Faultbox/tekalign/internal/logger"
)

// MatcapSize is the edge length textures are resampled to.
const MatcapSize = 256

// maxLineVertices covers the three gizmo axes plus one selection box.
const maxLineVertices = 3*2 + debug.BBoxWireframeVertexCount

// Source reads texture files by name.
type Source interface {
	Read(path string) ([]byte, error)
}

// Config holds renderer configuration.
type Config struct {
	Width          int
	Height         int
	Background     mgl32.Vec3
	HandleColor    mgl32.Vec3
	SelectionColor mgl32.Vec3
	// ShowSelection outlines the gizmo target's parts.
	ShowSelection bool
}

// DefaultConfig returns the standard look.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:          width,
		Height:         height,
		Background:     mgl32.Vec3{0.93, 0.93, 0.95},
		HandleColor:    mgl32.Vec3{1, 0.55, 0.1},
		SelectionColor: mgl32.Vec3{0.95, 0.8, 0.2},
		ShowSelection:  true,
	}
}

type gpuMesh struct {
	vao, vbo uint32
	count    int32
	frame    uint64
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	source Source

	matcap *shader.Program
	lines  *shader.Program

	meshes   map[*mesh.Mesh]*gpuMesh
	textures map[string]uint32
	fallback uint32

	lineVAO, lineVBO uint32
	frame            uint64

	log *zap.Logger
}

// New creates a new renderer. Must be called after the OpenGL context exists.
// source may be nil, in which case every node uses the built-in matcap.
func New(cfg Config, source Source) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		source:   source,
		meshes:   make(map[*mesh.Mesh]*gpuMesh),
		textures: make(map[string]uint32),
		log:      logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)

	var err error
	if r.matcap, err = shader.New(matcapVertex, matcapFragment); err != nil {
		return nil, fmt.Errorf("matcap program: %w", err)
	}
	if r.lines, err = shader.New(lineVertex, lineFragment); err != nil {
		r.matcap.Delete()
		return nil, fmt.Errorf("line program: %w", err)
	}

	r.fallback = upload(texture.DefaultMatcap(MatcapSize))
	r.createLineBuffer()
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("meshes", len(r.meshes)), zap.Int("textures", len(r.textures)))
	for m := range r.meshes {
		r.release(m)
	}
	for name, id := range r.textures {
		if id != r.fallback {
			gl.DeleteTextures(1, &id)
		}
		delete(r.textures, name)
	}
	gl.DeleteTextures(1, &r.fallback)
	gl.DeleteVertexArrays(1, &r.lineVAO)
	gl.DeleteBuffers(1, &r.lineVBO)
	r.matcap.Delete()
	r.lines.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// ReadPixels returns the current back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Render draws the visible scene followed by the gizmo, if one is attached.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Camera, g *gizmo.Gizmo) {
	r.frame++
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.matcap.Use()
	r.matcap.SetMat4("uProjection", cam.Projection())
	r.matcap.SetInt("uMatcap", 0)
	gl.ActiveTexture(gl.TEXTURE0)

	view := cam.View()
	r.mark(s.Root())
	r.draw(s.Root(), view)
	r.sweep()

	if g != nil {
		r.drawGizmo(g, cam.ViewProjection())
	}
	gl.BindVertexArray(0)
}

// mark stamps every mesh still in the tree, visible or not, so hidden
// wings keep their buffers.
func (r *Renderer) mark(n *scene.Node) {
	if n.Mesh != nil {
		if gm, ok := r.meshes[n.Mesh]; ok {
			gm.frame = r.frame
		}
	}
	for _, c := range n.Children() {
		r.mark(c)
	}
}

func (r *Renderer) sweep() {
	for m, gm := range r.meshes {
		if gm.frame != r.frame {
			r.release(m)
		}
	}
}

func (r *Renderer) draw(n *scene.Node, view mgl32.Mat4) {
	if !n.Visible {
		return
	}
	if n.Mesh != nil && !n.Mesh.IsEmpty() {
		color, model := n.Color, n.World()
		if n.Kind == scene.KindHandle {
			// handles are sprites: always face the camera
			color = r.config.HandleColor
			model = camera.Billboard(n.WorldPosition(), view)
		}
		modelView := view.Mul4(model)
		r.matcap.SetMat4("uModelView", modelView)
		r.matcap.SetMat3("uNormalMatrix", modelView.Mat3().Inv().Transpose())
		r.matcap.SetVec3("uColor", color)
		gl.BindTexture(gl.TEXTURE_2D, r.texture(n.Texture))

		gm := r.gpu(n.Mesh)
		gl.BindVertexArray(gm.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, gm.count)
	}
	for _, c := range n.Children() {
		r.draw(c, view)
	}
}

var axisColors = [3]mgl32.Vec3{{0.9, 0.2, 0.2}, {0.2, 0.8, 0.2}, {0.2, 0.3, 0.9}}

func (r *Renderer) drawGizmo(g *gizmo.Gizmo, viewProj mgl32.Mat4) {
	target := g.Object()
	if target == nil {
		return
	}
	verts := make([]float32, 0, maxLineVertices*6)
	if r.config.ShowSelection {
		if box, ok := scene.ContentBounds(target); ok {
			verts = debug.AppendLines(verts, debug.BoxEdges(box, debug.DefaultBBoxPadding), r.config.SelectionColor)
		}
	}
	if g.Enabled() {
		origin := target.WorldPosition()
		for i, c := range axisColors {
			if !g.AxisVisible(i) {
				continue
			}
			end := origin.Add(g.AxisDirection(i).Mul(g.Size))
			verts = debug.AppendLines(verts, []mgl32.Vec3{origin, end}, c)
		}
	}
	if len(verts) == 0 {
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	r.lines.Use()
	r.lines.SetMat4("uViewProjection", viewProj)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(verts))
	gl.DrawArrays(gl.LINES, 0, int32(len(verts)/6))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.Enable(gl.DEPTH_TEST)
}

func (r *Renderer) createLineBuffer() {
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.BindVertexArray(r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, maxLineVertices*6*4, nil, gl.DYNAMIC_DRAW)
	vertexLayout()
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// vertexLayout describes two vec3 attributes packed per vertex.
func vertexLayout() {
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 6*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 6*4, 3*4)
	gl.EnableVertexAttribArray(1)
}

func (r *Renderer) gpu(m *mesh.Mesh) *gpuMesh {
	if gm, ok := r.meshes[m]; ok {
		return gm
	}
	data := m.Interleaved()
	gm := &gpuMesh{count: int32(len(data) / 6), frame: r.frame}
	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)
	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	vertexLayout()
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	r.meshes[m] = gm
	r.log.Debug("mesh uploaded", zap.Int32("vertices", gm.count))
	return gm
}

func (r *Renderer) release(m *mesh.Mesh) {
	gm, ok := r.meshes[m]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &gm.vao)
	gl.DeleteBuffers(1, &gm.vbo)
	delete(r.meshes, m)
}

// texture returns the GL texture for name, loading it on first use. Missing
// or broken files fall back to the built-in matcap once and stay that way.
func (r *Renderer) texture(name string) uint32 {
	if name == "" || r.source == nil {
		return r.fallback
	}
	if id, ok := r.textures[name]; ok {
		return id
	}
	id := r.fallback
	img, err := r.loadTexture(name)
	if err != nil {
		r.log.Warn("texture unavailable, using default matcap", zap.String("name", name), zap.Error(err))
	} else {
		id = upload(img)
	}
	r.textures[name] = id
	return id
}

func (r *Renderer) loadTexture(name string) (*image.RGBA, error) {
	data, err := r.source.Read(name)
	if err != nil {
		return nil, err
	}
	img, err := texture.Decode(data, name)
	if err != nil {
		return nil, err
	}
	return texture.Matcap(img, MatcapSize), nil
}

func upload(img *image.RGBA) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	b := img.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}
