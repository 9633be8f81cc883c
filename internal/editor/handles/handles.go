// Package handles manages the four directional drag markers of each group
// and their camera-dependent visibility.
package handles

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/tekalign/internal/engine/mesh"
	"github.com/Faultbox/tekalign/internal/engine/scene"
	"github.com/Faultbox/tekalign/internal/logger"
)

// Role is the direction a handle controls.
type Role int

const (
	RoleTop Role = iota
	RoleBottom
	RoleRight
	RoleLeft
)

// Roles lists all roles in creation order.
var Roles = [4]Role{RoleTop, RoleBottom, RoleRight, RoleLeft}

var roleNames = [4]string{"pointTop", "pointBottom", "pointRight", "pointLeft"}

var roleOffsets = [4]mgl32.Vec3{
	{0.9, 8, -0.8},
	{-0.2, -8, 1},
	{8, -0.5, 0},
	{-8, 0.5, 0},
}

// Size is the billboard extent of a handle marker.
var Size = mgl32.Vec3{3, 1.4, 1}

// Name returns the scene node name used for the role.
func (r Role) Name() string {
	return roleNames[r]
}

// Offset returns the local position of the role's handle within its group.
func (r Role) Offset() mgl32.Vec3 {
	return roleOffsets[r]
}

func (r Role) String() string {
	switch r {
	case RoleTop:
		return "top"
	case RoleBottom:
		return "bottom"
	case RoleRight:
		return "right"
	case RoleLeft:
		return "left"
	}
	return "unknown"
}

// Band is the visibility class for a camera angle.
type Band int

const (
	BandNone Band = iota
	BandTopBottom
	BandLeftRight
)

func (b Band) String() string {
	switch b {
	case BandTopBottom:
		return "top/bottom"
	case BandLeftRight:
		return "left/right"
	}
	return "none"
}

// Bands holds the angle thresholds in degrees. TopBottom is inclusive at both
// ends; LeftRight excludes its upper bound.
type Bands struct {
	TopBottom [2]float32
	LeftRight [2]float32
}

// DefaultBands returns the tuned thresholds.
func DefaultBands() Bands {
	return Bands{
		TopBottom: [2]float32{1.15, 1.33},
		LeftRight: [2]float32{0.17, 1.0},
	}
}

// Classify returns the band for an angle. The top/bottom band is checked first.
func (b Bands) Classify(deg float32) Band {
	switch {
	case deg >= b.TopBottom[0] && deg <= b.TopBottom[1]:
		return BandTopBottom
	case deg >= b.LeftRight[0] && deg < b.LeftRight[1]:
		return BandLeftRight
	}
	return BandNone
}

// Viewer is the camera pose needed for visibility.
type Viewer interface {
	Eye() mgl32.Vec3
	Forward() mgl32.Vec3
}

// Manager creates handles and keeps their visibility in sync with the camera.
type Manager struct {
	bands  Bands
	marker *mesh.Mesh
	log    *zap.Logger
}

// NewManager creates a manager. marker is the geometry drawn for each handle
// and may be nil, in which case handles are picked by their extent only.
func NewManager(bands Bands, marker *mesh.Mesh) *Manager {
	return &Manager{
		bands:  bands,
		marker: marker,
		log:    logger.Named("handles"),
	}
}

// Ensure adds any missing handle to group and returns how many were created.
// Handles are matched by name, so repeated calls never duplicate them.
func (m *Manager) Ensure(group *scene.Node) int {
	created := 0
	for _, r := range Roles {
		if group.FindChild(r.Name()) != nil {
			continue
		}
		h := scene.NewNode(r.Name(), scene.KindHandle)
		h.Position = r.Offset()
		h.Extent = Size
		h.Mesh = m.marker
		if r == RoleRight {
			h.RotateX(gomath.Pi / 4)
		}
		group.Add(h)
		created++
	}
	if created > 0 {
		m.log.Debug("handles created", zap.String("group", group.Name), zap.Int("count", created))
	}
	return created
}

// EnsureAll runs Ensure on every group of the scene.
func (m *Manager) EnsureAll(s *scene.Scene) int {
	n := 0
	for _, g := range s.Groups() {
		n += m.Ensure(g)
	}
	return n
}

// Find returns the group's handle for role, or nil.
func Find(group *scene.Node, r Role) *scene.Node {
	return group.FindChild(r.Name())
}

// RoleOf reports the role of a handle node.
func RoleOf(n *scene.Node) (Role, bool) {
	if n == nil || n.Kind != scene.KindHandle {
		return 0, false
	}
	for _, r := range Roles {
		if n.Name == r.Name() {
			return r, true
		}
	}
	return 0, false
}

// Angle returns the angle in degrees between the camera forward vector and
// the direction from the camera to the group's top handle. The handle's
// local offset is used, matching the tuned thresholds.
func Angle(group *scene.Node, v Viewer) (float32, bool) {
	top := Find(group, RoleTop)
	if top == nil {
		return 0, false
	}
	toTop := top.Position.Sub(v.Eye())
	fwd := v.Forward()
	if toTop.Len() == 0 || fwd.Len() == 0 {
		return 0, false
	}
	cos := toTop.Normalize().Dot(fwd.Normalize())
	cos = mgl32.Clamp(cos, -1, 1)
	return mgl32.RadToDeg(float32(gomath.Acos(float64(cos)))), true
}

// Update sets the visibility of group's handles for the camera pose and
// returns the band applied.
func (m *Manager) Update(group *scene.Node, v Viewer) Band {
	band := BandNone
	if deg, ok := Angle(group, v); ok {
		band = m.bands.Classify(deg)
	}
	m.apply(group, band)
	return band
}

// UpdateAll refreshes every group in the scene.
func (m *Manager) UpdateAll(s *scene.Scene, v Viewer) {
	for _, g := range s.Groups() {
		m.Update(g, v)
	}
}

func (m *Manager) apply(group *scene.Node, band Band) {
	for _, r := range Roles {
		h := Find(group, r)
		if h == nil {
			continue
		}
		switch r {
		case RoleTop, RoleBottom:
			h.Visible = band == BandTopBottom
		default:
			h.Visible = band == BandLeftRight
		}
	}
}
