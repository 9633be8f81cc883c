package handles

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tekalign/internal/engine/scene"
)

type viewer struct {
	eye, fwd mgl32.Vec3
}

func (v viewer) Eye() mgl32.Vec3     { return v.eye }
func (v viewer) Forward() mgl32.Vec3 { return v.fwd }

// tilted returns a viewer behind the top handle looking down -Z, rotated by deg.
func tilted(deg float64) viewer {
	rad := deg * gomath.Pi / 180
	return viewer{
		eye: RoleTop.Offset().Add(mgl32.Vec3{0, 0, 100}),
		fwd: mgl32.Vec3{float32(gomath.Sin(rad)), 0, float32(-gomath.Cos(rad))},
	}
}

func TestClassify(t *testing.T) {
	b := DefaultBands()
	tests := []struct {
		deg  float32
		want Band
	}{
		{0, BandNone},
		{0.16, BandNone},
		{0.17, BandLeftRight},
		{0.5, BandLeftRight},
		{0.999, BandLeftRight},
		{1.0, BandNone},
		{1.1, BandNone},
		{1.15, BandTopBottom},
		{1.25, BandTopBottom},
		{1.33, BandTopBottom},
		{1.34, BandNone},
		{45, BandNone},
		{180, BandNone},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, b.Classify(tt.deg), "angle %v", tt.deg)
		})
	}
}

func TestClassifyExactlyOneBand(t *testing.T) {
	b := DefaultBands()
	for deg := float32(0); deg < 3; deg += 0.001 {
		inTop := deg >= 1.15 && deg <= 1.33
		inSide := deg >= 0.17 && deg < 1.0
		require.False(t, inTop && inSide)
		switch b.Classify(deg) {
		case BandTopBottom:
			require.True(t, inTop, "angle %v", deg)
		case BandLeftRight:
			require.True(t, inSide, "angle %v", deg)
		default:
			require.False(t, inTop || inSide, "angle %v", deg)
		}
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	m := NewManager(DefaultBands(), nil)
	g := scene.NewNode("g", scene.KindGroup)
	g.Add(scene.NewNode("core", scene.KindPart))

	assert.Equal(t, 4, m.Ensure(g))
	assert.Equal(t, 0, m.Ensure(g))

	count := 0
	for _, c := range g.Children() {
		if c.Kind == scene.KindHandle {
			count++
		}
	}
	assert.Equal(t, 4, count)

	for _, r := range Roles {
		h := Find(g, r)
		require.NotNil(t, h, r.String())
		assert.Equal(t, r.Offset(), h.Position)
		assert.Equal(t, Size, h.Extent)
		role, ok := RoleOf(h)
		assert.True(t, ok)
		assert.Equal(t, r, role)
	}
}

func TestEnsureFillsMissing(t *testing.T) {
	m := NewManager(DefaultBands(), nil)
	g := scene.NewNode("g", scene.KindGroup)
	m.Ensure(g)
	g.Remove(Find(g, RoleLeft))

	assert.Equal(t, 1, m.Ensure(g))
	assert.NotNil(t, Find(g, RoleLeft))
}

func TestEnsureAll(t *testing.T) {
	m := NewManager(DefaultBands(), nil)
	s := scene.New()
	s.Add(scene.NewNode("a", scene.KindGroup))
	s.Add(scene.NewNode("b", scene.KindGroup))
	s.Add(scene.NewNode("base", scene.KindBase))

	assert.Equal(t, 8, m.EnsureAll(s))
	assert.Equal(t, 0, m.EnsureAll(s))
}

func TestRightHandleTilted(t *testing.T) {
	m := NewManager(DefaultBands(), nil)
	g := scene.NewNode("g", scene.KindGroup)
	m.Ensure(g)

	want := mgl32.QuatRotate(gomath.Pi/4, scene.AxisX)
	assert.True(t, Find(g, RoleRight).Rotation.ApproxEqualThreshold(want, 1e-5))
	assert.True(t, Find(g, RoleLeft).Rotation.ApproxEqualThreshold(mgl32.QuatIdent(), 1e-5))
}

func TestUpdateVisibility(t *testing.T) {
	tests := []struct {
		name     string
		v        viewer
		band     Band
		topShown bool
		sideShow bool
	}{
		{"default camera", viewer{eye: mgl32.Vec3{0, 0, 350}, fwd: mgl32.Vec3{0, 0, -1}}, BandTopBottom, true, false},
		{"slight tilt", tilted(0.5), BandLeftRight, false, true},
		{"head on", tilted(0), BandNone, false, false},
		{"steep", tilted(10), BandNone, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(DefaultBands(), nil)
			g := scene.NewNode("g", scene.KindGroup)
			m.Ensure(g)

			assert.Equal(t, tt.band, m.Update(g, tt.v))
			assert.Equal(t, tt.topShown, Find(g, RoleTop).Visible)
			assert.Equal(t, tt.topShown, Find(g, RoleBottom).Visible)
			assert.Equal(t, tt.sideShow, Find(g, RoleLeft).Visible)
			assert.Equal(t, tt.sideShow, Find(g, RoleRight).Visible)
		})
	}
}

func TestUpdateWithoutHandles(t *testing.T) {
	m := NewManager(DefaultBands(), nil)
	g := scene.NewNode("g", scene.KindGroup)
	assert.Equal(t, BandNone, m.Update(g, tilted(0.5)))
}
