// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Viewport    ViewportConfig    `yaml:"viewport"`
	Assets      AssetsConfig      `yaml:"assets"`
	Wings       []WingConfig      `yaml:"wings"`
	ActiveWing  int               `yaml:"active_wing"`
	Orbit       OrbitConfig       `yaml:"orbit"`
	Interaction InteractionConfig `yaml:"interaction"`
	Keys        KeyConfig         `yaml:"keys"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ViewportConfig holds render surface and camera settings.
type ViewportConfig struct {
	Title          string  `yaml:"title"`
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	VSync          bool    `yaml:"vsync"`
	FOV            float32 `yaml:"fov"` // degrees
	Near           float32 `yaml:"near"`
	Far            float32 `yaml:"far"`
	CameraDistance float32 `yaml:"camera_distance"`
	ScreenshotDir  string  `yaml:"screenshot_dir"`
}

// AssetsConfig holds model and texture paths.
type AssetsConfig struct {
	Root          string     `yaml:"root"`
	BaseModel     string     `yaml:"base_model"`
	BaseTexture   string     `yaml:"base_texture"`
	BaseRotationY float32    `yaml:"base_rotation_y"`
	CoreModel     string     `yaml:"core_model"`
	CoreTexture   string     `yaml:"core_texture"`
	WingColor     [3]float32 `yaml:"wing_color"`
	MaxParallel   int        `yaml:"max_parallel"`
}

// WingConfig is one selectable wing variant.
// MovedPos components are optional and default to zero.
type WingConfig struct {
	Path      string      `yaml:"path"`
	Preview   string      `yaml:"preview"`
	Name      string      `yaml:"name"`
	SubName   string      `yaml:"sub_name"`
	Rotations Rotation2   `yaml:"rotations"`
	MovedPos  PartialVec3 `yaml:"moved_pos"`
	Scale     float32     `yaml:"scale"`
}

// Rotation2 is an X/Y euler offset in radians.
type Rotation2 struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

// PartialVec3 is a vector whose components may be omitted.
type PartialVec3 struct {
	X *float32 `yaml:"x,omitempty"`
	Y *float32 `yaml:"y,omitempty"`
	Z *float32 `yaml:"z,omitempty"`
}

// Values returns the components with missing ones substituted by zero.
func (p PartialVec3) Values() [3]float32 {
	var v [3]float32
	if p.X != nil {
		v[0] = *p.X
	}
	if p.Y != nil {
		v[1] = *p.Y
	}
	if p.Z != nil {
		v[2] = *p.Z
	}
	return v
}

// OrbitConfig holds camera orbit control settings.
type OrbitConfig struct {
	MinDistance     float32 `yaml:"min_distance"`
	MaxDistance     float32 `yaml:"max_distance"`
	RotateSpeed     float32 `yaml:"rotate_speed"`
	ZoomSpeed       float32 `yaml:"zoom_speed"`
	PanSpeed        float32 `yaml:"pan_speed"`
	DoubleClickTime int     `yaml:"double_click_ms"`
}

// InteractionConfig holds the tuned constants of the manipulation engine.
type InteractionConfig struct {
	TopBottomBand   [2]float32 `yaml:"top_bottom_band"` // degrees, inclusive
	LeftRightBand   [2]float32 `yaml:"left_right_band"` // degrees, upper bound exclusive
	TiltDivisor     float32    `yaml:"tilt_divisor"`
	SpinSpeed       float32    `yaml:"spin_speed"`
	GroupMoveScale  float32    `yaml:"group_move_scale"`
	UnprojectScale  [2]float32 `yaml:"unproject_scale"`
	CueAxis         [3]float32 `yaml:"cue_axis"`
	CueAngle        float32    `yaml:"cue_angle"`
	CoreRotationX   float32    `yaml:"core_rotation_x"`
	CoreRotationZ   float32    `yaml:"core_rotation_z"`
	WingNamePattern string     `yaml:"wing_name_pattern"`
	WingScale       float32    `yaml:"wing_scale"`
	ClickSlop       int        `yaml:"click_slop"`
}

// KeyConfig maps actions to SDL key names.
type KeyConfig struct {
	Remove     []string `yaml:"remove"`
	Translate  string   `yaml:"translate"`
	Rotate     string   `yaml:"rotate"`
	Scale      string   `yaml:"scale"`
	NextWing   string   `yaml:"next_wing"`
	Screenshot string   `yaml:"screenshot"`
	DebugLog   string   `yaml:"debug_log"`
	Quit       string   `yaml:"quit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

func f32(v float32) *float32 { return &v }

// DefaultWings returns the stock tectonic wing set.
func DefaultWings() []WingConfig {
	return []WingConfig{
		{
			Path:      "tektonicWings/tectonic_long.stl",
			Preview:   "tektonicWings/tectonic_long_preview.png",
			Name:      "angle1",
			SubName:   "angle1",
			Rotations: Rotation2{X: 1.4, Y: 0.2},
			Scale:     0.7,
			MovedPos:  PartialVec3{X: f32(4)},
		},
		{
			Path:      "tektonicWings/tectonic_angle1.stl",
			Preview:   "tektonicWings/tectonic_angle2_preview.png",
			Name:      "angle2",
			SubName:   "angle2",
			Rotations: Rotation2{X: 1.6, Y: 0.1},
			Scale:     0.7,
			MovedPos:  PartialVec3{X: f32(0), Y: f32(-2), Z: f32(-2)},
		},
		{
			Path:      "tektonicWings/tectonic_angle2.stl",
			Preview:   "tektonicWings/tectonic_angle1_preview.png",
			Name:      "long tectonic",
			SubName:   "angle3 long tectonic",
			Rotations: Rotation2{X: 1.6, Y: 0.1},
			Scale:     0.7,
			MovedPos:  PartialVec3{X: f32(1), Y: f32(-1), Z: f32(-1)},
		},
		{
			Path:      "tektonicWings/tectonic_single.stl",
			Preview:   "tektonicWings/tectonic_single_preview.png",
			Name:      "single tectonic",
			SubName:   "angle4 single tectonic",
			Rotations: Rotation2{X: 1.6, Y: 0.1},
			Scale:     0.7,
			MovedPos:  PartialVec3{X: f32(-2), Y: f32(-2), Z: f32(0)},
		},
		{
			Path:      "tektonicWings/tectonic_straight.stl",
			Preview:   "tektonicWings/tectonic_straight_preview.png",
			Name:      "straight tec...",
			SubName:   "angle5 straight tec...",
			Rotations: Rotation2{X: 1.6, Y: 0.1},
			Scale:     0.7,
			MovedPos:  PartialVec3{X: f32(0.5), Y: f32(-2), Z: f32(0.5)},
		},
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Title:          `TekAlign - "W" translate | "E" rotate | "R" scale | "D" remove`,
			Width:          1400,
			Height:         1400,
			VSync:          true,
			FOV:            30,
			Near:           10,
			Far:            100000,
			CameraDistance: 350,
			ScreenshotDir:  "screenshots",
		},
		Assets: AssetsConfig{
			Root:          "assets",
			BaseModel:     "Lyn.stl",
			BaseTexture:   "whiteTextureBasic.jpg",
			BaseRotationY: 0.5,
			CoreModel:     "tektonicCoreParts/CoreStep.stl",
			CoreTexture:   "whiteTextureBasic.jpg",
			WingColor:     [3]float32{0xab / 255.0, 0xdb / 255.0, 0xe3 / 255.0},
			MaxParallel:   4,
		},
		Wings:      DefaultWings(),
		ActiveWing: 0,
		Orbit: OrbitConfig{
			MinDistance:     125,
			MaxDistance:     450,
			RotateSpeed:     0.005,
			ZoomSpeed:       0.1,
			PanSpeed:        0.5,
			DoubleClickTime: 400,
		},
		Interaction: InteractionConfig{
			TopBottomBand:   [2]float32{1.15, 1.33},
			LeftRightBand:   [2]float32{0.17, 1.0},
			TiltDivisor:     17500,
			SpinSpeed:       0.01,
			GroupMoveScale:  0.085,
			UnprojectScale:  [2]float32{210, 205},
			CueAxis:         [3]float32{0, 1, 1.5},
			CueAngle:        0.1,
			CoreRotationX:   -0.1,
			CoreRotationZ:   1.65,
			WingNamePattern: "angle",
			WingScale:       0.7,
			ClickSlop:       4,
		},
		Keys: KeyConfig{
			Remove:     []string{"Delete", "D"},
			Translate:  "W",
			Rotate:     "E",
			Scale:      "R",
			NextWing:   "Tab",
			Screenshot: "F12",
			DebugLog:   "F11",
			Quit:       "Escape",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ActiveWingConfig returns the currently selected wing, or false when the
// index is out of range.
func (c *Config) ActiveWingConfig() (WingConfig, bool) {
	if c.ActiveWing < 0 || c.ActiveWing >= len(c.Wings) {
		return WingConfig{}, false
	}
	return c.Wings[c.ActiveWing], true
}
