package assembly

import (
	"strings"

	"github.com/Faultbox/tekalign/internal/config"
)

// DefaultWingScale applies when neither the definition nor the builder sets a
// scale.
const DefaultWingScale = 0.7

// Definition describes one wing variant. It is immutable once built.
type Definition struct {
	Path     string
	Name     string
	SubName  string
	Rotation [2]float32 // euler x, y in radians
	Offset   [3]float32 // relative to the group position
	Scale    float32
}

// FromConfig converts a configured wing. Missing offset components become zero.
func FromConfig(w config.WingConfig) Definition {
	return Definition{
		Path:     w.Path,
		Name:     w.Name,
		SubName:  w.SubName,
		Rotation: [2]float32{w.Rotations.X, w.Rotations.Y},
		Offset:   w.MovedPos.Values(),
		Scale:    w.Scale,
	}
}

// FromConfigs converts a whole wing list.
func FromConfigs(ws []config.WingConfig) []Definition {
	out := make([]Definition, len(ws))
	for i, w := range ws {
		out[i] = FromConfig(w)
	}
	return out
}

// EffectiveScale returns Scale, or fallback when Scale is unset. A zero
// fallback means DefaultWingScale.
func (d Definition) EffectiveScale(fallback float32) float32 {
	switch {
	case d.Scale != 0:
		return d.Scale
	case fallback != 0:
		return fallback
	}
	return DefaultWingScale
}

// IsWingName reports whether a part name belongs to a wing variant.
func IsWingName(name, pattern string) bool {
	return strings.Contains(name, pattern)
}
