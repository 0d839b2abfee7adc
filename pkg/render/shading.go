package render

import (
	"fmt"
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
)

// AmbientConstant scales the ambient term of the Phong model.
const AmbientConstant = 0.1

// Light is a point light. Color channels are in [0, 1].
type Light struct {
	Position  math3d.Vec3
	Color     math3d.Vec3
	Intensity float64
}

// NewLight creates a white light of intensity 1 at pos.
func NewLight(pos math3d.Vec3) Light {
	return Light{Position: pos, Color: math3d.V3(1, 1, 1), Intensity: 1}
}

// Validate checks that the intensity is non-negative and every colour
// channel lies in [0, 1].
func (l Light) Validate() error {
	if !l.Position.IsFinite() {
		return fmt.Errorf("%w: position %v", ErrInvalidLight, l.Position)
	}
	if !(l.Intensity >= 0) || math.IsInf(l.Intensity, 0) {
		return fmt.Errorf("%w: intensity %g", ErrInvalidLight, l.Intensity)
	}
	if l.Color.Clamp(0, 1) != l.Color || !l.Color.IsFinite() {
		return fmt.Errorf("%w: color %v", ErrInvalidLight, l.Color)
	}
	return nil
}

// Material is the shading input derived from a mesh: normalized colour and
// reflectance coefficients.
type Material struct {
	Color      math3d.Vec3
	Ka, Kd, Ks float64
}

// MaterialOf reads a mesh's colour and coefficients, defaulting unset
// coefficients.
func MaterialOf(m *models.Mesh) Material {
	ka, kd, ks := m.Coefficients()
	return Material{Color: m.Color.Normalized(), Ka: ka, Kd: kd, Ks: ks}
}

// Phong evaluates
//
//	sum over lights of I*(C⊙Lc)*max(0, N·L)*kd + I*(C⊙Lc)*max(0, N·H)*ks
//
// plus C*AmbientConstant*ka, where L points from the surface point to the
// light and H = normalize(-gaze + L). The result is not clamped.
func Phong(mat Material, point, normal, gaze math3d.Vec3, lights []Light) math3d.Vec3 {
	out := mat.Color.Scale(AmbientConstant * mat.Ka)
	toViewer := gaze.Negate()
	for _, l := range lights {
		toLight := l.Position.Sub(point).Normalize()
		half := toViewer.Add(toLight).Normalize()
		lit := mat.Color.Mul(l.Color).Scale(l.Intensity)

		diffuse := math.Max(0, normal.Dot(toLight)) * mat.Kd
		specular := math.Max(0, normal.Dot(half)) * mat.Ks
		out = out.Add(lit.Scale(diffuse + specular))
	}
	return out
}

// ToRGB clamps each channel of c to [0, 1] and scales it to 8 bits.
// NaN channels become 0.
func ToRGB(c math3d.Vec3) models.RGB {
	return models.RGB{channel(c.X), channel(c.Y), channel(c.Z)}
}

func channel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// facing flips n, if needed, so that it points toward the viewer direction.
func facing(n, toViewer math3d.Vec3) math3d.Vec3 {
	if n.Dot(toViewer) < 0 {
		return n.Negate()
	}
	return n
}
