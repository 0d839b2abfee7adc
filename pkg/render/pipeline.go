package render

import (
	"fmt"
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
)

// Projection selects how camera space is mapped to the image plane.
type Projection int

const (
	Orthographic Projection = iota
	Perspective
)

func (p Projection) String() string {
	switch p {
	case Orthographic:
		return "orthographic"
	case Perspective:
		return "perspective"
	default:
		return fmt.Sprintf("Projection(%d)", int(p))
	}
}

// Valid reports whether p is one of the defined projections.
func (p Projection) Valid() bool {
	return p == Orthographic || p == Perspective
}

// ParseProjection parses "orthographic" / "ortho" or "perspective" / "persp".
func ParseProjection(s string) (Projection, error) {
	switch s {
	case "orthographic", "ortho":
		return Orthographic, nil
	case "perspective", "persp":
		return Perspective, nil
	}
	return 0, fmt.Errorf("unknown projection %q", s)
}

// Projector is the world to pixel transform chain for one camera state and
// display: camera transform, projection, perspective divide and viewport.
//
// Screen coordinates put pixel centres on integers: x' = W/2*x + (W-1)/2
// (likewise for y), so the frustum edges at NDC -1 and +1 land on the
// outer pixel edges -0.5 and W-0.5. y' grows upward; the raster row is
// (H-1) - y'.
type Projector struct {
	Display    Display
	Projection Projection
	Frame      Frame

	view     math3d.Mat4
	proj     math3d.Mat4
	viewport math3d.Mat4
	clip     math3d.Mat4 // proj * view
	inverse  math3d.Mat4 // inverse of viewport * proj * view
}

// NewProjector snapshots the camera into a transform chain. It fails with
// ErrInvalidDisplay or ErrDegenerateCamera.
func NewProjector(cam *Camera, d Display, p Projection) (*Projector, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if !p.Valid() {
		return nil, fmt.Errorf("unknown projection %v", p)
	}
	frame, err := cam.Frame()
	if err != nil {
		return nil, err
	}

	pr := &Projector{
		Display:    d,
		Projection: p,
		Frame:      frame,
		view:       frame.ViewMatrix(),
		proj:       projectionMatrix(cam, d, p),
		viewport:   math3d.Viewport(d.Width, d.Height),
	}
	pr.clip = pr.proj.Mul(pr.view)
	inv, ok := pr.viewport.Mul(pr.clip).Inverse()
	if !ok || !inv.IsFinite() {
		return nil, ErrDegenerateCamera
	}
	pr.inverse = inv
	return pr, nil
}

func projectionMatrix(cam *Camera, d Display, p Projection) math3d.Mat4 {
	cr := cam.ClippingRange()
	aspect := d.Aspect()
	if p == Perspective {
		return math3d.Perspective(radians(cam.ViewAngle()), aspect, cr.Near, cr.Far)
	}
	s := cam.ParallelScale()
	return math3d.Orthographic(-s*aspect, s*aspect, -s, s, cr.Near, cr.Far)
}

// ImageExtent returns the half height of the image plane at the near
// distance: near*tan(fov/2) in perspective, the parallel scale otherwise.
// The half width is ImageExtent * aspect.
func ImageExtent(cam *Camera, p Projection) float64 {
	if p == Perspective {
		return cam.ClippingRange().Near * math.Tan(radians(cam.ViewAngle())/2)
	}
	return cam.ParallelScale()
}

// ToCamera transforms a world point into camera space.
func (pr *Projector) ToCamera(p math3d.Vec3) math3d.Vec3 {
	return pr.view.MulPoint(p)
}

// Project maps a world point to screen coordinates (x', y', depth), where
// depth is the NDC z in [-1, 1] for points between the clip planes. It
// reports false for a point on or behind the eye plane in perspective, or
// any non-finite result.
func (pr *Projector) Project(p math3d.Vec3) (math3d.Vec3, bool) {
	c := pr.clip.MulVec4(math3d.Point(p))
	if !(c.W > 0) {
		return math3d.Vec3{}, false
	}
	ndc, ok := c.PerspectiveDivide()
	if !ok {
		return math3d.Vec3{}, false
	}
	s := pr.viewport.MulPoint(ndc)
	return s, s.IsFinite()
}

// Unproject maps screen coordinates (x', y', depth) back to a world point.
func (pr *Projector) Unproject(s math3d.Vec3) (math3d.Vec3, bool) {
	return pr.inverse.MulVec4(math3d.Point(s)).PerspectiveDivide()
}

// Pixel returns the raster column and row containing screen point s,
// clamped to the display.
func (pr *Projector) Pixel(s math3d.Vec3) (col, row int) {
	w, h := pr.Display.Width, pr.Display.Height
	col = clampInt(int(math.Round(s.X)), 0, w-1)
	row = clampInt(int(math.Round(float64(h-1)-s.Y)), 0, h-1)
	return col, row
}

// ProjectMesh returns a copy of m whose vertices are screen coordinates.
// Faces that touch a vertex that could not be projected are dropped; the
// number dropped is returned. m itself is not modified.
func (pr *Projector) ProjectMesh(m *models.Mesh) (*models.Mesh, int) {
	flat := m.Clone()
	clipped := make([]bool, len(flat.Vertices))
	for i, v := range flat.Vertices {
		s, ok := pr.Project(v)
		flat.Vertices[i] = s
		clipped[i] = !ok
	}

	kept := flat.Faces[:0]
	for _, f := range flat.Faces {
		visible := true
		for _, idx := range f {
			if clipped[idx] {
				visible = false
				break
			}
		}
		if visible {
			kept = append(kept, f)
		}
	}
	dropped := len(flat.Faces) - len(kept)
	flat.Faces = kept
	flat.CalculateBounds()
	return flat, dropped
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
