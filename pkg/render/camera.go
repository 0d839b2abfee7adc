package render

import (
	"fmt"
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
)

// Camera defaults.
const (
	DefaultViewAngle     = 90.0 // degrees
	DefaultNear          = 1.0
	DefaultFar           = 20.0
	DefaultParallelScale = 1.0
)

// Fallback eye and target used while the position or focal point is unset.
var (
	defaultPosition   = math3d.Forward().Negate()
	defaultFocalPoint = math3d.Zero3()
)

// ClippingRange is the pair of near and far distances along the gaze.
type ClippingRange struct {
	Near, Far float64
}

// Camera is a look-at camera: a position, a focal point and an up hint,
// plus the optics used by the projections. Position, focal point and up
// start unset; their getters report ok=false until set.
type Camera struct {
	position    math3d.Vec3
	focalPoint  math3d.Vec3
	up          math3d.Vec3
	hasPosition bool
	hasFocal    bool
	hasUp       bool

	viewAngle     float64 // degrees
	parallelScale float64
	clipping      ClippingRange
}

// NewCamera creates a camera with unset placement and default optics.
func NewCamera() *Camera {
	return &Camera{
		viewAngle:     DefaultViewAngle,
		parallelScale: DefaultParallelScale,
		clipping:      ClippingRange{Near: DefaultNear, Far: DefaultFar},
	}
}

// Position returns the camera position.
func (c *Camera) Position() (math3d.Vec3, bool) {
	return c.position, c.hasPosition
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(p math3d.Vec3) {
	c.position, c.hasPosition = p, true
}

// FocalPoint returns the point the camera looks at.
func (c *Camera) FocalPoint() (math3d.Vec3, bool) {
	return c.focalPoint, c.hasFocal
}

// SetFocalPoint sets the point the camera looks at.
func (c *Camera) SetFocalPoint(p math3d.Vec3) {
	c.focalPoint, c.hasFocal = p, true
}

// Up returns the up hint.
func (c *Camera) Up() (math3d.Vec3, bool) {
	return c.up, c.hasUp
}

// SetUp sets the up hint. It need not be orthogonal to the gaze.
func (c *Camera) SetUp(u math3d.Vec3) {
	c.up, c.hasUp = u, true
}

// upOrDefault returns the up hint, or +Y when unset.
func (c *Camera) upOrDefault() math3d.Vec3 {
	if c.hasUp {
		return c.up
	}
	return math3d.Up()
}

// eyeAndTarget returns position and focal point, substituting the fallback
// view for whichever is unset.
func (c *Camera) eyeAndTarget() (eye, target math3d.Vec3) {
	eye, target = defaultPosition, defaultFocalPoint
	if c.hasPosition {
		eye = c.position
	}
	if c.hasFocal {
		target = c.focalPoint
	}
	return eye, target
}

// Gaze returns the unit vector from position to focal point. It reports
// false when the two coincide.
func (c *Camera) Gaze() (math3d.Vec3, bool) {
	eye, target := c.eyeAndTarget()
	g := target.Sub(eye)
	if g.LenSq() == 0 || !g.IsFinite() {
		return math3d.Vec3{}, false
	}
	return g.Normalize(), true
}

// Distance returns |focal point - position|, if both are set.
func (c *Camera) Distance() (float64, bool) {
	if !c.hasPosition || !c.hasFocal {
		return 0, false
	}
	return c.focalPoint.Distance(c.position), true
}

// SetDistance moves the focal point along the gaze so that it lies d away
// from the position.
func (c *Camera) SetDistance(d float64) error {
	if d <= 0 || !isFiniteFloat(d) {
		return fmt.Errorf("%w: distance %g", ErrInvalidCamera, d)
	}
	g, ok := c.Gaze()
	if !ok {
		return ErrDegenerateCamera
	}
	eye, _ := c.eyeAndTarget()
	c.SetFocalPoint(eye.Add(g.Scale(d)))
	return nil
}

// ViewAngle returns the vertical field of view in degrees.
func (c *Camera) ViewAngle() float64 {
	return c.viewAngle
}

// SetViewAngle sets the vertical field of view in degrees, in (0, 180).
func (c *Camera) SetViewAngle(deg float64) error {
	if deg <= 0 || deg >= 180 || !isFiniteFloat(deg) {
		return fmt.Errorf("%w: view angle %g", ErrInvalidCamera, deg)
	}
	c.viewAngle = deg
	return nil
}

// ParallelScale returns the half height of the orthographic view volume.
func (c *Camera) ParallelScale() float64 {
	return c.parallelScale
}

// SetParallelScale sets the half height of the orthographic view volume.
func (c *Camera) SetParallelScale(s float64) error {
	if s <= 0 || !isFiniteFloat(s) {
		return fmt.Errorf("%w: parallel scale %g", ErrInvalidCamera, s)
	}
	c.parallelScale = s
	return nil
}

// ClippingRange returns the near and far clip distances.
func (c *Camera) ClippingRange() ClippingRange {
	return c.clipping
}

// SetClippingRange sets the clip distances; 0 < near < far.
func (c *Camera) SetClippingRange(near, far float64) error {
	if near <= 0 || far <= near || !isFiniteFloat(near) || !isFiniteFloat(far) {
		return fmt.Errorf("%w: clipping range [%g, %g]", ErrInvalidCamera, near, far)
	}
	c.clipping = ClippingRange{Near: near, Far: far}
	return nil
}

// Thickness returns far - near.
func (c *Camera) Thickness() float64 {
	return c.clipping.Far - c.clipping.Near
}

// SetThickness keeps the near plane and moves the far plane to near + t.
func (c *Camera) SetThickness(t float64) error {
	return c.SetClippingRange(c.clipping.Near, c.clipping.Near+t)
}

// Orbit rotates the position about the focal point: first by vertical
// degrees about the camera's right axis, then by horizontal degrees about
// the up hint. The focal point and up hint are unchanged. Orbit does
// nothing until both position and focal point are set.
func (c *Camera) Orbit(vertical, horizontal float64) {
	if !c.hasPosition || !c.hasFocal {
		return
	}
	rel := c.position.Sub(c.focalPoint)
	if rel.LenSq() == 0 {
		return
	}
	up := c.upOrDefault()
	right, _ := cameraAxes(rel.Normalize(), up)

	toFocal := math3d.Translate(c.focalPoint)
	fromFocal := math3d.Translate(c.focalPoint.Negate())
	rot := math3d.Rotate(up, radians(horizontal)).Mul(math3d.Rotate(right, radians(vertical)))

	c.position = toFocal.Mul(rot).Mul(fromFocal).MulPoint(c.position)
}

// Dolly scales the focal-point-to-position vector by 1 + percent/100.
// Positive percent moves away from the focal point, negative moves toward
// it; the factor never goes below zero.
func (c *Camera) Dolly(percent float64) {
	if !c.hasPosition || !c.hasFocal {
		return
	}
	factor := math.Max(0, 1+percent/100)

	toFocal := math3d.Translate(c.focalPoint)
	fromFocal := math3d.Translate(c.focalPoint.Negate())
	c.position = toFocal.Mul(math3d.ScaleUniform(factor)).Mul(fromFocal).MulPoint(c.position)
}

// Frame is the orthonormal camera basis. W points away from the scene, so
// the camera looks down -W.
type Frame struct {
	Eye   math3d.Vec3
	Right math3d.Vec3
	Up    math3d.Vec3
	W     math3d.Vec3
}

// Frame builds the camera basis from the gaze and up hint. When the up hint
// is parallel to the gaze another world axis stands in for it. It returns
// ErrDegenerateCamera for a zero-length gaze.
func (c *Camera) Frame() (Frame, error) {
	g, ok := c.Gaze()
	if !ok {
		return Frame{}, ErrDegenerateCamera
	}
	eye, _ := c.eyeAndTarget()
	w := g.Negate()
	right, v := cameraAxes(w, c.upOrDefault())
	return Frame{Eye: eye, Right: right, Up: v, W: w}, nil
}

// ViewMatrix maps world coordinates into the camera frame.
func (f Frame) ViewMatrix() math3d.Mat4 {
	return math3d.Basis(f.Right, f.Up, f.W).Mul(math3d.Translate(f.Eye.Negate()))
}

// cameraAxes returns right = normalize(up x w) and v = w x right for the
// unit vector w, replacing an up hint parallel to w with the world axis
// least aligned with w.
func cameraAxes(w, up math3d.Vec3) (right, v math3d.Vec3) {
	const parallelEps = 1e-12
	r := up.Cross(w)
	if r.LenSq() <= parallelEps*up.LenSq() || !r.IsFinite() {
		r = fallbackUp(w).Cross(w)
	}
	right = r.Normalize()
	return right, w.Cross(right)
}

func fallbackUp(w math3d.Vec3) math3d.Vec3 {
	ax, ay, az := math.Abs(w.X), math.Abs(w.Y), math.Abs(w.Z)
	switch {
	case ay <= ax && ay <= az:
		return math3d.Up()
	case az <= ax:
		return math3d.V3(0, 0, 1)
	default:
		return math3d.Right()
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func isFiniteFloat(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
