// Package viewer is the entry point for presentation shells: it owns the
// camera and lights, remembers the render and projection modes, and sends
// each render call to the rasterizer or the ray tracer.
package viewer

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/render"
	"go.uber.org/zap"
)

// RenderMode selects the renderer.
type RenderMode int

const (
	Rasterize RenderMode = iota
	RayTrace
)

func (m RenderMode) String() string {
	switch m {
	case Rasterize:
		return "rasterize"
	case RayTrace:
		return "raytrace"
	default:
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
}

// ParseRenderMode parses "rasterize" or "raytrace".
func ParseRenderMode(s string) (RenderMode, error) {
	switch s {
	case "rasterize", "raster":
		return Rasterize, nil
	case "raytrace", "ray":
		return RayTrace, nil
	}
	return 0, fmt.Errorf("unknown render mode %q", s)
}

// ErrInvalidMode is returned when setting an undefined mode.
var ErrInvalidMode = errors.New("invalid mode")

// Default view: looking at the centre of the unit cube from in front of it.
var (
	DefaultPosition   = math3d.V3(0.5, 0.5, -3)
	DefaultFocalPoint = math3d.V3(0.5, 0.5, 0.5)
	DefaultLight      = render.NewLight(math3d.V3(0.5, 3, -3))
)

// Viewer holds the view state. It is not safe for concurrent use; the
// caller sequences camera changes and render calls.
type Viewer struct {
	camera     *render.Camera
	lights     []render.Light
	mode       RenderMode
	projection render.Projection

	rasterizer *render.Rasterizer
	raytracer  *render.RayTracer
	log        *zap.Logger
}

// New creates a viewer with the default camera, one white light, and the
// Rasterize / Orthographic modes. A nil logger discards output.
func New(log *zap.Logger) *Viewer {
	if log == nil {
		log = zap.NewNop()
	}
	cam := render.NewCamera()
	cam.SetPosition(DefaultPosition)
	cam.SetFocalPoint(DefaultFocalPoint)
	cam.SetUp(math3d.Up())

	return &Viewer{
		camera:     cam,
		lights:     []render.Light{DefaultLight},
		mode:       Rasterize,
		projection: render.Orthographic,
		rasterizer: render.NewRasterizer(cam, log.Named("raster")),
		raytracer:  render.NewRayTracer(cam, log.Named("raytrace")),
		log:        log,
	}
}

// Camera returns the viewer's camera. Changes to it apply to the next
// render.
func (v *Viewer) Camera() *render.Camera {
	return v.camera
}

// RenderMode returns the current render mode.
func (v *Viewer) RenderMode() RenderMode {
	return v.mode
}

// SetRenderMode switches between rasterizing and ray tracing.
func (v *Viewer) SetRenderMode(m RenderMode) error {
	if m != Rasterize && m != RayTrace {
		return fmt.Errorf("%w: %v", ErrInvalidMode, m)
	}
	v.mode = m
	return nil
}

// ProjectionMode returns the current projection.
func (v *Viewer) ProjectionMode() render.Projection {
	return v.projection
}

// SetProjectionMode switches between orthographic and perspective.
func (v *Viewer) SetProjectionMode(p render.Projection) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidMode, p)
	}
	v.projection = p
	return nil
}

// RotateCam orbits the camera about its focal point.
func (v *Viewer) RotateCam(vertical, horizontal float64) {
	v.camera.Orbit(vertical, horizontal)
}

// ZoomCam dollies the camera by percent of its distance to the focal
// point. Positive values move away.
func (v *Viewer) ZoomCam(percent float64) {
	v.camera.Dolly(percent)
}

// FitView aims the camera at the centre of the box lo..hi from its -Z side,
// far enough back that the box fits the view angle, and sizes the clipping
// range and parallel scale to match. The up hint is kept.
func (v *Viewer) FitView(lo, hi math3d.Vec3) error {
	center := lo.Add(hi).Scale(0.5)
	radius := hi.Sub(lo).Len() / 2
	if !isFinite(radius) || !center.IsFinite() {
		return fmt.Errorf("%w: bounds %v .. %v", render.ErrInvalidCamera, lo, hi)
	}
	if radius == 0 {
		radius = 0.5
	}

	cam := v.camera
	// The bounding sphere fits inside the view cone at this distance.
	dist := 1.1 * radius / math.Sin(cam.ViewAngle()*math.Pi/360)
	far := dist + 2*radius
	near := max(dist-2*radius, far/1000)
	if err := cam.SetClippingRange(near, far); err != nil {
		return err
	}
	if err := cam.SetParallelScale(1.1 * radius); err != nil {
		return err
	}
	cam.SetFocalPoint(center)
	cam.SetPosition(center.Sub(math3d.V3(0, 0, dist)))

	v.log.Debug("fit view",
		zap.Float64("radius", radius),
		zap.Float64("distance", dist))
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Lights returns a copy of the light list.
func (v *Viewer) Lights() []render.Light {
	return slices.Clone(v.lights)
}

// AddLight appends a light and returns its index. An invalid light is
// rejected with render.ErrInvalidLight.
func (v *Viewer) AddLight(l render.Light) (int, error) {
	if err := l.Validate(); err != nil {
		return -1, err
	}
	v.lights = append(v.lights, l)
	return len(v.lights) - 1, nil
}

// SetLight replaces the light at index i.
func (v *Viewer) SetLight(i int, l render.Light) error {
	if i < 0 || i >= len(v.lights) {
		return fmt.Errorf("light %d out of range [0,%d)", i, len(v.lights))
	}
	if err := l.Validate(); err != nil {
		return err
	}
	v.lights[i] = l
	return nil
}

// RemoveLight deletes the light at index i.
func (v *Viewer) RemoveLight(i int) error {
	if i < 0 || i >= len(v.lights) {
		return fmt.Errorf("light %d out of range [0,%d)", i, len(v.lights))
	}
	v.lights = slices.Delete(v.lights, i, i+1)
	return nil
}

// SetLights replaces the whole light list. If any light is invalid the
// list is left unchanged.
func (v *Viewer) SetLights(lights []render.Light) error {
	for i, l := range lights {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	v.lights = slices.Clone(lights)
	return nil
}

// Render draws the scene with the current modes into a new raster.
func (v *Viewer) Render(d render.Display, scene render.Scene) (*render.Raster, error) {
	var r render.Renderer
	switch v.mode {
	case Rasterize:
		r = v.rasterizer
	case RayTrace:
		r = v.raytracer
	default:
		return &render.Raster{}, fmt.Errorf("%w: %v", ErrInvalidMode, v.mode)
	}

	v.log.Debug("render",
		zap.Stringer("mode", v.mode),
		zap.Stringer("projection", v.projection),
		zap.Int("width", d.Width),
		zap.Int("height", d.Height))
	return r.Render(d, scene, v.projection, v.lights)
}
