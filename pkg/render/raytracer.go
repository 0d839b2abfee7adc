package render

import (
	"errors"
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
	"go.uber.org/zap"
)

// RayTracer casts one ray per pixel through the image plane, finds the
// nearest triangle hit across all meshes and Phong shades it.
type RayTracer struct {
	camera *Camera
	log    *zap.Logger
}

// NewRayTracer creates a ray tracer for the camera. A nil logger discards
// output.
func NewRayTracer(camera *Camera, log *zap.Logger) *RayTracer {
	return &RayTracer{camera: camera, log: orNop(log)}
}

// Ray is the segment from Near to Far.
type Ray struct {
	Near, Far math3d.Vec3
}

// Hit is a ray-triangle intersection.
type Hit struct {
	Point  math3d.Vec3
	Normal math3d.Vec3 // face normal, turned toward the ray origin
	DistSq float64     // squared distance from the ray's near point
	Mesh   *models.Mesh
}

// Render ray traces the scene into a new raster of size d. Pixels whose
// ray hits nothing are black. A degenerate camera yields a black raster.
func (rt *RayTracer) Render(d Display, scene Scene, p Projection, lights []Light) (*Raster, error) {
	if err := d.Validate(); err != nil {
		return &Raster{}, err
	}
	if !p.Valid() {
		return &Raster{}, errors.New("ray trace: unknown projection " + p.String())
	}
	meshes, err := drawable(scene, rt.log)
	if err != nil {
		return &Raster{}, err
	}

	out := NewRaster(d)
	frame, err := rt.camera.Frame()
	if err != nil {
		rt.log.Warn("degenerate camera, rendering blank raster")
		return out, nil
	}

	caster := newRayCaster(rt.camera, frame, d, p)
	gaze := frame.W.Negate()
	hits := 0

	for y := range d.Height {
		for x := range d.Width {
			ray := caster.ray(x, y)
			hit, ok := closestHit(ray, meshes)
			if !ok {
				continue
			}
			hits++
			color := Phong(MaterialOf(hit.Mesh), hit.Point, hit.Normal, gaze, lights)
			out.Set(x, y, ToRGB(color))
		}
	}

	rt.log.Debug("ray traced",
		zap.Stringer("projection", p),
		zap.Int("meshes", len(meshes)),
		zap.Int("hits", hits),
		zap.Int("width", d.Width),
		zap.Int("height", d.Height))
	return out, nil
}

// rayCaster builds the per-pixel rays for one frame.
type rayCaster struct {
	frame      Frame
	projection Projection
	near, far  float64
	halfW      float64
	halfH      float64
	width      float64
	height     float64
}

func newRayCaster(cam *Camera, frame Frame, d Display, p Projection) rayCaster {
	cr := cam.ClippingRange()
	extent := ImageExtent(cam, p)
	return rayCaster{
		frame:      frame,
		projection: p,
		near:       cr.Near,
		far:        cr.Far,
		halfW:      extent * d.Aspect(),
		halfH:      extent,
		width:      float64(d.Width),
		height:     float64(d.Height),
	}
}

// ray returns the ray through the centre of pixel (x, y), row 0 at the top.
// Perspective rays run from the image plane at the near distance out to
// the far distance along lines through the eye; orthographic rays are
// parallel to the gaze.
func (rc rayCaster) ray(x, y int) Ray {
	px := ((float64(x)+0.5)/rc.width*2 - 1) * rc.halfW
	py := (1 - (float64(y)+0.5)/rc.height*2) * rc.halfH

	f := rc.frame
	forward := f.W.Negate()
	offset := f.Right.Scale(px).Add(f.Up.Scale(py))
	near := f.Eye.Add(forward.Scale(rc.near)).Add(offset)

	if rc.projection == Perspective {
		far := f.Eye.Add(near.Sub(f.Eye).Scale(rc.far / rc.near))
		return Ray{Near: near, Far: far}
	}
	return Ray{Near: near, Far: near.Add(forward.Scale(rc.far - rc.near))}
}

// closestHit intersects the ray with every mesh and returns the hit nearest
// the ray's near point. On an exact tie the earlier hit wins.
func closestHit(ray Ray, meshes []*models.Mesh) (Hit, bool) {
	var best Hit
	found := false
	for _, m := range meshes {
		hit, ok := intersectMesh(ray, m)
		if ok && (!found || hit.DistSq < best.DistSq) {
			best, found = hit, true
		}
	}
	return best, found
}

// intersectMesh returns the nearest intersection of the ray segment with
// the mesh's triangles. Triangles with a non-finite vertex are skipped.
func intersectMesh(ray Ray, m *models.Mesh) (Hit, bool) {
	var best Hit
	found := false
	dir := ray.Far.Sub(ray.Near)

	for _, tri := range m.Triangles() {
		a, b, c := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
		if !a.IsFinite() || !b.IsFinite() || !c.IsFinite() {
			continue
		}
		t, ok := intersectTriangle(ray.Near, dir, a, b, c)
		if !ok {
			continue
		}
		p := ray.Near.Add(dir.Scale(t))
		d := p.DistanceSq(ray.Near)
		if found && d >= best.DistSq {
			continue
		}
		n, ok := m.FaceNormal(tri)
		if !ok {
			continue
		}
		best = Hit{Point: p, Normal: facing(n, dir.Negate()), DistSq: d, Mesh: m}
		found = true
	}
	return best, found
}

// intersectTriangle is the Möller-Trumbore test for the segment
// origin + t*dir, t in [0, 1]. Both triangle sides count.
func intersectTriangle(origin, dir, a, b, c math3d.Vec3) (float64, bool) {
	const eps = 1e-12

	e1 := b.Sub(a)
	e2 := c.Sub(a)
	pv := dir.Cross(e2)
	det := e1.Dot(pv)
	if math.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det

	tv := origin.Sub(a)
	u := tv.Dot(pv) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	qv := tv.Cross(e1)
	v := dir.Dot(qv) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(qv) * inv
	if t < 0 || t > 1 || math.IsNaN(t) {
		return 0, false
	}
	return t, true
}
