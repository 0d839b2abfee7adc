package render

import (
	"errors"
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
	"go.uber.org/zap"
)

// Rasterizer draws meshes by projecting their triangles to the screen and
// filling them with a z-buffer. Each face is flat shaded with the Phong
// model evaluated at its centroid.
type Rasterizer struct {
	camera  *Camera
	log     *zap.Logger
	raster  *Raster
	zbuffer []float64 // row-major, NDC depth
}

// NewRasterizer creates a rasterizer for the camera. A nil logger discards
// output.
func NewRasterizer(camera *Camera, log *zap.Logger) *Rasterizer {
	return &Rasterizer{camera: camera, log: orNop(log)}
}

// Render rasterizes the scene into a new raster of size d.
//
// In orthographic mode mesh vertices go straight through the orthographic
// projector. In perspective mode each mesh is first flattened into a
// screen-space copy and the copy is filled as-is. A degenerate camera
// yields a black raster, not an error.
func (r *Rasterizer) Render(d Display, scene Scene, p Projection, lights []Light) (*Raster, error) {
	if err := d.Validate(); err != nil {
		return &Raster{}, err
	}
	meshes, err := drawable(scene, r.log)
	if err != nil {
		return &Raster{}, err
	}

	r.raster = NewRaster(d)
	out := r.raster
	defer func() { r.raster = nil }()

	pr, err := NewProjector(r.camera, d, p)
	if err != nil {
		if errors.Is(err, ErrDegenerateCamera) {
			r.log.Warn("degenerate camera, rendering blank raster")
			return out, nil
		}
		return &Raster{}, err
	}

	r.resize(d)
	r.ClearDepth()

	for _, m := range meshes {
		var screen []math3d.Vec3
		var faces [][]int
		switch p {
		case Perspective:
			flat, dropped := pr.ProjectMesh(m)
			if dropped > 0 {
				r.log.Debug("clipped faces", zap.String("mesh", m.ID), zap.Int("faces", dropped))
			}
			screen, faces = flat.Vertices, flat.Faces
		default:
			screen, faces = projectVertices(pr, m)
		}
		r.drawMesh(pr, m, screen, faces, lights)
	}

	r.log.Debug("rasterized",
		zap.Stringer("projection", p),
		zap.Int("meshes", len(meshes)),
		zap.Int("width", d.Width),
		zap.Int("height", d.Height))
	return out, nil
}

// projectVertices projects every vertex of m and returns the faces whose
// vertices all projected.
func projectVertices(pr *Projector, m *models.Mesh) ([]math3d.Vec3, [][]int) {
	screen := make([]math3d.Vec3, len(m.Vertices))
	ok := make([]bool, len(m.Vertices))
	for i, v := range m.Vertices {
		screen[i], ok[i] = pr.Project(v)
	}
	faces := make([][]int, 0, len(m.Faces))
outer:
	for _, f := range m.Faces {
		for _, idx := range f {
			if !ok[idx] {
				continue outer
			}
		}
		faces = append(faces, f)
	}
	return screen, faces
}

func (r *Rasterizer) resize(d Display) {
	n := d.Width * d.Height
	if cap(r.zbuffer) < n {
		r.zbuffer = make([]float64, n)
	}
	r.zbuffer = r.zbuffer[:n]
}

// ClearDepth resets the z-buffer to +Inf.
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// drawMesh shades and fills each triangle of faces. screen holds the
// projected vertices of m, index for index.
func (r *Rasterizer) drawMesh(pr *Projector, m *models.Mesh, screen []math3d.Vec3, faces [][]int, lights []Light) {
	mat := MaterialOf(m)
	gaze := pr.Frame.W.Negate()

	for _, f := range faces {
		for k := 1; k+1 < len(f); k++ {
			tri := [3]int{f[0], f[k], f[k+1]}
			n, ok := m.FaceNormal(tri)
			if !ok {
				continue
			}
			a, b, c := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
			centroid := a.Add(b).Add(c).Scale(1.0 / 3)

			toViewer := pr.Frame.W
			if pr.Projection == Perspective {
				toViewer = pr.Frame.Eye.Sub(centroid)
			}
			n = facing(n, toViewer)

			color := ToRGB(Phong(mat, centroid, n, gaze, lights))
			r.fillTriangle(screen[tri[0]], screen[tri[1]], screen[tri[2]], color)
		}
	}
}

// fillTriangle fills a screen-space triangle. Pixel centres sit at integer
// screen coordinates; fragments outside the clip depth range are dropped.
func (r *Rasterizer) fillTriangle(s0, s1, s2 math3d.Vec3, color models.RGB) {
	w, h := r.raster.Width, r.raster.Height
	top := float64(h - 1)

	// Flip to raster rows (y down).
	x0, y0 := s0.X, top-s0.Y
	x1, y1 := s1.X, top-s1.Y
	x2, y2 := s2.X, top-s2.Y

	area := (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
	if area == 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		return
	}

	// Find bounding box
	minX := int(math.Max(0, math.Ceil(min3(x0, x1, x2))))
	maxX := int(math.Min(float64(w-1), math.Floor(max3(x0, x1, x2))))
	minY := int(math.Max(0, math.Ceil(min3(y0, y1, y2))))
	maxY := int(math.Min(float64(h-1), math.Floor(max3(y0, y1, y2))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc := barycentric(x0, y0, x1, y1, x2, y2, float64(x), float64(y))
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*s0.Z + bc.Y*s1.Z + bc.Z*s2.Z
			if z < -1 || z > 1 {
				continue
			}
			i := y*w + x
			if z >= r.zbuffer[i] {
				continue
			}
			r.zbuffer[i] = z
			r.raster.Set(x, y, color)
		}
	}
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
