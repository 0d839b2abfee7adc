// Package models holds the mesh store: triangle meshes with a flat colour
// and optional Phong reflectance, a keyed collection of them, and the
// binary and glTF formats they are persisted in.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/meshview/pkg/math3d"
)

// DefaultCoefficient is used for any reflectance coefficient a mesh leaves
// unset.
const DefaultCoefficient = 0.5

// ErrMalformedMesh reports geometry that violates the mesh contract: a face
// with fewer than three vertices or an index out of range.
var ErrMalformedMesh = errors.New("malformed mesh")

// RGB is an 8-bit colour.
type RGB [3]uint8

// Normalized returns the colour with each channel scaled to [0, 1].
func (c RGB) Normalized() math3d.Vec3 {
	return math3d.V3(float64(c[0])/255, float64(c[1])/255, float64(c[2])/255)
}

// Mesh is a polygon mesh with a single colour. Faces index into Vertices
// and may have any arity >= 3; they are fan-triangulated when rendered.
type Mesh struct {
	ID       string
	Vertices []math3d.Vec3
	Faces    [][]int
	Color    RGB

	// Ambient, diffuse and specular reflectance, each in [0, 1].
	// A nil coefficient means "unset".
	Ka, Kd, Ks *float64

	// Bounding box (see CalculateBounds)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates a mesh and computes its bounds. The slices are used as
// given, not copied.
func NewMesh(id string, vertices []math3d.Vec3, faces [][]int, color RGB) *Mesh {
	m := &Mesh{
		ID:       id,
		Vertices: vertices,
		Faces:    faces,
		Color:    color,
	}
	m.CalculateBounds()
	return m
}

// Coef returns a pointer to v, for filling the optional coefficients.
func Coef(v float64) *float64 {
	return &v
}

// SetCoefficients sets all three reflectance coefficients.
func (m *Mesh) SetCoefficients(ka, kd, ks float64) {
	m.Ka, m.Kd, m.Ks = Coef(ka), Coef(kd), Coef(ks)
}

// Coefficients returns ka, kd and ks, substituting DefaultCoefficient for
// any that are unset.
func (m *Mesh) Coefficients() (ka, kd, ks float64) {
	return coefOr(m.Ka), coefOr(m.Kd), coefOr(m.Ks)
}

func coefOr(c *float64) float64 {
	if c == nil {
		return DefaultCoefficient
	}
	return *c
}

// Validate checks the face arity and index ranges. Non-finite vertices
// are allowed; the renderers skip every face that uses one.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		if len(f) < 3 {
			return fmt.Errorf("%w: mesh %q face %d has %d vertices", ErrMalformedMesh, m.ID, i, len(f))
		}
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("%w: mesh %q face %d index %d out of range [0,%d)",
					ErrMalformedMesh, m.ID, i, idx, len(m.Vertices))
			}
		}
	}
	return nil
}

// Triangles returns the faces fan-triangulated into index triples.
// The mesh should be valid (see Validate).
func (m *Mesh) Triangles() [][3]int {
	tris := make([][3]int, 0, len(m.Faces))
	for _, f := range m.Faces {
		for k := 1; k+1 < len(f); k++ {
			tris = append(tris, [3]int{f[0], f[k], f[k+1]})
		}
	}
	return tris
}

// FaceNormal returns the unit normal of triangle tri following its winding
// (counter-clockwise faces point towards the viewer). A zero-area triangle
// has no normal and reports false.
func (m *Mesh) FaceNormal(tri [3]int) (math3d.Vec3, bool) {
	v0 := m.Vertices[tri[0]]
	n := m.Vertices[tri[1]].Sub(v0).Cross(m.Vertices[tri[2]].Sub(v0))
	if n.LenSq() == 0 || !n.IsFinite() {
		return math3d.Vec3{}, false
	}
	return n.Normalize(), true
}

// CalculateBounds computes the axis-aligned bounding box of the finite
// vertices. With none the box is the origin.
func (m *Mesh) CalculateBounds() {
	m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
	first := true
	for _, v := range m.Vertices {
		if !v.IsFinite() {
			continue
		}
		if first {
			m.BoundsMin, m.BoundsMax, first = v, v, false
			continue
		}
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		ID:        m.ID,
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		Faces:     make([][]int, len(m.Faces)),
		Color:     m.Color,
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	for i, f := range m.Faces {
		clone.Faces[i] = append([]int(nil), f...)
	}
	if m.Ka != nil {
		clone.Ka = Coef(*m.Ka)
	}
	if m.Kd != nil {
		clone.Kd = Coef(*m.Kd)
	}
	if m.Ks != nil {
		clone.Ks = Coef(*m.Ks)
	}
	return clone
}

// String summarises the mesh for logs.
func (m *Mesh) String() string {
	ka, kd, ks := m.Coefficients()
	return fmt.Sprintf("[id: %s, vertices: %d, faces: %d, color: %v, ka: %g, kd: %g, ks: %g]",
		m.ID, len(m.Vertices), len(m.Faces), m.Color, ka, kd, ks)
}
