package models

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/meshview/pkg/math3d"
)

func triangle() *Mesh {
	return NewMesh("tri", []math3d.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}, [][]int{{0, 1, 2}}, RGB{255, 0, 0})
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Mesh)
		wantErr bool
	}{
		{"valid", func(*Mesh) {}, false},
		{"short face", func(m *Mesh) { m.Faces = [][]int{{0, 1}} }, true},
		{"negative index", func(m *Mesh) { m.Faces = [][]int{{0, 1, -1}} }, true},
		{"index past end", func(m *Mesh) { m.Faces = [][]int{{0, 1, 3}} }, true},
		{"nan vertex", func(m *Mesh) { m.Vertices[1].X = math.NaN() }, false},
		{"inf vertex", func(m *Mesh) { m.Vertices[2].Z = math.Inf(-1) }, false},
		{"no faces", func(m *Mesh) { m.Faces = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := triangle()
			tt.mutate(m)
			err := m.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedMesh) {
					t.Errorf("Validate() = %v, want ErrMalformedMesh", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestTrianglesFan(t *testing.T) {
	m := NewCube("c", math3d.Zero3(), 1, RGB{})
	tris := m.Triangles()
	if len(tris) != 12 {
		t.Fatalf("cube has %d triangles, want 12", len(tris))
	}
	if tris[0] != [3]int{0, 3, 2} || tris[1] != [3]int{0, 2, 1} {
		t.Errorf("first quad fanned to %v %v", tris[0], tris[1])
	}
}

func TestCubeNormalsPointOutward(t *testing.T) {
	m := NewCube("c", math3d.V3(1, 2, 3), 0.5, RGB{})
	center := m.Center()
	for _, tri := range m.Triangles() {
		n, ok := m.FaceNormal(tri)
		if !ok {
			t.Fatalf("triangle %v has no normal", tri)
		}
		centroid := m.Vertices[tri[0]].Add(m.Vertices[tri[1]]).Add(m.Vertices[tri[2]]).Scale(1.0 / 3)
		if n.Dot(centroid.Sub(center)) <= 0 {
			t.Errorf("triangle %v normal %v points inward", tri, n)
		}
	}
}

func TestFaceNormalDegenerate(t *testing.T) {
	m := NewMesh("line", []math3d.Vec3{{X: 0}, {X: 1}, {X: 2}}, [][]int{{0, 1, 2}}, RGB{})
	if _, ok := m.FaceNormal([3]int{0, 1, 2}); ok {
		t.Error("collinear triangle should have no normal")
	}
}

func TestCoefficientsDefault(t *testing.T) {
	m := triangle()
	ka, kd, ks := m.Coefficients()
	if ka != DefaultCoefficient || kd != DefaultCoefficient || ks != DefaultCoefficient {
		t.Errorf("unset coefficients = %v %v %v, want %v", ka, kd, ks, DefaultCoefficient)
	}

	m.Kd = Coef(0.9)
	_, kd, _ = m.Coefficients()
	if kd != 0.9 {
		t.Errorf("kd = %v, want 0.9", kd)
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := triangle()
	m.SetCoefficients(0.1, 0.2, 0.3)
	c := m.Clone()

	c.Vertices[0].X = 42
	c.Faces[0][0] = 2
	*c.Ka = 0.7

	if m.Vertices[0].X != 0 {
		t.Error("clone shares vertices")
	}
	if m.Faces[0][0] != 0 {
		t.Error("clone shares faces")
	}
	if *m.Ka != 0.1 {
		t.Error("clone shares coefficients")
	}
}

func TestBounds(t *testing.T) {
	m := NewCube("c", math3d.V3(1, 1, 1), 2, RGB{})
	if !m.BoundsMin.ApproxEqual(math3d.V3(-1, -1, -1), 1e-12) {
		t.Errorf("BoundsMin = %v", m.BoundsMin)
	}
	if !m.Size().ApproxEqual(math3d.V3(4, 4, 4), 1e-12) {
		t.Errorf("Size = %v", m.Size())
	}
	if got := NewMesh("empty", nil, nil, RGB{}).Center(); got != math3d.Zero3() {
		t.Errorf("empty mesh center = %v", got)
	}

	m.Vertices[0].X = math.NaN()
	m.Vertices[1].Y = math.Inf(1)
	m.CalculateBounds()
	if !m.BoundsMin.IsFinite() || !m.BoundsMax.IsFinite() {
		t.Errorf("bounds with a nan vertex = %v .. %v", m.BoundsMin, m.BoundsMax)
	}
}
