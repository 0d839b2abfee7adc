package math3d

import (
	"math"
	"testing"
)

func matApproxEqual(a, b Mat4, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestRotateQuarterTurns(t *testing.T) {
	tests := []struct {
		name string
		axis Vec3
		in   Vec3
		want Vec3
	}{
		{"x about y", Up(), Right(), V3(0, 0, -1)},
		{"z about y", Up(), V3(0, 0, 1), Right()},
		{"y about x", Right(), Up(), V3(0, 0, 1)},
		{"x about z", V3(0, 0, 1), Right(), Up()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Rotate(tc.axis, math.Pi/2).MulPoint(tc.in)
			if !got.ApproxEqual(tc.want, eps) {
				t.Errorf("Rotate(%v, 90deg) * %v = %v, want %v", tc.axis, tc.in, got, tc.want)
			}
		})
	}
}

func TestRotateZeroAxis(t *testing.T) {
	if m := Rotate(Zero3(), 1); m != Identity() {
		t.Errorf("rotation about zero axis should be identity, got %v", m)
	}
}

func TestBasisMapsFrameToAxes(t *testing.T) {
	u := V3(0, 0, -1)
	v := Up()
	w := V3(1, 0, 0)
	m := Basis(u, v, w)

	if got := m.MulPoint(u); !got.ApproxEqual(Right(), eps) {
		t.Errorf("u maps to %v, want +X", got)
	}
	if got := m.MulPoint(v); !got.ApproxEqual(Up(), eps) {
		t.Errorf("v maps to %v, want +Y", got)
	}
	if got := m.MulPoint(w); !got.ApproxEqual(V3(0, 0, 1), eps) {
		t.Errorf("w maps to %v, want +Z", got)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	p := Perspective(math.Pi/2, 1, 1, 20)

	near, ok := p.MulVec4(V4(0, 0, -1, 1)).PerspectiveDivide()
	if !ok || math.Abs(near.Z+1) > eps {
		t.Errorf("near plane maps to z=%v (ok=%v), want -1", near.Z, ok)
	}
	far, ok := p.MulVec4(V4(0, 0, -20, 1)).PerspectiveDivide()
	if !ok || math.Abs(far.Z-1) > eps {
		t.Errorf("far plane maps to z=%v (ok=%v), want 1", far.Z, ok)
	}

	// With a 90 degree fov the frustum edge at depth d sits at x = d.
	edge, _ := p.MulVec4(V4(5, -5, -5, 1)).PerspectiveDivide()
	if math.Abs(edge.X-1) > eps || math.Abs(edge.Y+1) > eps {
		t.Errorf("frustum corner maps to %v, want (1, -1)", edge)
	}
}

func TestOrthographicCube(t *testing.T) {
	o := Orthographic(-1, 1, -1, 1, 1, 20)
	got := o.MulPoint(V3(1, -1, -1))
	if !got.ApproxEqual(V3(1, -1, -1), eps) {
		t.Errorf("corner maps to %v, want (1, -1, -1)", got)
	}
	got = o.MulPoint(V3(0, 0, -20))
	if !got.ApproxEqual(V3(0, 0, 1), eps) {
		t.Errorf("far centre maps to %v, want (0, 0, 1)", got)
	}
}

func TestViewport(t *testing.T) {
	vp := Viewport(10, 4)

	tests := []struct {
		in, want Vec3
	}{
		{V3(0, 0, 0.5), V3(4.5, 1.5, 0.5)},
		{V3(-1, -1, 0), V3(-0.5, -0.5, 0)},
		{V3(1, 1, 0), V3(9.5, 3.5, 0)},
	}
	for _, tc := range tests {
		if got := vp.MulPoint(tc.in); !got.ApproxEqual(tc.want, eps) {
			t.Errorf("Viewport * %v = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestInverse(t *testing.T) {
	m := Translate(V3(1, -2, 3)).Mul(Rotate(V3(1, 1, 0), 0.7)).Mul(Scale(V3(2, 3, 0.5)))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	if got := m.Mul(inv); !matApproxEqual(got, Identity(), 1e-9) {
		t.Errorf("m * inv(m) = %v, want identity", got)
	}

	proj := Perspective(1.2, 1.5, 1, 50)
	pinv, ok := proj.Inverse()
	if !ok {
		t.Fatal("expected invertible projection")
	}
	if got := pinv.Mul(proj); !matApproxEqual(got, Identity(), 1e-9) {
		t.Errorf("inv(p) * p = %v, want identity", got)
	}
}

func TestInverseSingular(t *testing.T) {
	if _, ok := Scale(V3(1, 0, 1)).Inverse(); ok {
		t.Error("singular matrix reported as invertible")
	}
}

func TestMulOrder(t *testing.T) {
	// Translate after scale: scale is applied first.
	m := Translate(V3(1, 0, 0)).Mul(ScaleUniform(2))
	if got := m.MulPoint(V3(1, 1, 1)); !got.ApproxEqual(V3(3, 2, 2), eps) {
		t.Errorf("T*S*p = %v, want (3, 2, 2)", got)
	}
}
