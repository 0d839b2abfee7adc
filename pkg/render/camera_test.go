package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/meshview/pkg/math3d"
)

const tol = 1e-9

func TestCameraUnsetFields(t *testing.T) {
	cam := NewCamera()
	if _, ok := cam.Position(); ok {
		t.Error("position should start unset")
	}
	if _, ok := cam.FocalPoint(); ok {
		t.Error("focal point should start unset")
	}
	if _, ok := cam.Up(); ok {
		t.Error("up should start unset")
	}
	if _, ok := cam.Distance(); ok {
		t.Error("distance needs position and focal point")
	}

	// An unset camera still yields a usable fallback view.
	f, err := cam.Frame()
	if err != nil {
		t.Fatalf("Frame on unset camera: %v", err)
	}
	if !f.W.ApproxEqual(math3d.V3(0, 0, 1), tol) {
		t.Errorf("fallback W = %v", f.W)
	}

	// Orbit and dolly need both points.
	cam.Orbit(10, 10)
	cam.Dolly(50)
	if _, ok := cam.Position(); ok {
		t.Error("motion should not set the position")
	}
}

func TestCameraOrbitInvertible(t *testing.T) {
	tests := []struct {
		name       string
		pos, focal math3d.Vec3
		v, h       float64
	}{
		{"horizontal only", math3d.V3(0, 0, 5), math3d.Zero3(), 0, 90},
		{"vertical only", math3d.V3(0, 0, 5), math3d.Zero3(), 30, 0},
		{"both", math3d.V3(0.5, 0.5, -3), math3d.V3(0.5, 0.5, 0.5), 25, -40},
		{"off axis", math3d.V3(3, 2, 1), math3d.V3(-1, 0, 2), -15, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := lookingAt(tt.pos, tt.focal)
			cam.Orbit(tt.v, tt.h)
			cam.Orbit(-tt.v, -tt.h)

			got, _ := cam.Position()
			if !got.ApproxEqual(tt.pos, 1e-9) {
				t.Errorf("position after round trip = %v, want %v", got, tt.pos)
			}
			if f, _ := cam.FocalPoint(); f != tt.focal {
				t.Errorf("focal point moved to %v", f)
			}
		})
	}
}

func TestCameraOrbitKeepsDistance(t *testing.T) {
	cam := lookingAt(math3d.V3(1, 2, 3), math3d.V3(0, 1, 0))
	before, _ := cam.Distance()
	cam.Orbit(33, 71)
	after, _ := cam.Distance()
	if math.Abs(before-after) > tol {
		t.Errorf("distance changed from %v to %v", before, after)
	}
}

func TestCameraOrbitHorizontalQuarterTurn(t *testing.T) {
	cam := lookingAt(math3d.V3(0, 0, 5), math3d.Zero3())
	cam.Orbit(0, 90)
	got, _ := cam.Position()
	// Counter-clockwise about +Y takes +Z to +X.
	if !got.ApproxEqual(math3d.V3(5, 0, 0), tol) {
		t.Errorf("position = %v, want (5, 0, 0)", got)
	}
}

func TestCameraDollyMonotonic(t *testing.T) {
	tests := []struct {
		percent float64
		want    int // sign of the distance change
	}{
		{50, 1},
		{1, 1},
		{0, 0},
		{-1, -1},
		{-50, -1},
		{-100, -1},
		{-250, -1},
	}

	for _, tt := range tests {
		cam := lookingAt(math3d.V3(2, 2, 2), math3d.V3(1, 1, 1))
		before, _ := cam.Distance()
		cam.Dolly(tt.percent)
		after, _ := cam.Distance()

		var got int
		switch {
		case after > before+tol:
			got = 1
		case after < before-tol:
			got = -1
		}
		if got != tt.want {
			t.Errorf("Dolly(%v): distance %v -> %v", tt.percent, before, after)
		}
		if after < 0 {
			t.Errorf("Dolly(%v): negative distance %v", tt.percent, after)
		}
	}
}

func TestCameraDollyToFocalPointIsDegenerate(t *testing.T) {
	cam := lookingAt(math3d.V3(0, 0, 4), math3d.Zero3())
	cam.Dolly(-100)
	if _, ok := cam.Gaze(); ok {
		t.Error("camera at its focal point should have no gaze")
	}
	if _, err := cam.Frame(); !errors.Is(err, ErrDegenerateCamera) {
		t.Errorf("Frame() error = %v, want ErrDegenerateCamera", err)
	}
}

func TestCameraFrameOrthonormal(t *testing.T) {
	tests := []struct {
		name string
		up   math3d.Vec3
	}{
		{"default up", math3d.Up()},
		{"tilted up", math3d.V3(1, 1, 0)},
		{"up parallel to gaze", math3d.V3(0, 0, 1)},
		{"up antiparallel to gaze", math3d.V3(0, 0, -3)},
		{"zero up", math3d.Zero3()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := lookingAt(math3d.V3(0, 0, -5), math3d.Zero3())
			cam.SetUp(tt.up)
			f, err := cam.Frame()
			if err != nil {
				t.Fatalf("Frame: %v", err)
			}
			for _, v := range []math3d.Vec3{f.Right, f.Up, f.W} {
				if math.Abs(v.Len()-1) > tol || !v.IsFinite() {
					t.Fatalf("basis vector %v is not unit", v)
				}
			}
			if math.Abs(f.Right.Dot(f.Up)) > tol || math.Abs(f.Right.Dot(f.W)) > tol || math.Abs(f.Up.Dot(f.W)) > tol {
				t.Errorf("basis not orthogonal: %+v", f)
			}
			if !f.Right.Cross(f.Up).ApproxEqual(f.W, tol) {
				t.Errorf("basis not right-handed: %+v", f)
			}
		})
	}
}

func TestCameraViewMatrix(t *testing.T) {
	cam := lookingAt(math3d.V3(1, 2, 3), math3d.V3(1, 2, -7))
	f, err := cam.Frame()
	if err != nil {
		t.Fatal(err)
	}
	view := f.ViewMatrix()

	if got := view.MulPoint(math3d.V3(1, 2, 3)); !got.ApproxEqual(math3d.Zero3(), tol) {
		t.Errorf("eye maps to %v, want origin", got)
	}
	// The focal point lies straight ahead, down -Z.
	if got := view.MulPoint(math3d.V3(1, 2, -7)); !got.ApproxEqual(math3d.V3(0, 0, -10), tol) {
		t.Errorf("focal point maps to %v, want (0, 0, -10)", got)
	}
}

func TestCameraOptics(t *testing.T) {
	cam := lookingAt(math3d.V3(0, 0, 10), math3d.Zero3())

	if err := cam.SetClippingRange(2, 50); err != nil {
		t.Fatal(err)
	}
	if cam.Thickness() != 48 {
		t.Errorf("Thickness() = %v", cam.Thickness())
	}
	if err := cam.SetThickness(10); err != nil {
		t.Fatal(err)
	}
	if cr := cam.ClippingRange(); cr != (ClippingRange{Near: 2, Far: 12}) {
		t.Errorf("ClippingRange() = %+v", cr)
	}

	if err := cam.SetDistance(4); err != nil {
		t.Fatal(err)
	}
	if f, _ := cam.FocalPoint(); !f.ApproxEqual(math3d.V3(0, 0, 6), tol) {
		t.Errorf("focal point = %v after SetDistance", f)
	}

	invalid := []error{
		cam.SetClippingRange(0, 1),
		cam.SetClippingRange(5, 5),
		cam.SetThickness(-1),
		cam.SetViewAngle(0),
		cam.SetViewAngle(180),
		cam.SetParallelScale(-2),
		cam.SetDistance(math.NaN()),
	}
	for i, err := range invalid {
		if !errors.Is(err, ErrInvalidCamera) {
			t.Errorf("case %d: error = %v, want ErrInvalidCamera", i, err)
		}
	}
	if cam.ViewAngle() != DefaultViewAngle || cam.ParallelScale() != DefaultParallelScale {
		t.Error("rejected values should not be stored")
	}
}
