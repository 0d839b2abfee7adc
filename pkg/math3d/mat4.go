package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// Points are column vectors, so a.Mul(b) applies b first, then a.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// Rotate creates a counter-clockwise rotation of angle radians around an
// arbitrary axis (right-hand rule). A zero axis yields the identity.
func Rotate(axis Vec3, angle float64) Mat4 {
	axis = axis.Normalize()
	if axis.LenSq() == 0 {
		return Identity()
	}
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Basis creates the change-of-basis matrix into the orthonormal frame
// (u, v, w): the returned matrix maps u to +X, v to +Y and w to +Z.
func Basis(u, v, w Vec3) Mat4 {
	return Mat4{
		u.X, v.X, w.X, 0,
		u.Y, v.Y, w.Y, 0,
		u.Z, v.Z, w.Z, 0,
		0, 0, 0, 1,
	}
}

// Perspective creates a perspective projection matrix for a camera looking
// down -Z. fovy is the vertical field of view in radians, aspect is
// width/height, near and far are positive clip distances. The resulting
// clip-space w equals the camera-space depth -z.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// Orthographic creates an orthographic projection matrix mapping the box
// [left,right]x[bottom,top]x[-near,-far] onto the [-1,1] cube.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(right + left) * rl, -(top + bottom) * tb, -(far + near) * fn, 1,
	}
}

// Viewport creates the scale-and-shift matrix from normalized device
// coordinates to pixel coordinates:
//
//	x' = width/2 * x + (width-1)/2
//	y' = height/2 * y + (height-1)/2
//
// z and w pass through unchanged.
func Viewport(width, height int) Mat4 {
	w, h := float64(width), float64(height)
	return Mat4{
		w / 2, 0, 0, 0,
		0, h / 2, 0, 0,
		0, 0, 1, 0,
		(w - 1) / 2, (h - 1) / 2, 0, 1,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulPoint transforms a point by an affine matrix (w=1, bottom row ignored).
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
}

// Inverse returns the inverse of the matrix using Gauss-Jordan elimination
// with partial pivoting. It reports false for a singular matrix.
func (m Mat4) Inverse() (Mat4, bool) {
	a := m
	inv := Identity()

	for col := range 4 {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a.Get(row, col)) > math.Abs(a.Get(pivot, col)) {
				pivot = row
			}
		}
		p := a.Get(pivot, col)
		if math.Abs(p) < 1e-300 {
			return Identity(), false
		}
		if pivot != col {
			a.swapRows(pivot, col)
			inv.swapRows(pivot, col)
		}

		scale := 1 / p
		for k := range 4 {
			a.Set(col, k, a.Get(col, k)*scale)
			inv.Set(col, k, inv.Get(col, k)*scale)
		}

		for row := range 4 {
			if row == col {
				continue
			}
			f := a.Get(row, col)
			if f == 0 {
				continue
			}
			for k := range 4 {
				a.Set(row, k, a.Get(row, k)-f*a.Get(col, k))
				inv.Set(row, k, inv.Get(row, k)-f*inv.Get(col, k))
			}
		}
	}
	return inv, true
}

func (m *Mat4) swapRows(i, j int) {
	for k := range 4 {
		m[i+k*4], m[j+k*4] = m[j+k*4], m[i+k*4]
	}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}

// IsFinite reports whether every element is finite.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if !isFinite(v) {
			return false
		}
	}
	return true
}
