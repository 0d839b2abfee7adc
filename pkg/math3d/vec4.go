package math3d

// Vec4 represents a homogeneous 3D point.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// Point returns the homogeneous form of a point (w = 1).
func Point(v Vec3) Vec4 {
	return V4(v.X, v.Y, v.Z, 1)
}

// Vec3 returns the Vec3 portion (ignoring W).
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide divides x, y and z by w. The result has an implicit
// w of 1. It reports false when w is zero or any resulting component is
// not finite; such a vertex cannot be placed on screen.
func (v Vec4) PerspectiveDivide() (Vec3, bool) {
	if v.W == 0 || !isFinite(v.W) {
		return Vec3{}, false
	}
	p := Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
	return p, p.IsFinite()
}

// IsFinite reports whether no component is NaN or ±Inf.
func (v Vec4) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z) && isFinite(v.W)
}
