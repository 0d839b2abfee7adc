package models

import "github.com/taigrr/meshview/pkg/math3d"

// NewCube builds an axis-aligned cube of the given half size with outward
// facing, counter-clockwise quads.
func NewCube(id string, center math3d.Vec3, half float64, color RGB) *Mesh {
	c, h := center, half
	vertices := []math3d.Vec3{
		{X: c.X - h, Y: c.Y - h, Z: c.Z - h}, // 0: left-bottom-back
		{X: c.X + h, Y: c.Y - h, Z: c.Z - h}, // 1: right-bottom-back
		{X: c.X + h, Y: c.Y + h, Z: c.Z - h}, // 2: right-top-back
		{X: c.X - h, Y: c.Y + h, Z: c.Z - h}, // 3: left-top-back
		{X: c.X - h, Y: c.Y - h, Z: c.Z + h}, // 4: left-bottom-front
		{X: c.X + h, Y: c.Y - h, Z: c.Z + h}, // 5: right-bottom-front
		{X: c.X + h, Y: c.Y + h, Z: c.Z + h}, // 6: right-top-front
		{X: c.X - h, Y: c.Y + h, Z: c.Z + h}, // 7: left-top-front
	}
	faces := [][]int{
		{0, 3, 2, 1}, // -Z
		{4, 5, 6, 7}, // +Z
		{0, 4, 7, 3}, // -X
		{1, 2, 6, 5}, // +X
		{3, 7, 6, 2}, // +Y
		{0, 1, 5, 4}, // -Y
	}
	return NewMesh(id, vertices, faces, color)
}
