package math

import "github.com/go-gl/mathgl/mgl64"

// Transform is an affine placement: a 3x3 rotation followed by a translation.
// Rotation columns are the local axes expressed in the parent (global) frame.
type Transform struct {
	Rotation    mgl64.Mat3
	Translation Vec3
}

// IdentityTransform returns a transform that places a body at the origin.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.Ident3()}
}

// TransformFromMat4 splits a 4x4 affine matrix into rotation and translation.
func TransformFromMat4(m mgl64.Mat4) Transform {
	return Transform{
		Rotation:    m.Mat3(),
		Translation: Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)},
	}
}

// Mat4 returns the transform as a 4x4 affine matrix.
func (t Transform) Mat4() mgl64.Mat4 {
	m := t.Rotation.Mat4()
	m.Set(0, 3, t.Translation.X)
	m.Set(1, 3, t.Translation.Y)
	m.Set(2, 3, t.Translation.Z)
	return m
}

// Cell returns a 1-indexed element of the 4x4 form.
func (t Transform) Cell(row, col int) float64 {
	return t.Mat4().At(row-1, col-1)
}

// Apply transforms a point from the local frame into the parent frame.
func (t Transform) Apply(p Vec3) Vec3 {
	return MulVec(t.Rotation, p).Add(t.Translation)
}

