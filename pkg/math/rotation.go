package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GimbalThreshold is the cy value at or below which the Euler decomposition
// treats the matrix as gimbal locked.
const GimbalThreshold = 4e-8

// Cell returns the element at a 1-indexed row/column, the way CAD APIs address
// their matrices.
func Cell(m mgl64.Mat3, row, col int) float64 {
	return m.At(row-1, col-1)
}

// EulerXYZ decomposes a rotation matrix into extrinsic X-Y-Z angles
// (roll, pitch, yaw about fixed axes), returned as Vec3{X: roll, Y: pitch, Z: yaw}.
//
// When cy falls to GimbalThreshold or below, roll is pinned to zero and yaw is
// taken from cells (1,3) and (2,2).
func EulerXYZ(m mgl64.Mat3) Vec3 {
	r11, r21 := Cell(m, 1, 1), Cell(m, 2, 1)
	r31, r32, r33 := Cell(m, 3, 1), Cell(m, 3, 2), Cell(m, 3, 3)

	cy := math.Sqrt(r33*r33 + r32*r32)
	if cy > GimbalThreshold {
		return Vec3{
			X: math.Atan2(r32, r33),
			Y: math.Atan2(-r31, cy),
			Z: math.Atan2(r21, r11),
		}
	}
	return Vec3{
		X: 0,
		Y: math.Atan2(-r31, cy),
		Z: math.Atan2(Cell(m, 1, 3), Cell(m, 2, 2)),
	}
}

// RotationXYZ builds Rz(yaw)·Ry(pitch)·Rx(roll), the matrix EulerXYZ decomposes.
func RotationXYZ(roll, pitch, yaw float64) mgl64.Mat3 {
	return mgl64.Rotate3DZ(yaw).Mul3(mgl64.Rotate3DY(pitch)).Mul3(mgl64.Rotate3DX(roll))
}

// AxisAngleMatrix returns the rotation of angle radians about axis.
// A zero axis yields the identity.
func AxisAngleMatrix(axis Vec3, angle float64) mgl64.Mat3 {
	n := axis.Normalize()
	if n == (Vec3{}) {
		return mgl64.Ident3()
	}
	return mgl64.HomogRotate3D(angle, n.Mgl()).Mat3()
}

// MatrixAxisAngle returns the unit axis and angle (0..π) of a rotation matrix.
// The identity returns the Z axis with a zero angle.
func MatrixAxisAngle(m mgl64.Mat3) (Vec3, float64) {
	cos := (m.Trace() - 1) / 2
	cos = math.Max(-1, math.Min(1, cos))
	angle := math.Acos(cos)

	if angle < 1e-12 {
		return Vec3{Z: 1}, 0
	}

	if math.Pi-angle > 1e-6 {
		axis := Vec3{
			X: m.At(2, 1) - m.At(1, 2),
			Y: m.At(0, 2) - m.At(2, 0),
			Z: m.At(1, 0) - m.At(0, 1),
		}
		return axis.Normalize(), angle
	}

	// Near π the antisymmetric part vanishes; recover the axis from the
	// symmetric part using the largest diagonal term.
	xx := (m.At(0, 0) + 1) / 2
	yy := (m.At(1, 1) + 1) / 2
	zz := (m.At(2, 2) + 1) / 2
	xy := (m.At(0, 1) + m.At(1, 0)) / 4
	xz := (m.At(0, 2) + m.At(2, 0)) / 4
	yz := (m.At(1, 2) + m.At(2, 1)) / 4

	var axis Vec3
	switch {
	case xx >= yy && xx >= zz:
		x := math.Sqrt(xx)
		axis = Vec3{x, xy / x, xz / x}
	case yy >= zz:
		y := math.Sqrt(yy)
		axis = Vec3{xy / y, y, yz / y}
	default:
		z := math.Sqrt(zz)
		axis = Vec3{xz / z, yz / z, z}
	}
	return axis.Normalize(), angle
}

// MulVec returns m·v.
func MulVec(m mgl64.Mat3, v Vec3) Vec3 {
	return Vec3FromMgl(m.Mul3x1(v.Mgl()))
}

// IsRotation reports whether m is orthonormal with determinant +1 within eps.
func IsRotation(m mgl64.Mat3, eps float64) bool {
	if math.Abs(m.Det()-1) > eps {
		return false
	}
	// Absolute per-cell check: mgl64's ApproxEqualThreshold squares the
	// threshold for cells that are exactly zero.
	d := m.Mul3(m.Transpose()).Sub(mgl64.Ident3())
	for _, v := range d {
		if math.Abs(v) > eps {
			return false
		}
	}
	return true
}
