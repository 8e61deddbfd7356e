package sdf

import (
	"github.com/go-gl/mathgl/mgl64"

	gmath "github.com/Faultbox/sdfexport/pkg/math"
)

// Pose places a frame: a position and extrinsic X-Y-Z Euler angles (roll,
// pitch, yaw). When the pose was built from a CAD transform it also retains the
// source rotation matrix, which later relative-pose and inertia math needs.
//
// Rotation is derived from Orientation once, at construction, and is never
// recomputed afterwards. Rounding to Precision happens only when the pose is
// rendered; stored values keep full precision.
type Pose struct {
	Position       gmath.Vec3
	Rotation       gmath.Vec3
	Orientation    mgl64.Mat3 // CAD cell layout: columns are the local axes
	HasOrientation bool
	Precision      int
}

// IdentityPose returns a pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Precision: gmath.DefaultPrecision}
}

// NewPose returns a pose at (x, y, z)·scale with no rotation and no retained matrix.
func NewPose(x, y, z float64, precision int, scale float64) Pose {
	return Pose{
		Position:  gmath.Vec3{X: x, Y: y, Z: z}.Scale(scale),
		Precision: precision,
	}
}

// PoseFromTransform builds a pose from a CAD placement. The translation is
// multiplied by scale; the rotation is decomposed into Euler angles and the
// matrix is kept alongside them.
func PoseFromTransform(t gmath.Transform, precision int, scale float64) Pose {
	return Pose{
		Position:       t.Translation.Scale(scale),
		Rotation:       gmath.EulerXYZ(t.Rotation),
		Orientation:    t.Rotation,
		HasOrientation: true,
		Precision:      precision,
	}
}

// Basis returns the matrix that maps global offsets into this pose's local
// frame: the transpose of the retained CAD matrix, or the identity when the pose
// has none.
func (p Pose) Basis() mgl64.Mat3 {
	if !p.HasOrientation {
		return mgl64.Ident3()
	}
	return p.Orientation.Transpose()
}

// RelativeTo re-expresses the position relative to ref: ref's position is
// subtracted and, if ref carries a matrix, the offset is rotated into ref's
// local frame. Rotation and orientation are left untouched.
func (p Pose) RelativeTo(ref Pose) Pose {
	offset := p.Position.Sub(ref.Position)
	if ref.HasOrientation {
		offset = gmath.MulVec(ref.Basis(), offset)
	}
	p.Position = offset
	return p
}

// FrameRelativeTo re-expresses both position and orientation relative to ref.
func (p Pose) FrameRelativeTo(ref Pose) Pose {
	rel := p.RelativeTo(ref)
	if !p.HasOrientation && !ref.HasOrientation {
		return rel
	}

	own := mgl64.Ident3()
	if p.HasOrientation {
		own = p.Orientation
	}
	rel.Orientation = ref.Basis().Mul3(own)
	rel.HasOrientation = true
	rel.Rotation = gmath.EulerXYZ(rel.Orientation)
	return rel
}

// Values returns "x y z roll pitch yaw" rounded to precision.
func (p Pose) Values(precision int) string {
	return gmath.FormatFloats(precision,
		p.Position.X, p.Position.Y, p.Position.Z,
		p.Rotation.X, p.Rotation.Y, p.Rotation.Z)
}

// String renders the pose at its own precision.
func (p Pose) String() string {
	return p.Values(p.Precision)
}
