package sdf

import (
	"github.com/Faultbox/sdfexport/pkg/inertia"
	gmath "github.com/Faultbox/sdfexport/pkg/math"
)

// Inertial is the mass, rotational inertia and centre of mass of a link.
// The tensor is expressed in the link's local frame.
type Inertial struct {
	Mass   float64
	Tensor inertia.Tensor
	Pose   Pose
}

// NewInertial builds an inertial from CAD mass properties.
//
// raw is the tensor in CAD length units about the global axes and com is the
// global centre of mass. The tensor is scaled by scale² and rotated into the
// link's frame; the centre of mass is scaled and made relative to link.
func NewInertial(mass float64, raw inertia.Components, com gmath.Vec3, link Pose, scale float64) *Inertial {
	tensor := inertia.NewTensor(raw).Scaled(scale)
	if link.HasOrientation {
		tensor = tensor.Rotated(link.Basis())
	}

	pose := NewPose(com.X, com.Y, com.Z, link.Precision, scale).RelativeTo(link)

	return &Inertial{
		Mass:   mass,
		Tensor: tensor,
		Pose:   pose,
	}
}

// Clone returns a copy of i. A nil inertial clones to nil.
func (i *Inertial) Clone() *Inertial {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
