package sdf

import (
	"fmt"
	"math"

	gmath "github.com/Faultbox/sdfexport/pkg/math"
)

// JointType is the kind of motion a joint allows.
type JointType int

const (
	Revolute JointType = iota
	Continuous
	Prismatic
	Fixed
	Floating
	Planar
)

var jointTypeNames = [...]string{
	Revolute:   "revolute",
	Continuous: "continuous",
	Prismatic:  "prismatic",
	Fixed:      "fixed",
	Floating:   "floating",
	Planar:     "planar",
}

// String returns the lower-case name used in robot descriptions.
func (t JointType) String() string {
	if t < 0 || int(t) >= len(jointTypeNames) {
		return fmt.Sprintf("JointType(%d)", int(t))
	}
	return jointTypeNames[t]
}

// Axis is a joint's axis of motion.
type Axis struct {
	XYZ gmath.Vec3
}

// NewAxis stores the absolute value of each component. The sign of the CAD
// axis is dropped, so a joint about -Z is written as +Z.
func NewAxis(x, y, z float64) *Axis {
	return &Axis{XYZ: gmath.Vec3{X: math.Abs(x), Y: math.Abs(y), Z: math.Abs(z)}}
}

type Limit struct {
	Lower    float64
	Upper    float64
	Effort   float64
	Velocity float64
}

type Dynamics struct {
	Damping  float64
	Friction float64
}

// CalibrationEdge selects the reference edge a calibration value applies to.
type CalibrationEdge int

const (
	Rising CalibrationEdge = iota
	Falling
)

func (e CalibrationEdge) String() string {
	if e == Falling {
		return "falling"
	}
	return "rising"
}

type Calibration struct {
	Edge  CalibrationEdge
	Value float64
}

type SafetyController struct {
	SoftLowerLimit float64
	SoftUpperLimit float64
	KPosition      float64
	KVelocity      float64
}

// Joint connects a parent link to a child link.
// Parent and Child point at links owned by the same Robot.
type Joint struct {
	Name             string
	Type             JointType
	Parent           *Link
	Child            *Link
	Pose             *Pose
	Axis             *Axis
	Limit            *Limit
	Dynamics         *Dynamics
	Calibration      *Calibration
	SafetyController *SafetyController
}

// NewJoint returns a joint of type t between parent and child.
func NewJoint(name string, t JointType, parent, child *Link) *Joint {
	return &Joint{Name: name, Type: t, Parent: parent, Child: child}
}

// ParentName returns the parent link's name, or "" when unset.
func (j *Joint) ParentName() string {
	if j.Parent == nil {
		return ""
	}
	return j.Parent.Name
}

// ChildName returns the child link's name, or "" when unset.
func (j *Joint) ChildName() string {
	if j.Child == nil {
		return ""
	}
	return j.Child.Name
}

// Clone copies the joint and its optional parts. Parent and Child still point
// at the original links; Robot.Clone re-points them.
func (j *Joint) Clone() *Joint {
	if j == nil {
		return nil
	}
	c := *j
	c.Pose = clonePtr(j.Pose)
	c.Axis = clonePtr(j.Axis)
	c.Limit = clonePtr(j.Limit)
	c.Dynamics = clonePtr(j.Dynamics)
	c.Calibration = clonePtr(j.Calibration)
	c.SafetyController = clonePtr(j.SafetyController)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
