// Package cad defines the view of a CAD session that extraction reads from.
//
// A Session exposes the active document; an assembly document lists part and
// sub-assembly occurrences and the mating constraints between them. The
// interfaces only describe what extraction needs and are implemented by
// adapters such as the YAML snapshot loader.
package cad

import (
	"errors"

	"github.com/Faultbox/sdfexport/pkg/inertia"
	gmath "github.com/Faultbox/sdfexport/pkg/math"
)

// Session errors.
var (
	ErrNoActiveDocument = errors.New("no active document")
	ErrNotAssembly      = errors.New("active document is not an assembly")
)

// Session is a connection to a CAD application.
type Session interface {
	// ActiveDocument returns ErrNoActiveDocument when nothing is open.
	ActiveDocument() (Document, error)
}

// Document is an open CAD file.
type Document interface {
	Name() string
	// Assembly returns ErrNotAssembly for part documents.
	Assembly() (Assembly, error)
}

// Assembly is a container of occurrences and the constraints between them.
type Assembly interface {
	Occurrences() []Occurrence
	Constraints() []Constraint
}

// OccurrenceKind tells parts from sub-assemblies.
type OccurrenceKind int

const (
	KindPart OccurrenceKind = iota
	KindAssembly
)

func (k OccurrenceKind) String() string {
	if k == KindAssembly {
		return "assembly"
	}
	return "part"
}

// Occurrence is one placed instance of a part or sub-assembly.
type Occurrence interface {
	Name() string
	Kind() OccurrenceKind
	// SubAssembly is nil for parts.
	SubAssembly() Assembly
	// Transform is the global placement in CAD length units.
	Transform() gmath.Transform
	MassProperties() (MassProperties, error)
	DegreesOfFreedom() (DegreesOfFreedom, error)
}

// MassProperties are reported about the global axes in CAD units.
type MassProperties struct {
	Mass         float64
	Inertia      inertia.Components
	CenterOfMass gmath.Vec3
}

// DegreesOfFreedom is the result of a DOF query on an occurrence: the free
// translation directions, the free rotation axes and the rotation centre.
type DegreesOfFreedom struct {
	Translational []gmath.Vec3
	Rotational    []gmath.Vec3
	Center        gmath.Vec3
}

// Count returns the total number of free directions.
func (d DegreesOfFreedom) Count() int {
	return len(d.Translational) + len(d.Rotational)
}

// ConstraintKind is the type of mating constraint.
type ConstraintKind int

const (
	ConstraintOther ConstraintKind = iota
	ConstraintInsert
	ConstraintMate
	ConstraintFlush
	ConstraintAngle
	ConstraintTangent
)

var constraintKindNames = map[ConstraintKind]string{
	ConstraintOther:   "other",
	ConstraintInsert:  "insert",
	ConstraintMate:    "mate",
	ConstraintFlush:   "flush",
	ConstraintAngle:   "angle",
	ConstraintTangent: "tangent",
}

func (k ConstraintKind) String() string {
	if name, ok := constraintKindNames[k]; ok {
		return name
	}
	return "other"
}

// ParseConstraintKind maps a name to a kind. Unknown names map to
// ConstraintOther.
func ParseConstraintKind(s string) ConstraintKind {
	for k, name := range constraintKindNames {
		if name == s {
			return k
		}
	}
	return ConstraintOther
}

// Constraint relates two occurrences.
type Constraint interface {
	Name() string
	Suppressed() bool
	// OccurrenceOne and OccurrenceTwo may be nil when the referenced
	// occurrence no longer exists.
	OccurrenceOne() Occurrence
	OccurrenceTwo() Occurrence
	Kind() ConstraintKind
	// Geometry is the constraint's primary entity, or nil.
	Geometry() Geometry
}

// MeshSource is implemented by occurrences that can point at an already
// exported mesh file for their part.
type MeshSource interface {
	MeshPath() string
}
