package extract

import (
	"github.com/Faultbox/sdfexport/internal/cad"
	gmath "github.com/Faultbox/sdfexport/pkg/math"
)

type fakeSession struct {
	doc cad.Document
}

func (s fakeSession) ActiveDocument() (cad.Document, error) {
	if s.doc == nil {
		return nil, cad.ErrNoActiveDocument
	}
	return s.doc, nil
}

type fakeDoc struct {
	name string
	asm  *fakeAssembly
}

func (d *fakeDoc) Name() string { return d.name }

func (d *fakeDoc) Assembly() (cad.Assembly, error) {
	if d.asm == nil {
		return nil, cad.ErrNotAssembly
	}
	return d.asm, nil
}

type fakeAssembly struct {
	occs []cad.Occurrence
	cons []cad.Constraint
}

func (a *fakeAssembly) Occurrences() []cad.Occurrence { return a.occs }
func (a *fakeAssembly) Constraints() []cad.Constraint { return a.cons }

type fakeOcc struct {
	name      string
	sub       *fakeAssembly
	transform gmath.Transform
	mass      cad.MassProperties
	massErr   error
	dof       cad.DegreesOfFreedom
	dofErr    error
	mesh      string
}

func part(name string, at gmath.Vec3) *fakeOcc {
	t := gmath.IdentityTransform()
	t.Translation = at
	return &fakeOcc{name: name, transform: t, mass: cad.MassProperties{Mass: 1}}
}

func (o *fakeOcc) rotating(axis gmath.Vec3) *fakeOcc {
	o.dof.Rotational = append(o.dof.Rotational, axis)
	return o
}

func (o *fakeOcc) sliding(axis gmath.Vec3) *fakeOcc {
	o.dof.Translational = append(o.dof.Translational, axis)
	return o
}

func (o *fakeOcc) Name() string { return o.name }

func (o *fakeOcc) Kind() cad.OccurrenceKind {
	if o.sub != nil {
		return cad.KindAssembly
	}
	return cad.KindPart
}

func (o *fakeOcc) SubAssembly() cad.Assembly {
	if o.sub == nil {
		return nil
	}
	return o.sub
}

func (o *fakeOcc) Transform() gmath.Transform { return o.transform }
func (o *fakeOcc) MeshPath() string           { return o.mesh }

func (o *fakeOcc) MassProperties() (cad.MassProperties, error) { return o.mass, o.massErr }

func (o *fakeOcc) DegreesOfFreedom() (cad.DegreesOfFreedom, error) { return o.dof, o.dofErr }

type fakeConstraint struct {
	name       string
	kind       cad.ConstraintKind
	suppressed bool
	one, two   cad.Occurrence
	geometry   cad.Geometry
}

func insert(name string, one, two cad.Occurrence, center, normal gmath.Vec3) *fakeConstraint {
	return &fakeConstraint{
		name: name, kind: cad.ConstraintInsert, one: one, two: two,
		geometry: cad.Circle{Center: center, Normal: normal},
	}
}

func mate(name string, one, two cad.Occurrence, root, dir gmath.Vec3) *fakeConstraint {
	return &fakeConstraint{
		name: name, kind: cad.ConstraintMate, one: one, two: two,
		geometry: cad.Line{Root: root, Direction: dir},
	}
}

func (c *fakeConstraint) Name() string                  { return c.name }
func (c *fakeConstraint) Suppressed() bool              { return c.suppressed }
func (c *fakeConstraint) OccurrenceOne() cad.Occurrence { return c.one }
func (c *fakeConstraint) OccurrenceTwo() cad.Occurrence { return c.two }
func (c *fakeConstraint) Kind() cad.ConstraintKind      { return c.kind }
func (c *fakeConstraint) Geometry() cad.Geometry        { return c.geometry }

func session(name string, occs []cad.Occurrence, cons []cad.Constraint) cad.Session {
	return fakeSession{doc: &fakeDoc{name: name, asm: &fakeAssembly{occs: occs, cons: cons}}}
}
