package snapshot

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/sdfexport/internal/cad"
	"github.com/Faultbox/sdfexport/pkg/inertia"
	gmath "github.com/Faultbox/sdfexport/pkg/math"
)

// builder converts the decoded file into the cad object graph.
type builder struct {
	baseDir  string
	cadOrder bool
	// byName indexes occurrences in breadth-first order; the first occurrence
	// with a given name wins.
	byName  map[string]*occurrence
	pending []pendingConstraint
}

type pendingConstraint struct {
	c        *constraint
	one, two string
}

func build(f File, baseDir string) (*Snapshot, error) {
	if f.Document == "" {
		if f.Root != nil {
			return nil, fmt.Errorf("%w: root assembly without a document name", ErrInvalidSnapshot)
		}
		return &Snapshot{}, nil
	}

	doc := &document{name: f.Document}
	switch f.Kind {
	case "", "assembly":
		if f.Root == nil {
			return nil, fmt.Errorf("%w: assembly document %q has no root", ErrInvalidSnapshot, f.Document)
		}
	case "part":
		return &Snapshot{doc: doc}, nil
	default:
		return nil, fmt.Errorf("%w: unknown document kind %q", ErrInvalidSnapshot, f.Kind)
	}

	b := &builder{baseDir: baseDir, byName: make(map[string]*occurrence)}
	switch f.InertiaOrder {
	case "", "tensor":
	case "cad":
		b.cadOrder = true
	default:
		return nil, fmt.Errorf("%w: unknown inertia order %q", ErrInvalidSnapshot, f.InertiaOrder)
	}
	root, err := b.assembly(*f.Root, "root")
	if err != nil {
		return nil, err
	}
	b.index(root)
	b.resolve()

	doc.assembly = root
	return &Snapshot{doc: doc}, nil
}

func (b *builder) assembly(data AssemblyData, where string) (*assembly, error) {
	a := &assembly{}
	for i, od := range data.Occurrences {
		o, err := b.occurrence(od, fmt.Sprintf("%s.occurrences[%d]", where, i))
		if err != nil {
			return nil, err
		}
		a.occurrences = append(a.occurrences, o)
	}
	for i, cd := range data.Constraints {
		c, err := b.constraint(cd, fmt.Sprintf("%s.constraints[%d]", where, i))
		if err != nil {
			return nil, err
		}
		a.constraints = append(a.constraints, c)
	}
	return a, nil
}

func (b *builder) occurrence(d OccurrenceData, where string) (*occurrence, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("%w: %s: missing name", ErrInvalidSnapshot, where)
	}
	where = fmt.Sprintf("%s (%s)", where, d.Name)

	o := &occurrence{name: d.Name}

	switch d.Kind {
	case "", "part":
		o.kind = cad.KindPart
	case "assembly":
		o.kind = cad.KindAssembly
		if d.Assembly == nil {
			return nil, fmt.Errorf("%w: %s: assembly occurrence without assembly body", ErrInvalidSnapshot, where)
		}
		sub, err := b.assembly(*d.Assembly, where)
		if err != nil {
			return nil, err
		}
		o.sub = sub
	default:
		return nil, fmt.Errorf("%w: %s: unknown occurrence kind %q", ErrInvalidSnapshot, where, d.Kind)
	}

	var err error
	if o.transform, err = transform(d.Transform); err != nil {
		return nil, fmt.Errorf("%w: %s: transform: %v", ErrInvalidSnapshot, where, err)
	}

	o.mass.Mass = d.Mass
	if d.Inertia != nil {
		if len(d.Inertia) != 6 {
			return nil, fmt.Errorf("%w: %s: inertia needs 6 values, got %d", ErrInvalidSnapshot, where, len(d.Inertia))
		}
		if b.cadOrder {
			i := d.Inertia
			o.mass.Inertia = inertia.FromCADOrder(i[0], i[1], i[2], i[3], i[4], i[5])
		} else {
			copy(o.mass.Inertia[:], d.Inertia)
		}
	}
	if o.mass.CenterOfMass, err = vec3(d.CenterOfMass); err != nil {
		return nil, fmt.Errorf("%w: %s: center_of_mass: %v", ErrInvalidSnapshot, where, err)
	}

	if o.dof, err = dof(d.DOF); err != nil {
		return nil, fmt.Errorf("%w: %s: dof: %v", ErrInvalidSnapshot, where, err)
	}

	if d.Mesh != "" {
		o.mesh = d.Mesh
		if !filepath.IsAbs(o.mesh) && b.baseDir != "" {
			o.mesh = filepath.Join(b.baseDir, o.mesh)
		}
	}
	return o, nil
}

func (b *builder) constraint(d ConstraintData, where string) (*constraint, error) {
	c := &constraint{
		name:       d.Name,
		kind:       cad.ParseConstraintKind(d.Kind),
		suppressed: d.Suppressed,
	}
	if c.name == "" {
		return nil, fmt.Errorf("%w: %s: missing name", ErrInvalidSnapshot, where)
	}
	if d.Geometry != nil {
		g, err := geometry(*d.Geometry)
		if err != nil {
			return nil, fmt.Errorf("%w: %s (%s): geometry: %v", ErrInvalidSnapshot, where, d.Name, err)
		}
		c.geometry = g
	}
	b.pending = append(b.pending, pendingConstraint{c: c, one: d.OccurrenceOne, two: d.OccurrenceTwo})
	return c, nil
}

// index walks the tree breadth first so shallower occurrences win name clashes.
func (b *builder) index(root *assembly) {
	queue := []*assembly{root}
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		for _, o := range a.occurrences {
			if _, ok := b.byName[o.name]; !ok {
				b.byName[o.name] = o
			}
			if o.sub != nil {
				queue = append(queue, o.sub)
			}
		}
	}
}

// resolve binds constraint references. Unknown names stay nil.
func (b *builder) resolve() {
	for _, p := range b.pending {
		p.c.one = b.byName[p.one]
		p.c.two = b.byName[p.two]
	}
	b.pending = nil
}

func transform(d TransformData) (gmath.Transform, error) {
	t := gmath.IdentityTransform()
	if d.Rotation != nil {
		if len(d.Rotation) != 3 {
			return t, fmt.Errorf("rotation needs 3 rows, got %d", len(d.Rotation))
		}
		var rows [3]mgl64.Vec3
		for i, row := range d.Rotation {
			v, err := vec3(row)
			if err != nil {
				return t, fmt.Errorf("rotation row %d: %v", i+1, err)
			}
			rows[i] = v.Mgl()
		}
		t.Rotation = mgl64.Mat3FromRows(rows[0], rows[1], rows[2])
	}
	var err error
	if t.Translation, err = vec3(d.Translation); err != nil {
		return t, fmt.Errorf("translation: %v", err)
	}
	return t, nil
}

func dof(d DOFData) (cad.DegreesOfFreedom, error) {
	var out cad.DegreesOfFreedom
	var err error
	if out.Translational, err = vec3s(d.Translational); err != nil {
		return out, fmt.Errorf("translational: %v", err)
	}
	if out.Rotational, err = vec3s(d.Rotational); err != nil {
		return out, fmt.Errorf("rotational: %v", err)
	}
	if out.Center, err = vec3(d.Center); err != nil {
		return out, fmt.Errorf("center: %v", err)
	}
	return out, nil
}

func geometry(d GeometryData) (cad.Geometry, error) {
	switch d.Type {
	case "circle":
		center, err := vec3(d.Center)
		if err != nil {
			return nil, fmt.Errorf("center: %v", err)
		}
		normal, err := vec3(d.Normal)
		if err != nil {
			return nil, fmt.Errorf("normal: %v", err)
		}
		return cad.Circle{Center: center, Normal: normal, Radius: d.Radius}, nil
	case "line":
		root, err := vec3(d.Root)
		if err != nil {
			return nil, fmt.Errorf("root: %v", err)
		}
		dir, err := vec3(d.Direction)
		if err != nil {
			return nil, fmt.Errorf("direction: %v", err)
		}
		return cad.Line{Root: root, Direction: dir}, nil
	case "plane":
		root, err := vec3(d.Root)
		if err != nil {
			return nil, fmt.Errorf("root: %v", err)
		}
		normal, err := vec3(d.Normal)
		if err != nil {
			return nil, fmt.Errorf("normal: %v", err)
		}
		return cad.Plane{Root: root, Normal: normal}, nil
	case "point":
		pos, err := vec3(d.Position)
		if err != nil {
			return nil, fmt.Errorf("position: %v", err)
		}
		return cad.Point{Position: pos}, nil
	default:
		return nil, fmt.Errorf("unknown type %q", d.Type)
	}
}

// vec3 accepts a missing value as the zero vector.
func vec3(v []float64) (gmath.Vec3, error) {
	if v == nil {
		return gmath.Vec3{}, nil
	}
	if len(v) != 3 {
		return gmath.Vec3{}, fmt.Errorf("need 3 values, got %d", len(v))
	}
	return gmath.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func vec3s(vs [][]float64) ([]gmath.Vec3, error) {
	if len(vs) == 0 {
		return nil, nil
	}
	out := make([]gmath.Vec3, len(vs))
	for i, v := range vs {
		var err error
		if out[i], err = vec3(v); err != nil {
			return nil, fmt.Errorf("[%d]: %v", i, err)
		}
	}
	return out, nil
}

// Compile-time checks.
var (
	_ cad.Session    = (*Snapshot)(nil)
	_ cad.Occurrence = (*occurrence)(nil)
	_ cad.MeshSource = (*occurrence)(nil)
	_ cad.Constraint = (*constraint)(nil)
)
