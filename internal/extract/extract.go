// Package extract turns a CAD assembly into a robot description.
//
// Extraction runs in three passes. The assembly tree is flattened breadth
// first into part occurrences and constraints. Every part becomes a link with
// a pose, inertial, visual and collision. Every usable constraint becomes a
// joint. Items that cannot be converted are skipped, logged and recorded in
// the result; errors from the CAD session abort the run.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/sdfexport/internal/cad"
	gmath "github.com/Faultbox/sdfexport/pkg/math"
	"github.com/Faultbox/sdfexport/pkg/sdf"
)

// Options controls unit conversion and naming.
type Options struct {
	// Scale converts CAD lengths to meters.
	Scale float64
	// Precision is the rounding applied when poses are rendered.
	Precision int
	// MeshScale is written on every mesh reference.
	MeshScale float64
	// ModelName overrides the document name.
	ModelName string
	// Material, when set, is attached to every visual.
	Material *sdf.Material
}

// DefaultOptions converts centimeters to meters and keeps 8 decimals.
func DefaultOptions() Options {
	return Options{
		Scale:     0.01,
		Precision: gmath.DefaultPrecision,
		MeshScale: 1,
	}
}

// Skip reasons.
const (
	ReasonSuppressed        = "constraint is suppressed"
	ReasonMissingOccurrence = "constraint references a missing occurrence"
	ReasonNoFreedom         = "no degrees of freedom"
	ReasonUnresolvedLink    = "occurrence is not a captured link"
	ReasonDuplicateName     = "duplicate name"
	ReasonInvalidName       = "name is not usable as a file name"
)

// ErrInvalidName is returned when the model name cannot name a directory.
var ErrInvalidName = errors.New("invalid model name")

// Skip records an item that was left out of the model.
type Skip struct {
	Kind   string // "link" or "joint"
	Item   string
	Reason string
}

// Result is the outcome of an extraction.
type Result struct {
	Robot   *sdf.Robot
	Skipped []Skip
	// Meshes maps link names to mesh files provided by the CAD side.
	Meshes map[string]string
}

// Extractor converts CAD sessions into robots.
type Extractor struct {
	opts Options
	log  *zap.Logger
}

// New returns an extractor. A nil logger discards output.
func New(opts Options, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{opts: opts, log: log}
}

// Sanitize turns a CAD occurrence name into a link name. The CAD tool uses
// ':' to separate instance numbers, which is replaced by '-'.
func Sanitize(name string) string {
	return strings.ReplaceAll(name, ":", "-")
}

// ValidName reports whether name is a single path element. Model and link
// names become directory and mesh file names and parts of model:// URIs.
func ValidName(name string) bool {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

// Extract reads the active document of s and builds a robot from it.
func (e *Extractor) Extract(s cad.Session) (*Result, error) {
	doc, err := s.ActiveDocument()
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	asm, err := doc.Assembly()
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	name := e.opts.ModelName
	if name == "" {
		name = Sanitize(doc.Name())
	}
	if !ValidName(name) {
		return nil, fmt.Errorf("extract: %w: %q", ErrInvalidName, name)
	}

	robot := sdf.NewRobot(name)
	robot.Pose.Precision = e.opts.Precision
	res := &Result{Robot: robot, Meshes: make(map[string]string)}

	parts, constraints := Flatten(asm)
	e.log.Info("assembly flattened",
		zap.String("document", doc.Name()),
		zap.Int("parts", len(parts)),
		zap.Int("constraints", len(constraints)))

	for _, occ := range parts {
		if err := e.addLink(res, occ); err != nil {
			return nil, err
		}
	}
	for _, c := range constraints {
		if err := e.addJoint(res, c); err != nil {
			return nil, err
		}
	}
	e.assignParents(robot)

	e.log.Info("extraction complete",
		zap.String("model", robot.Name),
		zap.Int("links", len(robot.Links)),
		zap.Int("joints", len(robot.Joints)),
		zap.Int("skipped", len(res.Skipped)))
	return res, nil
}

// Flatten walks asm breadth first. It returns every part occurrence and the
// constraints of every assembly visited, both in discovery order.
func Flatten(asm cad.Assembly) ([]cad.Occurrence, []cad.Constraint) {
	var (
		parts       []cad.Occurrence
		constraints []cad.Constraint
	)
	queue := []cad.Assembly{asm}
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]

		constraints = append(constraints, a.Constraints()...)
		for _, occ := range a.Occurrences() {
			if sub := occ.SubAssembly(); sub != nil {
				queue = append(queue, sub)
				continue
			}
			parts = append(parts, occ)
		}
	}
	return parts, constraints
}

func (e *Extractor) skip(res *Result, kind, item, reason string) {
	res.Skipped = append(res.Skipped, Skip{Kind: kind, Item: item, Reason: reason})
	e.log.Warn("skipped "+kind,
		zap.String("item", item),
		zap.String("reason", reason))
}

func (e *Extractor) addLink(res *Result, occ cad.Occurrence) error {
	name := Sanitize(occ.Name())
	if !ValidName(name) {
		e.skip(res, "link", occ.Name(), ReasonInvalidName)
		return nil
	}
	if res.Robot.Link(name) != nil {
		e.skip(res, "link", occ.Name(), ReasonDuplicateName)
		return nil
	}

	mp, err := occ.MassProperties()
	if err != nil {
		return fmt.Errorf("extract: mass properties of %s: %w", occ.Name(), err)
	}

	pose := sdf.PoseFromTransform(occ.Transform(), e.opts.Precision, e.opts.Scale)

	link := sdf.NewLink(name)
	link.Pose = &pose
	link.Inertial = sdf.NewInertial(mp.Mass, mp.Inertia, mp.CenterOfMass, pose, e.opts.Scale)

	mesh := sdf.Mesh{URI: sdf.MeshURI(name), Scale: e.opts.MeshScale}
	link.Visual = &sdf.Visual{Shape: mesh}
	if e.opts.Material != nil {
		m := *e.opts.Material
		link.Visual.Material = &m
	}
	link.Collision = &sdf.Collision{Shape: mesh}

	if err := res.Robot.AddLink(link); err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	if ms, ok := occ.(cad.MeshSource); ok && ms.MeshPath() != "" {
		res.Meshes[name] = ms.MeshPath()
	}

	e.log.Debug("link added",
		zap.String("link", name),
		zap.String("pose", pose.String()),
		zap.Float64("mass", mp.Mass))
	return nil
}

func (e *Extractor) addJoint(res *Result, c cad.Constraint) error {
	item := c.Name()
	if c.Suppressed() {
		e.skip(res, "joint", item, ReasonSuppressed)
		return nil
	}

	child, parent := c.OccurrenceOne(), c.OccurrenceTwo()
	if child == nil || parent == nil {
		e.skip(res, "joint", item, ReasonMissingOccurrence)
		return nil
	}

	dof, err := child.DegreesOfFreedom()
	if err != nil {
		return fmt.Errorf("extract: degrees of freedom of %s: %w", child.Name(), err)
	}
	if dof.Count() == 0 {
		// The first occurrence is grounded; the second one moves.
		child, parent = parent, child
		if dof, err = child.DegreesOfFreedom(); err != nil {
			return fmt.Errorf("extract: degrees of freedom of %s: %w", child.Name(), err)
		}
		if dof.Count() == 0 {
			e.skip(res, "joint", item, ReasonNoFreedom)
			return nil
		}
	}

	childLink := res.Robot.Link(Sanitize(child.Name()))
	parentLink := res.Robot.Link(Sanitize(parent.Name()))
	if childLink == nil || parentLink == nil {
		e.skip(res, "joint", item, ReasonUnresolvedLink)
		return nil
	}

	typ, axis, origin, ok := classify(c)
	if !ok {
		e.skip(res, "joint", item, fmt.Sprintf("unsupported %s constraint on %s geometry",
			c.Kind(), cad.GeometryName(c.Geometry())))
		return nil
	}

	name := Sanitize(item)
	if res.Robot.Joint(name) != nil {
		e.skip(res, "joint", item, ReasonDuplicateName)
		return nil
	}

	pose := sdf.NewPose(origin.X, origin.Y, origin.Z, e.opts.Precision, e.opts.Scale).
		RelativeTo(*childLink.Pose)

	joint := sdf.NewJoint(name, typ, parentLink, childLink)
	joint.Pose = &pose
	joint.Axis = sdf.NewAxis(axis.X, axis.Y, axis.Z)
	if err := res.Robot.AddJoint(joint); err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	e.log.Debug("joint added",
		zap.String("joint", name),
		zap.Stringer("type", typ),
		zap.String("parent", parentLink.Name),
		zap.String("child", childLink.Name),
		zap.Int("dof", dof.Count()))
	return nil
}

// classify maps a constraint to a joint. Insert constraints on a circle are
// revolute about the circle normal through its centre; mate constraints on a
// line are prismatic along the line through its root point.
func classify(c cad.Constraint) (sdf.JointType, gmath.Vec3, gmath.Vec3, bool) {
	switch g := c.Geometry().(type) {
	case cad.Circle:
		if c.Kind() == cad.ConstraintInsert {
			return sdf.Revolute, g.Normal, g.Center, true
		}
	case cad.Line:
		if c.Kind() == cad.ConstraintMate {
			return sdf.Prismatic, g.Direction, g.Root, true
		}
	}
	return 0, gmath.Vec3{}, gmath.Vec3{}, false
}

// assignParents names each joint child's parent link. The first joint that
// reaches a child wins.
func (e *Extractor) assignParents(r *sdf.Robot) {
	for _, j := range r.Joints {
		switch j.Child.ParentName {
		case "":
			j.Child.ParentName = j.Parent.Name
		case j.Parent.Name:
		default:
			e.log.Warn("link has more than one parent",
				zap.String("link", j.Child.Name),
				zap.String("kept", j.Child.ParentName),
				zap.String("ignored", j.Parent.Name),
				zap.String("joint", j.Name))
		}
	}
}
