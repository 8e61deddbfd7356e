// Package snapshot loads a CAD assembly captured as YAML and serves it through
// the cad interfaces, so extraction can run without a live CAD session.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/sdfexport/internal/cad"
	gmath "github.com/Faultbox/sdfexport/pkg/math"
)

// ErrInvalidSnapshot is returned when a snapshot file is malformed.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// File is the on-disk layout of a snapshot.
type File struct {
	Document string `yaml:"document"`
	Kind     string `yaml:"kind"`
	// InertiaOrder is "tensor" (Ixx Ixy Ixz Iyy Iyz Izz, the default) or "cad"
	// (Ixx Iyy Izz Ixy Iyz Ixz, as mass-property dumps list them).
	InertiaOrder string        `yaml:"inertia_order"`
	Root         *AssemblyData `yaml:"root"`
}

type AssemblyData struct {
	Occurrences []OccurrenceData `yaml:"occurrences"`
	Constraints []ConstraintData `yaml:"constraints"`
}

type OccurrenceData struct {
	Name         string        `yaml:"name"`
	Kind         string        `yaml:"kind"`
	Transform    TransformData `yaml:"transform"`
	Mass         float64       `yaml:"mass"`
	Inertia      []float64     `yaml:"inertia"`
	CenterOfMass []float64     `yaml:"center_of_mass"`
	DOF          DOFData       `yaml:"dof"`
	Mesh         string        `yaml:"mesh"`
	Assembly     *AssemblyData `yaml:"assembly"`
}

// TransformData holds the rotation as rows, so rotation[r-1][c-1] is CAD cell (r, c).
type TransformData struct {
	Rotation    [][]float64 `yaml:"rotation"`
	Translation []float64   `yaml:"translation"`
}

type DOFData struct {
	Translational [][]float64 `yaml:"translational"`
	Rotational    [][]float64 `yaml:"rotational"`
	Center        []float64   `yaml:"center"`
}

type ConstraintData struct {
	Name          string        `yaml:"name"`
	Kind          string        `yaml:"kind"`
	Suppressed    bool          `yaml:"suppressed"`
	OccurrenceOne string        `yaml:"occurrence_one"`
	OccurrenceTwo string        `yaml:"occurrence_two"`
	Geometry      *GeometryData `yaml:"geometry"`
}

type GeometryData struct {
	Type      string    `yaml:"type"`
	Center    []float64 `yaml:"center"`
	Normal    []float64 `yaml:"normal"`
	Radius    float64   `yaml:"radius"`
	Root      []float64 `yaml:"root"`
	Direction []float64 `yaml:"direction"`
	Position  []float64 `yaml:"position"`
}

// Snapshot is a loaded snapshot. It implements cad.Session.
type Snapshot struct {
	path string
	doc  *document
}

// Load reads and parses the snapshot at path. Mesh paths inside the file are
// resolved relative to its directory.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	s, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	return s, nil
}

// Parse builds a snapshot from YAML. baseDir anchors relative mesh paths.
func Parse(data []byte, baseDir string) (*Snapshot, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return build(f, baseDir)
}

// Path returns the file the snapshot was loaded from, or "".
func (s *Snapshot) Path() string {
	return s.path
}

// ActiveDocument returns cad.ErrNoActiveDocument when the snapshot names no
// document.
func (s *Snapshot) ActiveDocument() (cad.Document, error) {
	if s.doc == nil {
		return nil, cad.ErrNoActiveDocument
	}
	return s.doc, nil
}

type document struct {
	name     string
	assembly *assembly
}

func (d *document) Name() string { return d.name }

func (d *document) Assembly() (cad.Assembly, error) {
	if d.assembly == nil {
		return nil, fmt.Errorf("%s: %w", d.name, cad.ErrNotAssembly)
	}
	return d.assembly, nil
}

type assembly struct {
	occurrences []*occurrence
	constraints []*constraint
}

func (a *assembly) Occurrences() []cad.Occurrence {
	out := make([]cad.Occurrence, len(a.occurrences))
	for i, o := range a.occurrences {
		out[i] = o
	}
	return out
}

func (a *assembly) Constraints() []cad.Constraint {
	out := make([]cad.Constraint, len(a.constraints))
	for i, c := range a.constraints {
		out[i] = c
	}
	return out
}

type occurrence struct {
	name      string
	kind      cad.OccurrenceKind
	sub       *assembly
	transform gmath.Transform
	mass      cad.MassProperties
	dof       cad.DegreesOfFreedom
	mesh      string
}

func (o *occurrence) Name() string { return o.name }
func (o *occurrence) Kind() cad.OccurrenceKind { return o.kind }
func (o *occurrence) Transform() gmath.Transform { return o.transform }
func (o *occurrence) MeshPath() string { return o.mesh }

func (o *occurrence) SubAssembly() cad.Assembly {
	if o.sub == nil {
		return nil
	}
	return o.sub
}

func (o *occurrence) MassProperties() (cad.MassProperties, error) {
	return o.mass, nil
}

func (o *occurrence) DegreesOfFreedom() (cad.DegreesOfFreedom, error) {
	return o.dof, nil
}

type constraint struct {
	name       string
	kind       cad.ConstraintKind
	suppressed bool
	one, two   *occurrence
	geometry   cad.Geometry
}

func (c *constraint) Name() string { return c.name }
func (c *constraint) Suppressed() bool { return c.suppressed }
func (c *constraint) Kind() cad.ConstraintKind { return c.kind }
func (c *constraint) Geometry() cad.Geometry { return c.geometry }

func (c *constraint) OccurrenceOne() cad.Occurrence { return asOccurrence(c.one) }
func (c *constraint) OccurrenceTwo() cad.Occurrence { return asOccurrence(c.two) }

// asOccurrence keeps a nil pointer from becoming a non-nil interface.
func asOccurrence(o *occurrence) cad.Occurrence {
	if o == nil {
		return nil
	}
	return o
}
