package snapshot

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sdfexport/internal/cad"
	"github.com/Faultbox/sdfexport/pkg/inertia"
	gmath "github.com/Faultbox/sdfexport/pkg/math"
)

func loadArm(t *testing.T) cad.Assembly {
	t.Helper()
	s, err := Load(filepath.Join("testdata", "arm.yaml"))
	require.NoError(t, err)

	doc, err := s.ActiveDocument()
	require.NoError(t, err)
	assert.Equal(t, "ArmAssembly", doc.Name())

	asm, err := doc.Assembly()
	require.NoError(t, err)
	return asm
}

func TestLoadOccurrences(t *testing.T) {
	asm := loadArm(t)

	occs := asm.Occurrences()
	require.Len(t, occs, 3)
	assert.Equal(t, "Base:1", occs[0].Name())
	assert.Equal(t, cad.KindPart, occs[0].Kind())
	assert.Nil(t, occs[0].SubAssembly())

	mp, err := occs[0].MassProperties()
	require.NoError(t, err)
	assert.Equal(t, 2.0, mp.Mass)
	assert.Equal(t, inertia.Components{0.5, 0, 0, 0.5, 0, 0.8}, mp.Inertia)
	assert.Equal(t, gmath.V3(0, 0, 5), mp.CenterOfMass)

	arm := occs[1]
	assert.Equal(t, gmath.IdentityTransform().Rotation, arm.Transform().Rotation, "missing rotation defaults to identity")
	assert.Equal(t, gmath.V3(0, 0, 10), arm.Transform().Translation)

	dof, err := arm.DegreesOfFreedom()
	require.NoError(t, err)
	assert.Equal(t, 1, dof.Count())
	assert.Equal(t, []gmath.Vec3{{Z: 1}}, dof.Rotational)

	wrist := occs[2]
	assert.Equal(t, cad.KindAssembly, wrist.Kind())
	require.NotNil(t, wrist.SubAssembly())
	assert.Equal(t, "Gripper:1", wrist.SubAssembly().Occurrences()[0].Name())
}

func TestLoadResolvesMeshRelativeToFile(t *testing.T) {
	base := loadArm(t).Occurrences()[0]
	ms, ok := base.(cad.MeshSource)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("testdata", "meshes", "base.stl"), ms.MeshPath())
}

func TestLoadConstraints(t *testing.T) {
	asm := loadArm(t)

	cs := asm.Constraints()
	require.Len(t, cs, 4)

	insert := cs[0]
	assert.Equal(t, cad.ConstraintInsert, insert.Kind())
	assert.Equal(t, "Arm:1", insert.OccurrenceOne().Name())
	assert.Equal(t, "Base:1", insert.OccurrenceTwo().Name())
	assert.Equal(t, cad.Circle{Center: gmath.V3(0, 0, 10), Normal: gmath.V3(0, 0, 1), Radius: 2}, insert.Geometry())

	assert.True(t, cs[2].Suppressed())
	assert.Nil(t, cs[3].OccurrenceTwo(), "unknown occurrence names resolve to nil")

	// Sub-assembly constraints may reference occurrences at any level.
	mate := asm.Occurrences()[2].SubAssembly().Constraints()[0]
	assert.Equal(t, cad.ConstraintMate, mate.Kind())
	assert.Equal(t, "Arm:1", mate.OccurrenceTwo().Name())
	assert.Equal(t, cad.Line{Root: gmath.V3(0, 0, 35), Direction: gmath.V3(-1, 0, 0)}, mate.Geometry())
}

func TestParseRotationRows(t *testing.T) {
	data := []byte(`
document: D
root:
  occurrences:
    - name: P
      transform:
        rotation: [[0, -1, 0], [1, 0, 0], [0, 0, 1]]
`)
	s, err := Parse(data, "")
	require.NoError(t, err)
	doc, err := s.ActiveDocument()
	require.NoError(t, err)
	asm, err := doc.Assembly()
	require.NoError(t, err)

	rot := asm.Occurrences()[0].Transform().Rotation
	assert.Equal(t, -1.0, gmath.Cell(rot, 1, 2))
	assert.Equal(t, 1.0, gmath.Cell(rot, 2, 1))
}

func TestNoActiveDocument(t *testing.T) {
	s, err := Parse([]byte("{}"), "")
	require.NoError(t, err)
	_, err = s.ActiveDocument()
	assert.True(t, errors.Is(err, cad.ErrNoActiveDocument))
}

func TestPartDocument(t *testing.T) {
	s, err := Parse([]byte("document: Bracket\nkind: part\n"), "")
	require.NoError(t, err)
	doc, err := s.ActiveDocument()
	require.NoError(t, err)
	_, err = doc.Assembly()
	assert.True(t, errors.Is(err, cad.ErrNotAssembly))
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "document: [unclosed"},
		{"unknown document kind", "document: D\nkind: drawing\n"},
		{"assembly without root", "document: D\n"},
		{"root without document", "root: {occurrences: []}\n"},
		{"occurrence without name", "document: D\nroot: {occurrences: [{kind: part}]}\n"},
		{"unknown occurrence kind", "document: D\nroot: {occurrences: [{name: a, kind: weldment}]}\n"},
		{"assembly without body", "document: D\nroot: {occurrences: [{name: a, kind: assembly}]}\n"},
		{"short inertia", "document: D\nroot: {occurrences: [{name: a, inertia: [1, 2]}]}\n"},
		{"short translation", "document: D\nroot: {occurrences: [{name: a, transform: {translation: [1]}}]}\n"},
		{"two rotation rows", "document: D\nroot: {occurrences: [{name: a, transform: {rotation: [[1,0,0],[0,1,0]]}}]}\n"},
		{"bad dof", "document: D\nroot: {occurrences: [{name: a, dof: {rotational: [[1, 0]]}}]}\n"},
		{"unknown geometry", "document: D\nroot: {constraints: [{name: c, geometry: {type: torus}}]}\n"},
		{"constraint without name", "document: D\nroot: {constraints: [{kind: mate}]}\n"},
		{"unknown inertia order", "document: D\ninertia_order: matrix\nroot: {occurrences: []}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "")
			assert.True(t, errors.Is(err, ErrInvalidSnapshot), "got %v", err)
		})
	}
}

func TestInertiaOrder(t *testing.T) {
	tests := []struct {
		order string
		want  inertia.Components
	}{
		{"", inertia.Components{1, 2, 3, 4, 5, 6}},
		{"tensor", inertia.Components{1, 2, 3, 4, 5, 6}},
		// Ixx Iyy Izz Ixy Iyz Ixz
		{"cad", inertia.Components{1, 4, 6, 2, 5, 3}},
	}

	for _, tt := range tests {
		t.Run("order "+tt.order, func(t *testing.T) {
			data := "document: D\ninertia_order: " + tt.order + "\n" +
				"root: {occurrences: [{name: a, inertia: [1, 2, 3, 4, 5, 6]}]}\n"
			s, err := Parse([]byte(data), "")
			require.NoError(t, err)
			doc, err := s.ActiveDocument()
			require.NoError(t, err)
			asm, err := doc.Assembly()
			require.NoError(t, err)

			mp, err := asm.Occurrences()[0].MassProperties()
			require.NoError(t, err)
			assert.Equal(t, tt.want, mp.Inertia)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFirstBreadthFirstNameWins(t *testing.T) {
	data := []byte(`
document: D
root:
  occurrences:
    - name: Sub
      kind: assembly
      assembly:
        occurrences:
          - name: P
            mass: 2
    - name: P
      mass: 1
  constraints:
    - name: C
      kind: insert
      occurrence_one: P
      occurrence_two: P
`)
	s, err := Parse(data, "")
	require.NoError(t, err)
	doc, _ := s.ActiveDocument()
	asm, _ := doc.Assembly()

	mp, err := asm.Constraints()[0].OccurrenceOne().MassProperties()
	require.NoError(t, err)
	assert.Equal(t, 1.0, mp.Mass, "the top-level P is found before the nested one")
}
