// Package formats serializes robot descriptions.
//
// Two dialects are supported: SDF, the Gazebo model format, and URDF. Both are
// written as indented XML with numbers rounded to a fixed number of decimals so
// that the same model always produces the same bytes.
package formats

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gmath "github.com/Faultbox/sdfexport/pkg/math"
	"github.com/Faultbox/sdfexport/pkg/sdf"
)

// Format errors.
var (
	ErrUnknownDialect = errors.New("unknown dialect")
	ErrNilRobot       = errors.New("nil robot")
)

// DefaultSDFVersion is written to the sdf element and to model.config.
const DefaultSDFVersion = "1.5"

// Dialect selects the output format.
type Dialect int

const (
	DialectSDF Dialect = iota
	DialectURDF
)

// String returns the dialect name as used in configuration.
func (d Dialect) String() string {
	switch d {
	case DialectSDF:
		return "sdf"
	case DialectURDF:
		return "urdf"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// FileName returns the name of the main document for d.
func (d Dialect) FileName() string {
	if d == DialectURDF {
		return "model.urdf"
	}
	return "model.sdf"
}

// ParseDialect parses "sdf" or "urdf", ignoring case.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sdf":
		return DialectSDF, nil
	case "urdf":
		return DialectURDF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDialect, s)
}

// Options controls serialization.
type Options struct {
	// Precision is the number of decimals kept for every number.
	Precision int
	// ModelName names the model and replaces the mesh URI placeholder.
	// Defaults to the robot name.
	ModelName string
	// SDFVersion defaults to DefaultSDFVersion.
	SDFVersion string
	// Stamp, when set, is written as a leading "Exported at" comment.
	Stamp time.Time
}

// DefaultOptions returns options with the default precision and SDF version.
func DefaultOptions() Options {
	return Options{
		Precision:  gmath.DefaultPrecision,
		SDFVersion: DefaultSDFVersion,
	}
}

func (o Options) resolve(r *sdf.Robot) Options {
	if o.ModelName == "" {
		o.ModelName = r.Name
	}
	if o.SDFVersion == "" {
		o.SDFVersion = DefaultSDFVersion
	}
	return o
}

func (o Options) num(v float64) string {
	return gmath.FormatFloat(v, o.Precision)
}

func (o Options) nums(values ...float64) string {
	return gmath.FormatFloats(o.Precision, values...)
}

// Write serializes r in dialect d.
func Write(w io.Writer, d Dialect, r *sdf.Robot, opts Options) error {
	switch d {
	case DialectSDF:
		return WriteSDF(w, r, opts)
	case DialectURDF:
		return WriteURDF(w, r, opts)
	default:
		return fmt.Errorf("write: %w: %s", ErrUnknownDialect, d)
	}
}
