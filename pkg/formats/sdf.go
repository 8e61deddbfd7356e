package formats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Faultbox/sdfexport/pkg/sdf"
)

// WriteSDF writes r as an SDF document:
//
//	<sdf version="1.5">
//	  <model name="...">
//	    <pose>...</pose>
//	    <link>...</link>...
//	    <joint>...</joint>...
//	  </model>
//	</sdf>
//
// Links and joints are written in model order. Optional parts that are nil are
// left out.
func WriteSDF(w io.Writer, r *sdf.Robot, opts Options) error {
	if r == nil {
		return fmt.Errorf("write sdf: %w", ErrNilRobot)
	}
	opts = opts.resolve(r)

	x := newXMLWriter(w)
	x.header()
	x.stamp(opts.Stamp)
	x.start("sdf", "version", opts.SDFVersion)
	x.start("model", "name", opts.ModelName)
	writeSDFPose(x, r.Pose, opts)

	for _, l := range r.Links {
		writeSDFLink(x, l, opts)
	}
	for _, j := range r.Joints {
		writeSDFJoint(x, j, opts)
	}

	x.end("model")
	x.end("sdf")
	if err := x.close(); err != nil {
		return fmt.Errorf("write sdf: %w", err)
	}
	return nil
}

func writeSDFPose(x *xmlWriter, p sdf.Pose, opts Options) {
	x.text("pose", p.Values(opts.Precision))
}

func writeSDFLink(x *xmlWriter, l *sdf.Link, opts Options) {
	x.start("link", "name", l.Name)
	if l.Pose != nil {
		writeSDFPose(x, *l.Pose, opts)
	}
	if in := l.Inertial; in != nil {
		x.start("inertial")
		x.text("mass", opts.num(in.Mass))
		writeSDFPose(x, in.Pose, opts)
		x.start("inertia")
		for _, e := range inertiaElements(in) {
			x.text(e.name, opts.num(e.value))
		}
		x.end("inertia")
		x.end("inertial")
	}
	if v := l.Visual; v != nil {
		x.start("visual", "name", l.Name+"_vis")
		writeSDFGeometry(x, v.Shape, opts)
		writeMaterial(x, v.Material, opts)
		x.end("visual")
	}
	if c := l.Collision; c != nil {
		writeSDFCollision(x, l.Name+"_col", c.Shape, opts)
	}
	for i, c := range l.CollisionGroup {
		writeSDFCollision(x, l.Name+"_col_"+strconv.Itoa(i+1), c.Shape, opts)
	}
	x.end("link")
}

func writeSDFCollision(x *xmlWriter, name string, s sdf.Shape, opts Options) {
	x.start("collision", "name", name)
	writeSDFGeometry(x, s, opts)
	x.end("collision")
}

func writeSDFGeometry(x *xmlWriter, s sdf.Shape, opts Options) {
	if s == nil {
		return
	}
	x.start("geometry")
	switch s := s.(type) {
	case sdf.Box:
		x.empty("box", "size", opts.nums(s.Size.X, s.Size.Y, s.Size.Z))
	case sdf.Cylinder:
		x.empty("cylinder", "radius", opts.num(s.Radius), "length", opts.num(s.Length))
	case sdf.Sphere:
		x.empty("sphere", "radius", opts.num(s.Radius))
	case sdf.Mesh:
		x.start("mesh")
		x.text("uri", s.ResolveURI(opts.ModelName))
		if s.Scale != 1 {
			x.text("scale", opts.nums(s.Scale, s.Scale, s.Scale))
		}
		x.end("mesh")
	}
	x.end("geometry")
}

func writeMaterial(x *xmlWriter, m *sdf.Material, opts Options) {
	if m == nil {
		return
	}
	x.start("material", "name", m.Name)
	x.empty("color", "rgba", opts.nums(m.RGBA[0], m.RGBA[1], m.RGBA[2], m.RGBA[3]))
	x.end("material")
}

func writeSDFJoint(x *xmlWriter, j *sdf.Joint, opts Options) {
	x.start("joint", "name", j.Name, "type", j.Type.String())
	if j.Parent != nil {
		x.text("parent", j.Parent.Name)
	}
	if j.Child != nil {
		x.text("child", j.Child.Name)
	}
	if j.Pose != nil {
		writeSDFPose(x, *j.Pose, opts)
	}
	if a := j.Axis; a != nil {
		x.start("axis")
		x.text("xyz", opts.nums(a.XYZ.X, a.XYZ.Y, a.XYZ.Z))
		x.text("use_parent_model_frame", "true")
		x.end("axis")
	}
	writeJointExtras(x, j, opts)
	x.end("joint")
}

// writeJointExtras writes the calibration, dynamics, limit and safety
// controller elements, which share one attribute layout in both dialects.
func writeJointExtras(x *xmlWriter, j *sdf.Joint, opts Options) {
	if c := j.Calibration; c != nil {
		x.empty("calibration", c.Edge.String(), opts.num(c.Value))
	}
	if d := j.Dynamics; d != nil {
		x.empty("dynamics", "damping", opts.num(d.Damping), "friction", opts.num(d.Friction))
	}
	if l := j.Limit; l != nil {
		x.empty("limit",
			"effort", opts.num(l.Effort),
			"velocity", opts.num(l.Velocity),
			"lower", opts.num(l.Lower),
			"upper", opts.num(l.Upper))
	}
	if s := j.SafetyController; s != nil {
		x.empty("safety_controller",
			"soft_lower_limit", opts.num(s.SoftLowerLimit),
			"soft_upper_limit", opts.num(s.SoftUpperLimit),
			"k_position", opts.num(s.KPosition),
			"k_velocity", opts.num(s.KVelocity))
	}
}

type namedValue struct {
	name  string
	value float64
}

func inertiaElements(in *sdf.Inertial) []namedValue {
	c := in.Tensor.Components()
	return []namedValue{
		{"ixx", c[0]}, {"ixy", c[1]}, {"ixz", c[2]},
		{"iyy", c[3]}, {"iyz", c[4]}, {"izz", c[5]},
	}
}
