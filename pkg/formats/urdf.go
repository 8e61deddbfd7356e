package formats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Faultbox/sdfexport/pkg/sdf"
)

// WriteURDF writes r as a URDF document.
//
// URDF has no free-standing link poses: a link's frame is the origin of the
// joint that leads to it. Each joint's origin is therefore the child link's
// pose expressed in the parent link's frame, and root links carry no origin.
func WriteURDF(w io.Writer, r *sdf.Robot, opts Options) error {
	if r == nil {
		return fmt.Errorf("write urdf: %w", ErrNilRobot)
	}
	opts = opts.resolve(r)

	x := newXMLWriter(w)
	x.header()
	x.stamp(opts.Stamp)
	x.start("robot", "name", opts.ModelName)

	for _, l := range r.Links {
		writeURDFLink(x, l, opts)
	}
	for _, j := range r.Joints {
		writeURDFJoint(x, j, opts)
	}

	x.end("robot")
	if err := x.close(); err != nil {
		return fmt.Errorf("write urdf: %w", err)
	}
	return nil
}

func writeURDFOrigin(x *xmlWriter, p sdf.Pose, opts Options) {
	x.empty("origin",
		"xyz", opts.nums(p.Position.X, p.Position.Y, p.Position.Z),
		"rpy", opts.nums(p.Rotation.X, p.Rotation.Y, p.Rotation.Z))
}

func writeURDFLink(x *xmlWriter, l *sdf.Link, opts Options) {
	x.start("link", "name", l.Name)
	if in := l.Inertial; in != nil {
		x.start("inertial")
		writeURDFOrigin(x, in.Pose, opts)
		x.empty("mass", "value", opts.num(in.Mass))
		var attrs []string
		for _, e := range inertiaElements(in) {
			attrs = append(attrs, e.name, opts.num(e.value))
		}
		x.empty("inertia", attrs...)
		x.end("inertial")
	}
	if v := l.Visual; v != nil {
		x.start("visual", "name", l.Name+"_vis")
		writeURDFGeometry(x, v.Shape, opts)
		writeMaterial(x, v.Material, opts)
		x.end("visual")
	}
	if c := l.Collision; c != nil {
		writeURDFCollision(x, l.Name+"_col", c.Shape, opts)
	}
	for i, c := range l.CollisionGroup {
		writeURDFCollision(x, l.Name+"_col_"+strconv.Itoa(i+1), c.Shape, opts)
	}
	x.end("link")
}

func writeURDFCollision(x *xmlWriter, name string, s sdf.Shape, opts Options) {
	x.start("collision", "name", name)
	writeURDFGeometry(x, s, opts)
	x.end("collision")
}

func writeURDFGeometry(x *xmlWriter, s sdf.Shape, opts Options) {
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
		attrs := []string{"filename", s.ResolveURI(opts.ModelName)}
		if s.Scale != 1 {
			attrs = append(attrs, "scale", opts.nums(s.Scale, s.Scale, s.Scale))
		}
		x.empty("mesh", attrs...)
	}
	x.end("geometry")
}

func writeURDFJoint(x *xmlWriter, j *sdf.Joint, opts Options) {
	x.start("joint", "name", j.Name, "type", j.Type.String())
	if origin, ok := jointOrigin(j); ok {
		writeURDFOrigin(x, origin, opts)
	}
	if j.Parent != nil {
		x.empty("parent", "link", j.Parent.Name)
	}
	if j.Child != nil {
		x.empty("child", "link", j.Child.Name)
	}
	if a := j.Axis; a != nil {
		x.empty("axis", "xyz", opts.nums(a.XYZ.X, a.XYZ.Y, a.XYZ.Z))
	}
	writeJointExtras(x, j, opts)
	x.end("joint")
}

// jointOrigin returns the child link frame relative to the parent link frame.
func jointOrigin(j *sdf.Joint) (sdf.Pose, bool) {
	if j.Child == nil || j.Child.Pose == nil {
		return sdf.Pose{}, false
	}
	child := *j.Child.Pose
	if j.Parent == nil || j.Parent.Pose == nil {
		return child, true
	}
	return child.FrameRelativeTo(*j.Parent.Pose), true
}
