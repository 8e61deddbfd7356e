package cad

import gmath "github.com/Faultbox/sdfexport/pkg/math"

// Geometry is the primary entity a constraint acts on. Implementations are
// Circle, Line, Plane and Point.
type Geometry interface {
	geometry()
}

// Circle is an edge or cylindrical face seen as a circle.
type Circle struct {
	Center gmath.Vec3
	Normal gmath.Vec3
	Radius float64
}

// Line is an edge or axis.
type Line struct {
	Root      gmath.Vec3
	Direction gmath.Vec3
}

type Plane struct {
	Root   gmath.Vec3
	Normal gmath.Vec3
}

type Point struct {
	Position gmath.Vec3
}

func (Circle) geometry() {}
func (Line) geometry()   {}
func (Plane) geometry()  {}
func (Point) geometry()  {}

// GeometryName returns a short name for logging.
func GeometryName(g Geometry) string {
	switch g.(type) {
	case Circle:
		return "circle"
	case Line:
		return "line"
	case Plane:
		return "plane"
	case Point:
		return "point"
	default:
		return "none"
	}
}
