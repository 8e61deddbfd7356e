package sdf

import (
	"strings"

	gmath "github.com/Faultbox/sdfexport/pkg/math"
)

// ModelNamePlaceholder is replaced by the model name when a mesh URI is rendered.
const ModelNamePlaceholder = "<MODELNAME>"

// Shape is the geometry of a visual or collision element.
// The set of implementations is closed: Box, Cylinder, Sphere and Mesh.
type Shape interface {
	shape()
}

// Box is an axis aligned box with edge lengths Size.
type Box struct {
	Size gmath.Vec3
}

// Cylinder is aligned with the local Z axis.
type Cylinder struct {
	Radius float64
	Length float64
}

type Sphere struct {
	Radius float64
}

// Mesh references an external mesh file.
type Mesh struct {
	URI   string
	Scale float64
}

func (Box) shape()      {}
func (Cylinder) shape() {}
func (Sphere) shape()   {}
func (Mesh) shape()     {}

// MeshURI returns the conventional URI template for a link's mesh.
func MeshURI(linkName string) string {
	return "model://" + ModelNamePlaceholder + "/meshes/" + linkName + ".stl"
}

// ResolveURI substitutes modelName for the placeholder.
func (m Mesh) ResolveURI(modelName string) string {
	return strings.ReplaceAll(m.URI, ModelNamePlaceholder, modelName)
}

// Material is a named flat colour.
type Material struct {
	Name string
	RGBA [4]float64
}

// Visual is the rendered geometry of a link.
type Visual struct {
	Shape    Shape
	Material *Material
}

// Clone returns a deep copy of v. A nil visual clones to nil.
func (v *Visual) Clone() *Visual {
	if v == nil {
		return nil
	}
	c := &Visual{Shape: v.Shape}
	if v.Material != nil {
		m := *v.Material
		c.Material = &m
	}
	return c
}

// Collision is the contact geometry of a link.
type Collision struct {
	Shape Shape
}

// Clone returns a copy of c. A nil collision clones to nil.
func (c *Collision) Clone() *Collision {
	if c == nil {
		return nil
	}
	cc := *c
	return &cc
}
