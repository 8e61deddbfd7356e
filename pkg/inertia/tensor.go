// Package inertia converts rotational-inertia measurements between their
// six-component and 3x3 tensor forms, and scales and rotates them.
package inertia

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Component indices into Components.
const (
	Ixx = iota
	Ixy
	Ixz
	Iyy
	Iyz
	Izz
)

// Components holds the six independent tensor entries
// in the order [Ixx, Ixy, Ixz, Iyy, Iyz, Izz].
type Components [6]float64

// FromCADOrder re-orders moments as CAD mass-property queries report them
// (Ixx, Iyy, Izz, Ixy, Iyz, Ixz) into Components order.
func FromCADOrder(ixx, iyy, izz, ixy, iyz, ixz float64) Components {
	return Components{ixx, ixy, ixz, iyy, iyz, izz}
}

// Tensor is a symmetric inertia tensor. The component vector and the matrix are
// always consistent: every constructor and method derives one from the other.
type Tensor struct {
	components Components
	matrix     [3][3]float64
}

// NewTensor expands a component vector into a tensor.
func NewTensor(c Components) Tensor {
	t := Tensor{components: c}
	t.processVector()
	return t
}

// FromMatrix collapses a 3x3 matrix into a tensor using its upper triangle.
func FromMatrix(m [3][3]float64) Tensor {
	t := Tensor{matrix: m}
	t.processMatrix()
	t.processVector() // mirror the upper triangle so the matrix is symmetric
	return t
}

func (t *Tensor) processVector() {
	c := t.components
	t.matrix = [3][3]float64{
		{c[Ixx], c[Ixy], c[Ixz]},
		{c[Ixy], c[Iyy], c[Iyz]},
		{c[Ixz], c[Iyz], c[Izz]},
	}
}

func (t *Tensor) processMatrix() {
	m := t.matrix
	t.components = Components{m[0][0], m[0][1], m[0][2], m[1][1], m[1][2], m[2][2]}
}

// Components returns the six-component form.
func (t Tensor) Components() Components {
	return t.components
}

// Matrix returns the 3x3 form.
func (t Tensor) Matrix() [3][3]float64 {
	return t.matrix
}

// Dense returns the tensor as a gonum matrix.
func (t Tensor) Dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		t.matrix[0][0], t.matrix[0][1], t.matrix[0][2],
		t.matrix[1][0], t.matrix[1][1], t.matrix[1][2],
		t.matrix[2][0], t.matrix[2][1], t.matrix[2][2],
	})
}

// Scaled returns the tensor for a body uniformly scaled in length by s.
// Moments of inertia grow with length squared.
func (t Tensor) Scaled(s float64) Tensor {
	c := t.components
	for i := range c {
		c[i] *= s * s
	}
	return NewTensor(c)
}

// Rotated returns r·I·rᵀ.
func (t Tensor) Rotated(r mgl64.Mat3) Tensor {
	rd := denseFromMgl(r)

	var tmp, out mat.Dense
	tmp.Mul(rd, t.Dense())
	out.Mul(&tmp, rd.T())

	var m [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = out.At(i, j)
		}
	}
	return FromMatrix(m)
}

// Trace returns Ixx + Iyy + Izz, which rotation preserves.
func (t Tensor) Trace() float64 {
	return t.matrix[0][0] + t.matrix[1][1] + t.matrix[2][2]
}

// Equal reports whether both tensors hold identical components.
func (t Tensor) Equal(other Tensor) bool {
	return t.components == other.components
}

// ApproxEqual reports whether every component differs by at most eps.
func (t Tensor) ApproxEqual(other Tensor, eps float64) bool {
	for i := range t.components {
		if math.Abs(t.components[i]-other.components[i]) > eps {
			return false
		}
	}
	return true
}

func denseFromMgl(m mgl64.Mat3) *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, m.At(i, j))
		}
	}
	return d
}
