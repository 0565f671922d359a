package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an acion, an observation, a discount, or a reward
type SpecType int

const (
	Action SpecType = iota
	Observation
	Discount
	Reward
)

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, which tells the type,
// shape, and bounds of an action, observation, discount, or reward in
// an environment
type Spec struct {
	Shape      *mat.VecDense
	Type       SpecType
	LowerBound *mat.VecDense
	UpperBound *mat.VecDense
	Cardinality
}

// NewSpec constructs a new environment specification
// The shape argument outlines the shape of the data described by the
// specification. The argument t outlines what the specification is
// describing (e.g. actions, observations, etc.). The cardinality
// arguments describes whether the values that the spec describes are
// continuous or discrete.
func NewSpec(shape *mat.VecDense, t SpecType, lowerBound,
	upperBound *mat.VecDense, cardinality Cardinality) Spec {
	if shape.Len() != lowerBound.Len() {
		panic(fmt.Sprintf("shape length %v must match lower bounds length %v",
			shape.Len(), lowerBound.Len()))
	}
	if shape.Len() != upperBound.Len() {
		panic(fmt.Sprintf("shape length %v must match upper bounds length %v",
			shape.Len(), upperBound.Len()))
	}
	return Spec{shape, t, lowerBound, upperBound, cardinality}
}

// NewBoxSpec returns a continuous Spec whose bounds are given by one
// interval per dimension
func NewBoxSpec(t SpecType, bounds []r1.Interval) Spec {
	low := mat.NewVecDense(len(bounds), nil)
	high := mat.NewVecDense(len(bounds), nil)
	for i, b := range bounds {
		low.SetVec(i, b.Min)
		high.SetVec(i, b.Max)
	}

	return NewSpec(mat.NewVecDense(len(bounds), nil), t, low, high,
		Continuous)
}

// Intervals returns the bounds of the Spec as one interval per dimension
func (s Spec) Intervals() []r1.Interval {
	bounds := make([]r1.Interval, s.LowerBound.Len())
	for i := range bounds {
		bounds[i] = r1.Interval{
			Min: s.LowerBound.AtVec(i),
			Max: s.UpperBound.AtVec(i),
		}
	}
	return bounds
}

// Scale linearly maps x from the bounds of spec to [-1, 1] element-wise,
// returning a new vector.
func Scale(x mat.Vector, spec Spec) (*mat.VecDense, error) {
	if x.Len() != spec.LowerBound.Len() {
		return nil, fmt.Errorf("scale: vector length %v does not match "+
			"spec length %v", x.Len(), spec.LowerBound.Len())
	}

	scaled := mat.NewVecDense(x.Len(), nil)
	for i := 0; i < x.Len(); i++ {
		low, high := spec.LowerBound.AtVec(i), spec.UpperBound.AtVec(i)
		scaled.SetVec(i, 2.0*(x.AtVec(i)-low)/(high-low)-1.0)
	}
	return scaled, nil
}

// Unscale is the inverse of Scale: it linearly maps y from [-1, 1] to the
// bounds of spec element-wise, returning a new vector.
func Unscale(y mat.Vector, spec Spec) (*mat.VecDense, error) {
	if y.Len() != spec.LowerBound.Len() {
		return nil, fmt.Errorf("unscale: vector length %v does not match "+
			"spec length %v", y.Len(), spec.LowerBound.Len())
	}

	unscaled := mat.NewVecDense(y.Len(), nil)
	for i := 0; i < y.Len(); i++ {
		low, high := spec.LowerBound.AtVec(i), spec.UpperBound.AtVec(i)
		unscaled.SetVec(i, low+(y.AtVec(i)+1.0)*(high-low)/2.0)
	}
	return unscaled, nil
}
