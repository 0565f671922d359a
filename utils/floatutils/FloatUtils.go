// Package floatutils provides utilities for working with floats
package floatutils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Distance returns the Euclidean distance between a and b treated as
// flat vectors. For sets of points laid out as consecutive (x, y, z)
// triples this is the Frobenius norm of the difference of the point
// matrices.
func Distance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("distance: lengths %v and %v differ", len(a),
			len(b))
	}
	return floats.Distance(a, b, 2), nil
}

// Lerp blends prev and next element-wise as alpha*prev + (1-alpha)*next,
// storing the result in dst. dst may alias prev or next.
func Lerp(dst, prev, next []float64, alpha float64) {
	if len(dst) != len(prev) || len(dst) != len(next) {
		panic(fmt.Sprintf("lerp: lengths %v, %v, %v differ", len(dst),
			len(prev), len(next)))
	}
	for i := range dst {
		dst[i] = alpha*prev[i] + (1-alpha)*next[i]
	}
}
