package physics

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Identity is the identity orientation
var Identity = quat.Number{Real: 1}

// FromAxisAngle returns the unit quaternion rotating by angle radians
// about axis
func FromAxisAngle(axis r3.Vector, angle float64) quat.Number {
	axis = axis.Normalize()
	s := math.Sin(angle / 2)
	return quat.Number{
		Real: math.Cos(angle / 2),
		Imag: axis.X * s,
		Jmag: axis.Y * s,
		Kmag: axis.Z * s,
	}
}

// FromXYZW converts a quaternion given in (x, y, z, w) order
func FromXYZW(q [4]float64) quat.Number {
	return quat.Number{Real: q[3], Imag: q[0], Jmag: q[1], Kmag: q[2]}
}

// XYZW returns the quaternion components in (x, y, z, w) order
func XYZW(q quat.Number) [4]float64 {
	return [4]float64{q.Imag, q.Jmag, q.Kmag, q.Real}
}

// Normalize returns q scaled to unit length. The zero quaternion is
// returned as Identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return Identity
	}
	if math.Abs(n-1) <= 1e-12 {
		return q
	}
	return quat.Scale(1/n, q)
}

// Rotate rotates v by the unit quaternion q
func Rotate(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// extentZ returns the half height of the axis-aligned bounding box of a
// box with half extents h rotated by q
func extentZ(q quat.Number, h r3.Vector) float64 {
	ex := Rotate(q, r3.Vector{X: h.X})
	ey := Rotate(q, r3.Vector{Y: h.Y})
	ez := Rotate(q, r3.Vector{Z: h.Z})
	return math.Abs(ex.Z) + math.Abs(ey.Z) + math.Abs(ez.Z)
}
