package finger

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/samuelfneumann/gofinger/physics"
	"gonum.org/v1/gonum/num/quat"
)

var (
	xAxis = r3.Vector{X: 1}
	yAxis = r3.Vector{Y: 1}
	zAxis = r3.Vector{Z: 1}
)

// Kinematics computes finger tip positions from joint positions
type Kinematics struct {
	geometry Geometry
	mounts   []quat.Number
}

// NewKinematics returns the kinematics of a finger type. Fingers of a
// tri-finger are mounted at 0, 120 and 240 degrees about the vertical
// axis. A single finger is mounted at configAngle degrees, which should
// be one of 0, 120, or 240.
func NewKinematics(t Type, configAngle int) (*Kinematics, error) {
	numFingers, err := NumberOfFingers(t)
	if err != nil {
		return nil, fmt.Errorf("newKinematics: %v", err)
	}
	geometry, err := GeometryOf(t)
	if err != nil {
		return nil, fmt.Errorf("newKinematics: %v", err)
	}
	if configAngle != 0 && configAngle != 120 && configAngle != 240 {
		return nil, fmt.Errorf("newKinematics: config angle must be one "+
			"of 0, 120, 240, got %v", configAngle)
	}

	mounts := make([]quat.Number, numFingers)
	for i := range mounts {
		angle := float64(configAngle + 120*i)
		mounts[i] = physics.FromAxisAngle(zAxis, angle*math.Pi/180)
	}

	return &Kinematics{geometry: geometry, mounts: mounts}, nil
}

// NumFingers returns the number of fingers
func (k *Kinematics) NumFingers() int {
	return len(k.mounts)
}

// ForwardKinematics returns the tip position of each finger
func (k *Kinematics) ForwardKinematics(joints []float64) ([]r3.Vector,
	error) {
	if len(joints) != JointsPerFinger*len(k.mounts) {
		return nil, fmt.Errorf("forwardKinematics: expected %v joint "+
			"positions, got %v", JointsPerFinger*len(k.mounts), len(joints))
	}

	g := k.geometry
	tips := make([]r3.Vector, len(k.mounts))
	for i, mount := range k.mounts {
		q := joints[JointsPerFinger*i : JointsPerFinger*(i+1)]

		lower := physics.Rotate(physics.FromAxisAngle(xAxis, q[2]),
			r3.Vector{Z: -g.LowerLink})
		middle := physics.Rotate(physics.FromAxisAngle(xAxis, q[1]),
			r3.Vector{Z: -g.UpperLink}.Add(lower))
		local := physics.Rotate(physics.FromAxisAngle(yAxis, q[0]), middle)

		base := r3.Vector{Y: g.BaseRadius, Z: g.BaseHeight}
		tips[i] = physics.Rotate(mount, base.Add(local))
	}
	return tips, nil
}

// Flatten concatenates points into a single []float64 of (x, y, z)
// triples
func Flatten(points []r3.Vector) []float64 {
	flat := make([]float64, 0, 3*len(points))
	for _, p := range points {
		flat = append(flat, p.X, p.Y, p.Z)
	}
	return flat
}
