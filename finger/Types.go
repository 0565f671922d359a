// Package finger implements the robot side of the TriFinger platform: the
// finger types, their forward kinematics, and the Finger capability
// interface with a simulated and a real implementation.
//
// A finger has three revolute joints: the upper joint abducts the whole
// finger sideways, the middle joint swings the upper link, and the lower
// joint bends the lower link. Joint vectors are laid out finger by
// finger, [upper, middle, lower] for each finger.
package finger

import (
	"fmt"
	"sort"
)

// Type is the name of a finger type
type Type string

// Valid finger types
const (
	FingerOne    Type = "fingerone"
	FingerEdu    Type = "fingeredu"
	FingerPro    Type = "fingerpro"
	TriFingerOne Type = "trifingerone"
	TriFingerEdu Type = "trifingeredu"
	TriFingerPro Type = "trifingerpro"
)

// JointsPerFinger is the number of joints of a single finger
const JointsPerFinger = 3

// Geometry describes the kinematic chain of a single finger in its
// mounting frame. The upper joint sits at (0, BaseRadius, BaseHeight)
// and with all joints at zero the finger points straight down.
type Geometry struct {
	BaseRadius float64
	BaseHeight float64
	UpperLink  float64
	LowerLink  float64
}

type typeData struct {
	numFingers int
	geometry   Geometry
}

var (
	geometryOne = Geometry{
		BaseRadius: 0.04,
		BaseHeight: 0.34,
		UpperLink:  0.16,
		LowerLink:  0.16,
	}
	geometryEdu = Geometry{
		BaseRadius: 0.04,
		BaseHeight: 0.30,
		UpperLink:  0.13,
		LowerLink:  0.14,
	}
	geometryPro = Geometry{
		BaseRadius: 0.0415,
		BaseHeight: 0.34,
		UpperLink:  0.16,
		LowerLink:  0.16,
	}
)

var fingerTypes = map[Type]typeData{
	FingerOne:    {1, geometryOne},
	FingerEdu:    {1, geometryEdu},
	FingerPro:    {1, geometryPro},
	TriFingerOne: {3, geometryOne},
	TriFingerEdu: {3, geometryEdu},
	TriFingerPro: {3, geometryPro},
}

// ValidFingerTypes returns the names of all valid finger types, sorted
func ValidFingerTypes() []Type {
	types := make([]Type, 0, len(fingerTypes))
	for t := range fingerTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// NumberOfFingers returns the number of fingers of a finger type
func NumberOfFingers(t Type) (int, error) {
	data, ok := fingerTypes[t]
	if !ok {
		return 0, fmt.Errorf("numberOfFingers: invalid finger type %q, "+
			"valid types are %v", t, ValidFingerTypes())
	}
	return data.numFingers, nil
}

// GeometryOf returns the finger geometry of a finger type
func GeometryOf(t Type) (Geometry, error) {
	data, ok := fingerTypes[t]
	if !ok {
		return Geometry{}, fmt.Errorf("geometryOf: invalid finger type %q", t)
	}
	return data.geometry, nil
}
