// Package spaces implements the observation and action spaces of the
// TriFinger environments. Observations are flat vectors made of named
// parts (joint positions, joint velocities, goal positions, ...), each of
// which has physical bounds. Each space exists in an unscaled version with
// these physical bounds, and in a scaled version where every value lies
// in [-1, 1].
package spaces

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gofinger/environment"
	"github.com/samuelfneumann/gofinger/finger"
	"gonum.org/v1/gonum/spatial/r1"
)

// Observation keys
const (
	JointPositions       = "joint_positions"
	JointVelocities      = "joint_velocities"
	EndEffectorPosition  = "end_effector_position"
	EndEffectorToGoal    = "end_effector_to_goal"
	GoalPosition         = "goal_position"
	ActionJointPositions = "action_joint_positions"
	ActionTorque         = "action_torque"
)

// Physical limits of a single finger
var (
	deg = math.Pi / 180

	jointLower = []float64{-70 * deg, -70 * deg, -160 * deg}
	jointUpper = []float64{70 * deg, 0, -2 * deg}

	maxVelocity = 20.0
	maxTorque   = 0.36

	positionLower = []float64{-0.5, -0.5, 0}
	positionUpper = []float64{0.5, 0.5, 0.5}

	deltaLower = []float64{-0.5, -0.5, -0.5}
	deltaUpper = []float64{0.5, 0.5, 0.5}
)

// Slice is the half-open range [Start, End) of a key in a flat vector
type Slice struct {
	Start int
	End   int
}

// FingerSpaces holds the layout and bounds of the observation and action
// spaces for some number of fingers
type FingerSpaces struct {
	numFingers    int
	keys          []string
	sizes         []int
	separateGoals bool

	lower map[string][]float64
	upper map[string][]float64

	// KeyToIndex maps each observation key to its range in the flat
	// observation vector
	KeyToIndex map[string]Slice
}

// NewFingerSpaces returns the spaces for numFingers fingers with
// observations made of keys, in order. sizes[i] is the length of key i.
// If separateGoals is true there is one goal per finger, otherwise a
// single goal is shared by all fingers.
func NewFingerSpaces(numFingers int, keys []string, sizes []int,
	separateGoals bool) (*FingerSpaces, error) {
	if numFingers < 1 {
		return nil, fmt.Errorf("newFingerSpaces: number of fingers must be "+
			"positive, got %v", numFingers)
	}
	if len(keys) != len(sizes) {
		return nil, fmt.Errorf("newFingerSpaces: %v keys but %v sizes",
			len(keys), len(sizes))
	}

	f := &FingerSpaces{
		numFingers:    numFingers,
		keys:          append([]string(nil), keys...),
		sizes:         append([]int(nil), sizes...),
		separateGoals: separateGoals,
		lower:         make(map[string][]float64),
		upper:         make(map[string][]float64),
		KeyToIndex:    make(map[string]Slice),
	}

	goals := 1
	if separateGoals {
		goals = numFingers
	}

	f.setBounds(JointPositions, jointLower, jointUpper, numFingers)
	f.setBounds(ActionJointPositions, jointLower, jointUpper, numFingers)
	f.setBounds(JointVelocities, constant(-maxVelocity),
		constant(maxVelocity), numFingers)
	f.setBounds(ActionTorque, constant(-maxTorque), constant(maxTorque),
		numFingers)
	f.setBounds(EndEffectorPosition, positionLower, positionUpper, numFingers)
	f.setBounds(GoalPosition, positionLower, positionUpper, goals)
	f.setBounds(EndEffectorToGoal, deltaLower, deltaUpper, numFingers)

	start := 0
	for i, key := range keys {
		if _, ok := f.lower[key]; !ok {
			return nil, fmt.Errorf("newFingerSpaces: unknown observation "+
				"key %q", key)
		}
		if _, ok := f.KeyToIndex[key]; ok {
			return nil, fmt.Errorf("newFingerSpaces: duplicate observation "+
				"key %q", key)
		}
		if sizes[i] != len(f.lower[key]) {
			return nil, fmt.Errorf("newFingerSpaces: key %q should have "+
				"size %v, got %v", key, len(f.lower[key]), sizes[i])
		}
		f.KeyToIndex[key] = Slice{start, start + sizes[i]}
		start += sizes[i]
	}

	return f, nil
}

// Keys returns the observation keys in order
func (f *FingerSpaces) Keys() []string {
	return append([]string(nil), f.keys...)
}

// ObservationSize returns the length of the flat observation vector
func (f *FingerSpaces) ObservationSize() int {
	size := 0
	for _, s := range f.sizes {
		size += s
	}
	return size
}

// Bounds returns the physical bounds of key, one interval per value
func (f *FingerSpaces) Bounds(key string) ([]r1.Interval, error) {
	lower, ok := f.lower[key]
	if !ok {
		return nil, fmt.Errorf("bounds: unknown key %q", key)
	}
	return intervals(lower, f.upper[key]), nil
}

// ActionBounds returns the joint position bounds of the action space
func (f *FingerSpaces) ActionBounds() []r1.Interval {
	return intervals(f.lower[ActionJointPositions],
		f.upper[ActionJointPositions])
}

// UnscaledObservationSpec returns the observation specification in
// physical units
func (f *FingerSpaces) UnscaledObservationSpec() environment.Spec {
	var bounds []r1.Interval
	for _, key := range f.keys {
		bounds = append(bounds, intervals(f.lower[key], f.upper[key])...)
	}
	return environment.NewBoxSpec(environment.Observation, bounds)
}

// UnscaledActionSpec returns the action specification in physical units
func (f *FingerSpaces) UnscaledActionSpec() environment.Spec {
	return environment.NewBoxSpec(environment.Action, f.ActionBounds())
}

// ScaledObservationSpec returns the observation specification with all
// values in [-1, 1]
func (f *FingerSpaces) ScaledObservationSpec() environment.Spec {
	return unitSpec(environment.Observation, f.ObservationSize())
}

// ScaledActionSpec returns the action specification with all values in
// [-1, 1]
func (f *FingerSpaces) ScaledActionSpec() environment.Spec {
	return unitSpec(environment.Action, len(f.lower[ActionJointPositions]))
}

func (f *FingerSpaces) setBounds(key string, lower, upper []float64,
	repeat int) {
	f.lower[key] = tile(lower, repeat)
	f.upper[key] = tile(upper, repeat)
}

func unitSpec(t environment.SpecType, n int) environment.Spec {
	bounds := make([]r1.Interval, n)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: -1, Max: 1}
	}
	return environment.NewBoxSpec(t, bounds)
}

func constant(v float64) []float64 {
	c := make([]float64, finger.JointsPerFinger)
	for i := range c {
		c[i] = v
	}
	return c
}

func tile(values []float64, n int) []float64 {
	tiled := make([]float64, 0, len(values)*n)
	for i := 0; i < n; i++ {
		tiled = append(tiled, values...)
	}
	return tiled
}

func intervals(lower, upper []float64) []r1.Interval {
	bounds := make([]r1.Interval, len(lower))
	for i := range bounds {
		bounds[i] = r1.Interval{Min: lower[i], Max: upper[i]}
	}
	return bounds
}
