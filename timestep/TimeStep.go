// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a single timestep in an environment.
//
// Info holds auxiliary diagnostics reported by the environment for the
// step, for example the "is_success" flag of the reach environment. Info
// may be nil.
type TimeStep struct {
	StepType
	Reward      float64
	Discount    float64
	Observation *mat.VecDense
	Number      int
	Info        map[string]float64
}

// New returns a new TimeStep
func New(t StepType, r, d float64, o *mat.VecDense, n int) TimeStep {
	return TimeStep{
		StepType:    t,
		Reward:      r,
		Discount:    d,
		Observation: o,
		Number:      n,
	}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// IsZero returns whether the TimeStep is the zero value, which
// environments return alongside errors
func (t *TimeStep) IsZero() bool {
	return t.Observation == nil && t.Number == 0 && t.Reward == 0 &&
		t.Info == nil
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v"
	out := fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number)

	if len(t.Info) == 0 {
		return out
	}

	keys := make([]string, 0, len(t.Info))
	for k := range t.Info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	info := make([]string, len(keys))
	for i, k := range keys {
		info[i] = fmt.Sprintf("%v: %.4f", k, t.Info[k])
	}
	return out + "  |  " + strings.Join(info, ", ")
}
