// Package wrappers implements environment wrappers, which wrap an
// environment and change some of its behaviour. Wrappers are themselves
// environments.
package wrappers

import (
	"fmt"

	"github.com/samuelfneumann/gofinger/environment"
	ts "github.com/samuelfneumann/gofinger/timestep"
	"gonum.org/v1/gonum/mat"
)

// TimeLimit wraps an environment and ends episodes after a fixed
// number of steps. Episodes which the wrapped environment ends earlier
// still end early.
//
// The first TimeStep of the wrapped environment must already be the
// current TimeStep when the wrapper is created, which holds for all
// environments since constructors reset them.
type TimeLimit struct {
	environment.Environment
	*environment.StepLimit
	currentStep ts.TimeStep
}

// NewTimeLimit returns a TimeLimit ending episodes of env after steps
// steps
func NewTimeLimit(env environment.Environment, steps int) (*TimeLimit,
	error) {
	if steps < 1 {
		return nil, fmt.Errorf("newTimeLimit: steps must be positive, got %v",
			steps)
	}
	return &TimeLimit{
		Environment: env,
		StepLimit:   environment.NewStepLimit(steps),
		currentStep: env.CurrentTimeStep(),
	}, nil
}

// Reset resets the wrapped environment
func (t *TimeLimit) Reset() (ts.TimeStep, error) {
	step, err := t.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}
	t.currentStep = step
	return step, nil
}

// Step takes one step in the wrapped environment and ends the episode
// if the step limit has been reached
func (t *TimeLimit) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	step, done, err := t.Environment.Step(action)
	if err != nil {
		return step, true, fmt.Errorf("step: %v", err)
	}

	if t.End(&step) {
		done = true
	}
	t.currentStep = step
	return step, done, nil
}

// CurrentTimeStep returns the current time step, which is the last
// step of the episode once the step limit has been reached
func (t *TimeLimit) CurrentTimeStep() ts.TimeStep {
	return t.currentStep
}
