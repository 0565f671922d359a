package wrappers_test

import (
	"testing"

	"github.com/samuelfneumann/gofinger/environment"
	"github.com/samuelfneumann/gofinger/environment/wrappers"
	ts "github.com/samuelfneumann/gofinger/timestep"
	"gonum.org/v1/gonum/mat"
)

// counter is an endless environment whose reward is the step number
type counter struct {
	environment.Environment
	step   ts.TimeStep
	resets int
}

func (c *counter) Reset() (ts.TimeStep, error) {
	c.resets++
	c.step = ts.New(ts.First, 0, 1, nil, 0)
	return c.step, nil
}

func (c *counter) Step(*mat.VecDense) (ts.TimeStep, bool, error) {
	n := c.step.Number + 1
	c.step = ts.New(ts.Mid, float64(n), 1, nil, n)
	return c.step, false, nil
}

func (c *counter) CurrentTimeStep() ts.TimeStep {
	return c.step
}

func TestTimeLimit(t *testing.T) {
	env := &counter{}
	env.Reset()

	limited, err := wrappers.NewTimeLimit(env, 3)
	if err != nil {
		t.Fatal(err)
	}
	if limited.Steps() != 3 {
		t.Errorf("steps: have %v want 3", limited.Steps())
	}

	for i := 1; i <= 3; i++ {
		step, done, err := limited.Step(nil)
		if err != nil {
			t.Fatal(err)
		}
		if wantDone := i == 3; done != wantDone || step.Last() != wantDone {
			t.Errorf("step %v: done %v last %v", i, done, step.Last())
		}
	}
	if current := limited.CurrentTimeStep(); !current.Last() {
		t.Error("current time step should be the last step")
	}

	step, err := limited.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if !step.First() || env.resets != 2 {
		t.Error("reset should reset the wrapped environment")
	}
	if current := limited.CurrentTimeStep(); current.Last() {
		t.Error("current time step should not be last after reset")
	}

	if _, err := wrappers.NewTimeLimit(env, 0); err == nil {
		t.Error("expected error for non-positive step limit")
	}
}
