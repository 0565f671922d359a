package timestep_test

import (
	"strings"
	"testing"

	ts "github.com/samuelfneumann/gofinger/timestep"
	"gonum.org/v1/gonum/mat"
)

func TestStepType(t *testing.T) {
	obs := mat.NewVecDense(2, []float64{0.1, 0.2})

	first := ts.New(ts.First, 0, 0.99, obs, 0)
	if !first.First() || first.Mid() || first.Last() {
		t.Errorf("first: wrong step type %v", first.StepType)
	}

	mid := ts.New(ts.Mid, -1, 0.99, obs, 1)
	if !mid.Mid() {
		t.Errorf("mid: wrong step type %v", mid.StepType)
	}

	last := ts.New(ts.Last, -1, 0.99, obs, 2)
	if !last.Last() {
		t.Errorf("last: wrong step type %v", last.StepType)
	}
}

func TestIsZero(t *testing.T) {
	var zero ts.TimeStep
	if !zero.IsZero() {
		t.Error("zero value TimeStep should report IsZero")
	}

	step := ts.New(ts.First, 0, 1, mat.NewVecDense(1, nil), 0)
	if step.IsZero() {
		t.Error("timestep with an observation should not report IsZero")
	}
}

func TestStringIncludesInfo(t *testing.T) {
	step := ts.New(ts.Mid, -0.5, 1, mat.NewVecDense(1, nil), 3)
	step.Info = map[string]float64{"is_success": 0, "tip_distance": 0.25}

	str := step.String()
	for _, want := range []string{"Mid", "is_success", "tip_distance: 0.2500"} {
		if !strings.Contains(str, want) {
			t.Errorf("string %q should contain %q", str, want)
		}
	}
}
