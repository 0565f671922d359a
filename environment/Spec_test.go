package environment_test

import (
	"math"
	"testing"

	"github.com/samuelfneumann/gofinger/environment"
	ts "github.com/samuelfneumann/gofinger/timestep"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestScaleUnscaleInverse(t *testing.T) {
	spec := environment.NewBoxSpec(environment.Observation, []r1.Interval{
		{Min: -math.Pi / 2, Max: math.Pi / 2},
		{Min: -20, Max: 20},
		{Min: 0, Max: 0.5},
		{Min: -0.36, Max: 0.36},
	})

	vectors := [][]float64{
		{0, 0, 0.25, 0},
		{-math.Pi / 2, -20, 0, -0.36},
		{math.Pi / 2, 20, 0.5, 0.36},
		{0.123, -3.3, 0.01, 0.2},
	}

	for _, v := range vectors {
		x := mat.NewVecDense(len(v), v)

		scaled, err := environment.Scale(x, spec)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < scaled.Len(); i++ {
			if scaled.AtVec(i) < -1-1e-12 || scaled.AtVec(i) > 1+1e-12 {
				t.Errorf("scale: value %v at %v outside [-1, 1]",
					scaled.AtVec(i), i)
			}
		}

		back, err := environment.Unscale(scaled, spec)
		if err != nil {
			t.Fatal(err)
		}
		if !floats.EqualApprox(back.RawVector().Data, v, 1e-12) {
			t.Errorf("unscale(scale(x)) = %v, want %v",
				back.RawVector().Data, v)
		}
	}
}

func TestScaleEndpoints(t *testing.T) {
	spec := environment.NewBoxSpec(environment.Action, []r1.Interval{
		{Min: 2, Max: 6},
	})

	low, _ := environment.Scale(mat.NewVecDense(1, []float64{2}), spec)
	high, _ := environment.Scale(mat.NewVecDense(1, []float64{6}), spec)
	mid, _ := environment.Scale(mat.NewVecDense(1, []float64{4}), spec)

	if low.AtVec(0) != -1 || high.AtVec(0) != 1 || mid.AtVec(0) != 0 {
		t.Errorf("scale endpoints: have (%v, %v, %v) want (-1, 0, 1)",
			low.AtVec(0), mid.AtVec(0), high.AtVec(0))
	}
}

func TestScaleLengthMismatch(t *testing.T) {
	spec := environment.NewBoxSpec(environment.Action, []r1.Interval{
		{Min: 0, Max: 1},
	})

	if _, err := environment.Scale(mat.NewVecDense(2, nil), spec); err == nil {
		t.Error("scale: expected error for mismatched lengths")
	}
	if _, err := environment.Unscale(mat.NewVecDense(2, nil), spec); err == nil {
		t.Error("unscale: expected error for mismatched lengths")
	}
}

func TestUniformStarter(t *testing.T) {
	bounds := []r1.Interval{{Min: -1, Max: 0}, {Min: 3, Max: 4}}
	s := environment.NewUniformStarter(bounds, 42)

	for i := 0; i < 100; i++ {
		start := s.Start()
		for j, b := range bounds {
			if v := start.AtVec(j); v < b.Min || v > b.Max {
				t.Fatalf("start: value %v outside %v", v, b)
			}
		}
	}
}

func TestStepLimit(t *testing.T) {
	limit := environment.NewStepLimit(3)

	step := ts.New(ts.Mid, 0, 1, nil, 2)
	if limit.End(&step) || step.Last() {
		t.Error("step limit should not end before the limit")
	}

	step = ts.New(ts.Mid, 0, 1, nil, 3)
	if !limit.End(&step) || !step.Last() {
		t.Error("step limit should end at the limit")
	}
}
