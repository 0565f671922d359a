package floatutils

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-2, -1, 1, -1},
		{3, -1, 1, 1},
	}

	for _, test := range tests {
		if got := Clip(test.value, test.min, test.max); got != test.want {
			t.Errorf("clip(%v, %v, %v): have %v want %v", test.value,
				test.min, test.max, got, test.want)
		}
	}

	if got := ClipInterval(5, r1.Interval{Min: 0, Max: 2}); got != 2 {
		t.Errorf("clipInterval: have %v want 2", got)
	}
}

func TestDistance(t *testing.T) {
	d, err := Distance([]float64{0, 0, 0, 1, 1, 1}, []float64{3, 4, 0, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if d != 5 {
		t.Errorf("distance: have %v want 5", d)
	}

	if _, err := Distance([]float64{1}, []float64{1, 2}); err == nil {
		t.Error("distance: expected error for mismatched lengths")
	}
}

func TestLerp(t *testing.T) {
	prev := []float64{1, 2}
	next := []float64{3, 6}

	Lerp(prev, prev, next, 0.25)
	want := []float64{2.5, 5}
	for i := range want {
		if math.Abs(prev[i]-want[i]) > 1e-12 {
			t.Errorf("lerp: have %v want %v", prev, want)
		}
	}
}
