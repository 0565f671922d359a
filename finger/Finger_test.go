package finger_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/samuelfneumann/gofinger/finger"
	"github.com/samuelfneumann/gofinger/physics"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestNumberOfFingers(t *testing.T) {
	for _, ft := range finger.ValidFingerTypes() {
		n, err := finger.NumberOfFingers(ft)
		if err != nil {
			t.Fatal(err)
		}
		if n != 1 && n != 3 {
			t.Errorf("%v: unexpected number of fingers %v", ft, n)
		}
	}

	if _, err := finger.NumberOfFingers("sixfinger"); err == nil {
		t.Error("numberOfFingers: expected error for invalid type")
	}
}

func TestForwardKinematics(t *testing.T) {
	k, err := finger.NewKinematics(finger.FingerOne, 0)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		joints []float64
		want   r3.Vector
	}{
		{[]float64{0, 0, 0}, r3.Vector{X: 0, Y: 0.04, Z: 0.02}},
		{[]float64{0, 0, -math.Pi / 2}, r3.Vector{X: 0, Y: -0.12, Z: 0.18}},
	}

	for _, test := range tests {
		tips, err := k.ForwardKinematics(test.joints)
		if err != nil {
			t.Fatal(err)
		}
		if len(tips) != 1 {
			t.Fatalf("expected 1 tip, got %v", len(tips))
		}
		if tips[0].Sub(test.want).Norm() > 1e-9 {
			t.Errorf("fk(%v): have %v want %v", test.joints, tips[0],
				test.want)
		}
	}

	if _, err := k.ForwardKinematics([]float64{0, 0}); err == nil {
		t.Error("forwardKinematics: expected error for wrong joint count")
	}
}

func TestTriFingerSymmetry(t *testing.T) {
	k, err := finger.NewKinematics(finger.TriFingerOne, 0)
	if err != nil {
		t.Fatal(err)
	}

	joints := []float64{0.1, -0.4, -1.2, 0.1, -0.4, -1.2, 0.1, -0.4, -1.2}
	tips, err := k.ForwardKinematics(joints)
	if err != nil {
		t.Fatal(err)
	}

	// Identical joint configurations are rotated copies of each other
	for i := 1; i < len(tips); i++ {
		if math.Abs(tips[i].Z-tips[0].Z) > 1e-12 {
			t.Errorf("tip %v height %v differs from %v", i, tips[i].Z,
				tips[0].Z)
		}
		r0 := math.Hypot(tips[0].X, tips[0].Y)
		ri := math.Hypot(tips[i].X, tips[i].Y)
		if math.Abs(ri-r0) > 1e-12 {
			t.Errorf("tip %v radius %v differs from %v", i, ri, r0)
		}
	}

	single, err := finger.NewKinematics(finger.FingerOne, 120)
	if err != nil {
		t.Fatal(err)
	}
	tip, err := single.ForwardKinematics(joints[:3])
	if err != nil {
		t.Fatal(err)
	}
	if tip[0].Sub(tips[1]).Norm() > 1e-12 {
		t.Errorf("finger at 120 degrees: have %v want %v", tip[0], tips[1])
	}

	if _, err := finger.NewKinematics(finger.FingerOne, 90); err == nil {
		t.Error("newKinematics: expected error for invalid config angle")
	}
}

func newSimFinger(t *testing.T, ft finger.Type) *finger.SimFinger {
	w, err := physics.NewWorld(physics.DefaultTimeStep)
	if err != nil {
		t.Fatal(err)
	}
	f, err := finger.NewSimFinger(w, ft)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestSimFingerTimeIndex(t *testing.T) {
	f := newSimFinger(t, finger.FingerOne)
	start := []float64{0, -0.5, -1.0}
	if _, err := f.ResetFingerPositionsAndVelocities(start, nil); err != nil {
		t.Fatal(err)
	}

	target := finger.NewPositionAction([]float64{0.2, -0.3, -1.2})
	t0, err := f.AppendDesiredAction(target)
	if err != nil {
		t.Fatal(err)
	}
	obs, err := f.Observation(t0)
	if err != nil {
		t.Fatal(err)
	}
	for i := range start {
		if obs.Position[i] != start[i] {
			t.Errorf("observation at t0 should be the reset state: have %v "+
				"want %v", obs.Position, start)
		}
	}

	t1, err := f.AppendDesiredAction(target)
	if err != nil {
		t.Fatal(err)
	}
	if t1 != t0+1 {
		t.Errorf("time index: have %v want %v", t1, t0+1)
	}
	if _, err := f.Observation(t0); err == nil {
		t.Error("observation: past time index should not be available")
	}
	obs, err = f.Observation(t1)
	if err != nil {
		t.Fatal(err)
	}
	if obs.Position[0] == start[0] {
		t.Error("action should have been applied after the next append")
	}
}

func TestSimFingerTracksTarget(t *testing.T) {
	f := newSimFinger(t, finger.TriFingerPro)
	joints := 3 * finger.JointsPerFinger
	if _, err := f.ResetFingerPositionsAndVelocities(
		make([]float64, joints), nil); err != nil {
		t.Fatal(err)
	}

	target := make([]float64, joints)
	for i := range target {
		target[i] = -0.3
	}
	action := finger.NewPositionAction(target)

	var obs finger.Observation
	for i := 0; i < 3000; i++ {
		step, err := f.AppendDesiredAction(action)
		if err != nil {
			t.Fatal(err)
		}
		obs, err = f.Observation(step)
		if err != nil {
			t.Fatal(err)
		}
	}

	for i := range target {
		if math.Abs(obs.Position[i]-target[i]) > 1e-2 {
			t.Errorf("joint %v: have %v want %v", i, obs.Position[i],
				target[i])
		}
		if math.Abs(obs.Torque[i]) > finger.MaxTorque {
			t.Errorf("joint %v torque %v exceeds limit", i, obs.Torque[i])
		}
	}
}

func TestSimFingerInvalidAction(t *testing.T) {
	f := newSimFinger(t, finger.FingerOne)
	if _, err := f.AppendDesiredAction(finger.Action{}); err == nil {
		t.Error("appendDesiredAction: expected error for empty action")
	}
	if _, err := f.AppendDesiredAction(
		finger.NewPositionAction([]float64{0})); err == nil {
		t.Error("appendDesiredAction: expected error for wrong joint count")
	}
}

func TestJointSampler(t *testing.T) {
	k, err := finger.NewKinematics(finger.TriFingerOne, 0)
	if err != nil {
		t.Fatal(err)
	}

	deg := math.Pi / 180
	perFinger := []r1.Interval{
		{Min: -70 * deg, Max: 70 * deg},
		{Min: -70 * deg, Max: 0},
		{Min: -160 * deg, Max: -2 * deg},
	}
	var bounds []r1.Interval
	for i := 0; i < 3; i++ {
		bounds = append(bounds, perFinger...)
	}

	s, err := finger.NewJointSampler(k, bounds, 7)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 50; i++ {
		joints, err := s.Sample()
		if err != nil {
			t.Fatal(err)
		}
		for j, b := range bounds {
			if joints[j] < b.Min || joints[j] > b.Max {
				t.Fatalf("joint %v value %v outside %v", j, joints[j], b)
			}
		}
		tips, _ := k.ForwardKinematics(joints)
		for _, tip := range tips {
			if tip.Z < finger.MinTipHeight ||
				math.Hypot(tip.X, tip.Y) > finger.MaxTipRadius {
				t.Fatalf("infeasible tip %v", tip)
			}
		}
	}

	if _, err := finger.NewJointSampler(k, perFinger, 7); err == nil {
		t.Error("newJointSampler: expected error for wrong bound count")
	}
}

// recordingFrontend is a Frontend which moves instantly to its position
// targets
type recordingFrontend struct {
	t       int
	actions []finger.Action
	pos     []float64
}

func (r *recordingFrontend) AppendDesiredAction(a finger.Action) (int, error) {
	r.actions = append(r.actions, a)
	r.pos = a.Position
	r.t++
	return r.t, nil
}

func (r *recordingFrontend) Observation(int) (finger.Observation, error) {
	return finger.Observation{
		Position: r.pos,
		Velocity: make([]float64, len(r.pos)),
	}, nil
}

func TestRealFingerReset(t *testing.T) {
	frontend := &recordingFrontend{}
	f, err := finger.NewRealFinger(frontend, finger.FingerPro, 240)
	if err != nil {
		t.Fatal(err)
	}

	target := []float64{0.1, -0.2, -0.9}
	obs, err := f.ResetFingerPositionsAndVelocities(target, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(frontend.actions) != finger.ResetSteps {
		t.Errorf("reset actions: have %v want %v", len(frontend.actions),
			finger.ResetSteps)
	}
	for i := range target {
		if obs.Position[i] != target[i] {
			t.Errorf("reset position: have %v want %v", obs.Position, target)
		}
	}
	if f.TimeStep() != finger.RealTimeStep {
		t.Errorf("time step: have %v want %v", f.TimeStep(),
			finger.RealTimeStep)
	}
}
