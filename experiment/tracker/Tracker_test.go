package tracker_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/samuelfneumann/gofinger/environment"
	"github.com/samuelfneumann/gofinger/experiment/tracker"
	ts "github.com/samuelfneumann/gofinger/timestep"
	"gonum.org/v1/gonum/floats"
)

func episode(rewards ...float64) []ts.TimeStep {
	steps := []ts.TimeStep{ts.New(ts.First, 0, 1, nil, 0)}
	for i, r := range rewards {
		t := ts.Mid
		if i == len(rewards)-1 {
			t = ts.Last
		}
		steps = append(steps, ts.New(t, r, 1, nil, i+1))
	}
	return steps
}

func TestReturn(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "return.bin")
	r := tracker.NewReturn(filename)
	l := tracker.NewEpisodeLength(filepath.Join(t.TempDir(), "length.bin"))

	for _, ep := range [][]float64{{-1, -2, -3}, {-0.5, -0.5}} {
		for _, step := range episode(ep...) {
			r.Track(step)
			l.Track(step)
		}
	}

	want := []float64{-6, -1}
	if !floats.Equal(r.Returns(), want) {
		t.Errorf("returns: have %v want %v", r.Returns(), want)
	}
	if !floats.Equal(l.Lengths(), []float64{3, 2}) {
		t.Errorf("lengths: have %v want [3 2]", l.Lengths())
	}

	if err := r.Save(); err != nil {
		t.Fatal(err)
	}
	data, err := tracker.LoadData(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(data, want) {
		t.Errorf("loaded returns: have %v want %v", data, want)
	}
}

func TestReturnNonSequential(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-sequential timesteps")
		}
	}()
	r := tracker.NewReturn("")
	r.Track(ts.New(ts.First, 0, 1, nil, 0))
	r.Track(ts.New(ts.Mid, 0, 1, nil, 2))
}

func TestLoadDataMissing(t *testing.T) {
	if _, err := tracker.LoadData(filepath.Join(t.TempDir(), "none")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDataLogger(t *testing.T) {
	d := tracker.NewDataLogger()
	if err := d.Append([]float64{0}, []float64{0}, time.Now()); err == nil {
		t.Error("append before new episode should fail")
	}

	d.NewEpisode([]float64{0, -0.5, -1}, []float64{0.1, 0, 0.1})
	now := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)
	joints := []float64{0.1, -0.4, -0.9}
	if err := d.Append(joints, []float64{0, 0.1, 0.1}, now); err != nil {
		t.Fatal(err)
	}
	joints[0] = 100 // must not alias the logged data
	d.NewEpisode([]float64{0, 0, -1}, []float64{0, 0.1, 0.1})

	filename := filepath.Join(t.TempDir(), "episodes.bin")
	if err := d.Save(filename); err != nil {
		t.Fatal(err)
	}
	episodes, err := tracker.LoadEpisodes(filename)
	if err != nil {
		t.Fatal(err)
	}

	if len(episodes) != 2 {
		t.Fatalf("episodes: have %v want 2", len(episodes))
	}
	if episodes[0].ID == "" || episodes[0].ID == episodes[1].ID {
		t.Error("episodes should have distinct ids")
	}
	first := episodes[0]
	if len(first.JointPositions) != 1 || first.JointPositions[0][0] != 0.1 {
		t.Errorf("joint positions: have %v", first.JointPositions)
	}
	if !first.Timestamps[0].Equal(now) {
		t.Errorf("timestamp: have %v want %v", first.Timestamps[0], now)
	}
	if len(episodes[1].JointPositions) != 0 {
		t.Error("second episode should have no observations")
	}
}

// fixedEnv always reports the same current time step
type fixedEnv struct {
	environment.Environment
	step ts.TimeStep
}

func (f fixedEnv) CurrentTimeStep() ts.TimeStep { return f.step }

func TestRegister(t *testing.T) {
	r := tracker.NewReturn("")
	env := fixedEnv{step: ts.New(ts.First, 0, 1, nil, 0)}
	registered := tracker.Register(r, env)

	// The tracked step comes from the environment, not the argument
	registered.Track(ts.New(ts.Last, -5, 1, nil, 0))
	env.step = ts.New(ts.Last, -2, 1, nil, 1)
	registered = tracker.Register(r, env)
	registered.Track(ts.TimeStep{})

	if !floats.Equal(r.Returns(), []float64{-2}) {
		t.Errorf("returns: have %v want [-2]", r.Returns())
	}
}
