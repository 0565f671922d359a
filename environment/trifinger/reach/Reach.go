// Package reach implements the TriFinger reaching environment. In this
// environment, a robot with one or three fingers must move its finger
// tips to goal positions sampled at the start of each episode.
package reach

import (
	"fmt"
	"math"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/samuelfneumann/gofinger/environment"
	"github.com/samuelfneumann/gofinger/environment/trifinger/spaces"
	"github.com/samuelfneumann/gofinger/experiment/tracker"
	"github.com/samuelfneumann/gofinger/finger"
	"github.com/samuelfneumann/gofinger/physics"
	ts "github.com/samuelfneumann/gofinger/timestep"
	"github.com/samuelfneumann/gofinger/utils/floatutils"
	"github.com/samuelfneumann/gofinger/visual"
	"gonum.org/v1/gonum/mat"
)

// ControlRateTolerance is the largest allowed difference between the
// control rate and a whole number of finger time steps
const ControlRateTolerance = 1e-6

// RenderSize is the side length in pixels of rendered images
const RenderSize = 500

// Config configures a Reach environment
type Config struct {
	// ControlRate is the duration in seconds of one environment step. It
	// must be a multiple of the finger time step.
	ControlRate float64
	Smoothing   Smoothing

	// Visualize adds goal markers to Client and enables Render. Client
	// is required if Visualize is set.
	Visualize bool
	Client    physics.Client

	// Synchronize aligns the start of each episode to a fixed wall
	// clock schedule: the first episode starts at the next whole
	// minute and each following one SyncInterval later. Clock defaults
	// to SystemClock.
	Synchronize bool
	Clock       Clock

	Seed     uint64
	Discount float64
}

// Reach implements the reaching task on a finger.Finger. Observations
// consist of the joint positions, the joint velocities, the goal tip
// positions and the last joint position targets, in that order, scaled
// to [-1, 1]. Actions are joint position targets scaled to [-1, 1].
//
// Actions are smoothed across environment steps with a coefficient
// alpha: the applied target is alpha*previous + (1-alpha)*action. Alpha
// follows the schedule given by Smoothing and is updated on each reset.
//
// Each environment step applies the smoothed action for as many finger
// time steps as fit into the control rate. The reward is the negative
// distance between the finger tips and the goal, summed over these
// time steps.
//
// Reach never ends episodes itself. Wrap it in a wrappers.TimeLimit to
// get finite episodes. Every TimeStep reports Info["is_success"], which
// is always 0 since no success criterion is implemented, and
// Info["tip_distance"], the tip distance at the first finger time step.
type Reach struct {
	finger          finger.Finger
	kinematics      *finger.Kinematics
	stepsPerControl int
	discount        float64
	log             golog.Logger

	spaces      *spaces.FingerSpaces
	unscaledObs environment.Spec
	unscaledAct environment.Spec

	sampler  *finger.JointSampler
	schedule *schedule
	alpha    float64
	smoothed []float64

	episodeCount int
	goal         []r3.Vector
	lastObs      *finger.Observation

	marker   *visual.Marker
	renderer *visual.Renderer

	synchronize bool
	clock       Clock
	nextStart   time.Time

	dataLog         *tracker.DataLogger
	currentTimeStep ts.TimeStep
}

// New returns a new Reach environment on f. The environment is reset
// before it is returned.
func New(c Config, f finger.Finger, logger golog.Logger) (*Reach, error) {
	if c.ControlRate <= 0 {
		return nil, fmt.Errorf("new: control rate must be positive, got %v",
			c.ControlRate)
	}
	steps := int(math.Round(c.ControlRate / f.TimeStep()))
	if steps < 1 || math.Abs(c.ControlRate-float64(steps)*f.TimeStep()) >
		ControlRateTolerance {
		return nil, fmt.Errorf("new: control rate %v is not a multiple of "+
			"the finger time step %v", c.ControlRate, f.TimeStep())
	}

	n := finger.JointsPerFinger * f.NumFingers()
	keys := []string{
		spaces.JointPositions,
		spaces.JointVelocities,
		spaces.GoalPosition,
		spaces.ActionJointPositions,
	}
	s, err := spaces.NewFingerSpaces(f.NumFingers(), keys,
		[]int{n, n, n, n}, true)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	sampler, err := finger.NewJointSampler(f.Kinematics(), s.ActionBounds(),
		c.Seed)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	sched, err := newSchedule(c.Smoothing)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	r := &Reach{
		finger:          f,
		kinematics:      f.Kinematics(),
		stepsPerControl: steps,
		discount:        c.Discount,
		log:             logger,
		spaces:          s,
		unscaledObs:     s.UnscaledObservationSpec(),
		unscaledAct:     s.UnscaledActionSpec(),
		sampler:         sampler,
		schedule:        sched,
		synchronize:     c.Synchronize,
		clock:           c.Clock,
		dataLog:         tracker.NewDataLogger(),
	}

	if c.Visualize {
		if c.Client == nil {
			return nil, fmt.Errorf("new: visualisation requires a physics " +
				"client")
		}
		r.marker, err = visual.NewMarker(c.Client, f.NumFingers(),
			visual.GoalRadius)
		if err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
		r.renderer, err = visual.NewRenderer(c.Client, RenderSize)
		if err != nil {
			r.removeMarker()
			return nil, fmt.Errorf("new: %v", err)
		}
	}

	if r.synchronize {
		if r.clock == nil {
			r.clock = SystemClock{}
		}
		r.nextStart = nextMinute(r.clock.Now())
	}

	if _, err := r.Reset(); err != nil {
		r.removeMarker()
		return nil, fmt.Errorf("new: %v", err)
	}
	return r, nil
}

// Reset resets the environment to begin a new episode
func (r *Reach) Reset() (ts.TimeStep, error) {
	if r.synchronize {
		r.freeze()
		SleepUntil(r.clock, r.nextStart, DefaultSyncAccuracy)
		r.nextStart = r.nextStart.Add(SyncInterval)
	}

	r.alpha = r.schedule.alpha(r.episodeCount)
	r.log.Infow("reset", "episode", r.episodeCount, "smoothing", r.alpha)
	r.episodeCount++
	r.smoothed = nil

	// Move the finger to a random starting configuration
	start, err := r.sampler.Sample()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: could not sample start: %v",
			err)
	}
	obs, err := r.finger.ResetFingerPositionsAndVelocities(start, nil)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}
	r.lastObs = &obs

	// Sample the goal for the episode
	target, err := r.sampler.Sample()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: could not sample goal: %v",
			err)
	}
	r.goal, err = r.kinematics.ForwardKinematics(target)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}
	if r.marker != nil {
		if err := r.marker.SetState(r.goal); err != nil {
			return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
		}
	}
	r.dataLog.NewEpisode(target, finger.Flatten(r.goal))

	state, _, err := r.state(obs, start, false)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}
	scaled, err := environment.Scale(state, r.unscaledObs)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}

	firstStep := ts.New(ts.First, 0, r.discount, scaled, 0)
	firstStep.Info = map[string]float64{"is_success": 0}
	r.currentTimeStep = firstStep
	return firstStep, nil
}

// freeze holds the finger at its last observed position while waiting
// for the next synchronised start. Failures are logged and ignored.
func (r *Reach) freeze() {
	if r.lastObs == nil {
		return
	}
	hold := finger.NewPositionAction(r.lastObs.Position)
	t, err := r.finger.AppendDesiredAction(hold)
	if err == nil {
		_, err = r.finger.Observation(t)
	}
	if err != nil {
		r.log.Debugw("could not freeze finger", "error", err)
	}
}

// Step takes one environmental step given some scaled action
func (r *Reach) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	unscaled, err := environment.Unscale(action, r.unscaledAct)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
	}
	target := unscaled.RawVector().Data

	if r.smoothed == nil {
		r.smoothed = append([]float64(nil), target...)
	}
	floatutils.Lerp(r.smoothed, r.smoothed, target, r.alpha)

	goal := finger.Flatten(r.goal)
	fingerAction := finger.NewPositionAction(r.smoothed)

	var state *mat.VecDense
	var total, firstDistance float64
	for i := 0; i < r.stepsPerControl; i++ {
		t, err := r.finger.AppendDesiredAction(fingerAction)
		if err != nil {
			return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
		}
		obs, err := r.finger.Observation(t)
		if err != nil {
			return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
		}
		r.lastObs = &obs

		// The state is observed when the action is first applied
		var tips []float64
		if state == nil {
			state, tips, err = r.state(obs, r.smoothed, true)
		} else {
			tips, err = r.tips(obs.Position)
		}
		if err != nil {
			return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
		}

		distance, err := floatutils.Distance(tips, goal)
		if err != nil {
			return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
		}
		if i == 0 {
			firstDistance = distance
		}
		total += distance
	}

	scaled, err := environment.Scale(state, r.unscaledObs)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
	}

	done := false
	t := ts.New(ts.Mid, -total, r.discount, scaled,
		r.currentTimeStep.Number+1)
	t.Info = map[string]float64{
		"is_success":   boolToFloat(done),
		"tip_distance": firstDistance,
	}
	r.currentTimeStep = t
	return t, done, nil
}

// tips returns the flattened tip positions of the joint configuration
func (r *Reach) tips(joints []float64) ([]float64, error) {
	tips, err := r.kinematics.ForwardKinematics(joints)
	if err != nil {
		return nil, err
	}
	return finger.Flatten(tips), nil
}

// state returns the unscaled observation vector built from a finger
// observation and the joint targets last sent to the finger, along
// with the flattened tip positions. If log is set, the observation is
// recorded by the data logger.
func (r *Reach) state(obs finger.Observation, action []float64,
	log bool) (*mat.VecDense, []float64, error) {
	tips, err := r.tips(obs.Position)
	if err != nil {
		return nil, nil, fmt.Errorf("state: %v", err)
	}
	goal := finger.Flatten(r.goal)

	toGoal := make([]float64, len(goal))
	for i := range toGoal {
		toGoal[i] = goal[i] - tips[i]
	}

	parts := map[string][]float64{
		spaces.EndEffectorPosition:  tips,
		spaces.JointPositions:       obs.Position,
		spaces.JointVelocities:      obs.Velocity,
		spaces.EndEffectorToGoal:    toGoal,
		spaces.GoalPosition:         goal,
		spaces.ActionJointPositions: action,
		spaces.ActionTorque:         obs.Torque,
	}

	if log {
		err := r.dataLog.Append(obs.Position, tips, r.now())
		if err != nil {
			return nil, nil, fmt.Errorf("state: %v", err)
		}
	}

	state := make([]float64, r.spaces.ObservationSize())
	for _, key := range r.spaces.Keys() {
		slice := r.spaces.KeyToIndex[key]
		if len(parts[key]) != slice.End-slice.Start {
			return nil, nil, fmt.Errorf("state: %q should have %v values, "+
				"got %v", key, slice.End-slice.Start, len(parts[key]))
		}
		copy(state[slice.Start:slice.End], parts[key])
	}
	return mat.NewVecDense(len(state), state), tips, nil
}

func (r *Reach) now() time.Time {
	if r.clock != nil {
		return r.clock.Now()
	}
	return time.Now()
}

// CurrentTimeStep returns the current time step
func (r *Reach) CurrentTimeStep() ts.TimeStep {
	return r.currentTimeStep
}

// Goal returns the goal tip positions of the current episode
func (r *Reach) Goal() []r3.Vector {
	return append([]r3.Vector(nil), r.goal...)
}

// SmoothingAlpha returns the smoothing coefficient of the current
// episode
func (r *Reach) SmoothingAlpha() float64 {
	return r.alpha
}

// StepsPerControl returns the number of finger time steps per
// environment step
func (r *Reach) StepsPerControl() int {
	return r.stepsPerControl
}

// EpisodeCount returns the number of episodes started so far
func (r *Reach) EpisodeCount() int {
	return r.episodeCount
}

// DataLogger returns the logger holding the goal and trajectory of every
// episode
func (r *Reach) DataLogger() *tracker.DataLogger {
	return r.dataLog
}

// Spaces returns the observation and action spaces
func (r *Reach) Spaces() *spaces.FingerSpaces {
	return r.spaces
}

// Render saves a top-down image of the scene and the finger tips to
// filename as a PNG. Render requires visualisation to be enabled.
func (r *Reach) Render(filename string) error {
	if r.renderer == nil {
		return fmt.Errorf("render: visualisation is not enabled")
	}

	var tips []r3.Vector
	if r.lastObs != nil {
		var err error
		tips, err = r.kinematics.ForwardKinematics(r.lastObs.Position)
		if err != nil {
			return fmt.Errorf("render: %v", err)
		}
	}
	if err := r.renderer.SavePNG(filename, tips); err != nil {
		return fmt.Errorf("render: %v", err)
	}
	return nil
}

// Close removes the goal markers from the simulation
func (r *Reach) Close() error {
	if r.marker == nil {
		return nil
	}
	if err := r.marker.Remove(); err != nil {
		return fmt.Errorf("close: %v", err)
	}
	return nil
}

// removeMarker removes the goal markers of an environment which failed to
// construct
func (r *Reach) removeMarker() {
	if err := r.Close(); err != nil {
		r.log.Errorw("could not remove goal markers", "error", err)
	}
}

// ObservationSpec returns the scaled observation specification
func (r *Reach) ObservationSpec() environment.Spec {
	return r.spaces.ScaledObservationSpec()
}

// ActionSpec returns the scaled action specification
func (r *Reach) ActionSpec() environment.Spec {
	return r.spaces.ScaledActionSpec()
}

// DiscountSpec returns the discount specification
func (r *Reach) DiscountSpec() environment.Spec {
	bounds := mat.NewVecDense(1, []float64{r.discount})

	return environment.NewSpec(mat.NewVecDense(1, nil), environment.Discount,
		bounds, bounds, environment.Continuous)
}

// RewardSpec returns the reward specification. Rewards are never
// positive.
func (r *Reach) RewardSpec() environment.Spec {
	low := mat.NewVecDense(1, []float64{math.Inf(-1)})
	high := mat.NewVecDense(1, []float64{0})

	return environment.NewSpec(mat.NewVecDense(1, nil), environment.Reward,
		low, high, environment.Continuous)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
