package finger

import "fmt"

// Action is a desired action for all joints. Position holds joint
// position targets which are tracked by the joint position controller.
// Torque holds feed-forward torques which are added to the controller
// output. Either may be nil.
type Action struct {
	Position []float64
	Torque   []float64
}

// NewPositionAction returns an Action with joint position targets only
func NewPositionAction(position []float64) Action {
	p := make([]float64, len(position))
	copy(p, position)
	return Action{Position: p}
}

// Observation is the measured state of all joints at some time index
type Observation struct {
	Position []float64
	Velocity []float64
	Torque   []float64
}

// Finger is a robot with one or more fingers which can be commanded by
// joint position targets. Actions are indexed by time: the observation at
// time index t is the state of the robot at the moment action t starts
// being applied.
type Finger interface {
	NumFingers() int

	// TimeStep returns the duration in seconds of one time index
	TimeStep() float64
	Kinematics() *Kinematics

	// AppendDesiredAction queues an action and returns its time index
	AppendDesiredAction(a Action) (int, error)

	// Observation returns the observation at time index t
	Observation(t int) (Observation, error)

	// ResetFingerPositionsAndVelocities moves all joints to position with
	// the given velocity and returns the resulting observation. A nil
	// velocity means zero velocity.
	ResetFingerPositionsAndVelocities(position,
		velocity []float64) (Observation, error)
}

func checkAction(a Action, joints int) error {
	if a.Position == nil && a.Torque == nil {
		return fmt.Errorf("action has neither position nor torque")
	}
	if a.Position != nil && len(a.Position) != joints {
		return fmt.Errorf("action position should have %v joints, got %v",
			joints, len(a.Position))
	}
	if a.Torque != nil && len(a.Torque) != joints {
		return fmt.Errorf("action torque should have %v joints, got %v",
			joints, len(a.Torque))
	}
	return nil
}
