package finger

import "fmt"

// RealTimeStep is the control period of the real robot in seconds
const RealTimeStep = 0.001

// ResetSteps is the number of time steps for which the reset position
// is held on the real robot
const ResetSteps = 1000

// Frontend is the interface of a hardware robot driver. It uses the same
// time index semantics as Finger.
type Frontend interface {
	AppendDesiredAction(a Action) (int, error)
	Observation(t int) (Observation, error)
}

// RealFinger adapts a hardware Frontend to the Finger interface
type RealFinger struct {
	frontend   Frontend
	fingerType Type
	kinematics *Kinematics
}

// NewRealFinger returns a Finger driving the robot behind frontend.
// configAngle selects the mounting angle of a single finger (0, 120, or
// 240) and is ignored for tri-fingers.
func NewRealFinger(frontend Frontend, t Type,
	configAngle int) (*RealFinger, error) {
	numFingers, err := NumberOfFingers(t)
	if err != nil {
		return nil, fmt.Errorf("newRealFinger: %v", err)
	}
	if numFingers > 1 {
		configAngle = 0
	}

	kinematics, err := NewKinematics(t, configAngle)
	if err != nil {
		return nil, fmt.Errorf("newRealFinger: %v", err)
	}

	return &RealFinger{
		frontend:   frontend,
		fingerType: t,
		kinematics: kinematics,
	}, nil
}

// NumFingers returns the number of fingers
func (r *RealFinger) NumFingers() int {
	return r.kinematics.NumFingers()
}

// TimeStep returns the control period of the robot
func (r *RealFinger) TimeStep() float64 {
	return RealTimeStep
}

// Kinematics returns the kinematics of the robot
func (r *RealFinger) Kinematics() *Kinematics {
	return r.kinematics
}

// AppendDesiredAction forwards a to the frontend
func (r *RealFinger) AppendDesiredAction(a Action) (int, error) {
	if err := checkAction(a, JointsPerFinger*r.NumFingers()); err != nil {
		return -1, fmt.Errorf("appendDesiredAction: %v", err)
	}
	return r.frontend.AppendDesiredAction(a)
}

// Observation returns the observation at time index t from the frontend
func (r *RealFinger) Observation(t int) (Observation, error) {
	return r.frontend.Observation(t)
}

// ResetFingerPositionsAndVelocities moves the robot to position by
// holding it as a position target for ResetSteps time steps. Velocities
// cannot be set on the real robot and are ignored.
func (r *RealFinger) ResetFingerPositionsAndVelocities(position,
	_ []float64) (Observation, error) {
	action := NewPositionAction(position)

	var obs Observation
	for i := 0; i < ResetSteps; i++ {
		t, err := r.AppendDesiredAction(action)
		if err != nil {
			return Observation{}, fmt.Errorf(
				"resetFingerPositionsAndVelocities: %v", err)
		}
		obs, err = r.frontend.Observation(t)
		if err != nil {
			return Observation{}, fmt.Errorf(
				"resetFingerPositionsAndVelocities: %v", err)
		}
	}
	return obs, nil
}
