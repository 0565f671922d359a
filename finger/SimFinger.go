package finger

import (
	"fmt"

	"github.com/samuelfneumann/gofinger/physics"
	"github.com/samuelfneumann/gofinger/utils/floatutils"
)

// Default joint controller and motor parameters of simulated fingers
const (
	DefaultKp           = 10.0
	DefaultKd           = 0.1
	MaxTorque           = 0.36
	MaxVelocity         = 20.0
	JointInertia        = 0.004
	JointViscousDamping = 0.001
)

// SimFinger is a simulated finger robot. Every applied action advances
// the joints by one physics time step and steps the physics client, so
// that any collision objects in the client move along with the robot.
//
// Joints are driven by a PD position controller whose torque is clipped
// to MaxTorque, and integrated with semi-implicit Euler.
type SimFinger struct {
	client     physics.Client
	fingerType Type
	kinematics *Kinematics

	// Kp and Kd are the position controller gains
	Kp float64
	Kd float64

	position []float64
	velocity []float64
	torque   []float64

	t       int
	pending *Action
}

// NewSimFinger returns a simulated finger of type t which steps client
func NewSimFinger(client physics.Client, t Type) (*SimFinger, error) {
	kinematics, err := NewKinematics(t, 0)
	if err != nil {
		return nil, fmt.Errorf("newSimFinger: %v", err)
	}
	if !client.IsConnected() {
		return nil, fmt.Errorf("newSimFinger: %v", physics.ErrNotConnected)
	}

	joints := JointsPerFinger * kinematics.NumFingers()
	return &SimFinger{
		client:     client,
		fingerType: t,
		kinematics: kinematics,
		Kp:         DefaultKp,
		Kd:         DefaultKd,
		position:   make([]float64, joints),
		velocity:   make([]float64, joints),
		torque:     make([]float64, joints),
		t:          -1,
	}, nil
}

// Type returns the finger type
func (s *SimFinger) Type() Type {
	return s.fingerType
}

// NumFingers returns the number of fingers
func (s *SimFinger) NumFingers() int {
	return s.kinematics.NumFingers()
}

// TimeStep returns the physics time step
func (s *SimFinger) TimeStep() float64 {
	return s.client.TimeStep()
}

// Kinematics returns the kinematics of the finger
func (s *SimFinger) Kinematics() *Kinematics {
	return s.kinematics
}

// AppendDesiredAction applies the previously appended action for one
// time step, then queues a and returns its time index
func (s *SimFinger) AppendDesiredAction(a Action) (int, error) {
	if err := checkAction(a, len(s.position)); err != nil {
		return -1, fmt.Errorf("appendDesiredAction: %v", err)
	}

	if s.pending != nil {
		if err := s.apply(*s.pending); err != nil {
			return -1, fmt.Errorf("appendDesiredAction: %v", err)
		}
	}

	s.pending = &a
	s.t++
	return s.t, nil
}

// Observation returns the observation at time index t. Only the current
// time index can be observed.
func (s *SimFinger) Observation(t int) (Observation, error) {
	if t != s.t {
		return Observation{}, fmt.Errorf("observation: time index %v is "+
			"not available, current time index is %v", t, s.t)
	}
	return s.observation(), nil
}

// ResetFingerPositionsAndVelocities sets the joint state directly and
// discards any pending action
func (s *SimFinger) ResetFingerPositionsAndVelocities(position,
	velocity []float64) (Observation, error) {
	if len(position) != len(s.position) {
		return Observation{}, fmt.Errorf("resetFingerPositionsAndVelocities: "+
			"expected %v joint positions, got %v", len(s.position),
			len(position))
	}
	if velocity != nil && len(velocity) != len(s.velocity) {
		return Observation{}, fmt.Errorf("resetFingerPositionsAndVelocities: "+
			"expected %v joint velocities, got %v", len(s.velocity),
			len(velocity))
	}

	copy(s.position, position)
	for i := range s.velocity {
		s.velocity[i] = 0
		if velocity != nil {
			s.velocity[i] = velocity[i]
		}
		s.torque[i] = 0
	}
	s.pending = nil

	return s.observation(), nil
}

// apply runs the joint controller for one physics time step
func (s *SimFinger) apply(a Action) error {
	dt := s.client.TimeStep()

	for i := range s.position {
		var tau float64
		if a.Position != nil {
			tau = s.Kp*(a.Position[i]-s.position[i]) - s.Kd*s.velocity[i]
		}
		if a.Torque != nil {
			tau += a.Torque[i]
		}
		tau = floatutils.Clip(tau, -MaxTorque, MaxTorque)

		accel := (tau - JointViscousDamping*s.velocity[i]) / JointInertia
		s.velocity[i] = floatutils.Clip(s.velocity[i]+accel*dt, -MaxVelocity,
			MaxVelocity)
		s.position[i] += s.velocity[i] * dt
		s.torque[i] = tau
	}

	if err := s.client.StepSimulation(); err != nil {
		return fmt.Errorf("apply: %v", err)
	}
	return nil
}

func (s *SimFinger) observation() Observation {
	obs := Observation{
		Position: make([]float64, len(s.position)),
		Velocity: make([]float64, len(s.velocity)),
		Torque:   make([]float64, len(s.torque)),
	}
	copy(obs.Position, s.position)
	copy(obs.Velocity, s.velocity)
	copy(obs.Torque, s.torque)
	return obs
}
