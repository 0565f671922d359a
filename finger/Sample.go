package finger

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gofinger/environment"
	"gonum.org/v1/gonum/spatial/r1"
)

// Workspace limits of feasible reaching configurations
const (
	MinTipHeight   = 0.05
	MaxTipRadius   = 0.19
	MaxSampleTries = 10000
)

// JointSampler samples random joint configurations within some bounds
// whose finger tips all lie inside the reachable workspace above the
// table
type JointSampler struct {
	kinematics *Kinematics
	starter    *environment.UniformStarter
}

// NewJointSampler returns a JointSampler over bounds, which must hold one
// interval per joint
func NewJointSampler(k *Kinematics, bounds []r1.Interval,
	seed uint64) (*JointSampler, error) {
	if len(bounds) != JointsPerFinger*k.NumFingers() {
		return nil, fmt.Errorf("newJointSampler: expected %v joint bounds, "+
			"got %v", JointsPerFinger*k.NumFingers(), len(bounds))
	}

	return &JointSampler{
		kinematics: k,
		starter:    environment.NewUniformStarter(bounds, seed),
	}, nil
}

// Sample returns a feasible joint configuration using rejection sampling
func (j *JointSampler) Sample() ([]float64, error) {
	for i := 0; i < MaxSampleTries; i++ {
		joints := j.starter.Start().RawVector().Data

		tips, err := j.kinematics.ForwardKinematics(joints)
		if err != nil {
			return nil, fmt.Errorf("sample: %v", err)
		}

		feasible := true
		for _, tip := range tips {
			if tip.Z < MinTipHeight || math.Hypot(tip.X, tip.Y) > MaxTipRadius {
				feasible = false
				break
			}
		}
		if feasible {
			return joints, nil
		}
	}
	return nil, fmt.Errorf("sample: no feasible configuration found in %v "+
		"tries", MaxSampleTries)
}
