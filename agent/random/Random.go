// Package random implements an agent which selects actions uniformly at
// random within the action bounds of an environment and never learns
package random

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gofinger/agent"
	"github.com/samuelfneumann/gofinger/environment"
	"github.com/samuelfneumann/gofinger/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Type is the agent type of Random agents
const Type agent.Type = "Random"

func init() {
	agent.Register(Type, Config{})
}

// Config configures a Random agent
type Config struct{}

// CreateAgent creates a Random agent acting in env
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return New(env, seed)
}

// Validate returns nil, every Config is valid
func (c Config) Validate() error {
	return nil
}

// Type returns the type of agent the Config creates
func (c Config) Type() agent.Type {
	return Type
}

// Random selects each action dimension uniformly from its bounds
type Random struct {
	dists []distuv.Uniform
	eval  bool
}

// New returns a Random agent for the action space of env. All action
// bounds must be finite.
func New(env environment.Environment, seed uint64) (*Random, error) {
	spec := env.ActionSpec()
	if spec.Cardinality != environment.Continuous {
		return nil, fmt.Errorf("new: random agent requires continuous " +
			"actions")
	}

	source := rand.NewSource(seed)
	dists := make([]distuv.Uniform, spec.LowerBound.Len())
	for i := range dists {
		min, max := spec.LowerBound.AtVec(i), spec.UpperBound.AtVec(i)
		if math.IsInf(min, 0) || math.IsInf(max, 0) || min > max {
			return nil, fmt.Errorf("new: invalid action bounds [%v, %v] "+
				"for dimension %v", min, max, i)
		}
		dists[i] = distuv.Uniform{Min: min, Max: max, Src: source}
	}

	return &Random{dists: dists}, nil
}

// SelectAction samples a random action
func (r *Random) SelectAction(t timestep.TimeStep) *mat.VecDense {
	action := make([]float64, len(r.dists))
	for i := range r.dists {
		action[i] = r.dists[i].Rand()
	}
	return mat.NewVecDense(len(action), action)
}

// Eval sets the agent to evaluation mode
func (r *Random) Eval() { r.eval = true }

// Train sets the agent to training mode
func (r *Random) Train() { r.eval = false }

// IsEval returns whether the agent is in evaluation mode
func (r *Random) IsEval() bool { return r.eval }

// Step does nothing, Random agents do not learn
func (r *Random) Step() error { return nil }

// Observe does nothing
func (r *Random) Observe(mat.Vector, timestep.TimeStep) error { return nil }

// ObserveFirst does nothing
func (r *Random) ObserveFirst(timestep.TimeStep) error { return nil }

// EndEpisode does nothing
func (r *Random) EndEpisode() {}
