package experiment

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/edaniels/golog"
	"github.com/samuelfneumann/gofinger/agent"
	"github.com/samuelfneumann/gofinger/environment/envconfig"
	"github.com/samuelfneumann/gofinger/experiment/tracker"
)

// Config represents a configuration of an experiment.
type Config struct {
	Type
	MaxSteps  uint
	EnvConf   envconfig.Config
	AgentConf agent.TypedConfig
}

// LoadConfig reads a JSON experiment Config from filename. Environment
// fields missing from the file keep their default values.
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %v", err)
	}

	c := Config{Type: OnlineExp, EnvConf: envconfig.Default()}
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not decode %v: %v",
			filename, err)
	}
	return c, nil
}

// CreateExp creates the experiment described by the Config along with
// its environment. Data is tracked by the trackers t.
func (c Config) CreateExp(seed uint64, logger golog.Logger,
	t ...tracker.Tracker) (Experiment, *envconfig.Instance, error) {
	if c.AgentConf.Config == nil {
		return nil, nil, fmt.Errorf("createExp: no agent configured")
	}
	if err := c.AgentConf.Validate(); err != nil {
		return nil, nil, fmt.Errorf("createExp: %v", err)
	}

	env, err := c.EnvConf.Create(seed, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("createExp: could not create "+
			"environment: %v", err)
	}
	a, err := c.AgentConf.CreateAgent(env.Environment, seed)
	if err != nil {
		env.Close()
		return nil, nil, fmt.Errorf("createExp: could not create agent: %v",
			err)
	}

	switch c.Type {
	case OnlineExp:
		return NewOnline(env.Environment, a, c.MaxSteps, logger, t...), env,
			nil
	}

	env.Close()
	return nil, nil, fmt.Errorf("createExp: no such experiment type %v",
		c.Type)
}
