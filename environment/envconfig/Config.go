// Package envconfig provides configuration structs for configuring
// the reach environment with default physical parameters. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/edaniels/golog"
	env "github.com/samuelfneumann/gofinger/environment"
	"github.com/samuelfneumann/gofinger/environment/trifinger/reach"
	"github.com/samuelfneumann/gofinger/environment/wrappers"
	"github.com/samuelfneumann/gofinger/finger"
	"github.com/samuelfneumann/gofinger/physics"
)

// Config implements a specific configuration of the reach environment
type Config struct {
	// ControlRate is the duration of one environment step in seconds
	ControlRate float64
	FingerType  finger.Type
	Visualize   bool
	Smoothing   reach.Smoothing

	// RealRobot selects the real robot instead of the simulation. Real
	// robots need a finger.Frontend, see CreateReal.
	RealRobot bool

	// ConfigSuffix is the mounting angle of a single finger, one of 0,
	// 120, and 240
	ConfigSuffix int
	Synchronize  bool

	EpisodeCutoff uint
	Discount      float64
}

// Default returns the default configuration: a simulated tri-finger
// controlled every 20 ms with episodes of 250 steps
func Default() Config {
	return Config{
		ControlRate: 0.02,
		FingerType:  finger.TriFingerPro,
		Smoothing: reach.Smoothing{
			NumEpisodes: 1000,
			StartAfter:  0.2,
			StopAfter:   0.6,
			FinalAlpha:  0.9,
		},
		EpisodeCutoff: 250,
		Discount:      1.0,
	}
}

// Load reads a JSON Config from filename. Fields missing from the file
// keep their default values.
func Load(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("load: %v", err)
	}

	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("load: could not decode %v: %v",
			filename, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("load: %v", err)
	}
	return c, nil
}

// Save writes the Config to filename as JSON
func (c Config) Save(filename string) error {
	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return fmt.Errorf("save: %v", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}

// Validate returns an error if the Config cannot create an environment
func (c Config) Validate() error {
	if _, err := finger.NumberOfFingers(c.FingerType); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if c.ControlRate <= 0 {
		return fmt.Errorf("validate: control rate must be positive, got %v",
			c.ControlRate)
	}
	switch c.ConfigSuffix {
	case 0, 120, 240:
	default:
		return fmt.Errorf("validate: config suffix must be one of 0, 120, "+
			"240, got %v", c.ConfigSuffix)
	}
	if c.EpisodeCutoff == 0 {
		return fmt.Errorf("validate: episode cutoff must be positive")
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], got %v",
			c.Discount)
	}
	return nil
}

// Instance is an environment created from a Config
type Instance struct {
	// Environment is the reach environment wrapped to end episodes
	// after the episode cutoff
	Environment env.Environment
	Reach       *reach.Reach

	// World is the simulation, nil for real robots
	World *physics.World
}

// Close removes the environment from its simulation and shuts the
// simulation down
func (i *Instance) Close() error {
	if err := i.Reach.Close(); err != nil {
		return fmt.Errorf("close: %v", err)
	}
	if i.World != nil {
		if err := i.World.Disconnect(); err != nil {
			return fmt.Errorf("close: %v", err)
		}
	}
	return nil
}

// Create returns the simulated environment described by the Config
func (c Config) Create(seed uint64, logger golog.Logger) (*Instance,
	error) {
	if c.RealRobot {
		return nil, fmt.Errorf("create: real robots need a frontend, " +
			"use CreateReal")
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	world, err := physics.NewWorld(physics.DefaultTimeStep)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	f, err := finger.NewSimFinger(world, c.FingerType)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	i, err := c.create(f, world, seed, logger)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	return i, nil
}

// CreateReal returns the environment described by the Config on the
// real robot behind frontend. Visualisation is not available on real
// robots.
func (c Config) CreateReal(frontend finger.Frontend, seed uint64,
	logger golog.Logger) (*Instance, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createReal: %v", err)
	}
	if c.Visualize {
		return nil, fmt.Errorf("createReal: cannot visualize the real robot")
	}

	f, err := finger.NewRealFinger(frontend, c.FingerType, c.ConfigSuffix)
	if err != nil {
		return nil, fmt.Errorf("createReal: %v", err)
	}

	i, err := c.create(f, nil, seed, logger)
	if err != nil {
		return nil, fmt.Errorf("createReal: %v", err)
	}
	return i, nil
}

func (c Config) create(f finger.Finger, world *physics.World, seed uint64,
	logger golog.Logger) (*Instance, error) {
	rc := reach.Config{
		ControlRate: c.ControlRate,
		Smoothing:   c.Smoothing,
		Visualize:   c.Visualize,
		Synchronize: c.Synchronize,
		Seed:        seed,
		Discount:    c.Discount,
	}
	if world != nil {
		rc.Client = world
	}

	r, err := reach.New(rc, f, logger)
	if err != nil {
		return nil, err
	}
	limited, err := wrappers.NewTimeLimit(r, int(c.EpisodeCutoff))
	if err != nil {
		return nil, err
	}

	return &Instance{Environment: limited, Reach: r, World: world}, nil
}
