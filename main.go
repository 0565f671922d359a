package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/edaniels/golog"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/samuelfneumann/gofinger/agent"
	"github.com/samuelfneumann/gofinger/agent/random"
	"github.com/samuelfneumann/gofinger/collision"
	"github.com/samuelfneumann/gofinger/environment/envconfig"
	"github.com/samuelfneumann/gofinger/experiment"
	"github.com/samuelfneumann/gofinger/experiment/tracker"
	"github.com/samuelfneumann/gofinger/finger"
)

// Environment variables providing flag defaults
const (
	configEnv = "GOFINGER_CONFIG"
	outputEnv = "GOFINGER_OUTPUT"
)

type runFlags struct {
	config string
	out    string
	steps  uint
	seed   uint64
	render bool
	cube   bool
}

func main() {
	for _, envFile := range []string{".env", "../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	logger := golog.NewDevelopmentLogger("gofinger")

	rootCmd := &cobra.Command{
		Use:   "gofinger",
		Short: "gofinger runs agents on the simulated TriFinger reach task",
	}

	flags := runFlags{}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run an online experiment on the reach environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags, cmd.Flags().Changed("steps"), logger)
		},
	}
	runCmd.Flags().StringVar(&flags.config, "config", os.Getenv(configEnv),
		"experiment configuration JSON file")
	runCmd.Flags().StringVar(&flags.out, "out", os.Getenv(outputEnv),
		"directory to save data to")
	runCmd.Flags().UintVar(&flags.steps, "steps", 1000,
		"number of environment steps, overrides the configuration")
	runCmd.Flags().Uint64Var(&flags.seed, "seed", 0, "random seed")
	runCmd.Flags().BoolVar(&flags.render, "render", false,
		"save an image of the arena after the run")
	runCmd.Flags().BoolVar(&flags.cube, "cube", false,
		"place a cube in the arena")

	fingersCmd := &cobra.Command{
		Use:   "fingers",
		Short: "List the supported finger types",
		Run: func(cmd *cobra.Command, args []string) {
			for _, t := range finger.ValidFingerTypes() {
				n, _ := finger.NumberOfFingers(t)
				fmt.Printf("%v\t%v finger(s)\n", t, n)
			}
		},
	}

	rootCmd.AddCommand(runCmd, fingersCmd)
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
}

func run(flags runFlags, stepsSet bool, logger golog.Logger) error {
	c := experiment.Config{
		Type:      experiment.OnlineExp,
		MaxSteps:  flags.steps,
		EnvConf:   envconfig.Default(),
		AgentConf: agent.NewTypedConfig(random.Config{}),
	}
	if flags.config != "" {
		var err error
		if c, err = experiment.LoadConfig(flags.config); err != nil {
			return err
		}
		if stepsSet {
			c.MaxSteps = flags.steps
		}
	}
	if flags.render {
		c.EnvConf.Visualize = true
	}

	out := flags.out
	if out == "" {
		out = "."
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return fmt.Errorf("run: %v", err)
	}

	runID := uuid.New().String()
	logger.Infow("starting run", "id", runID, "finger",
		c.EnvConf.FingerType, "steps", c.MaxSteps)

	returns := tracker.NewReturn(filepath.Join(out, runID+"_return.bin"))
	lengths := tracker.NewEpisodeLength(filepath.Join(out,
		runID+"_length.bin"))
	exp, env, err := c.CreateExp(flags.seed, logger, returns, lengths)
	if err != nil {
		return fmt.Errorf("run: %v", err)
	}
	defer func() {
		if err := env.Close(); err != nil {
			logger.Errorw("could not close environment", "error", err)
		}
	}()

	if flags.cube {
		if env.World == nil {
			return fmt.Errorf("run: cubes need a simulation")
		}
		if _, err := collision.NewCube(env.World); err != nil {
			return fmt.Errorf("run: %v", err)
		}
	}

	if err := exp.Run(); err != nil {
		return fmt.Errorf("run: %v", err)
	}
	if err := exp.Save(); err != nil {
		return fmt.Errorf("run: %v", err)
	}

	episodes := filepath.Join(out, runID+"_episodes.bin")
	if err := env.Reach.DataLogger().Save(episodes); err != nil {
		return fmt.Errorf("run: %v", err)
	}

	if flags.render {
		image := filepath.Join(out, runID+".png")
		if err := env.Reach.Render(image); err != nil {
			return fmt.Errorf("run: %v", err)
		}
		logger.Infow("saved image", "file", image)
	}

	logger.Infow("finished run", "id", runID, "episodes",
		len(returns.Returns()))
	return nil
}
