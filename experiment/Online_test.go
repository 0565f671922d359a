package experiment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"github.com/samuelfneumann/gofinger/agent"
	"github.com/samuelfneumann/gofinger/agent/random"
	"github.com/samuelfneumann/gofinger/environment/envconfig"
	"github.com/samuelfneumann/gofinger/experiment"
	"github.com/samuelfneumann/gofinger/experiment/tracker"
)

func TestOnline(t *testing.T) {
	envConf := envconfig.Default()
	envConf.EpisodeCutoff = 5
	envConf.Smoothing.IsTest = true

	c := experiment.Config{
		Type:      experiment.OnlineExp,
		MaxSteps:  12,
		EnvConf:   envConf,
		AgentConf: agent.NewTypedConfig(random.Config{}),
	}

	filename := filepath.Join(t.TempDir(), "return.bin")
	returns := tracker.NewReturn(filename)
	exp, env, err := c.CreateExp(3, golog.NewTestLogger(t), returns)
	if err != nil {
		t.Fatal(err)
	}
	defer env.Close()

	if err := exp.Run(); err != nil {
		t.Fatal(err)
	}
	if steps := exp.(*experiment.Online).Steps(); steps != 12 {
		t.Errorf("steps: have %v want 12", steps)
	}

	// Two full episodes of 5 steps fit into 12 steps
	if len(returns.Returns()) != 2 {
		t.Fatalf("returns: have %v want 2 episodes", returns.Returns())
	}
	for _, r := range returns.Returns() {
		if r >= 0 {
			t.Errorf("return should be negative, got %v", r)
		}
	}
	if n := env.Reach.EpisodeCount(); n != 4 {
		t.Errorf("episodes started: have %v want 4", n)
	}

	if err := exp.Save(); err != nil {
		t.Fatal(err)
	}
	data, err := tracker.LoadData(filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 2 {
		t.Errorf("saved returns: have %v want 2", len(data))
	}
}

func TestLoadConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "experiment.json")
	data := []byte(`{
		"MaxSteps": 100,
		"EnvConf": {"FingerType": "fingerone", "EpisodeCutoff": 10},
		"AgentConf": {"Type": "Random", "Config": {}}
	}`)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		t.Fatal(err)
	}

	c, err := experiment.LoadConfig(filename)
	if err != nil {
		t.Fatal(err)
	}
	if c.Type != experiment.OnlineExp || c.MaxSteps != 100 {
		t.Errorf("experiment fields: %+v", c)
	}
	if c.EnvConf.ControlRate != envconfig.Default().ControlRate {
		t.Error("missing environment fields should keep defaults")
	}
	if c.AgentConf.Type != random.Type {
		t.Errorf("agent type: have %v want %v", c.AgentConf.Type,
			random.Type)
	}
}
