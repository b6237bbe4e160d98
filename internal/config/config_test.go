package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Scenario.Width != 75 || cfg.Scenario.Height != 33 {
		t.Errorf("dimensions = %dx%d, want 75x33", cfg.Scenario.Width, cfg.Scenario.Height)
	}
	if cfg.Scenario.Packages != 24 || cfg.Scenario.Trucks != 7 || cfg.Scenario.Garages != 4 {
		t.Errorf("counts = %+v", cfg.Scenario)
	}
	if cfg.Sim.Termination != "delivered" {
		t.Errorf("termination = %q, want delivered", cfg.Sim.Termination)
	}
	if cfg.Redis.TTL != time.Hour {
		t.Errorf("redis ttl = %v, want 1h", cfg.Redis.TTL)
	}
}

func TestLoadPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.toml")
	body := "[scenario]\nwidth = 10\nheight = 12\n\n[sim]\nmax_ticks = 7\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("LOGISTICS_SCENARIO_HEIGHT", "20")
	t.Setenv("LOGISTICS_SIM_MAX_TICKS", "30")

	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(f)
	if err := f.Parse([]string{"--sim.max_ticks=40"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(f, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Scenario.Width != 10 {
		t.Errorf("width = %d, want 10 from file", cfg.Scenario.Width)
	}
	if cfg.Scenario.Height != 20 {
		t.Errorf("height = %d, want 20 from env", cfg.Scenario.Height)
	}
	if cfg.Sim.MaxTicks != 40 {
		t.Errorf("max ticks = %d, want 40 from flag", cfg.Sim.MaxTicks)
	}
	if cfg.Scenario.Packages != 24 {
		t.Errorf("packages = %d, want default 24 (unset flag must not override)", cfg.Scenario.Packages)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("LOGISTICS_SIM_TERMINATION", "whenever")
	if _, err := Load(nil, filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestGet(t *testing.T) {
	t.Setenv("LOGISTICS_TEST_KEY", "value")
	if got := Get("LOGISTICS_TEST_KEY", "fallback"); got != "value" {
		t.Errorf("Get = %q, want value", got)
	}
	if got := Get("LOGISTICS_UNSET_KEY_FOR_TEST", "fallback"); got != "fallback" {
		t.Errorf("Get = %q, want fallback", got)
	}
}

func TestScenarioParams(t *testing.T) {
	cfg, err := Load(nil, filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := cfg.Scenario.Params()
	if p.Width != 75 || p.Noise != 0.4 || p.TruckRange != 100 {
		t.Errorf("params = %+v", p)
	}
	if cfg.Sim.Concurrency != 4 || cfg.Sim.FrameLimit != 500 {
		t.Errorf("sim = %+v", cfg.Sim)
	}
}
