package config

import (
	"fmt"
	"logistics-sim/internal/domain"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	EnvPrefix       = "LOGISTICS_"
	DefaultFileName = "logistics-sim.toml"
)

// Config holds all configuration for the service and the CLI.
type Config struct {
	Port     int            `koanf:"port"`
	Cache    string         `koanf:"cache"` // "none", "sql" or "redis"
	DB       DBConfig       `koanf:"db"`
	Redis    RedisConfig    `koanf:"redis"`
	Log      LogConfig      `koanf:"log"`
	Scenario ScenarioConfig `koanf:"scenario"`
	Sim      SimConfig      `koanf:"sim"`
}

type DBConfig struct {
	Driver string `koanf:"driver"` // "sqlite" or "pgx"
	DSN    string `koanf:"dsn"`
}

type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "json" or "console"
}

// Generated scenario parameters. File, when set, replaces generation.
type ScenarioConfig struct {
	Width      int     `koanf:"width"`
	Height     int     `koanf:"height"`
	Noise      float64 `koanf:"noise"`
	Packages   int     `koanf:"packages"`
	Trucks     int     `koanf:"trucks"`
	Garages    int     `koanf:"garages"`
	TruckRange int     `koanf:"truck_range"`
	Seed       int64   `koanf:"seed"`
	File       string  `koanf:"file"`
}

type SimConfig struct {
	Termination    string `koanf:"termination"` // "delivered" or "legacy"
	MaxTicks       int    `koanf:"max_ticks"`
	StallWarnTicks int    `koanf:"stall_warn_ticks"`

	// Simulations the server runs at once; further requests get 503.
	Concurrency int `koanf:"concurrency"`
	FrameLimit  int `koanf:"frame_limit"`
}

func (c ScenarioConfig) Params() domain.ScenarioParams {
	return domain.ScenarioParams{
		Width:      c.Width,
		Height:     c.Height,
		Noise:      c.Noise,
		Packages:   c.Packages,
		Trucks:     c.Trucks,
		Garages:    c.Garages,
		TruckRange: c.TruckRange,
		Seed:       c.Seed,
	}
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"port":  8080,
		"cache": "none",
		"db": map[string]interface{}{
			"driver": "sqlite",
			"dsn":    "data/app.db",
		},
		"redis": map[string]interface{}{
			"addr":     "localhost:6379",
			"password": "",
			"db":       0,
			"ttl":      "1h",
		},
		"log": map[string]interface{}{
			"level":  "info",
			"format": "console",
		},
		"scenario": map[string]interface{}{
			"width":       75,
			"height":      33,
			"noise":       0.4,
			"packages":    24,
			"trucks":      7,
			"garages":     4,
			"truck_range": 100,
			"seed":        0,
			"file":        "",
		},
		"sim": map[string]interface{}{
			"termination":      "delivered",
			"max_ticks":        100000,
			"stall_warn_ticks": 10,
			"concurrency":      4,
			"frame_limit":      500,
		},
	}
}

// RegisterFlags declares one flag per config key on f.
func RegisterFlags(f *pflag.FlagSet) {
	f.Int("port", 8080, "HTTP listen port")
	f.String("cache", "none", "route cache backend: none, sql or redis")
	f.String("db.driver", "sqlite", "database driver: sqlite or pgx")
	f.String("db.dsn", "data/app.db", "database DSN")
	f.String("redis.addr", "localhost:6379", "redis address")
	f.String("log.level", "info", "log level")
	f.String("log.format", "console", "log format: console or json")
	f.Int("scenario.width", 75, "grid width")
	f.Int("scenario.height", 33, "grid height")
	f.Float64("scenario.noise", 0.4, "fraction of grid nodes removed")
	f.Int("scenario.packages", 24, "number of packages")
	f.Int("scenario.trucks", 7, "number of trucks")
	f.Int("scenario.garages", 4, "number of garages")
	f.Int("scenario.truck_range", 100, "truck range (recorded, not enforced)")
	f.Int64("scenario.seed", 0, "random seed (0 picks one)")
	f.String("scenario.file", "", "YAML or TOML scenario file")
	f.String("sim.termination", "delivered", "termination policy: delivered or legacy")
	f.Int("sim.max_ticks", 100000, "abort after this many ticks (0 = unlimited)")
	f.Int("sim.stall_warn_ticks", 10, "warn after a truck finds no reachable package this many ticks in a row")
	f.Int("sim.concurrency", 4, "simulations the server runs at once")
	f.Int("sim.frame_limit", 500, "most recent tick frames kept per simulation")
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(defaults()), nil); err != nil {
		return nil, fmt.Errorf("load config: defaults: %w", err)
	}

	if path == "" {
		path = DefaultFileName
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load config: file %q: %w", path, err)
		}
	}

	// LOGISTICS_SIM_MAX_TICKS -> sim.max_ticks
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load config: env: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load config: flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	switch c.Cache {
	case "none", "sql", "redis":
	default:
		return fmt.Errorf("config: cache must be none, sql or redis, got %q", c.Cache)
	}
	switch c.Sim.Termination {
	case "delivered", "legacy":
	default:
		return fmt.Errorf("config: sim.termination must be delivered or legacy, got %q", c.Sim.Termination)
	}
	if c.Sim.MaxTicks < 0 {
		return fmt.Errorf("config: sim.max_ticks must be >= 0")
	}
	if c.Sim.Concurrency < 1 {
		return fmt.Errorf("config: sim.concurrency must be >= 1")
	}
	if c.Scenario.File == "" {
		if c.Scenario.Width < 1 || c.Scenario.Height < 1 {
			return fmt.Errorf("config: scenario dimensions must be positive")
		}
		if c.Scenario.Noise < 0 || c.Scenario.Noise >= 1 {
			return fmt.Errorf("config: scenario.noise must be in [0, 1)")
		}
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type staticProvider map[string]interface{}

func mapProvider(m map[string]interface{}) staticProvider { return staticProvider(m) }

func (p staticProvider) Read() (map[string]interface{}, error) { return p, nil }

func (p staticProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
