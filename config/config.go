package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/sceneforge/engine"
)

// Config is the full simulation configuration loaded from TOML
type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Particles  ParticlesConfig  `toml:"particles"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	CellSize float64       `toml:"cell_size"` // broadphase cell edge length
	Gravity  float64       `toml:"gravity"`
	GroundY  float64       `toml:"ground_y"`
	MaxDelta float64       `toml:"max_delta"` // integration dt clamp, seconds
	TickRate time.Duration `toml:"tick_rate"`
	Seed     int64         `toml:"seed"`
}

type ParticlesConfig struct {
	MaxSpawnPerStep int `toml:"max_spawn_per_step"`
	CapacitySlack   int `toml:"capacity_slack"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads a TOML config file over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is supplied
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			CellSize: 2.0,
			Gravity:  9.81,
			GroundY:  0.0,
			MaxDelta: 1.0 / 15.0,
			TickRate: 50 * time.Millisecond,
			Seed:     1,
		},
		Particles: ParticlesConfig{
			MaxSpawnPerStep: 64,
			CapacitySlack:   16,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// SimParams maps the configuration onto the engine's runtime parameters
func (c *Config) SimParams() engine.SimParams {
	return engine.SimParams{
		CellSize:        c.Simulation.CellSize,
		Gravity:         c.Simulation.Gravity,
		GroundY:         c.Simulation.GroundY,
		MaxDelta:        c.Simulation.MaxDelta,
		MaxSpawnPerStep: c.Particles.MaxSpawnPerStep,
		CapacitySlack:   c.Particles.CapacitySlack,
		Seed:            c.Simulation.Seed,
	}
}
