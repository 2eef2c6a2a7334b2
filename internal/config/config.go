// Package config reads process settings from PULSE_* environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the full set of knobs for the windowed game.
type Config struct {
	Seed         int64   `env:"PULSE_SEED" envDefault:"0"`
	WindowWidth  int     `env:"PULSE_WINDOW_WIDTH" envDefault:"1580"`
	WindowHeight int     `env:"PULSE_WINDOW_HEIGHT" envDefault:"720"`
	WorldWidth   float64 `env:"PULSE_WORLD_WIDTH" envDefault:"1280"`
	WorldHeight  float64 `env:"PULSE_WORLD_HEIGHT" envDefault:"720"`
	Walls        int     `env:"PULSE_WALLS" envDefault:"12"`
	Demo         bool    `env:"PULSE_DEMO" envDefault:"false"`
	Audio        bool    `env:"PULSE_AUDIO" envDefault:"true"`
	SpectateAddr string  `env:"PULSE_SPECTATE_ADDR"`
	LogLevel     string  `env:"PULSE_LOG_LEVEL" envDefault:"info"`
	LogFormat    string  `env:"PULSE_LOG_FORMAT" envDefault:"text"`
}

// ParseEnv parses environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the validated configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate rejects sizes the renderer cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.WindowWidth, c.WindowHeight))
	}
	if c.WorldWidth <= 0 || c.WorldHeight <= 0 {
		errs = append(errs, fmt.Errorf("world size %gx%g must be positive", c.WorldWidth, c.WorldHeight))
	}
	if c.Walls < 0 {
		errs = append(errs, fmt.Errorf("walls %d must not be negative", c.Walls))
	}
	return errors.Join(errs...)
}
