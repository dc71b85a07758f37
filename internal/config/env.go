// Package config loads playback defaults from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment defaults for the scenes command.
// Command-line flags override every field.
type Config struct {
	// Dirs are the scene directories, searched in order.
	Dirs       []string      `env:"SCENES_DIR"        envSeparator:":"`
	DB         string        `env:"SCENES_DB"         envDefault:"scenes.db"`
	StartScene string        `env:"SCENES_START"      envDefault:"Opening"`
	LineDelay  time.Duration `env:"SCENES_LINE_DELAY" envDefault:"500ms"`
	Slot       string        `env:"SCENES_SLOT"       envDefault:"autosave"`
}

// Load parses Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.LineDelay < 0 {
		return Config{}, fmt.Errorf("parse env: SCENES_LINE_DELAY must not be negative, got %s", cfg.LineDelay)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
