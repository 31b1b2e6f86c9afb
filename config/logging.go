package config

import (
	"strings"

	"github.com/rs/zerolog"
)

// LogConfig defines the log output.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LogConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level name.
func (c LogConfig) Validate() error {
	_, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	return err
}
