package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/freightdispatch/core/audit"
	"github.com/kilianp07/freightdispatch/core/metrics"
	"github.com/kilianp07/freightdispatch/core/pipeline"
	"github.com/kilianp07/freightdispatch/infra/mqtt"
)

// EnvPrefix marks environment overrides: FD_PIPELINE__TOTAL_BUDGET_MS=200
// sets pipeline.total_budget_ms.
const EnvPrefix = "FD_"

type Config struct {
	Log         LogConfig         `json:"log"`
	Pipeline    pipeline.Config   `json:"pipeline"`
	Audit       audit.Config      `json:"audit"`
	Exploration ExplorationConfig `json:"exploration"`
	Directory   DirectoryConfig   `json:"directory"`
	MQTT        mqtt.Config       `json:"mqtt"`
	Metrics     metrics.Config    `json:"metrics"`
	Sentry      SentryConfig      `json:"sentry"`
}

// Load reads the file at path, applies FD_ environment overrides, fills
// defaults and validates every section. An empty path only reads the
// environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	cfg := Config{Audit: audit.DefaultConfig()}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := Config{Audit: audit.DefaultConfig()}
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults fills zero values in every section.
func (c *Config) SetDefaults() {
	c.Log.SetDefaults()
	c.Pipeline.SetDefaults()
	c.Audit.SetDefaults()
	c.Exploration.SetDefaults()
	c.Directory.SetDefaults()
	c.Sentry.SetDefaults()
	if c.MQTT.Enabled() {
		c.MQTT.SetDefaults()
	}
}

// Validate checks every section and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	if err := c.Pipeline.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Audit.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Exploration.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("exploration: %w", err))
	}
	if err := c.Directory.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("directory: %w", err))
	}
	if err := c.Sentry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sentry: %w", err))
	}
	if c.MQTT.Enabled() {
		if err := c.MQTT.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
