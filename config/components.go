package config

import "fmt"

// Quota backends.
const (
	QuotaUnlimited = "unlimited"
	QuotaMemory    = "memory"
	QuotaRedis     = "redis"
)

// ExplorationConfig selects where the daily exploration allowance is counted.
type ExplorationConfig struct {
	Backend string      `json:"backend"`
	Redis   RedisConfig `json:"redis"`
}

func (c *ExplorationConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = QuotaUnlimited
	}
}

func (c ExplorationConfig) Validate() error {
	switch c.Backend {
	case QuotaUnlimited, QuotaMemory:
		return nil
	case QuotaRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis.url is required for the redis backend")
		}
		return nil
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
}

// Directory types.
const (
	DirectoryMemory  = "memory"
	DirectoryGeoJSON = "geojson"
	DirectoryRedis   = "redis"
)

// DirectoryConfig selects the asset directory behind the tracker.
type DirectoryConfig struct {
	Type string `json:"type"`
	// Path is the GeoJSON snapshot for the geojson type, and the optional
	// snapshot loaded into Redis for the redis type.
	Path string `json:"path"`
	// Seed loads the demo fleet when no snapshot is given.
	Seed  bool        `json:"seed"`
	Redis RedisConfig `json:"redis"`
}

func (c *DirectoryConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = DirectoryMemory
		c.Seed = true
	}
}

func (c DirectoryConfig) Validate() error {
	switch c.Type {
	case DirectoryMemory:
		return nil
	case DirectoryGeoJSON:
		if c.Path == "" {
			return fmt.Errorf("path is required for the geojson type")
		}
		return nil
	case DirectoryRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis.url is required for the redis type")
		}
		return nil
	default:
		return fmt.Errorf("unknown type %q", c.Type)
	}
}

// RedisConfig locates a Redis server.
type RedisConfig struct {
	URL       string `json:"url"`        // redis://[:password@]host[:port][/db]
	KeyPrefix string `json:"key_prefix"` // defaults to "freightdispatch"
}
