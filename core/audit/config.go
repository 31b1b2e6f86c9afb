package audit

import "fmt"

// Config holds the audit thresholds.
type Config struct {
	MinMargin         float64 `json:"min_margin"`
	TargetMargin      float64 `json:"target_margin"`
	NewDriverDays     int     `json:"new_driver_days"`
	NewDriverDiscount float64 `json:"new_driver_discount"`
	DefaultDistanceKm float64 `json:"default_distance_km"`
	// ExplorationShare is the share of the daily volume reserved for new drivers.
	ExplorationShare float64 `json:"exploration_share"`
	// DailyVolume is the expected number of dispatches per day, used to size
	// the exploration allowance of day scoped quotas.
	DailyVolume int `json:"daily_volume"`
}

// DefaultConfig returns the production thresholds. Start from it and
// override fields: a zero MinMargin, NewDriverDays, NewDriverDiscount or
// ExplorationShare is a valid setting and SetDefaults leaves it alone.
func DefaultConfig() Config {
	return Config{
		MinMargin:         0.70,
		TargetMargin:      0.75,
		NewDriverDays:     30,
		NewDriverDiscount: 50,
		DefaultDistanceKm: 50,
		ExplorationShare:  0.15,
		DailyVolume:       200,
	}
}

// SetDefaults fills the fields for which zero is not a usable value.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.TargetMargin == 0 {
		c.TargetMargin = d.TargetMargin
	}
	if c.DefaultDistanceKm == 0 {
		c.DefaultDistanceKm = d.DefaultDistanceKm
	}
	if c.DailyVolume == 0 {
		c.DailyVolume = d.DailyVolume
	}
}

// Validate checks the ranges.
func (c Config) Validate() error {
	if c.MinMargin < 0 || c.MinMargin > 1 {
		return fmt.Errorf("audit: min_margin %v out of range [0,1]", c.MinMargin)
	}
	if c.TargetMargin <= 0 || c.TargetMargin > 1 {
		return fmt.Errorf("audit: target_margin %v out of range (0,1]", c.TargetMargin)
	}
	if c.NewDriverDays < 0 {
		return fmt.Errorf("audit: new_driver_days must not be negative")
	}
	if c.NewDriverDiscount < 0 {
		return fmt.Errorf("audit: new_driver_discount must not be negative")
	}
	if c.DefaultDistanceKm <= 0 {
		return fmt.Errorf("audit: default_distance_km must be positive")
	}
	if c.ExplorationShare < 0 || c.ExplorationShare > 1 {
		return fmt.Errorf("audit: exploration_share %v out of range [0,1]", c.ExplorationShare)
	}
	if c.DailyVolume < 0 {
		return fmt.Errorf("audit: daily_volume must not be negative")
	}
	return nil
}
