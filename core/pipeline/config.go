package pipeline

import (
	"fmt"
	"time"
)

// Config controls the orchestrator time budget and latency alerting.
type Config struct {
	// TotalBudgetMS is split in half between the tracking and auditing stages.
	TotalBudgetMS int `json:"total_budget_ms"`
	// EnforceDeadline cancels the directory query once the tracking budget
	// is spent. Budgets are advisory otherwise.
	EnforceDeadline bool `json:"enforce_deadline"`

	LatencyWarningMS  int `json:"latency_warning_ms"`
	LatencyCriticalMS int `json:"latency_critical_ms"`
	LatencyTargetMS   int `json:"latency_target_ms"`
	// LatencyWindow is the number of recent runs kept for percentiles.
	LatencyWindow int `json:"latency_window"`
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.TotalBudgetMS == 0 {
		c.TotalBudgetMS = 100
	}
	if c.LatencyWarningMS == 0 {
		c.LatencyWarningMS = 120
	}
	if c.LatencyCriticalMS == 0 {
		c.LatencyCriticalMS = 130
	}
	if c.LatencyTargetMS == 0 {
		c.LatencyTargetMS = 150
	}
	if c.LatencyWindow == 0 {
		c.LatencyWindow = 1000
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.TotalBudgetMS <= 0 {
		return fmt.Errorf("pipeline: total_budget_ms must be positive")
	}
	if c.LatencyWarningMS <= 0 || c.LatencyCriticalMS < c.LatencyWarningMS || c.LatencyTargetMS < c.LatencyCriticalMS {
		return fmt.Errorf("pipeline: latency thresholds must satisfy 0 < warning <= critical <= target")
	}
	if c.LatencyWindow <= 0 {
		return fmt.Errorf("pipeline: latency_window must be positive")
	}
	return nil
}

// TotalBudget returns the run budget.
func (c Config) TotalBudget() time.Duration {
	return time.Duration(c.TotalBudgetMS) * time.Millisecond
}

// StageBudget returns the budget of each of the two stages.
func (c Config) StageBudget() time.Duration { return c.TotalBudget() / 2 }

// Thresholds returns the latency classification thresholds.
func (c Config) Thresholds() LatencyThresholds {
	return LatencyThresholds{
		Warning:  time.Duration(c.LatencyWarningMS) * time.Millisecond,
		Critical: time.Duration(c.LatencyCriticalMS) * time.Millisecond,
		Target:   time.Duration(c.LatencyTargetMS) * time.Millisecond,
	}
}
