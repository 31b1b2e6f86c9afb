package metrics

import "github.com/kilianp07/freightdispatch/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PromAddr enables the /metrics HTTP endpoint when set, e.g. ":9090".
	PromAddr string `json:"prom_addr"`
}
