package metrics_test

import (
	"encoding/json"
	"testing"

	"github.com/kilianp07/freightdispatch/core/factory"
	metrics "github.com/kilianp07/freightdispatch/core/metrics"
	_ "github.com/kilianp07/freightdispatch/infra/metrics"
)

func TestMetricsFactory_Builtins(t *testing.T) {
	for _, name := range []string{"nop", "prometheus", "influx"} {
		found := false
		for _, n := range metrics.SinkTypes() {
			if n == name {
				found = true
			}
		}
		if !found {
			t.Fatalf("sink %q not registered: %v", name, metrics.SinkTypes())
		}
	}
	if _, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "missing"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestNewMetricsSink_Multi(t *testing.T) {
	s, err := metrics.NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("create nop default: %v", err)
	}
	if _, ok := s.(metrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	var cfg metrics.Config
	if err := json.Unmarshal([]byte(`{"sinks":[{"type":"nop"},{"type":"nop"}]}`), &cfg); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	s, err = metrics.NewMetricsSink(cfg.Sinks)
	if err != nil {
		t.Fatalf("create multi: %v", err)
	}
	m, ok := s.(*metrics.MultiSink)
	if !ok {
		t.Fatalf("expected MultiSink, got %T", s)
	}
	if len(m.Sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(m.Sinks))
	}
}
