package metrics

import (
	"errors"
	"strconv"

	"github.com/kilianp07/freightdispatch/core/events"
	coremetrics "github.com/kilianp07/freightdispatch/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records dispatch decisions in Prometheus metrics.
type PromSink struct {
	decisions *prometheus.CounterVec
	margin    *prometheus.HistogramVec
	failures  *prometheus.CounterVec
	stages    *prometheus.HistogramVec
	events    *prometheus.CounterVec
}

// NewPromSink registers the sink metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_sink_decisions_total",
		Help: "Dispatch decisions by status and fleet type",
	}, []string{"status", "fleet_type"})
	margin := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatch_decision_margin_ratio",
		Help:    "Contribution margin of decided dispatches",
		Buckets: []float64{0, .5, .6, .7, .75, .8, .85, .9, .95, 1},
	}, []string{"status"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_sink_failures_total",
		Help: "Failed pipeline runs by stage",
	}, []string{"stage"})
	stages := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatch_stage_latency_seconds",
		Help:    "Time spent in each pipeline stage",
		Buckets: []float64{.001, .005, .01, .025, .05, .075, .1, .25},
	}, []string{"stage"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_events_total",
		Help: "Decision events seen on the bus",
	}, []string{"stage", "exploration"})

	var err error
	if decisions, err = register(reg, decisions); err != nil {
		return nil, err
	}
	if margin, err = register(reg, margin); err != nil {
		return nil, err
	}
	if failures, err = register(reg, failures); err != nil {
		return nil, err
	}
	if stages, err = register(reg, stages); err != nil {
		return nil, err
	}
	if events, err = register(reg, events); err != nil {
		return nil, err
	}
	return &PromSink{decisions: decisions, margin: margin, failures: failures, stages: stages, events: events}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordDecision counts the decision and observes its margin.
func (s *PromSink) RecordDecision(rec coremetrics.DecisionRecord) error {
	status := rec.Status.String()
	s.decisions.WithLabelValues(status, rec.FleetType.String()).Inc()
	s.margin.WithLabelValues(status).Observe(rec.Margin)
	return nil
}

// RecordFailure counts a failed run.
func (s *PromSink) RecordFailure(rec coremetrics.FailureRecord) error {
	s.failures.WithLabelValues(rec.Stage).Inc()
	return nil
}

// RecordStageLatency observes the stage duration.
func (s *PromSink) RecordStageLatency(st coremetrics.StageLatency) error {
	s.stages.WithLabelValues(st.Stage).Observe(st.Duration.Seconds())
	return nil
}

// RecordEvent counts a bus event by final stage.
func (s *PromSink) RecordEvent(ev events.DecisionEvent) error {
	s.events.WithLabelValues(ev.Stage, strconv.FormatBool(ev.Exploration)).Inc()
	return nil
}
