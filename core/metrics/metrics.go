package metrics

import (
	"time"

	"github.com/kilianp07/freightdispatch/core/events"
	"github.com/kilianp07/freightdispatch/core/model"
)

// DecisionRecord is one finished pipeline run.
type DecisionRecord struct {
	ExecutionID      string
	CargoID          string
	Plate            string
	FleetType        model.FleetType
	Status           model.DispatchStatus
	FreightValue     float64
	Margin           float64
	TargetPriceScore float64
	Exploration      bool
	Candidates       int
	Latency          time.Duration
	Time             time.Time
}

// MetricsSink records dispatch decisions.
type MetricsSink interface {
	RecordDecision(rec DecisionRecord) error
}

// FailureRecord is a run that ended with a pipeline error.
type FailureRecord struct {
	ExecutionID string
	CargoID     string
	Stage       string
	Error       string
	Latency     time.Duration
	Time        time.Time
}

// FailureRecorder records failed runs.
type FailureRecorder interface {
	RecordFailure(rec FailureRecord) error
}

// StageLatency is the time spent in one pipeline stage against its budget.
type StageLatency struct {
	ExecutionID string
	Stage       string
	Duration    time.Duration
	Budget      time.Duration
	Time        time.Time
}

// Exceeded reports whether the stage overran its advisory budget.
func (s StageLatency) Exceeded() bool { return s.Budget > 0 && s.Duration > s.Budget }

// StageLatencyRecorder records per stage timings.
type StageLatencyRecorder interface {
	RecordStageLatency(s StageLatency) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordDecision(DecisionRecord) error   { return nil }
func (NopSink) RecordFailure(FailureRecord) error     { return nil }
func (NopSink) RecordStageLatency(StageLatency) error { return nil }

// EventRecorder consumes decision events from the bus.
type EventRecorder interface {
	RecordEvent(ev events.DecisionEvent) error
}
