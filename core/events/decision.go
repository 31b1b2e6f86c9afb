package events

import (
	"time"

	"github.com/kilianp07/freightdispatch/core/model"
)

// DecisionEvent is published once per pipeline run. Failed runs carry the
// stage that failed and the error; Status is only meaningful when Err is nil.
type DecisionEvent struct {
	ExecutionID string
	CargoID     string
	Plate       string
	Status      model.DispatchStatus
	Margin      float64
	Exploration bool
	Latency     time.Duration
	Stage       string
	Err         error
	At          time.Time
}

// Failed reports whether the run ended in a pipeline error.
func (e DecisionEvent) Failed() bool { return e.Err != nil }

// Publisher accepts decision events without blocking the caller.
type Publisher interface {
	Publish(DecisionEvent)
}
