package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoCandidates reports a valid search that matched no asset.
var ErrNoCandidates = errors.New("no candidate asset found")

// PipelineError is the single error type returned by Execute. The original
// cause stays reachable through errors.Is and errors.As.
type PipelineError struct {
	ExecutionID string
	CargoID     string
	Stage       Stage
	Err         error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline %s: cargo %s failed during %s: %v", e.ExecutionID, e.CargoID, e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
