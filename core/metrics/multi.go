package metrics

import "errors"

// MultiSink forwards records to several sinks. Every sink is called even when
// an earlier one fails; the errors are joined.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink returns a MultiSink skipping nil entries.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.Sinks = append(m.Sinks, s)
		}
	}
	return m
}

func (m *MultiSink) RecordDecision(rec DecisionRecord) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordDecision(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordFailure(rec FailureRecord) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(FailureRecorder); ok {
			if err := r.RecordFailure(rec); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordStageLatency(st StageLatency) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(StageLatencyRecorder); ok {
			if err := r.RecordStageLatency(st); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
