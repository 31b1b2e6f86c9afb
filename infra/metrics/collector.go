package metrics

import (
	"context"

	"github.com/kilianp07/freightdispatch/core/events"
	coremetrics "github.com/kilianp07/freightdispatch/core/metrics"
	"github.com/kilianp07/freightdispatch/infra/logger"
	"github.com/kilianp07/freightdispatch/internal/eventbus"
)

// StartEventCollector subscribes to the decision bus and hands every event to
// the sinks that implement coremetrics.EventRecorder. It stops when the
// context is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.DecisionEvent], sink coremetrics.MetricsSink, log logger.Logger) {
	if bus == nil || sink == nil {
		return
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	recorders := eventRecorders(sink)
	if len(recorders) == 0 {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				for _, r := range recorders {
					if err := r.RecordEvent(ev); err != nil {
						log.Warnf("record event %s: %v", ev.ExecutionID, err)
					}
				}
			}
		}
	}()
}

func eventRecorders(sink coremetrics.MetricsSink) []coremetrics.EventRecorder {
	var out []coremetrics.EventRecorder
	if m, ok := sink.(*coremetrics.MultiSink); ok {
		for _, s := range m.Sinks {
			out = append(out, eventRecorders(s)...)
		}
		return out
	}
	if r, ok := sink.(coremetrics.EventRecorder); ok {
		out = append(out, r)
	}
	return out
}
