package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/freightdispatch/app/plugins"
	"github.com/kilianp07/freightdispatch/config"
	"github.com/kilianp07/freightdispatch/core/audit"
	"github.com/kilianp07/freightdispatch/core/events"
	coremetrics "github.com/kilianp07/freightdispatch/core/metrics"
	"github.com/kilianp07/freightdispatch/core/model"
	coremon "github.com/kilianp07/freightdispatch/core/monitoring"
	"github.com/kilianp07/freightdispatch/core/pipeline"
	"github.com/kilianp07/freightdispatch/core/tracker"
	"github.com/kilianp07/freightdispatch/infra/logger"
	"github.com/kilianp07/freightdispatch/infra/metrics"
	inframon "github.com/kilianp07/freightdispatch/infra/monitoring"
	"github.com/kilianp07/freightdispatch/infra/mqtt"
	"github.com/kilianp07/freightdispatch/internal/eventbus"
)

// Service wires the dispatch pipeline with its directory, quota, sinks and
// publishers.
type Service struct {
	Orchestrator *pipeline.Orchestrator
	Directory    tracker.AssetDirectory

	bus       *eventbus.TypedBus[events.DecisionEvent]
	sink      coremetrics.MetricsSink
	publisher *mqtt.DecisionPublisher
	closers   []io.Closer
	log       logger.Logger
	promAddr  string
}

// New creates a Service from the configuration.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logg := logger.New("service")

	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, err
	}
	coremon.Init(mon)

	svc := &Service{log: logg, promAddr: cfg.Metrics.PromAddr}
	ok := false
	defer func() {
		if !ok {
			_ = svc.Close()
		}
	}()

	dir, err := plugins.NewDirectory(ctx, cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}
	svc.Directory = dir
	svc.track(dir)

	quota, err := plugins.NewQuota(ctx, cfg.Exploration, cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("exploration quota: %w", err)
	}
	svc.track(quota)

	tr, err := tracker.New(dir, tracker.WithLogger(logger.New("tracker")))
	if err != nil {
		return nil, err
	}
	au, err := audit.New(cfg.Audit, audit.WithQuota(quota), audit.WithLogger(logger.New("auditor")))
	if err != nil {
		return nil, err
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, err
	}
	svc.sink = sink
	svc.bus = eventbus.NewTypedBuffered[events.DecisionEvent](64)

	svc.Orchestrator, err = pipeline.NewOrchestrator(tr, au, cfg.Pipeline,
		pipeline.WithLogger(logger.New("pipeline")),
		pipeline.WithMetricsSink(sink),
		pipeline.WithEventPublisher(svc.bus),
		pipeline.WithMonitor(mon),
	)
	if err != nil {
		return nil, err
	}

	if cfg.MQTT.Enabled() {
		svc.publisher, err = mqtt.NewDecisionPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}
	ok = true
	return svc, nil
}

func (s *Service) track(v any) {
	if c, ok := v.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
}

// Dispatch runs the pipeline once.
func (s *Service) Dispatch(ctx context.Context, req model.DispatchRequest) (model.DispatchResponse, error) {
	return s.Orchestrator.Execute(ctx, req)
}

// Run starts the event consumers and the metrics endpoint and blocks until
// the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink, logger.New("collector"))
	if s.publisher != nil {
		go func() {
			defer coremon.Recover()
			s.publisher.Run(ctx, s.bus)
		}()
	}
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr, s.Routes(), logger.New("prom-server")); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	s.log.Infof("dispatch service started")
	<-ctx.Done()
	return nil
}

// Routes are served next to /metrics.
func (s *Service) Routes() map[string]http.Handler {
	return map[string]http.Handler{
		"/latency": http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(s.Orchestrator.Latency().Snapshot()); err != nil {
				s.log.Errorf("encode latency: %v", err)
			}
		}),
		"/healthz": http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.bus != nil {
		s.bus.Close()
	}
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, closeSink(s.sink))
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}

func closeSink(sink coremetrics.MetricsSink) error {
	if m, ok := sink.(*coremetrics.MultiSink); ok {
		var errs []error
		for _, s := range m.Sinks {
			errs = append(errs, closeSink(s))
		}
		return errors.Join(errs...)
	}
	if c, ok := sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
