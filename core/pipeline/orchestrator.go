package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/freightdispatch/core/audit"
	"github.com/kilianp07/freightdispatch/core/events"
	"github.com/kilianp07/freightdispatch/core/logger"
	"github.com/kilianp07/freightdispatch/core/metrics"
	"github.com/kilianp07/freightdispatch/core/model"
	"github.com/kilianp07/freightdispatch/core/monitoring"
	"github.com/kilianp07/freightdispatch/core/tracker"
)

// CandidateTracker is the retrieval stage.
type CandidateTracker interface {
	Track(ctx context.Context, req model.DispatchRequest) (tracker.TrackingResult, error)
}

// CandidateAuditor is the audit stage.
type CandidateAuditor interface {
	Audit(ctx context.Context, tr tracker.TrackingResult, req model.DispatchRequest) (audit.AuditResult, error)
}

// Orchestrator runs tracking then auditing for one request at a time per
// call. It holds no per-run state, so Execute is safe for concurrent use.
type Orchestrator struct {
	tracker CandidateTracker
	auditor CandidateAuditor
	cfg     Config

	log     logger.Logger
	sink    metrics.MetricsSink
	bus     events.Publisher
	monitor monitoring.Monitor
	latency *LatencyMonitor

	now   func() time.Time
	newID func() string
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) { o.log = logger.OrNop(l) }
}

// WithMetricsSink sets the sink receiving decision records.
func WithMetricsSink(s metrics.MetricsSink) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.sink = s
		}
	}
}

// WithEventPublisher sets where decision events go.
func WithEventPublisher(p events.Publisher) Option {
	return func(o *Orchestrator) { o.bus = p }
}

// WithMonitor sets the error monitor. The global monitor is used otherwise.
func WithMonitor(m monitoring.Monitor) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.monitor = m
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides the execution id generator.
func WithIDGenerator(f func() string) Option {
	return func(o *Orchestrator) {
		if f != nil {
			o.newID = f
		}
	}
}

// NewOrchestrator wires the two stages.
func NewOrchestrator(t CandidateTracker, a CandidateAuditor, cfg Config, opts ...Option) (*Orchestrator, error) {
	if t == nil || a == nil {
		return nil, fmt.Errorf("pipeline: nil parameter in NewOrchestrator")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Orchestrator{
		tracker: t,
		auditor: a,
		cfg:     cfg,
		log:     logger.Nop{},
		sink:    metrics.NopSink{},
		monitor: monitoring.Current(),
		latency: NewLatencyMonitor(cfg.LatencyWindow, cfg.Thresholds()),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Latency returns the latency monitor fed by every run.
func (o *Orchestrator) Latency() *LatencyMonitor { return o.latency }

// run is the state of one Execute call.
type run struct {
	id    string
	req   model.DispatchRequest
	start time.Time
	stage Stage
}

// Execute runs the pipeline for req. It returns either a complete decision
// record or a *PipelineError, never both. A blocked or rejected decision is
// a result, not an error.
func (o *Orchestrator) Execute(ctx context.Context, req model.DispatchRequest) (model.DispatchResponse, error) {
	r := &run{id: o.newID(), req: req.Normalize(), start: o.now(), stage: StageStarted}
	o.log.Debugw("pipeline started", map[string]any{
		"execution_id": r.id,
		"cargo_id":     r.req.CargoID,
		"radius_km":    r.req.RadiusKm,
		"top_k":        r.req.TopK,
	})

	if err := r.req.Validate(); err != nil {
		return model.DispatchResponse{}, o.fail(r, err)
	}

	r.stage = StageTracking
	tr, err := o.track(ctx, r)
	if err != nil {
		return model.DispatchResponse{}, o.fail(r, err)
	}
	if tr.Empty() {
		return model.DispatchResponse{}, o.fail(r, fmt.Errorf("%w within %.0f km", ErrNoCandidates, tr.RadiusKm))
	}

	r.stage = StageAuditing
	auditStart := o.now()
	ar, err := o.auditor.Audit(ctx, tr, r.req)
	o.observeStage(r, StageAuditing, o.now().Sub(auditStart))
	if err != nil {
		return model.DispatchResponse{}, o.fail(r, err)
	}

	r.stage = StageBlocked
	if ar.Status.Approved() {
		r.stage = StageApproved
	}
	resp := o.respond(r, tr, ar)
	o.record(r, tr, resp)
	return resp, nil
}

func (o *Orchestrator) track(ctx context.Context, r *run) (tracker.TrackingResult, error) {
	if o.cfg.EnforceDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.StageBudget())
		defer cancel()
	}
	start := o.now()
	tr, err := o.tracker.Track(ctx, r.req)
	o.observeStage(r, StageTracking, o.now().Sub(start))
	return tr, err
}

func (o *Orchestrator) observeStage(r *run, stage Stage, d time.Duration) {
	st := metrics.StageLatency{
		ExecutionID: r.id,
		Stage:       stage.String(),
		Duration:    d,
		Budget:      o.cfg.StageBudget(),
		Time:        o.now(),
	}
	if st.Exceeded() {
		stageBudgetExceeded.WithLabelValues(stage.String()).Inc()
		o.log.Warnf("execution %s: %s took %s, budget %s", r.id, stage, d, st.Budget)
	}
	if rec, ok := o.sink.(metrics.StageLatencyRecorder); ok {
		if err := rec.RecordStageLatency(st); err != nil {
			o.log.Warnf("record stage latency: %v", err)
		}
	}
}

func (o *Orchestrator) respond(r *run, tr tracker.TrackingResult, ar audit.AuditResult) model.DispatchResponse {
	var score *float64
	if ar.TargetPriceScore != nil {
		v := *ar.TargetPriceScore
		score = &v
	}
	criteria := make([]model.ValidationCriterion, len(ar.Criteria))
	copy(criteria, ar.Criteria)

	return model.DispatchResponse{
		CargoID:      r.req.CargoID,
		Asset:        ar.Candidate.Asset.Clone(),
		FreightValue: r.req.TargetPrice,
		Margin:       ar.Margin,
		Status:       ar.Status,
		ExecutionID:  r.id,
		TotalLatency: o.now().Sub(r.start),
		Metadata: model.ResponseMetadata{
			Exploration:      ar.Exploration,
			TargetPriceScore: score,
			BlockReason:      ar.Reason,
			FinalStage:       r.stage.String(),
			SearchMethod:     tr.Method,
			Candidates:       len(tr.Candidates),
			DistanceKm:       ar.Candidate.DistanceKm,
			VariableCost:     ar.VariableCost,
			Criteria:         criteria,
		},
	}
}

func (o *Orchestrator) record(r *run, tr tracker.TrackingResult, resp model.DispatchResponse) {
	class := o.latency.Observe(resp.TotalLatency)
	pipelineLatency.Observe(resp.TotalLatency.Seconds())
	decisionsTotal.WithLabelValues(resp.Status.String()).Inc()
	if class != LatencyOK {
		o.log.Warnf("execution %s latency %s is %s", r.id, resp.TotalLatency, class)
	}

	o.log.Infof("execution %s cargo %s: %s asset %s margin %.2f%% in %s",
		r.id, resp.CargoID, resp.Status, resp.Asset.Plate, resp.Margin*100, resp.TotalLatency)

	score := 0.0
	if resp.Metadata.TargetPriceScore != nil {
		score = *resp.Metadata.TargetPriceScore
	}
	if err := o.sink.RecordDecision(metrics.DecisionRecord{
		ExecutionID:      r.id,
		CargoID:          resp.CargoID,
		Plate:            resp.Asset.Plate,
		FleetType:        resp.Asset.FleetType,
		Status:           resp.Status,
		FreightValue:     resp.FreightValue,
		Margin:           resp.Margin,
		TargetPriceScore: score,
		Exploration:      resp.Metadata.Exploration,
		Candidates:       len(tr.Candidates),
		Latency:          resp.TotalLatency,
		Time:             o.now(),
	}); err != nil {
		o.log.Warnf("record decision: %v", err)
	}

	o.publish(events.DecisionEvent{
		ExecutionID: r.id,
		CargoID:     resp.CargoID,
		Plate:       resp.Asset.Plate,
		Status:      resp.Status,
		Margin:      resp.Margin,
		Exploration: resp.Metadata.Exploration,
		Latency:     resp.TotalLatency,
		Stage:       r.stage.String(),
		At:          o.now(),
	})
}

func (o *Orchestrator) fail(r *run, cause error) error {
	failedAt := r.stage
	r.stage = StageFailed
	latency := o.now().Sub(r.start)
	err := &PipelineError{ExecutionID: r.id, CargoID: r.req.CargoID, Stage: failedAt, Err: cause}

	pipelineFailures.WithLabelValues(failedAt.String()).Inc()
	pipelineLatency.Observe(latency.Seconds())
	o.latency.Observe(latency)
	o.log.Errorf("%v", err)
	o.monitor.CaptureException(err, map[string]string{
		"execution_id": r.id,
		"cargo_id":     r.req.CargoID,
		"stage":        failedAt.String(),
	})

	if rec, ok := o.sink.(metrics.FailureRecorder); ok {
		if rerr := rec.RecordFailure(metrics.FailureRecord{
			ExecutionID: r.id,
			CargoID:     r.req.CargoID,
			Stage:       failedAt.String(),
			Error:       cause.Error(),
			Latency:     latency,
			Time:        o.now(),
		}); rerr != nil {
			o.log.Warnf("record failure: %v", rerr)
		}
	}

	o.publish(events.DecisionEvent{
		ExecutionID: r.id,
		CargoID:     r.req.CargoID,
		Latency:     latency,
		Stage:       failedAt.String(),
		Err:         err,
		At:          o.now(),
	})
	return err
}

// publish must never block or fail the run.
func (o *Orchestrator) publish(ev events.DecisionEvent) {
	if o.bus == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			o.log.Errorf("event publisher panicked: %v", rec)
		}
	}()
	o.bus.Publish(ev)
}
