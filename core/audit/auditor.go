package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/freightdispatch/core/logger"
	"github.com/kilianp07/freightdispatch/core/model"
	"github.com/kilianp07/freightdispatch/core/tracker"
)

// RejectionReason is stamped on results where no candidate passed.
const RejectionReason = "no candidate passed all validations"

// CandidateAudit is the trail of one evaluated candidate.
type CandidateAudit struct {
	Plate        string
	Criteria     []model.ValidationCriterion
	FailedGate   Gate
	VariableCost float64
	Margin       float64
}

// AuditResult is the outcome of scanning the ranked candidates.
//
// Approved results always carry a passed risk-cover criterion and a margin of
// at least the configured minimum. Rejections reference the first candidate
// for diagnostics only.
type AuditResult struct {
	Candidate        tracker.ScoredAsset
	Status           model.DispatchStatus
	Criteria         []model.ValidationCriterion
	TargetPrice      float64
	VariableCost     float64
	Margin           float64
	TargetPriceScore *float64
	Exploration      bool
	Reason           string
	Latency          time.Duration
	Attempts         []CandidateAudit
}

// Auditor walks ranked candidates and returns the first one passing the
// safety, margin and exploration gates.
type Auditor struct {
	cfg   Config
	quota ExplorationQuota
	log   logger.Logger
	now   func() time.Time
}

// Option customises an Auditor.
type Option func(*Auditor)

// WithQuota sets the exploration quota. The default never runs out.
func WithQuota(q ExplorationQuota) Option {
	return func(a *Auditor) {
		if q != nil {
			a.quota = q
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Auditor) { a.log = logger.OrNop(l) }
}

// WithClock overrides time.Now for the risk cover date and the quota day.
func WithClock(now func() time.Time) Option {
	return func(a *Auditor) {
		if now != nil {
			a.now = now
		}
	}
}

// New builds an Auditor. Zero config fields take their defaults.
func New(cfg Config, opts ...Option) (*Auditor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Auditor{cfg: cfg, quota: UnlimitedQuota{}, log: logger.Nop{}, now: time.Now}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// Config returns the effective configuration.
func (a *Auditor) Config() Config { return a.cfg }

// Audit evaluates tr.Candidates in order. It never re-sorts them and stops at
// the first candidate passing every gate.
func (a *Auditor) Audit(ctx context.Context, tr tracker.TrackingResult, req model.DispatchRequest) (res AuditResult, err error) {
	if len(tr.Candidates) == 0 {
		a.log.Errorf("audit called without candidates for cargo %s", req.CargoID)
		return AuditResult{}, ErrNoCandidates
	}

	start := a.now()
	var current string
	defer func() {
		if r := recover(); r != nil {
			res = AuditResult{}
			err = &AuditError{CargoID: req.CargoID, Plate: current, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	attempts := make([]CandidateAudit, 0, len(tr.Candidates))
	for i, c := range tr.Candidates {
		current = c.Asset.Plate
		a.log.Debugf("auditing candidate %d/%d %s for cargo %s", i+1, len(tr.Candidates), c.Asset.Plate, req.CargoID)

		att, approved := a.evaluate(ctx, c, req, start)
		attempts = append(attempts, att)
		if approved == nil {
			gateFailures.WithLabelValues(att.FailedGate.String()).Inc()
			continue
		}

		approved.Attempts = attempts
		approved.Latency = a.now().Sub(start)
		a.log.Infof("approved %s for cargo %s: margin %.2f%%, new driver %t, status %s",
			c.Asset.Plate, req.CargoID, approved.Margin*100, approved.Exploration, approved.Status)
		return *approved, nil
	}

	res = a.reject(tr.Candidates[0], req, attempts)
	res.Latency = a.now().Sub(start)
	a.log.Warnf("cargo %s %s: %s after %d candidates", req.CargoID, res.Status, RejectionReason, len(attempts))
	return res, nil
}

// evaluate runs the gates for one candidate. It returns a non nil result only
// when every gate passed.
func (a *Auditor) evaluate(ctx context.Context, c tracker.ScoredAsset, req model.DispatchRequest, now time.Time) (CandidateAudit, *AuditResult) {
	att := CandidateAudit{Plate: c.Asset.Plate}

	safety := SafetyCheck(c.Asset, now)
	att.Criteria = append(att.Criteria, safety)
	if !safety.Passed {
		att.FailedGate = GateSafety
		a.log.Warnf("candidate %s blocked: %s", c.Asset.Plate, safety.Detail)
		return att, nil
	}

	att.VariableCost = VariableCost(c.Asset, c.DistanceKm, a.cfg)
	att.Margin = Margin(req.TargetPrice, att.VariableCost)
	margin := MarginCheck(att.Margin, att.VariableCost, a.cfg)
	att.Criteria = append(att.Criteria, margin)
	if !margin.Passed {
		att.FailedGate = GateMargin
		a.log.Infof("candidate %s below minimum margin: %s", c.Asset.Plate, margin.Detail)
		return att, nil
	}

	exploration, reserved := ExplorationCheck(ctx, c, a.quota, now, a.cfg)
	att.Criteria = append(att.Criteria, exploration)
	if !exploration.Passed {
		att.FailedGate = GateExploration
		a.log.Infof("candidate %s skipped: %s", c.Asset.Plate, exploration.Detail)
		return att, nil
	}

	score := TargetPriceAdherence(att.Margin, a.cfg.TargetMargin)
	status := model.StatusApproved
	if reserved {
		status = model.StatusApprovedViaExploration
	}
	return att, &AuditResult{
		Candidate:        c,
		Status:           status,
		Criteria:         att.Criteria,
		TargetPrice:      req.TargetPrice,
		VariableCost:     att.VariableCost,
		Margin:           att.Margin,
		TargetPriceScore: &score,
		Exploration:      reserved,
	}
}

func (a *Auditor) reject(first tracker.ScoredAsset, req model.DispatchRequest, attempts []CandidateAudit) AuditResult {
	status := model.StatusRejected
	switch {
	case allFailedAt(attempts, GateSafety):
		status = model.StatusBlockedBySafety
	case allFailedAt(attempts, GateMargin):
		status = model.StatusBlockedByMargin
	}
	return AuditResult{
		Candidate:    first,
		Status:       status,
		Criteria:     attempts[0].Criteria,
		TargetPrice:  req.TargetPrice,
		VariableCost: VariableCost(first.Asset, first.DistanceKm, a.cfg),
		Margin:       0,
		Reason:       RejectionReason,
		Attempts:     attempts,
	}
}

func allFailedAt(attempts []CandidateAudit, g Gate) bool {
	for _, at := range attempts {
		if at.FailedGate != g {
			return false
		}
	}
	return len(attempts) > 0
}
