package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/freightdispatch/core/model"
	"github.com/kilianp07/freightdispatch/core/tracker"
)

// Gate identifies an audit check.
type Gate int

const (
	GateNone Gate = iota
	GateSafety
	GateMargin
	GateExploration
)

func (g Gate) String() string {
	switch g {
	case GateSafety:
		return "safety"
	case GateMargin:
		return "margin"
	case GateExploration:
		return "exploration"
	default:
		return "none"
	}
}

// Criterion names.
const (
	CriterionRiskCover   = "risk-cover"
	CriterionMargin      = "margin"
	CriterionExploration = "exploration-quota"
)

// Gate confidences.
const (
	safetyConfidence         = 1.0
	marginConfidence         = 0.95
	experiencedConfidence    = 1.0
	newDriverQuotaConfidence = 0.85
)

// SafetyCheck passes when the risk cover is current and today is not after
// the expiry date. The expiry day is covered in full, in the expiry's zone.
func SafetyCheck(a model.Asset, now time.Time) model.ValidationCriterion {
	passed := a.RiskStatus == model.RiskCurrent &&
		!a.RiskExpiry.IsZero() &&
		now.Before(endOfDay(a.RiskExpiry))

	expiry := a.RiskExpiry.Format(time.DateOnly)
	detail := fmt.Sprintf("risk cover %s until %s", a.RiskStatus, expiry)
	if !passed && a.RiskStatus == model.RiskCurrent {
		detail = fmt.Sprintf("risk cover expired on %s", expiry)
	}
	return model.ValidationCriterion{
		Name:        CriterionRiskCover,
		Description: "risk management cover must be current",
		Passed:      passed,
		Detail:      detail,
		Confidence:  safetyConfidence,
	}
}

// MarginCheck passes when margin is at least the minimum, boundary included.
func MarginCheck(margin, variableCost float64, cfg Config) model.ValidationCriterion {
	return model.ValidationCriterion{
		Name:        CriterionMargin,
		Description: fmt.Sprintf("contribution margin must be at least %.0f%%", cfg.MinMargin*100),
		Passed:      margin >= cfg.MinMargin,
		Detail:      fmt.Sprintf("margin %.2f%% (min %.2f%%), variable cost %.2f", margin*100, cfg.MinMargin*100, variableCost),
		Confidence:  marginConfidence,
	}
}

// ExplorationCheck lets experienced drivers through and makes new drivers
// consume an exploration slot. A quota backend error fails the gate.
func ExplorationCheck(ctx context.Context, c tracker.ScoredAsset, q ExplorationQuota, now time.Time, cfg Config) (model.ValidationCriterion, bool) {
	a := c.Asset
	if !a.IsNewDriver(cfg.NewDriverDays) {
		return model.ValidationCriterion{
			Name:        CriterionExploration,
			Description: "experienced driver, no quota restriction",
			Passed:      true,
			Detail:      fmt.Sprintf("experienced (%d days registered)", a.RegistrationDays),
			Confidence:  experiencedConfidence,
		}, false
	}

	ok, err := q.TryReserve(ctx, now)
	detail := fmt.Sprintf("new driver (%d days), exploration share %.0f%%", a.RegistrationDays, cfg.ExplorationShare*100)
	switch {
	case err != nil:
		explorationOutcomes.WithLabelValues("error").Inc()
		detail += fmt.Sprintf(", quota unavailable: %v", err)
	case !ok:
		explorationOutcomes.WithLabelValues("exhausted").Inc()
		detail += ", quota exhausted"
	default:
		explorationOutcomes.WithLabelValues("reserved").Inc()
	}
	passed := err == nil && ok
	return model.ValidationCriterion{
		Name:        CriterionExploration,
		Description: "new drivers draw from the daily exploration quota",
		Passed:      passed,
		Detail:      detail,
		Confidence:  newDriverQuotaConfidence,
	}, passed
}

// endOfDay returns the first instant of the day after t.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
