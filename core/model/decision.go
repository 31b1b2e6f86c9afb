package model

import (
	"fmt"
	"strings"
	"time"
)

// DispatchStatus is the final outcome of an audit.
type DispatchStatus int

const (
	StatusApproved DispatchStatus = iota
	StatusBlockedBySafety
	StatusBlockedByMargin
	StatusApprovedViaExploration
	StatusRejected
)

func (s DispatchStatus) String() string {
	switch s {
	case StatusApproved:
		return "approved"
	case StatusBlockedBySafety:
		return "blocked-by-safety"
	case StatusBlockedByMargin:
		return "blocked-by-margin"
	case StatusApprovedViaExploration:
		return "approved-via-exploration"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ParseDispatchStatus converts a canonical name back into a DispatchStatus.
func ParseDispatchStatus(s string) (DispatchStatus, error) {
	for _, st := range []DispatchStatus{StatusApproved, StatusBlockedBySafety, StatusBlockedByMargin, StatusApprovedViaExploration, StatusRejected} {
		if strings.EqualFold(strings.TrimSpace(s), st.String()) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown dispatch status %q", s)
}

// Approved reports whether the status assigns the asset.
func (s DispatchStatus) Approved() bool {
	return s == StatusApproved || s == StatusApprovedViaExploration
}

func (s DispatchStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *DispatchStatus) UnmarshalText(b []byte) error {
	v, err := ParseDispatchStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ValidationCriterion explains a single gate evaluation.
type ValidationCriterion struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Passed      bool    `json:"passed"`
	Detail      string  `json:"detail,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// ResponseMetadata carries the free-form part of the decision record.
type ResponseMetadata struct {
	Exploration      bool                  `json:"exploration"`
	TargetPriceScore *float64              `json:"target_price_score,omitempty"`
	BlockReason      string                `json:"block_reason,omitempty"`
	FinalStage       string                `json:"final_stage"`
	SearchMethod     string                `json:"search_method,omitempty"`
	Candidates       int                   `json:"candidates"`
	DistanceKm       float64               `json:"distance_km"`
	VariableCost     float64               `json:"variable_cost"`
	Criteria         []ValidationCriterion `json:"criteria,omitempty"`
}

// DispatchResponse is the immutable decision record of one pipeline run.
type DispatchResponse struct {
	CargoID      string           `json:"cargo_id"`
	Asset        Asset            `json:"asset"`
	FreightValue float64          `json:"freight_value"`
	Margin       float64          `json:"margin"`
	Status       DispatchStatus   `json:"status"`
	ExecutionID  string           `json:"execution_id"`
	TotalLatency time.Duration    `json:"total_latency_ns"`
	Metadata     ResponseMetadata `json:"metadata"`
}
