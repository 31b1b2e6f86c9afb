package model

import (
	"fmt"
	"slices"
	"time"
)

// Asset is a dispatchable vehicle and driver unit as published by the asset
// directory. The pipeline treats it as read-only reference data: request
// scoped values such as the distance to the origin live on tracker.ScoredAsset.
type Asset struct {
	Plate      string    `json:"plate"`
	FleetType  FleetType `json:"fleet_type"`
	DriverID   string    `json:"driver_id"`
	DriverName string    `json:"driver_name"`
	Location   GeoPoint  `json:"location"`

	RiskStatus RiskStatus `json:"risk_status"`
	RiskExpiry time.Time  `json:"risk_expiry"`

	SLARatio            float64 `json:"sla_ratio"`   // historical SLA compliance in [0,1]
	CostPerKm           float64 `json:"cost_per_km"` // base operating cost per km
	RegistrationDays    int     `json:"registration_days"`
	CompletedDeliveries int     `json:"completed_deliveries"`

	CapacityKg    float64     `json:"capacity_kg"`
	AcceptedTypes []FleetType `json:"accepted_types,omitempty"`
}

// Validate checks that the asset snapshot is usable by the pipeline.
func (a Asset) Validate() error {
	if a.Plate == "" {
		return fmt.Errorf("plate is required")
	}
	if err := a.Location.Validate(); err != nil {
		return fmt.Errorf("asset %s: %w", a.Plate, err)
	}
	if !(a.SLARatio >= 0 && a.SLARatio <= 1) {
		return fmt.Errorf("asset %s: sla ratio %v out of range [0,1]", a.Plate, a.SLARatio)
	}
	if !positive(a.CostPerKm) {
		return fmt.Errorf("asset %s: cost per km must be positive", a.Plate)
	}
	if a.CapacityKg < 0 {
		return fmt.Errorf("asset %s: capacity must not be negative", a.Plate)
	}
	return nil
}

// IsNewDriver reports whether the driver registration is younger than the
// given threshold in days.
func (a Asset) IsNewDriver(thresholdDays int) bool {
	return a.RegistrationDays < thresholdDays
}

// Clone returns a copy that shares no mutable state with a.
func (a Asset) Clone() Asset {
	a.AcceptedTypes = slices.Clone(a.AcceptedTypes)
	return a
}
