package model

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

const (
	DefaultRadiusKm = 150
	DefaultTopK     = 10
)

// ErrInvalidRequest is wrapped by every DispatchRequest validation failure.
var ErrInvalidRequest = errors.New("invalid dispatch request")

// DispatchRequest describes a cargo that needs an asset.
type DispatchRequest struct {
	CargoID       string      `json:"cargo_id"`
	Origin        GeoPoint    `json:"origin"`
	Destination   GeoPoint    `json:"destination"`
	WeightKg      float64     `json:"weight_kg"`
	AcceptedTypes []FleetType `json:"accepted_types"`
	TargetPrice   float64     `json:"target_price"`
	SLAHours      int         `json:"sla_hours"`
	RadiusKm      float64     `json:"radius_km"`
	TopK          int         `json:"top_k"`
}

// Normalize trims the cargo id and applies the default radius and top-K when
// they are left to their zero value.
func (r DispatchRequest) Normalize() DispatchRequest {
	r.CargoID = strings.TrimSpace(r.CargoID)
	if r.RadiusKm == 0 {
		r.RadiusKm = DefaultRadiusKm
	}
	if r.TopK == 0 {
		r.TopK = DefaultTopK
	}
	r.AcceptedTypes = slices.Clone(r.AcceptedTypes)
	return r
}

// positive rejects NaN and infinities along with non positive values.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Validate checks the request fields. It expects a normalized request.
func (r DispatchRequest) Validate() error {
	var errs []error
	if strings.TrimSpace(r.CargoID) == "" {
		errs = append(errs, errors.New("cargo id must not be empty"))
	}
	if err := r.Origin.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("origin: %w", err))
	}
	if err := r.Destination.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("destination: %w", err))
	}
	if !positive(r.WeightKg) {
		errs = append(errs, errors.New("weight must be positive"))
	}
	if len(r.AcceptedTypes) == 0 {
		errs = append(errs, errors.New("at least one accepted fleet type is required"))
	}
	if !positive(r.TargetPrice) {
		errs = append(errs, errors.New("target price must be positive"))
	}
	if r.SLAHours <= 0 {
		errs = append(errs, errors.New("sla hours must be positive"))
	}
	if !positive(r.RadiusKm) {
		errs = append(errs, errors.New("search radius must be positive"))
	}
	if r.TopK < 1 {
		errs = append(errs, errors.New("top-k must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, errors.Join(errs...))
	}
	return nil
}

// Accepts reports whether the fleet type is in the accepted set.
func (r DispatchRequest) Accepts(t FleetType) bool {
	return slices.Contains(r.AcceptedTypes, t)
}
