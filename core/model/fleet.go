package model

import (
	"fmt"
	"strings"
)

// FleetType identifies the kind of vehicle an asset operates.
type FleetType int

const (
	FleetHeavyTrailer FleetType = iota
	FleetFlatbedTrailer
	FleetTruck
	FleetLightVehicle
)

// String returns the canonical name of the fleet type.
func (t FleetType) String() string {
	switch t {
	case FleetHeavyTrailer:
		return "heavy-trailer"
	case FleetFlatbedTrailer:
		return "flatbed-trailer"
	case FleetTruck:
		return "truck"
	case FleetLightVehicle:
		return "light-vehicle"
	default:
		return "unknown"
	}
}

// ParseFleetType converts a canonical name back into a FleetType.
func ParseFleetType(s string) (FleetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heavy-trailer":
		return FleetHeavyTrailer, nil
	case "flatbed-trailer":
		return FleetFlatbedTrailer, nil
	case "truck":
		return FleetTruck, nil
	case "light-vehicle":
		return FleetLightVehicle, nil
	}
	return 0, fmt.Errorf("unknown fleet type %q", s)
}

func (t FleetType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *FleetType) UnmarshalText(b []byte) error {
	v, err := ParseFleetType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// RiskStatus is the state of the risk-management (insurance) cover of an asset.
type RiskStatus int

const (
	RiskCurrent RiskStatus = iota
	RiskExpired
	RiskPending
	RiskBlocked
)

func (s RiskStatus) String() string {
	switch s {
	case RiskCurrent:
		return "current"
	case RiskExpired:
		return "expired"
	case RiskPending:
		return "pending"
	case RiskBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// ParseRiskStatus converts a canonical name back into a RiskStatus.
func ParseRiskStatus(s string) (RiskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current":
		return RiskCurrent, nil
	case "expired":
		return RiskExpired, nil
	case "pending":
		return RiskPending, nil
	case "blocked":
		return RiskBlocked, nil
	}
	return 0, fmt.Errorf("unknown risk status %q", s)
}

func (s RiskStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *RiskStatus) UnmarshalText(b []byte) error {
	v, err := ParseRiskStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
