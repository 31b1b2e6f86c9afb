package model

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() DispatchRequest {
	return DispatchRequest{
		CargoID:       "  CARGO-1  ",
		Origin:        GeoPoint{Latitude: -23.5505, Longitude: -46.6333},
		Destination:   GeoPoint{Latitude: -19.9191, Longitude: -43.9386},
		WeightKg:      18000,
		AcceptedTypes: []FleetType{FleetHeavyTrailer, FleetFlatbedTrailer},
		TargetPrice:   3500,
		SLAHours:      12,
	}
}

func TestNormalizeDefaults(t *testing.T) {
	r := validRequest().Normalize()
	if r.CargoID != "CARGO-1" {
		t.Fatalf("cargo id not trimmed: %q", r.CargoID)
	}
	if r.RadiusKm != DefaultRadiusKm || r.TopK != DefaultTopK {
		t.Fatalf("defaults not applied: radius=%v topk=%d", r.RadiusKm, r.TopK)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	in := validRequest()
	in.RadiusKm = 80
	in.TopK = 3
	r := in.Normalize()
	assert.Equal(t, 80.0, r.RadiusKm)
	assert.Equal(t, 3, r.TopK)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*DispatchRequest){
		"empty cargo":     func(r *DispatchRequest) { r.CargoID = "   " },
		"zero weight":     func(r *DispatchRequest) { r.WeightKg = 0 },
		"no types":        func(r *DispatchRequest) { r.AcceptedTypes = nil },
		"negative price":  func(r *DispatchRequest) { r.TargetPrice = -1 },
		"zero sla":        func(r *DispatchRequest) { r.SLAHours = 0 },
		"negative radius": func(r *DispatchRequest) { r.RadiusKm = -5 },
		"negative topk":   func(r *DispatchRequest) { r.TopK = -1 },
		"nan weight":      func(r *DispatchRequest) { r.WeightKg = math.NaN() },
		"nan price":       func(r *DispatchRequest) { r.TargetPrice = math.NaN() },
		"nan radius":      func(r *DispatchRequest) { r.RadiusKm = math.NaN() },
		"infinite radius": func(r *DispatchRequest) { r.RadiusKm = math.Inf(1) },
		"infinite weight": func(r *DispatchRequest) { r.WeightKg = math.Inf(1) },
		"nan origin":      func(r *DispatchRequest) { r.Origin.Latitude = math.NaN() },
		"bad latitude":    func(r *DispatchRequest) { r.Origin.Latitude = 91 },
		"bad longitude":   func(r *DispatchRequest) { r.Destination.Longitude = -181 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := validRequest()
			mutate(&r)
			err := r.Normalize().Validate()
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestAccepts(t *testing.T) {
	r := validRequest()
	assert.True(t, r.Accepts(FleetHeavyTrailer))
	assert.False(t, r.Accepts(FleetTruck))
}

func TestAssetNewDriverThreshold(t *testing.T) {
	a := Asset{RegistrationDays: 29}
	assert.True(t, a.IsNewDriver(30))
	a.RegistrationDays = 30
	assert.False(t, a.IsNewDriver(30))
}

func TestAssetValidate(t *testing.T) {
	a := Asset{Plate: "ABC-1234", SLARatio: 0.95, CostPerKm: 30.5, CapacityKg: 25000}
	require.NoError(t, a.Validate())

	a.SLARatio = 1.2
	assert.Error(t, a.Validate())
	a.SLARatio = 0.9
	a.CostPerKm = 0
	assert.Error(t, a.Validate())
	a.CostPerKm = math.NaN()
	assert.Error(t, a.Validate())
	a.CostPerKm = 1
	a.SLARatio = math.NaN()
	assert.Error(t, a.Validate())
	a.SLARatio = 0.9
	a.Plate = ""
	assert.Error(t, a.Validate())
}

func TestAssetCloneIsIndependent(t *testing.T) {
	a := Asset{Plate: "X", AcceptedTypes: []FleetType{FleetTruck}}
	c := a.Clone()
	c.AcceptedTypes[0] = FleetLightVehicle
	assert.Equal(t, FleetTruck, a.AcceptedTypes[0])
}

func TestEnumJSON(t *testing.T) {
	resp := DispatchResponse{
		CargoID: "C",
		Asset:   Asset{Plate: "P", FleetType: FleetFlatbedTrailer, RiskStatus: RiskExpired},
		Status:  StatusApprovedViaExploration,
	}
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"status":"approved-via-exploration"`)
	assert.Contains(t, string(b), `"fleet_type":"flatbed-trailer"`)
	assert.Contains(t, string(b), `"risk_status":"expired"`)

	var back DispatchResponse
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, resp.Status, back.Status)
	assert.Equal(t, resp.Asset.FleetType, back.Asset.FleetType)
}

func TestParseUnknown(t *testing.T) {
	if _, err := ParseFleetType("zeppelin"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := ParseRiskStatus("maybe"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := ParseDispatchStatus("sort-of"); err == nil {
		t.Fatal("expected error")
	}
}

func TestStatusApproved(t *testing.T) {
	assert.True(t, StatusApproved.Approved())
	assert.True(t, StatusApprovedViaExploration.Approved())
	assert.False(t, StatusBlockedBySafety.Approved())
	assert.False(t, StatusBlockedByMargin.Approved())
	assert.False(t, StatusRejected.Approved())
}
