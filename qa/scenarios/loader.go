package scenarios

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/freightdispatch/core/model"
)

type AssetDef struct {
	Plate            string  `yaml:"plate"`
	FleetType        string  `yaml:"fleet_type"`
	Latitude         float64 `yaml:"latitude"`
	Longitude        float64 `yaml:"longitude"`
	RiskStatus       string  `yaml:"risk_status"`
	RiskExpiry       string  `yaml:"risk_expiry"`
	SLARatio         float64 `yaml:"sla_ratio"`
	CostPerKm        float64 `yaml:"cost_per_km"`
	RegistrationDays int     `yaml:"registration_days"`
	CapacityKg       float64 `yaml:"capacity_kg"`
}

func (a AssetDef) ToModel() (model.Asset, error) {
	ft, err := model.ParseFleetType(a.FleetType)
	if err != nil {
		return model.Asset{}, err
	}
	rs, err := model.ParseRiskStatus(a.RiskStatus)
	if err != nil {
		return model.Asset{}, err
	}
	expiry, err := time.Parse(time.DateOnly, a.RiskExpiry)
	if err != nil {
		return model.Asset{}, fmt.Errorf("%s: risk_expiry: %w", a.Plate, err)
	}
	return model.Asset{
		Plate:            a.Plate,
		FleetType:        ft,
		DriverID:         "D-" + a.Plate,
		Location:         model.GeoPoint{Latitude: a.Latitude, Longitude: a.Longitude},
		RiskStatus:       rs,
		RiskExpiry:       expiry,
		SLARatio:         a.SLARatio,
		CostPerKm:        a.CostPerKm,
		RegistrationDays: a.RegistrationDays,
		CapacityKg:       a.CapacityKg,
	}, nil
}

type CargoDef struct {
	ID          string    `yaml:"id"`
	Origin      []float64 `yaml:"origin"`
	Destination []float64 `yaml:"destination"`
	WeightKg    float64   `yaml:"weight_kg"`
	Types       []string  `yaml:"types"`
	TargetPrice float64   `yaml:"target_price"`
	SLAHours    int       `yaml:"sla_hours"`
	RadiusKm    float64   `yaml:"radius_km"`
	TopK        int       `yaml:"top_k"`
}

func point(v []float64) (model.GeoPoint, error) {
	if len(v) != 2 {
		return model.GeoPoint{}, fmt.Errorf("expected [lat, lon], got %v", v)
	}
	return model.GeoPoint{Latitude: v[0], Longitude: v[1]}, nil
}

func (c CargoDef) ToModel() (model.DispatchRequest, error) {
	origin, err := point(c.Origin)
	if err != nil {
		return model.DispatchRequest{}, fmt.Errorf("origin: %w", err)
	}
	dest, err := point(c.Destination)
	if err != nil {
		return model.DispatchRequest{}, fmt.Errorf("destination: %w", err)
	}
	types := make([]model.FleetType, 0, len(c.Types))
	for _, s := range c.Types {
		ft, err := model.ParseFleetType(s)
		if err != nil {
			return model.DispatchRequest{}, err
		}
		types = append(types, ft)
	}
	return model.DispatchRequest{
		CargoID:       c.ID,
		Origin:        origin,
		Destination:   dest,
		WeightKg:      c.WeightKg,
		AcceptedTypes: types,
		TargetPrice:   c.TargetPrice,
		SLAHours:      c.SLAHours,
		RadiusKm:      c.RadiusKm,
		TopK:          c.TopK,
	}, nil
}

type Expected struct {
	Status    string  `yaml:"status,omitempty"`
	Plate     string  `yaml:"plate,omitempty"`
	MinMargin float64 `yaml:"min_margin,omitempty"`
	// FailedStage is set when the run must end in a pipeline error.
	FailedStage string `yaml:"failed_stage,omitempty"`
}

type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Today       string     `yaml:"today"`
	Assets      []AssetDef `yaml:"assets"`
	Cargo       CargoDef   `yaml:"cargo"`
	// ExplorationLimit caps new driver approvals, unlimited when absent.
	ExplorationLimit *int     `yaml:"exploration_limit,omitempty"`
	Expected         Expected `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario has no name", path)
	}
	return &sc, nil
}
