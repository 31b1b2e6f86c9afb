package directory

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/kilianp07/freightdispatch/core/model"
)

// assetProperties is the property set of an asset feature. The geometry is
// a Point in [lon, lat] order.
type assetProperties struct {
	Plate               string            `json:"plate"`
	FleetType           model.FleetType   `json:"fleet_type"`
	DriverID            string            `json:"driver_id"`
	DriverName          string            `json:"driver_name"`
	Zone                string            `json:"zone,omitempty"`
	UpdatedAt           time.Time         `json:"updated_at,omitempty"`
	RiskStatus          model.RiskStatus  `json:"risk_status"`
	RiskExpiry          string            `json:"risk_expiry"` // YYYY-MM-DD
	SLARatio            float64           `json:"sla_ratio"`
	CostPerKm           float64           `json:"cost_per_km"`
	RegistrationDays    int               `json:"registration_days"`
	CompletedDeliveries int               `json:"completed_deliveries"`
	CapacityKg          float64           `json:"capacity_kg"`
	AcceptedTypes       []model.FleetType `json:"accepted_types,omitempty"`
}

// LoadGeoJSON reads a FeatureCollection of asset points and returns a
// snapshot directory tagged "geojson-snapshot".
func LoadGeoJSON(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("directory: read %s: %w", path, err)
	}
	assets, err := ParseGeoJSON(data)
	if err != nil {
		return nil, fmt.Errorf("directory: %s: %w", path, err)
	}
	m, err := NewMemory(assets)
	if err != nil {
		return nil, err
	}
	m.name = "geojson-snapshot"
	return m, nil
}

// ParseGeoJSON decodes asset features. Non point features are rejected.
func ParseGeoJSON(data []byte) ([]model.Asset, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	assets := make([]model.Asset, 0, len(fc.Features))
	for i, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("feature #%d: geometry %T is not a point", i, f.Geometry)
		}
		raw, err := json.Marshal(f.Properties)
		if err != nil {
			return nil, fmt.Errorf("feature #%d: %w", i, err)
		}
		var p assetProperties
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("feature #%d: properties: %w", i, err)
		}
		expiry, err := time.Parse(time.DateOnly, p.RiskExpiry)
		if err != nil {
			return nil, fmt.Errorf("feature #%d: risk_expiry: %w", i, err)
		}
		assets = append(assets, model.Asset{
			Plate:      p.Plate,
			FleetType:  p.FleetType,
			DriverID:   p.DriverID,
			DriverName: p.DriverName,
			Location: model.GeoPoint{
				Latitude:  pt.Lat(),
				Longitude: pt.Lon(),
				Zone:      p.Zone,
				UpdatedAt: p.UpdatedAt,
			},
			RiskStatus:          p.RiskStatus,
			RiskExpiry:          expiry,
			SLARatio:            p.SLARatio,
			CostPerKm:           p.CostPerKm,
			RegistrationDays:    p.RegistrationDays,
			CompletedDeliveries: p.CompletedDeliveries,
			CapacityKg:          p.CapacityKg,
			AcceptedTypes:       p.AcceptedTypes,
		})
	}
	return assets, nil
}

// MarshalGeoJSON encodes assets as a FeatureCollection readable by
// ParseGeoJSON.
func MarshalGeoJSON(assets []model.Asset) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, a := range assets {
		f := geojson.NewFeature(orb.Point{a.Location.Longitude, a.Location.Latitude})
		raw, err := json.Marshal(assetProperties{
			Plate:               a.Plate,
			FleetType:           a.FleetType,
			DriverID:            a.DriverID,
			DriverName:          a.DriverName,
			Zone:                a.Location.Zone,
			UpdatedAt:           a.Location.UpdatedAt,
			RiskStatus:          a.RiskStatus,
			RiskExpiry:          a.RiskExpiry.Format(time.DateOnly),
			SLARatio:            a.SLARatio,
			CostPerKm:           a.CostPerKm,
			RegistrationDays:    a.RegistrationDays,
			CompletedDeliveries: a.CompletedDeliveries,
			CapacityKg:          a.CapacityKg,
			AcceptedTypes:       a.AcceptedTypes,
		})
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &f.Properties); err != nil {
			return nil, err
		}
		fc.Append(f)
	}
	return json.MarshalIndent(fc, "", "  ")
}
