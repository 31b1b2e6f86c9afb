package app

import "github.com/kilianp07/freightdispatch/core/model"

var saoPaulo = model.GeoPoint{Latitude: -23.5505, Longitude: -46.6333, Zone: "SP-Capital"}

// SampleCargos returns the demo requests run by the simulate command.
func SampleCargos() []model.DispatchRequest {
	return []model.DispatchRequest{
		{
			CargoID:       "CARGA-2026-001",
			Origin:        saoPaulo,
			Destination:   model.GeoPoint{Latitude: -19.9191, Longitude: -43.9386, Zone: "MG-BH"},
			WeightKg:      18000,
			AcceptedTypes: []model.FleetType{model.FleetHeavyTrailer, model.FleetFlatbedTrailer},
			TargetPrice:   3500,
			SLAHours:      12,
			RadiusKm:      150,
			TopK:          10,
		},
		{
			CargoID:       "CARGA-2026-002",
			Origin:        saoPaulo,
			Destination:   model.GeoPoint{Latitude: -22.9068, Longitude: -43.1729, Zone: "RJ-Niteroi"},
			WeightKg:      12000,
			AcceptedTypes: []model.FleetType{model.FleetTruck, model.FleetFlatbedTrailer},
			TargetPrice:   2500,
			SLAHours:      8,
			RadiusKm:      120,
			TopK:          8,
		},
		{
			CargoID:       "CARGA-2026-003",
			Origin:        saoPaulo,
			Destination:   model.GeoPoint{Latitude: -23.1929, Longitude: -45.8617, Zone: "SP-Litoral"},
			WeightKg:      15000,
			AcceptedTypes: []model.FleetType{model.FleetHeavyTrailer},
			TargetPrice:   2800,
			SLAHours:      6,
			RadiusKm:      100,
			TopK:          5,
		},
	}
}
