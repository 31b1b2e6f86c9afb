package directory

import (
	"time"

	"github.com/kilianp07/freightdispatch/core/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeedFleet returns the demo fleet around São Paulo. PQR-2468 carries an
// expired risk cover and MNO-9999 a newly registered driver.
func SeedFleet() []model.Asset {
	return []model.Asset{
		{
			Plate:               "ABC-1234",
			FleetType:           model.FleetHeavyTrailer,
			DriverID:            "MOT-001",
			DriverName:          "João Silva",
			Location:            model.GeoPoint{Latitude: -23.5505, Longitude: -46.6333, Zone: "SP-Capital"},
			RiskStatus:          model.RiskCurrent,
			RiskExpiry:          date(2027, time.June, 30),
			SLARatio:            0.95,
			CostPerKm:           30.50,
			RegistrationDays:    450,
			CompletedDeliveries: 2847,
			CapacityKg:          25000,
			AcceptedTypes:       []model.FleetType{model.FleetHeavyTrailer},
		},
		{
			Plate:               "XYZ-5678",
			FleetType:           model.FleetFlatbedTrailer,
			DriverID:            "MOT-002",
			DriverName:          "Maria Santos",
			Location:            model.GeoPoint{Latitude: -23.4729, Longitude: -46.5550, Zone: "SP-Capital"},
			RiskStatus:          model.RiskCurrent,
			RiskExpiry:          date(2027, time.August, 15),
			SLARatio:            0.92,
			CostPerKm:           28.00,
			RegistrationDays:    320,
			CompletedDeliveries: 1654,
			CapacityKg:          20000,
			AcceptedTypes:       []model.FleetType{model.FleetFlatbedTrailer},
		},
		{
			Plate:               "MNO-9999",
			FleetType:           model.FleetTruck,
			DriverID:            "MOT-003",
			DriverName:          "Leonardo Silva",
			Location:            model.GeoPoint{Latitude: -23.5580, Longitude: -46.6720, Zone: "SP-Capital"},
			RiskStatus:          model.RiskCurrent,
			RiskExpiry:          date(2027, time.September, 20),
			SLARatio:            0.88,
			CostPerKm:           32.75,
			RegistrationDays:    18,
			CompletedDeliveries: 45,
			CapacityKg:          15000,
			AcceptedTypes:       []model.FleetType{model.FleetTruck},
		},
		{
			Plate:               "PQR-2468",
			FleetType:           model.FleetHeavyTrailer,
			DriverID:            "MOT-004",
			DriverName:          "José Oliveira",
			Location:            model.GeoPoint{Latitude: -23.3815, Longitude: -46.7394, Zone: "SP-ABC"},
			RiskStatus:          model.RiskExpired,
			RiskExpiry:          date(2025, time.December, 15),
			SLARatio:            0.91,
			CostPerKm:           31.20,
			RegistrationDays:    680,
			CompletedDeliveries: 3421,
			CapacityKg:          25000,
			AcceptedTypes:       []model.FleetType{model.FleetHeavyTrailer},
		},
		{
			Plate:               "STU-3579",
			FleetType:           model.FleetFlatbedTrailer,
			DriverID:            "MOT-005",
			DriverName:          "Marcos Costa",
			Location:            model.GeoPoint{Latitude: -23.4200, Longitude: -46.4700, Zone: "SP-Leste"},
			RiskStatus:          model.RiskCurrent,
			RiskExpiry:          date(2027, time.July, 10),
			SLARatio:            0.93,
			CostPerKm:           27.50,
			RegistrationDays:    250,
			CompletedDeliveries: 1456,
			CapacityKg:          18000,
			AcceptedTypes:       []model.FleetType{model.FleetFlatbedTrailer},
		},
	}
}
