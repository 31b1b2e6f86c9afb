// Package geo provides great-circle distance helpers.
package geo

import (
	"math"

	"github.com/kilianp07/freightdispatch/core/model"
)

// EarthRadiusKm is the mean Earth radius used for every distance in the pipeline.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometres between a and b.
func Haversine(a, b model.GeoPoint) float64 {
	return HaversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// HaversineKm is Haversine on raw coordinates in degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dPhi := toRad(lat2 - lat1)
	dLambda := toRad(lon2 - lon1)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// floating point can push h slightly outside [0,1] near antipodes
	h = math.Max(0, math.Min(1, h))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
