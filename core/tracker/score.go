package tracker

import "math"

// UnknownDistanceKm replaces a distance that could not be computed.
const UnknownDistanceKm = 50.0

// Weights of the efficiency score.
const (
	distanceWeight = 0.5
	slaWeight      = 0.3
	marginWeight   = 0.2
	marginFloor    = 0.3
)

// EfficiencyScore ranks a candidate:
//
//	0.5/distance + 0.3*sla + 0.2*max(0.3, max(0, (price-cost*distance)/price))
//
// A zero distance counts as a distance factor of 1. A zero or unknown
// distance is priced as UnknownDistanceKm in the trip cost.
func EfficiencyScore(distanceKm, slaRatio, costPerKm, targetPrice float64) float64 {
	distanceFactor := 1.0
	if distanceKm > 0 {
		distanceFactor = 1 / distanceKm
	}

	tripCost := costPerKm * CostDistance(distanceKm)
	marginBase := 0.0
	if targetPrice > 0 {
		marginBase = math.Max(0, (targetPrice-tripCost)/targetPrice)
	}
	marginScore := math.Max(marginFloor, marginBase)

	return distanceWeight*distanceFactor + slaWeight*slaRatio + marginWeight*marginScore
}

// CostDistance is the distance used to price a trip.
func CostDistance(distanceKm float64) float64 {
	if math.IsNaN(distanceKm) || distanceKm <= 0 {
		return UnknownDistanceKm
	}
	return distanceKm
}
