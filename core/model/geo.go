package model

import (
	"fmt"
	"math"
	"time"
)

// GeoPoint is a captured position. It is passed by value and never modified
// once attached to a request or an asset snapshot.
type GeoPoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Zone      string    `json:"zone,omitempty"`       // logistics zone label, e.g. "SP-Capital"
	UpdatedAt time.Time `json:"updated_at,omitempty"` // last GPS update
}

// Validate checks the coordinate ranges.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
		return fmt.Errorf("coordinates must be numbers")
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]", p.Longitude)
	}
	return nil
}
