package geo

import (
	orbgeo "github.com/paulmach/orb/geo"

	"github.com/paulmach/orb"
)

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// DistanceKM returns the great-circle distance between two points in
// kilometers. Incomplete input yields nil rather than an error; the
// result is symmetric and never negative.
func DistanceKM(a, b *Coordinates) *float64 {
	if a == nil || b == nil {
		return nil
	}
	meters := orbgeo.Distance(
		orb.Point{a.Longitude, a.Latitude},
		orb.Point{b.Longitude, b.Latitude},
	)
	km := meters / 1000
	return &km
}
