// README: Common value objects shared across modules.
package types

import "math"

// ID is an opaque entity identifier (user, driver, ride).
type ID string

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is a point plus the human-readable address the client supplied.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

func (l Location) Point() Point {
	return Point{Lat: l.Lat, Lng: l.Lng}
}

// Round2 rounds a monetary amount to 2 decimal places, half away from zero.
// All fare/fee arithmetic goes through this so splits stay consistent.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
