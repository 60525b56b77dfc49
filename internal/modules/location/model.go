// README: Live driver location model.
package location

import (
	"time"

	"swiftride/internal/types"
)

type DriverLocation struct {
	DriverID  types.ID    `json:"driverId"`
	Position  types.Point `json:"position"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Nearby is a driver plus its distance from the query point.
type Nearby struct {
	DriverID   types.ID `json:"driverId"`
	DistanceKm float64  `json:"distanceKm"`
}
