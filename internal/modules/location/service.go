// README: Location service: live driver positions plus a haversine travel estimator.
package location

import (
	"context"

	"swiftride/internal/types"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Update(ctx context.Context, driverID types.ID, pos types.Point) error {
	return s.store.Upsert(ctx, driverID, pos)
}

func (s *Service) Remove(ctx context.Context, driverID types.ID) error {
	return s.store.Remove(ctx, driverID)
}

func (s *Service) NearbyDrivers(ctx context.Context, p types.Point, radiusKm float64) ([]Nearby, error) {
	return s.store.NearbyDrivers(ctx, p, radiusKm)
}

// DistanceKm is the great-circle distance between two points.
func DistanceKm(a, b types.Point) float64 {
	return haversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

// HaversineEstimator approximates travel time from straight-line distance at
// an assumed average city speed. It backs the trip estimator when no Maps API
// key is configured.
type HaversineEstimator struct {
	SpeedKmh float64
}

func (e HaversineEstimator) EstimateTravelTime(_ context.Context, from, to types.Point) (string, error) {
	speed := e.SpeedKmh
	if speed <= 0 {
		speed = 30
	}
	mins := int(haversineKm(from.Lat, from.Lng, to.Lat, to.Lng) / speed * 60)
	return formatMinutes(mins), nil
}
