// README: Driver location store backed by Redis GEO.
package location

import (
	"context"

	"github.com/redis/go-redis/v9"

	"swiftride/internal/types"
)

const driverGeoKey = "location:drivers"

// Store keeps the live driver position set.
type Store interface {
	Upsert(ctx context.Context, id types.ID, pos types.Point) error
	Remove(ctx context.Context, id types.ID) error
	NearbyDrivers(ctx context.Context, p types.Point, radiusKm float64) ([]Nearby, error)
}

type RedisStore struct {
	redis *redis.Client
}

func NewRedisStore(redis *redis.Client) *RedisStore {
	return &RedisStore{redis: redis}
}

func (s *RedisStore) Upsert(ctx context.Context, id types.ID, pos types.Point) error {
	return s.redis.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      string(id),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

func (s *RedisStore) Remove(ctx context.Context, id types.ID) error {
	return s.redis.ZRem(ctx, driverGeoKey, string(id)).Err()
}

func (s *RedisStore) NearbyDrivers(ctx context.Context, p types.Point, radiusKm float64) ([]Nearby, error) {
	results, err := s.redis.GeoSearchLocation(ctx, driverGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  p.Lng,
			Latitude:   p.Lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithDist: true,
	}).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Nearby, len(results))
	for i, r := range results {
		out[i] = Nearby{DriverID: types.ID(r.Name), DistanceKm: r.Dist}
	}
	return out, nil
}
