// README: In-memory driver location index used without Redis and in tests.
package location

import (
	"context"
	"sync"
	"time"

	"swiftride/internal/types"
)

type MemoryStore struct {
	mu      sync.RWMutex
	drivers map[types.ID]DriverLocation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drivers: make(map[types.ID]DriverLocation)}
}

func (s *MemoryStore) Upsert(_ context.Context, id types.ID, pos types.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers[id] = DriverLocation{DriverID: id, Position: pos, UpdatedAt: time.Now()}
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, id types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drivers, id)
	return nil
}

func (s *MemoryStore) NearbyDrivers(_ context.Context, p types.Point, radiusKm float64) ([]Nearby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Nearby
	for id, loc := range s.drivers {
		d := haversineKm(p.Lat, p.Lng, loc.Position.Lat, loc.Position.Lng)
		if d <= radiusKm {
			out = append(out, Nearby{DriverID: id, DistanceKm: d})
		}
	}
	sortByDistance(out, func(n Nearby) float64 { return n.DistanceKm })
	return out, nil
}
