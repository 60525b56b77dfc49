// README: In-memory ride store; mirrors the Postgres CAS semantics under one mutex.
package ride

import (
	"context"
	"sort"
	"sync"
	"time"

	"swiftride/internal/types"
)

type MemoryStore struct {
	mu    sync.Mutex
	rides map[types.ID]*Ride
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rides: make(map[types.ID]*Ride)}
}

func (s *MemoryStore) Create(_ context.Context, r *Ride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.rides[r.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id types.ID) (*Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rides[id]
	if !ok {
		return nil, ErrRideNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id types.ID, from, to Status, version int, driverID *types.ID, cancelledBy string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rides[id]
	if !ok {
		return false, nil
	}
	// The status and version checks together are the compare half of the CAS.
	if r.Status != from || r.StatusVersion != version {
		return false, nil
	}
	r.Status = to
	r.StatusVersion++
	if driverID != nil {
		d := *driverID
		r.DriverID = &d
	}
	if cancelledBy != "" {
		r.CancelledBy = cancelledBy
	}
	r.UpdatedAt = time.Now()
	return true, nil
}

func (s *MemoryStore) ActiveForIdentity(_ context.Context, identity types.ID, isDriver bool, since time.Time) (*Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *Ride
	for _, r := range s.rides {
		if !ownedBy(r, identity, isDriver) {
			continue
		}
		if r.Status != StatusAccepted && r.Status != StatusOngoing {
			continue
		}
		if r.CreatedAt.Before(since) {
			continue
		}
		if best == nil || r.CreatedAt.After(best.CreatedAt) {
			best = r
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (s *MemoryStore) ListByIdentity(_ context.Context, identity types.ID, isDriver bool, status Status) ([]*Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Ride
	for _, r := range s.rides {
		if !ownedBy(r, identity, isDriver) {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) ListStaleRequested(_ context.Context, before time.Time) ([]*Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Ride
	for _, r := range s.rides {
		if r.Status == StatusRequested && r.CreatedAt.Before(before) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func ownedBy(r *Ride, identity types.ID, isDriver bool) bool {
	if isDriver {
		return r.DriverID != nil && *r.DriverID == identity
	}
	return r.UserID == identity
}
