// README: In-memory identity store used without a DSN and in tests.
package identity

import (
	"context"
	"sync"

	"swiftride/internal/types"
)

type MemoryStore struct {
	mu      sync.RWMutex
	users   map[types.ID]*User
	drivers map[types.ID]*Driver
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[types.ID]*User),
		drivers: make(map[types.ID]*Driver),
	}
}

func (s *MemoryStore) PutUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

func (s *MemoryStore) PutDriver(d *Driver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.drivers[d.ID] = &cp
}

func (s *MemoryStore) GetUser(_ context.Context, id types.ID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) GetDriver(_ context.Context, id types.ID) (*Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drivers[id]
	if !ok {
		return nil, ErrDriverNotFound
	}
	cp := *d
	return &cp, nil
}
