package auth

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tranghoa.org/internal/orders"
)

// InMemoryAccountStore implements AccountStore for tests and DSN-less
// development runs.
type InMemoryAccountStore struct {
	mu   sync.RWMutex
	byID map[string]Account
}

var _ AccountStore = (*InMemoryAccountStore)(nil)

// NewInMemoryAccountStore creates an empty account store.
func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{byID: make(map[string]Account)}
}

func (s *InMemoryAccountStore) Create(ctx context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if strings.EqualFold(existing.Email, a.Email) {
			return ErrConflict
		}
	}
	s.byID[a.ID] = *a
	return nil
}

func (s *InMemoryAccountStore) Find(ctx context.Context, id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := a
	return &out, nil
}

func (s *InMemoryAccountStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.byID {
		if strings.EqualFold(a.Email, email) {
			out := a
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryAccountStore) List(ctx context.Context) ([]*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Account, 0, len(s.byID))
	for _, a := range s.byID {
		acc := a
		out = append(out, &acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *InMemoryAccountStore) UpdateRoleStation(ctx context.Context, id string, role orders.Role, station orders.Station) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.Role = role
	a.Station = station
	s.byID[id] = a
	return nil
}

func (s *InMemoryAccountStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}
