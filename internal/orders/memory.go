package orders

import (
	"context"
	"sync"
)

// InMemory implements Store with in-process concurrency safety. Used in
// tests and for DSN-less development runs.
type InMemory struct {
	mu   sync.RWMutex
	byID map[string]Order
}

var _ Store = (*InMemory)(nil)

// NewInMemory creates an empty order store.
func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[string]Order)}
}

func (s *InMemory) ListAll(ctx context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, 0, len(s.byID))
	for _, o := range s.byID {
		out = append(out, o.Clone())
	}
	return out, nil
}

func (s *InMemory) Get(ctx context.Context, id string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o.Clone(), nil
}

func (s *InMemory) Put(ctx context.Context, o Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[o.ID] = o.Clone()
	return nil
}

func (s *InMemory) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}
