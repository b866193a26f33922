package audit

import (
	"context"
	"sync"
)

// defaultCapacity bounds the in-memory trail; the oldest events fall off.
const defaultCapacity = 512

// InMemoryStore keeps a bounded ring of recent events plus a per-applicant
// index for status lookups.
type InMemoryStore struct {
	mu          sync.RWMutex
	ring        []Event
	capacity    int
	byApplicant map[string][]Event
}

// NewInMemoryStore creates a store with the default capacity.
func NewInMemoryStore() *InMemoryStore {
	return NewInMemoryStoreWithCapacity(defaultCapacity)
}

// NewInMemoryStoreWithCapacity creates a store retaining at most capacity
// events in the ring. The per-applicant index is unbounded; acceptable for
// a single-guild bot.
func NewInMemoryStoreWithCapacity(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &InMemoryStore{
		capacity:    capacity,
		byApplicant: make(map[string][]Event),
	}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring = append(s.ring, event)
	if len(s.ring) > s.capacity {
		s.ring = s.ring[len(s.ring)-s.capacity:]
	}
	if event.ApplicantID != "" {
		s.byApplicant[event.ApplicantID] = append(s.byApplicant[event.ApplicantID], event)
	}
	return nil
}

func (s *InMemoryStore) Recent(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.ring) {
		limit = len(s.ring)
	}
	out := make([]Event, 0, limit)
	for i := len(s.ring) - 1; i >= len(s.ring)-limit; i-- {
		out = append(out, s.ring[i])
	}
	return out, nil
}

func (s *InMemoryStore) ListByApplicant(_ context.Context, applicantID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.byApplicant[applicantID]...), nil
}

// Clear drops all events. Test helper.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring = nil
	s.byApplicant = make(map[string][]Event)
}
