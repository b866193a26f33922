// Package store holds pending citizenship applications. The mapping is the
// single source of truth for "pending" state: resolved applications are
// evicted and only survive in tracker history and the audit trail.
package store

import (
	"context"
	"sort"
	"sync"

	"consulate/internal/citizenship"
)

// InMemory keeps pending applications in a map keyed by applicant id.
// State is process-local and intentionally dropped on restart. Duplicate
// prevention is the lifecycle service's responsibility; Put overwrites.
type InMemory struct {
	mu   sync.RWMutex
	apps map[string]*citizenship.Application
}

// NewInMemory creates an empty in-memory application store.
func NewInMemory() *InMemory {
	return &InMemory{apps: make(map[string]*citizenship.Application)}
}

// Put inserts the application under its applicant id.
func (s *InMemory) Put(_ context.Context, app *citizenship.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[app.ApplicantID] = app
}

// Get looks up the pending application for an applicant.
func (s *InMemory) Get(_ context.Context, applicantID string) (*citizenship.Application, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[applicantID]
	return app, ok
}

// Remove deletes the applicant's record and reports whether one existed.
// Removing an absent applicant is a no-op.
func (s *InMemory) Remove(_ context.Context, applicantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.apps[applicantID]
	delete(s.apps, applicantID)
	return ok
}

// Len returns the number of pending applications.
func (s *InMemory) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.apps)
}

// Pending returns all pending applications ordered by submission time,
// oldest first. The slice is a copy; the records are shared.
func (s *InMemory) Pending(_ context.Context) []*citizenship.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*citizenship.Application, 0, len(s.apps))
	for _, app := range s.apps {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}
