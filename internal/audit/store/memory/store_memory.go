package memory

import (
	"context"
	"slices"
	"sync"

	"clinic/internal/audit"
	id "clinic/pkg/domain"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	events    []audit.Event
	byPatient map[id.NationalID][]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byPatient: make(map[id.NationalID][]int)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if event.PatientID != "" {
		s.byPatient[event.PatientID] = append(s.byPatient[event.PatientID], len(s.events)-1)
	}
	return nil
}

// ListByPatient returns the patient's events in append order.
func (s *InMemoryStore) ListByPatient(_ context.Context, patientID id.NationalID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.byPatient[patientID]
	out := make([]audit.Event, len(idx))
	for i, pos := range idx {
		out[i] = s.events[pos]
	}
	return out, nil
}

// ListAll returns every event in append order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.byPatient = make(map[id.NationalID][]int)
}
