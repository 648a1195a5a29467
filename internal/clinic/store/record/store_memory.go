package record

import (
	"context"
	"fmt"
	"sync"

	"clinic/internal/clinic/models"
	id "clinic/pkg/domain"
	"clinic/pkg/platform/sentinel"
)

// InMemoryStore holds one clinical record per patient national id.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.NationalID]*models.ClinicalRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.NationalID]*models.ClinicalRecord)}
}

func (s *InMemoryStore) Create(_ context.Context, r *models.ClinicalRecord) error {
	nid := r.Patient().NationalID()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[nid]; ok {
		return fmt.Errorf("clinical record %s: %w", nid, sentinel.ErrAlreadyUsed)
	}
	s.records[nid] = r
	return nil
}

func (s *InMemoryStore) FindByPatient(_ context.Context, nationalID id.NationalID) (*models.ClinicalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.records[nationalID]; ok {
		return r, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
