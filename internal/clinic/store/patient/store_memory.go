package patient

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"clinic/internal/clinic/models"
	id "clinic/pkg/domain"
	"clinic/pkg/platform/sentinel"
)

// InMemoryStore keeps patients keyed by national id and remembers
// registration order for listings.
type InMemoryStore struct {
	mu       sync.RWMutex
	patients map[id.NationalID]*models.Patient
	order    []*models.Patient
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{patients: make(map[id.NationalID]*models.Patient)}
}

// Create stores p unless its national id is already registered.
func (s *InMemoryStore) Create(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[p.NationalID()]; ok {
		return fmt.Errorf("patient %s: %w", p.NationalID(), sentinel.ErrAlreadyUsed)
	}
	s.patients[p.NationalID()] = p
	s.order = append(s.order, p)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, nationalID id.NationalID) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.patients[nationalID]; ok {
		return p, nil
	}
	return nil, sentinel.ErrNotFound
}

// List returns patients in registration order.
func (s *InMemoryStore) List(_ context.Context) ([]*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order), nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}
