package doctor

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"clinic/internal/clinic/models"
	id "clinic/pkg/domain"
	"clinic/pkg/platform/sentinel"
)

// InMemoryStore keeps doctors keyed by license and remembers registration
// order for listings.
type InMemoryStore struct {
	mu      sync.RWMutex
	doctors map[id.License]*models.Doctor
	order   []*models.Doctor
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{doctors: make(map[id.License]*models.Doctor)}
}

// Create stores d unless its license is already registered.
func (s *InMemoryStore) Create(_ context.Context, d *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doctors[d.License()]; ok {
		return fmt.Errorf("doctor %s: %w", d.License(), sentinel.ErrAlreadyUsed)
	}
	s.doctors[d.License()] = d
	s.order = append(s.order, d)
	return nil
}

func (s *InMemoryStore) FindByLicense(_ context.Context, license id.License) (*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.doctors[license]; ok {
		return d, nil
	}
	return nil, sentinel.ErrNotFound
}

// List returns doctors in registration order.
func (s *InMemoryStore) List(_ context.Context) ([]*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order), nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}
