package appointment

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"clinic/internal/clinic/models"
	id "clinic/pkg/domain"
	"clinic/pkg/platform/sentinel"
)

// InMemoryStore keeps the global appointment list in scheduling order plus a
// per-doctor slot index. A slot is the exact scheduled instant.
type InMemoryStore struct {
	mu           sync.RWMutex
	appointments []*models.Appointment
	byID         map[id.AppointmentID]*models.Appointment
	slots        map[id.License]map[int64]*models.Appointment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:  make(map[id.AppointmentID]*models.Appointment),
		slots: make(map[id.License]map[int64]*models.Appointment),
	}
}

// CreateIfSlotAvailable appends a unless the doctor already holds an
// appointment at the same instant. The check and insert are atomic.
func (s *InMemoryStore) CreateIfSlotAvailable(_ context.Context, a *models.Appointment) error {
	license := a.Doctor().License()
	key := slotKey(a)

	s.mu.Lock()
	defer s.mu.Unlock()
	bySlot, ok := s.slots[license]
	if !ok {
		bySlot = make(map[int64]*models.Appointment)
		s.slots[license] = bySlot
	}
	if _, taken := bySlot[key]; taken {
		return fmt.Errorf("doctor %s at %s: %w", license, a.ScheduledAt().Format(models.TimestampLayout), sentinel.ErrAlreadyUsed)
	}
	bySlot[key] = a
	s.byID[a.ID()] = a
	s.appointments = append(s.appointments, a)
	return nil
}

// HasSlot reports whether license already has an appointment at instant at.
func (s *InMemoryStore) HasSlot(_ context.Context, license id.License, at time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, taken := s.slots[license][at.UnixNano()]
	return taken, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, appointmentID id.AppointmentID) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[appointmentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return a, nil
}

// List returns every appointment in scheduling order.
func (s *InMemoryStore) List(_ context.Context) ([]*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.appointments), nil
}

// ListByLicense returns the doctor's appointments in scheduling order.
func (s *InMemoryStore) ListByLicense(_ context.Context, license id.License) ([]*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Appointment, 0, len(s.slots[license]))
	for _, a := range s.appointments {
		if a.Doctor().License() == license {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.appointments), nil
}

// slotKey identifies an instant independent of the time's location.
func slotKey(a *models.Appointment) int64 {
	return a.ScheduledAt().UnixNano()
}
