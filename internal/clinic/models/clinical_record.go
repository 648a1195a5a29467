package models

import (
	"fmt"
	"slices"
	"sync"

	id "clinic/pkg/domain"
)

// ClinicalRecord is a patient's append-only log of appointments and
// prescriptions. Entries must belong to the owning patient.
type ClinicalRecord struct {
	patient *Patient

	mu            sync.RWMutex
	appointments  []*Appointment
	prescriptions []*Prescription
}

func NewClinicalRecord(patient *Patient) (*ClinicalRecord, error) {
	if patient == nil {
		return nil, fmt.Errorf("%w: clinical record patient is required", ErrNilEntity)
	}
	return &ClinicalRecord{patient: patient}, nil
}

func (r *ClinicalRecord) Patient() *Patient {
	return r.patient
}

func (r *ClinicalRecord) AddAppointment(a *Appointment) error {
	if a == nil {
		return fmt.Errorf("%w: appointment is required", ErrNilEntity)
	}
	if a.Patient().NationalID() != r.patient.NationalID() {
		return fmt.Errorf("%w: appointment for %s", ErrRecordOwnerMismatch, a.Patient().NationalID())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments = append(r.appointments, a)
	return nil
}

func (r *ClinicalRecord) AddPrescription(p *Prescription) error {
	if p == nil {
		return fmt.Errorf("%w: prescription is required", ErrNilEntity)
	}
	if p.Patient().NationalID() != r.patient.NationalID() {
		return fmt.Errorf("%w: prescription for %s", ErrRecordOwnerMismatch, p.Patient().NationalID())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prescriptions = append(r.prescriptions, p)
	return nil
}

// Appointments returns a snapshot in insertion order.
func (r *ClinicalRecord) Appointments() []*Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.appointments)
}

// Prescriptions returns a snapshot in insertion order.
func (r *ClinicalRecord) Prescriptions() []*Prescription {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.prescriptions)
}

// Prescription returns the record's prescription with id rxID.
func (r *ClinicalRecord) Prescription(rxID id.PrescriptionID) (*Prescription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.prescriptions {
		if p.ID() == rxID {
			return p, true
		}
	}
	return nil, false
}
