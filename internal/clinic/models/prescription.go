package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	id "clinic/pkg/domain"
)

// Prescription is an immutable medication order issued by a doctor to a
// patient at issuedAt.
type Prescription struct {
	id          id.PrescriptionID
	patient     *Patient
	doctor      *Doctor
	medications []string
	issuedAt    time.Time
}

func NewPrescription(prescriptionID id.PrescriptionID, patient *Patient, doctor *Doctor, medications []string, issuedAt time.Time) (*Prescription, error) {
	if patient == nil {
		return nil, fmt.Errorf("%w: prescription patient is required", ErrNilEntity)
	}
	if doctor == nil {
		return nil, fmt.Errorf("%w: prescription doctor is required", ErrNilEntity)
	}
	meds, err := NormalizeMedications(medications)
	if err != nil {
		return nil, err
	}
	return &Prescription{
		id:          prescriptionID,
		patient:     patient,
		doctor:      doctor,
		medications: meds,
		issuedAt:    issuedAt,
	}, nil
}

// NormalizeMedications trims every entry and rejects an empty list or any
// blank entry. The result is a fresh slice.
func NormalizeMedications(medications []string) ([]string, error) {
	if len(medications) == 0 {
		return nil, ErrInvalidMedicationList
	}
	out := make([]string, len(medications))
	for i, m := range medications {
		m = strings.TrimSpace(m)
		if m == "" {
			return nil, fmt.Errorf("%w: entry %d is blank", ErrInvalidMedicationList, i)
		}
		out[i] = m
	}
	return out, nil
}

func (p *Prescription) ID() id.PrescriptionID {
	return p.id
}

func (p *Prescription) Patient() *Patient {
	return p.patient
}

func (p *Prescription) Doctor() *Doctor {
	return p.doctor
}

// Medications returns a copy of the medication names.
func (p *Prescription) Medications() []string {
	return slices.Clone(p.medications)
}

func (p *Prescription) IssuedAt() time.Time {
	return p.issuedAt
}

func (p *Prescription) String() string {
	return fmt.Sprintf("%s prescribed by %s on %s: %s",
		p.patient.Name(), p.doctor.Name(), p.issuedAt.Format(TimestampLayout), strings.Join(p.medications, ", "))
}
