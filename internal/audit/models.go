package audit

import (
	"context"
	"time"

	id "clinic/pkg/domain"
)

// Action names a registry mutation recorded in the audit trail.
type Action string

const (
	ActionPatientRegistered    Action = "patient_registered"
	ActionDoctorRegistered     Action = "doctor_registered"
	ActionSpecialtyAdded       Action = "specialty_added"
	ActionAppointmentScheduled Action = "appointment_scheduled"
	ActionPrescriptionIssued   Action = "prescription_issued"
)

// Event is emitted from the registry to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Action    Action
	// PatientID is empty for events that concern only a doctor.
	PatientID id.NationalID
	License   id.License
	// Subject identifies the created entity (appointment or prescription id,
	// specialty name).
	Subject   string
	RequestID string
}

// Store persists audit events in append order.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByPatient(ctx context.Context, patientID id.NationalID) ([]Event, error)
	ListAll(ctx context.Context) ([]Event, error)
}
