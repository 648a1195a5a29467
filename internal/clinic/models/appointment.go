package models

import (
	"fmt"
	"strings"
	"time"

	id "clinic/pkg/domain"
)

// TimestampLayout is the text form used when rendering appointment times.
const TimestampLayout = "2006-01-02 15:04"

// Appointment books a patient with a doctor for a specialty at an instant.
// It is immutable; the registry shares the same pointer between the global
// list and the patient's clinical record.
type Appointment struct {
	id          id.AppointmentID
	patient     *Patient
	doctor      *Doctor
	scheduledAt time.Time
	specialty   string
}

func NewAppointment(appointmentID id.AppointmentID, patient *Patient, doctor *Doctor, scheduledAt time.Time, specialty string) (*Appointment, error) {
	if patient == nil {
		return nil, fmt.Errorf("%w: appointment patient is required", ErrNilEntity)
	}
	if doctor == nil {
		return nil, fmt.Errorf("%w: appointment doctor is required", ErrNilEntity)
	}
	if scheduledAt.IsZero() {
		return nil, ErrInvalidTimestamp
	}
	specialty = strings.TrimSpace(specialty)
	if specialty == "" {
		return nil, ErrEmptySpecialty
	}
	return &Appointment{
		id:          appointmentID,
		patient:     patient,
		doctor:      doctor,
		scheduledAt: scheduledAt,
		specialty:   specialty,
	}, nil
}

func (a *Appointment) ID() id.AppointmentID {
	return a.id
}

func (a *Appointment) Patient() *Patient {
	return a.patient
}

func (a *Appointment) Doctor() *Doctor {
	return a.doctor
}

func (a *Appointment) ScheduledAt() time.Time {
	return a.scheduledAt
}

func (a *Appointment) Specialty() string {
	return a.specialty
}

// Weekday is the day of the week the appointment falls on.
func (a *Appointment) Weekday() Weekday {
	return WeekdayOf(a.scheduledAt)
}

func (a *Appointment) String() string {
	return fmt.Sprintf("%s with %s (%s) for %s at %s",
		a.patient.Name(), a.doctor.Name(), a.doctor.License(), a.specialty, a.scheduledAt.Format(TimestampLayout))
}
