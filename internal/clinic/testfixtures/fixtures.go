// Package testfixtures builds valid clinic entities for tests.
package testfixtures

import (
	"testing"
	"time"

	"clinic/internal/clinic/models"
	id "clinic/pkg/domain"
)

// Now is a fixed reference clock. 2025-06-16 is a Monday.
var Now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// Monday10 is 2025-06-16 10:00 UTC.
var Monday10 = time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)

func Specialty(t testing.TB, name string, days ...string) *models.Specialty {
	t.Helper()
	s, err := models.NewSpecialty(name, days)
	if err != nil {
		t.Fatalf("specialty %q: %v", name, err)
	}
	return s
}

func Doctor(t testing.TB, name, license string, specialties ...*models.Specialty) *models.Doctor {
	t.Helper()
	d, err := models.NewDoctor(name, license, specialties)
	if err != nil {
		t.Fatalf("doctor %q: %v", license, err)
	}
	return d
}

// Pediatrician works Pediatría on lunes and miércoles.
func Pediatrician(t testing.TB, license string) *models.Doctor {
	t.Helper()
	return Doctor(t, "Dra. Gómez", license, Specialty(t, "Pediatría", "lunes", "miércoles"))
}

func Patient(t testing.TB, name, nationalID string) *models.Patient {
	t.Helper()
	p, err := models.NewPatient(name, nationalID, time.Date(1990, 8, 15, 0, 0, 0, 0, time.UTC), Now)
	if err != nil {
		t.Fatalf("patient %q: %v", nationalID, err)
	}
	return p
}

func Appointment(t testing.TB, p *models.Patient, d *models.Doctor, at time.Time, specialty string) *models.Appointment {
	t.Helper()
	a, err := models.NewAppointment(id.NewAppointmentID(), p, d, at, specialty)
	if err != nil {
		t.Fatalf("appointment: %v", err)
	}
	return a
}
