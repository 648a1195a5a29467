package handler

import (
	"strings"
	"time"

	"clinic/internal/clinic/models"
	dErrors "clinic/pkg/domain-errors"
)

type registerPatientRequest struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
	BirthDate  string `json:"birth_date"`
}

// Validate implements httputil.Validatable. Field rules live in the models;
// here only whitespace around the date is dropped.
func (r *registerPatientRequest) Validate() error {
	r.BirthDate = strings.TrimSpace(r.BirthDate)
	return nil
}

type specialtyRequest struct {
	Name string   `json:"name"`
	Days []string `json:"days"`
}

func (r *specialtyRequest) Validate() error {
	return nil
}

func (r specialtyRequest) toModel() (*models.Specialty, error) {
	return models.NewSpecialty(r.Name, r.Days)
}

type registerDoctorRequest struct {
	Name        string             `json:"name"`
	License     string             `json:"license"`
	Specialties []specialtyRequest `json:"specialties"`
}

func (r *registerDoctorRequest) Validate() error {
	return nil
}

func (r registerDoctorRequest) toModel() (*models.Doctor, error) {
	if err := models.ValidateDoctorIdentity(r.Name, r.License); err != nil {
		return nil, err
	}
	specs := make([]*models.Specialty, 0, len(r.Specialties))
	for _, s := range r.Specialties {
		sp, err := s.toModel()
		if err != nil {
			return nil, err
		}
		specs = append(specs, sp)
	}
	return models.NewDoctor(r.Name, r.License, specs)
}

type scheduleAppointmentRequest struct {
	NationalID  string `json:"national_id"`
	License     string `json:"license"`
	Specialty   string `json:"specialty"`
	ScheduledAt string `json:"scheduled_at"`
}

func (r *scheduleAppointmentRequest) Validate() error {
	r.ScheduledAt = strings.TrimSpace(r.ScheduledAt)
	if r.ScheduledAt == "" {
		return dErrors.New(dErrors.CodeValidation, "scheduled_at is required")
	}
	return nil
}

// scheduledAt reads "YYYY-MM-DD HH:MM" in loc, or an RFC 3339 timestamp with
// its own offset.
func (r *scheduleAppointmentRequest) scheduledAt(loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(models.TimestampLayout, r.ScheduledAt, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, r.ScheduledAt); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "scheduled_at must be formatted as YYYY-MM-DD HH:MM")
}

type issuePrescriptionRequest struct {
	NationalID  string   `json:"national_id"`
	License     string   `json:"license"`
	Medications []string `json:"medications"`
}

func (r *issuePrescriptionRequest) Validate() error {
	return nil
}
