package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"clinic/internal/audit"
	"clinic/internal/clinic/models"
	id "clinic/pkg/domain"
	dErrors "clinic/pkg/domain-errors"
	"clinic/pkg/platform/sentinel"
	"clinic/pkg/requestcontext"
)

// RegisterPatient stores p and creates its empty clinical record in the
// same transaction.
func (s *Service) RegisterPatient(ctx context.Context, p *models.Patient) error {
	ctx, end := s.startOp(ctx, "register_patient")
	var err error
	defer func() { end(err) }()

	if p == nil {
		err = fmt.Errorf("%w: patient is required", models.ErrNilEntity)
		return err
	}
	rec, err := models.NewClinicalRecord(p)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.patients.Create(ctx, p); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return fmt.Errorf("%w: national id %s", models.ErrDuplicatePatient, p.NationalID())
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store patient")
		}
		if err := s.records.Create(ctx, rec); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create clinical record")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logAudit(ctx, patientEvent(audit.ActionPatientRegistered, p.NationalID(), "", ""))
	if s.metrics != nil {
		s.metrics.IncrementPatientsRegistered()
	}
	return nil
}

// RegisterDoctor stores d unless its license is already registered.
func (s *Service) RegisterDoctor(ctx context.Context, d *models.Doctor) error {
	ctx, end := s.startOp(ctx, "register_doctor")
	var err error
	defer func() { end(err) }()

	if d == nil {
		err = fmt.Errorf("%w: doctor is required", models.ErrNilEntity)
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.doctors.Create(ctx, d); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return fmt.Errorf("%w: license %s", models.ErrDuplicateDoctor, d.License())
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store doctor")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logAudit(ctx, audit.Event{Action: audit.ActionDoctorRegistered, License: d.License()})
	if s.metrics != nil {
		s.metrics.IncrementDoctorsRegistered()
	}
	return nil
}

// AddDoctorSpecialty appends sp to the registered doctor's specialties.
func (s *Service) AddDoctorSpecialty(ctx context.Context, license string, sp *models.Specialty) (*models.Doctor, error) {
	ctx, end := s.startOp(ctx, "add_doctor_specialty")
	var err error
	defer func() { end(err) }()

	if sp == nil {
		err = fmt.Errorf("%w: specialty is required", models.ErrNilEntity)
		return nil, err
	}

	var doctor *models.Doctor
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := s.findDoctor(ctx, id.License(license))
		if err != nil {
			return err
		}
		if err := d.AddSpecialty(sp); err != nil {
			return err
		}
		doctor = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, audit.Event{Action: audit.ActionSpecialtyAdded, License: doctor.License(), Subject: sp.Type()})
	if s.metrics != nil {
		s.metrics.IncrementSpecialtiesAdded()
	}
	return doctor, nil
}

// ScheduleAppointment books patientID with the doctor holding license at
// scheduledAt. Validation order is fixed: blank specialty, unknown patient,
// unknown doctor, slot already taken, doctor not working that weekday, and
// finally a specialty mismatch against the first specialty the doctor
// attends that weekday. The weekday is taken in scheduledAt's location.
func (s *Service) ScheduleAppointment(ctx context.Context, patientID, license, requestedSpecialty string, scheduledAt time.Time) (*models.Appointment, error) {
	ctx, end := s.startOp(ctx, "schedule_appointment")
	var err error
	defer func() {
		if err != nil && s.metrics != nil {
			s.metrics.IncrementSchedulingRejection(rejectionReason(err))
		}
		end(err)
	}()

	requested := strings.TrimSpace(requestedSpecialty)
	if requested == "" {
		err = models.ErrEmptySpecialty
		return nil, err
	}

	var appt *models.Appointment
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		patient, err := s.findPatient(ctx, id.NationalID(patientID))
		if err != nil {
			return err
		}
		doctor, err := s.findDoctor(ctx, id.License(license))
		if err != nil {
			return err
		}
		if scheduledAt.IsZero() {
			return models.ErrInvalidTimestamp
		}

		taken, err := s.appointments.HasSlot(ctx, doctor.License(), scheduledAt)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check doctor schedule")
		}
		if taken {
			return fmt.Errorf("%w: %s at %s", models.ErrDuplicateAppointment, doctor.License(), scheduledAt.Format(models.TimestampLayout))
		}

		weekday := models.WeekdayOf(scheduledAt)
		offered, ok := doctor.SpecialtyForWeekday(weekday)
		if !ok {
			return fmt.Errorf("%w: %s does not attend on %s", models.ErrDoctorNotWorkingThatDay, doctor.License(), weekday)
		}
		if !doctor.OffersSpecialtyOn(requested, weekday) {
			return fmt.Errorf("%w: %s attends %s on %s, not %s", models.ErrDoctorDoesNotOfferSpecialty, doctor.License(), offered, weekday, requested)
		}

		rec, err := s.findRecord(ctx, patient.NationalID())
		if err != nil {
			return err
		}
		a, err := models.NewAppointment(id.NewAppointmentID(), patient, doctor, scheduledAt, requested)
		if err != nil {
			return err
		}
		if err := s.appointments.CreateIfSlotAvailable(ctx, a); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return fmt.Errorf("%w: %s at %s", models.ErrDuplicateAppointment, doctor.License(), scheduledAt.Format(models.TimestampLayout))
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store appointment")
		}
		if err := rec.AddAppointment(a); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update clinical record")
		}
		appt = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, patientEvent(audit.ActionAppointmentScheduled, appt.Patient().NationalID(), appt.Doctor().License(), appt.ID().String()))
	if s.metrics != nil {
		s.metrics.IncrementAppointmentsScheduled()
	}
	return appt, nil
}

// IssuePrescription records a prescription in the patient's clinical record,
// stamped with the request time.
func (s *Service) IssuePrescription(ctx context.Context, patientID, license string, medications []string) (*models.Prescription, error) {
	ctx, end := s.startOp(ctx, "issue_prescription")
	var err error
	defer func() { end(err) }()

	var rx *models.Prescription
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		patient, err := s.findPatient(ctx, id.NationalID(patientID))
		if err != nil {
			return err
		}
		doctor, err := s.findDoctor(ctx, id.License(license))
		if err != nil {
			return err
		}
		rec, err := s.findRecord(ctx, patient.NationalID())
		if err != nil {
			return err
		}
		p, err := models.NewPrescription(id.NewPrescriptionID(), patient, doctor, medications, requestcontext.Now(ctx))
		if err != nil {
			return err
		}
		if err := rec.AddPrescription(p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update clinical record")
		}
		rx = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, patientEvent(audit.ActionPrescriptionIssued, rx.Patient().NationalID(), rx.Doctor().License(), rx.ID().String()))
	if s.metrics != nil {
		s.metrics.IncrementPrescriptionsIssued()
	}
	return rx, nil
}

// ListPatients returns patients in registration order.
func (s *Service) ListPatients(ctx context.Context) ([]*models.Patient, error) {
	out, err := s.patients.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list patients")
	}
	return out, nil
}

// ListDoctors returns doctors in registration order.
func (s *Service) ListDoctors(ctx context.Context) ([]*models.Doctor, error) {
	out, err := s.doctors.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list doctors")
	}
	return out, nil
}

// ListAppointments returns every appointment in scheduling order.
func (s *Service) ListAppointments(ctx context.Context) ([]*models.Appointment, error) {
	out, err := s.appointments.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list appointments")
	}
	return out, nil
}

// ListDoctorAppointments returns the doctor's appointments in scheduling order.
func (s *Service) ListDoctorAppointments(ctx context.Context, license string) ([]*models.Appointment, error) {
	d, err := s.findDoctor(ctx, id.License(license))
	if err != nil {
		return nil, err
	}
	out, err := s.appointments.ListByLicense(ctx, d.License())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list appointments")
	}
	return out, nil
}

func (s *Service) DoctorByLicense(ctx context.Context, license string) (*models.Doctor, error) {
	return s.findDoctor(ctx, id.License(license))
}

func (s *Service) PatientByID(ctx context.Context, nationalID string) (*models.Patient, error) {
	return s.findPatient(ctx, id.NationalID(nationalID))
}

func (s *Service) ClinicalRecordFor(ctx context.Context, nationalID string) (*models.ClinicalRecord, error) {
	p, err := s.findPatient(ctx, id.NationalID(nationalID))
	if err != nil {
		return nil, err
	}
	return s.findRecord(ctx, p.NationalID())
}

// AppointmentByID looks up a scheduled appointment.
func (s *Service) AppointmentByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	aid, err := id.ParseAppointmentID(appointmentID)
	if err != nil {
		return nil, err
	}
	a, err := s.appointments.FindByID(ctx, aid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrAppointmentNotFound, aid)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load appointment")
	}
	return a, nil
}

// PrescriptionFor returns one prescription from the patient's record.
func (s *Service) PrescriptionFor(ctx context.Context, nationalID, prescriptionID string) (*models.Prescription, error) {
	rxID, err := id.ParsePrescriptionID(prescriptionID)
	if err != nil {
		return nil, err
	}
	rec, err := s.ClinicalRecordFor(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	rx, ok := rec.Prescription(rxID)
	if !ok {
		return nil, fmt.Errorf("%w: %s for national id %q", models.ErrPrescriptionNotFound, rxID, nationalID)
	}
	return rx, nil
}

// Summary counts the registry's collections.
func (s *Service) Summary(ctx context.Context) (models.Summary, error) {
	var (
		sum models.Summary
		err error
	)
	if sum.Patients, err = s.patients.Count(ctx); err != nil {
		return models.Summary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count patients")
	}
	if sum.Doctors, err = s.doctors.Count(ctx); err != nil {
		return models.Summary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count doctors")
	}
	if sum.Appointments, err = s.appointments.Count(ctx); err != nil {
		return models.Summary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count appointments")
	}
	if sum.ClinicalRecords, err = s.records.Count(ctx); err != nil {
		return models.Summary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count clinical records")
	}
	return sum, nil
}

func (s *Service) findPatient(ctx context.Context, nationalID id.NationalID) (*models.Patient, error) {
	p, err := s.patients.FindByID(ctx, nationalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("%w: national id %q", models.ErrPatientNotFound, nationalID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load patient")
	}
	return p, nil
}

func (s *Service) findDoctor(ctx context.Context, license id.License) (*models.Doctor, error) {
	d, err := s.doctors.FindByLicense(ctx, license)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("%w: license %q", models.ErrDoctorNotFound, license)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load doctor")
	}
	return d, nil
}

// findRecord treats a registered patient without a record as an internal
// fault: registration creates both together.
func (s *Service) findRecord(ctx context.Context, nationalID id.NationalID) (*models.ClinicalRecord, error) {
	rec, err := s.records.FindByPatient(ctx, nationalID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load clinical record")
	}
	return rec, nil
}

// startOp opens a span for a mutating operation. The returned func records
// the outcome and duration.
func (s *Service) startOp(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "registry."+op, trace.WithAttributes(attribute.String("clinic.operation", op)))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
			s.logger.Debug("registry operation rejected",
				zap.String("operation", op),
				zap.String("code", string(dErrors.CodeOf(err))),
				zap.Error(err))
		}
		span.End()
		if s.metrics != nil {
			s.metrics.ObserveOperation(op, start)
		}
	}
}

// rejectionReason labels a failed ScheduleAppointment for metrics.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptySpecialty):
		return "empty_specialty"
	case errors.Is(err, models.ErrPatientNotFound):
		return "patient_not_found"
	case errors.Is(err, models.ErrDoctorNotFound):
		return "doctor_not_found"
	case errors.Is(err, models.ErrInvalidTimestamp):
		return "invalid_timestamp"
	case errors.Is(err, models.ErrDuplicateAppointment):
		return "duplicate_appointment"
	case errors.Is(err, models.ErrDoctorNotWorkingThatDay):
		return "doctor_not_working"
	case errors.Is(err, models.ErrDoctorDoesNotOfferSpecialty):
		return "specialty_not_offered"
	case dErrors.HasCode(err, dErrors.CodeTimeout):
		return "timeout"
	default:
		return "other"
	}
}
