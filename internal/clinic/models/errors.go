package models

import dErrors "clinic/pkg/domain-errors"

// Registry and entity errors. Match by identity with errors.Is, or by kind
// with dErrors.HasCode. Call sites attach detail with fmt.Errorf("%w: ...").
var (
	// InvalidInput
	ErrInvalidSpecialtyName  = dErrors.New(dErrors.CodeInvalidInput, "specialty name cannot be empty")
	ErrInvalidAttendanceDays = dErrors.New(dErrors.CodeInvalidInput, "attendance days must be valid weekdays")
	ErrInvalidName           = dErrors.New(dErrors.CodeInvalidInput, "name cannot be empty")
	ErrInvalidLicense        = dErrors.New(dErrors.CodeInvalidInput, "license cannot be empty")
	ErrInvalidNationalID     = dErrors.New(dErrors.CodeInvalidInput, "national id must have exactly 8 digits")
	ErrInvalidBirthDate      = dErrors.New(dErrors.CodeInvalidInput, "birth date must be a valid dd/mm/yyyy date not in the future")
	ErrEmptySpecialtyList    = dErrors.New(dErrors.CodeInvalidInput, "a doctor needs at least one specialty")
	ErrEmptySpecialty        = dErrors.New(dErrors.CodeInvalidInput, "requested specialty cannot be empty")
	ErrInvalidTimestamp      = dErrors.New(dErrors.CodeInvalidInput, "appointment timestamp is required")
	ErrInvalidMedicationList = dErrors.New(dErrors.CodeInvalidInput, "medication list must contain at least one non-empty name")

	// Duplicate
	ErrDuplicateSpecialty   = dErrors.New(dErrors.CodeConflict, "doctor already has this specialty")
	ErrDuplicatePatient     = dErrors.New(dErrors.CodeConflict, "patient already registered")
	ErrDuplicateDoctor      = dErrors.New(dErrors.CodeConflict, "doctor already registered")
	ErrDuplicateAppointment = dErrors.New(dErrors.CodeConflict, "doctor already has an appointment at this time")

	// NotFound
	ErrPatientNotFound      = dErrors.New(dErrors.CodeNotFound, "patient not found")
	ErrDoctorNotFound       = dErrors.New(dErrors.CodeNotFound, "doctor not found")
	ErrAppointmentNotFound  = dErrors.New(dErrors.CodeNotFound, "appointment not found")
	ErrPrescriptionNotFound = dErrors.New(dErrors.CodeNotFound, "prescription not found")

	// SchedulingConflict
	ErrDoctorNotWorkingThatDay     = dErrors.New(dErrors.CodeSchedulingConflict, "doctor does not work that day")
	ErrDoctorDoesNotOfferSpecialty = dErrors.New(dErrors.CodeSchedulingConflict, "doctor does not offer that specialty that day")

	// TypeMismatch: with static types the only wrong-kind value left is a nil reference.
	ErrNilEntity           = dErrors.New(dErrors.CodeInvariantViolation, "entity reference is required")
	ErrRecordOwnerMismatch = dErrors.New(dErrors.CodeInvariantViolation, "entry belongs to another patient")
)
