package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "clinic/pkg/domain-errors"
)

// NationalID identifies a patient. Invariant: exactly 8 ASCII digits.
//
// Usage: construct via ParseNationalID at trust boundaries; direct casting
// bypasses validation.
type NationalID string

// nationalIDLength is the fixed number of digits in a national id (DNI).
const nationalIDLength = 8

// ParseNationalID validates a patient national id. Surrounding whitespace is
// not accepted: the id is used verbatim as a registry key.
func ParseNationalID(s string) (NationalID, error) {
	if len(s) != nationalIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "national id must have exactly 8 digits")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "national id must have exactly 8 digits")
		}
	}
	return NationalID(s), nil
}

func (n NationalID) String() string {
	return string(n)
}

// License identifies a doctor. Invariant: non-empty after trimming.
type License string

// ParseLicense trims and validates a doctor license.
func ParseLicense(s string) (License, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "license cannot be empty")
	}
	return License(s), nil
}

func (l License) String() string {
	return string(l)
}

// AppointmentID and PrescriptionID are distinct UUID types so they can never
// be swapped at compile time.
type (
	AppointmentID  uuid.UUID
	PrescriptionID uuid.UUID
)

func NewAppointmentID() AppointmentID {
	return AppointmentID(uuid.New())
}

func NewPrescriptionID() PrescriptionID {
	return PrescriptionID(uuid.New())
}

func ParseAppointmentID(s string) (AppointmentID, error) {
	u, err := parseUUID(s, "appointment id")
	return AppointmentID(u), err
}

func ParsePrescriptionID(s string) (PrescriptionID, error) {
	u, err := parseUUID(s, "prescription id")
	return PrescriptionID(u), err
}

func (id AppointmentID) String() string {
	return uuid.UUID(id).String()
}

func (id AppointmentID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id PrescriptionID) String() string {
	return uuid.UUID(id).String()
}

func (id PrescriptionID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}
