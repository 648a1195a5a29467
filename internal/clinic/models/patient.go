package models

import (
	"fmt"
	"strings"
	"time"

	id "clinic/pkg/domain"
)

// BirthDateLayout is the dd/mm/yyyy text form of a birth date.
const BirthDateLayout = "02/01/2006"

// birthDateParseLayout also accepts single-digit day and month.
const birthDateParseLayout = "2/1/2006"

// Patient is a registered individual. All fields are validated at
// construction and never change.
type Patient struct {
	name       string
	nationalID id.NationalID
	birthDate  time.Time
}

// NewPatient validates name, national id and birth date. The birth date is
// compared against now so callers control the clock.
func NewPatient(name, nationalID string, birthDate, now time.Time) (*Patient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: patient name is required", ErrInvalidName)
	}
	nid, err := id.ParseNationalID(nationalID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNationalID, nationalID)
	}
	if birthDate.IsZero() {
		return nil, ErrInvalidBirthDate
	}
	if afterDay(birthDate, now) {
		return nil, fmt.Errorf("%w: %s is in the future", ErrInvalidBirthDate, birthDate.Format(BirthDateLayout))
	}
	return &Patient{name: name, nationalID: nid, birthDate: birthDate}, nil
}

// ParseBirthDate reads a dd/mm/yyyy calendar date as midnight in loc, the
// clinic's zone. A nil loc means UTC. Impossible dates such as 31/02/1990
// are rejected.
func ParseBirthDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(birthDateParseLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidBirthDate, s)
	}
	return t, nil
}

// afterDay reports whether birth's calendar day comes after now's, both read
// in birth's location.
func afterDay(birth, now time.Time) bool {
	by, bm, bd := birth.Date()
	ny, nm, nd := now.In(birth.Location()).Date()
	if by != ny {
		return by > ny
	}
	if bm != nm {
		return bm > nm
	}
	return bd > nd
}

func (p *Patient) Name() string {
	return p.name
}

func (p *Patient) NationalID() id.NationalID {
	return p.nationalID
}

func (p *Patient) BirthDate() time.Time {
	return p.birthDate
}

func (p *Patient) String() string {
	return fmt.Sprintf("%s, %s, %s", p.name, p.nationalID, p.birthDate.Format(BirthDateLayout))
}
