package models

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	id "clinic/pkg/domain"
)

// Doctor is a practitioner holding one or more specialties.
//
// Invariants:
//   - name and license are non-empty and trimmed
//   - at least one specialty; no two share a name (case-insensitive)
//   - specialties keep insertion order and are never removed
//
// The specialty list is the only mutable state and is guarded by mu so
// snapshots stay consistent while the registry appends.
type Doctor struct {
	name    string
	license id.License

	mu          sync.RWMutex
	specialties []*Specialty
}

func NewDoctor(name, license string, specialties []*Specialty) (*Doctor, error) {
	name, lic, err := doctorIdentity(name, license)
	if err != nil {
		return nil, err
	}
	if len(specialties) == 0 {
		return nil, ErrEmptySpecialtyList
	}

	d := &Doctor{name: name, license: lic, specialties: make([]*Specialty, 0, len(specialties))}
	for _, s := range specialties {
		if s == nil {
			return nil, fmt.Errorf("%w: specialty list contains a nil entry", ErrNilEntity)
		}
		if d.hasSpecialty(s) {
			return nil, fmt.Errorf("%w: %q listed twice", ErrDuplicateSpecialty, s.Type())
		}
		d.specialties = append(d.specialties, s)
	}
	return d, nil
}

// ValidateDoctorIdentity checks a doctor's name and license the way NewDoctor
// does, so callers assembling specialties can report those first.
func ValidateDoctorIdentity(name, license string) error {
	_, _, err := doctorIdentity(name, license)
	return err
}

func doctorIdentity(name, license string) (string, id.License, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("%w: doctor name is required", ErrInvalidName)
	}
	lic, err := id.ParseLicense(license)
	if err != nil {
		return "", "", ErrInvalidLicense
	}
	return name, lic, nil
}

func (d *Doctor) Name() string {
	return d.name
}

func (d *Doctor) License() id.License {
	return d.license
}

// Specialties returns a snapshot in insertion order.
func (d *Doctor) Specialties() []*Specialty {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.specialties)
}

// AddSpecialty appends s unless an equal specialty is already held.
func (d *Doctor) AddSpecialty(s *Specialty) error {
	if s == nil {
		return fmt.Errorf("%w: specialty is required", ErrNilEntity)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.hasSpecialty(s) {
		return fmt.Errorf("%w: %q", ErrDuplicateSpecialty, s.Type())
	}
	d.specialties = append(d.specialties, s)
	return nil
}

// SpecialtyForDay returns the first specialty, in insertion order, offered on
// day. ok is false when the doctor does not work that day or day is not a
// weekday token.
func (d *Doctor) SpecialtyForDay(day string) (specialty string, ok bool) {
	w, err := ParseWeekday(day)
	if err != nil {
		return "", false
	}
	return d.SpecialtyForWeekday(w)
}

// SpecialtyForWeekday is SpecialtyForDay for an already parsed weekday.
// First match wins.
func (d *Doctor) SpecialtyForWeekday(w Weekday) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, s := range d.specialties {
		if s.CoversWeekday(w) {
			return s.Type(), true
		}
	}
	return "", false
}

// OffersSpecialtyOn reports whether the specialty the doctor attends on w
// matches requested, ignoring case and surrounding whitespace.
func (d *Doctor) OffersSpecialtyOn(requested string, w Weekday) bool {
	offered, ok := d.SpecialtyForWeekday(w)
	if !ok {
		return false
	}
	return strings.EqualFold(offered, strings.TrimSpace(requested))
}

// hasSpecialty must be called with mu held or before d is shared.
func (d *Doctor) hasSpecialty(s *Specialty) bool {
	return slices.ContainsFunc(d.specialties, s.Equal)
}

func (d *Doctor) String() string {
	specs := d.Specialties()
	lines := make([]string, len(specs))
	for i, s := range specs {
		lines[i] = "  " + s.String()
	}
	return fmt.Sprintf("%s,\n%s,\n[\n%s\n]", d.name, d.license, strings.Join(lines, ",\n"))
}
