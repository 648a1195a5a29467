package models

import (
	"fmt"
	"slices"
	"strings"

	cstrings "clinic/pkg/platform/strings"
)

// Specialty is a named medical capability offered on a set of weekdays.
//
// Invariants:
//   - name is non-empty, trimmed and capitalized
//   - days holds at least one weekday, de-duplicated, sorted alphabetically
//     by canonical name
//   - immutable after construction
//
// Identity is the case-insensitive name only; two specialties with the same
// name and different days are equal.
type Specialty struct {
	name string
	days []Weekday
}

// NewSpecialty validates and normalizes a specialty.
func NewSpecialty(name string, days []string) (*Specialty, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidSpecialtyName
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: at least one day is required", ErrInvalidAttendanceDays)
	}

	parsed := make([]Weekday, 0, len(days))
	for _, token := range days {
		w, err := ParseWeekday(token)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(parsed, w) {
			parsed = append(parsed, w)
		}
	}
	slices.SortFunc(parsed, func(a, b Weekday) int {
		return strings.Compare(a.String(), b.String())
	})

	return &Specialty{name: cstrings.Capitalize(name), days: parsed}, nil
}

// Type returns the normalized specialty name.
func (s *Specialty) Type() string {
	return s.name
}

// Days returns a copy of the attendance days.
func (s *Specialty) Days() []Weekday {
	return slices.Clone(s.days)
}

// Key is the normalized comparison key used for equality and set membership.
func (s *Specialty) Key() string {
	return cstrings.NormalizeKey(s.name)
}

// Equal reports whether both specialties share a name, ignoring case.
func (s *Specialty) Equal(other *Specialty) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Key() == other.Key()
}

// CoversDay reports whether the specialty is offered on day. Unknown tokens
// are never covered.
func (s *Specialty) CoversDay(day string) bool {
	w, err := ParseWeekday(day)
	if err != nil {
		return false
	}
	return s.CoversWeekday(w)
}

func (s *Specialty) CoversWeekday(w Weekday) bool {
	return slices.Contains(s.days, w)
}

// Format renders the specialty with its days in lang.
func (s *Specialty) Format(lang Language) string {
	names := make([]string, len(s.days))
	for i, d := range s.days {
		names[i] = d.Display(lang)
	}
	label := "Días"
	if lang == LanguageEN {
		label = "Days"
	}
	return fmt.Sprintf("%s (%s: %s)", s.name, label, strings.Join(names, ", "))
}

func (s *Specialty) String() string {
	return s.Format(LanguageES)
}
