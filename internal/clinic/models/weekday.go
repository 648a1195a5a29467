package models

import (
	"fmt"
	"time"

	cstrings "clinic/pkg/platform/strings"
)

// Weekday is one of seven fixed symbolic days, Monday first. Display text is
// produced only at the boundary via Display.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekdays lists the vocabulary in index order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Language selects the display text for weekday names.
type Language string

const (
	LanguageES Language = "es"
	LanguageEN Language = "en"
)

// ParseLanguage returns the language for a code, defaulting to Spanish.
func ParseLanguage(code string) Language {
	if Language(cstrings.NormalizeKey(code)) == LanguageEN {
		return LanguageEN
	}
	return LanguageES
}

var canonicalNames = [...]string{"lunes", "martes", "miércoles", "jueves", "viernes", "sábado", "domingo"}

var englishNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// byFoldedName indexes weekdays by their accent-free lowercase name.
var byFoldedName = func() map[string]Weekday {
	m := make(map[string]Weekday, len(canonicalNames))
	for i, name := range canonicalNames {
		m[cstrings.FoldKey(name)] = Weekday(i)
	}
	return m
}()

// ParseWeekday maps a canonical token to a Weekday, ignoring case,
// surrounding whitespace and accents ("Miercoles" == "miércoles").
func ParseWeekday(token string) (Weekday, error) {
	if w, ok := byFoldedName[cstrings.FoldKey(token)]; ok {
		return w, nil
	}
	return 0, fmt.Errorf("%w: %q is not a day of the week", ErrInvalidAttendanceDays, token)
}

// WeekdayOf returns the weekday of t in t's own location.
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday counts from Sunday=0.
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// IsValid reports whether w is inside the 7-day vocabulary.
func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

// String returns the canonical lowercase Spanish name.
func (w Weekday) String() string {
	if !w.IsValid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return canonicalNames[w]
}

// Display returns the capitalized name in lang.
func (w Weekday) Display(lang Language) string {
	if !w.IsValid() {
		return w.String()
	}
	if lang == LanguageEN {
		return englishNames[w]
	}
	return cstrings.Capitalize(canonicalNames[w])
}
