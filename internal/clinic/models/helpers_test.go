package models_test

import (
	"strings"
	"time"

	"clinic/internal/clinic/models"
	cstrings "clinic/pkg/platform/strings"
)

var referenceNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func upper(s string) string   { return strings.ToUpper(s) }
func capital(s string) string { return cstrings.Capitalize(s) }

func mustSpecialty(name string, days ...string) *models.Specialty {
	sp, err := models.NewSpecialty(name, days)
	if err != nil {
		panic(err)
	}
	return sp
}

func mustDoctor(name, license string, specialties ...*models.Specialty) *models.Doctor {
	d, err := models.NewDoctor(name, license, specialties)
	if err != nil {
		panic(err)
	}
	return d
}

func mustPatient(name, nationalID, birthDate string) *models.Patient {
	bd, err := models.ParseBirthDate(birthDate, time.UTC)
	if err != nil {
		panic(err)
	}
	p, err := models.NewPatient(name, nationalID, bd, referenceNow)
	if err != nil {
		panic(err)
	}
	return p
}
