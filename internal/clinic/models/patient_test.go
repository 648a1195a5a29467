package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"clinic/internal/clinic/models"
)

type PatientSuite struct {
	suite.Suite
}

func TestPatientSuite(t *testing.T) {
	suite.Run(t, new(PatientSuite))
}

func (s *PatientSuite) TestParseBirthDate() {
	s.Run("dd/mm/yyyy", func() {
		got, err := models.ParseBirthDate("15/08/1990", nil)
		s.Require().NoError(err)
		s.Equal(time.Date(1990, 8, 15, 0, 0, 0, 0, time.UTC), got)
	})

	s.Run("single digit day and month", func() {
		got, err := models.ParseBirthDate("5/3/2001", time.UTC)
		s.Require().NoError(err)
		s.Equal(time.Date(2001, 3, 5, 0, 0, 0, 0, time.UTC), got)
	})

	s.Run("midnight in the clinic zone", func() {
		art := time.FixedZone("ART", -3*60*60)
		got, err := models.ParseBirthDate("15/08/1990", art)
		s.Require().NoError(err)
		s.Equal(time.Date(1990, 8, 15, 0, 0, 0, 0, art), got)
	})

	s.Run("rejects malformed and impossible dates", func() {
		for _, in := range []string{"", "1990-08-15", "31/02/1990", "15/13/1990", "15/08/90", "aa/bb/cccc"} {
			_, err := models.ParseBirthDate(in, time.UTC)
			s.ErrorIs(err, models.ErrInvalidBirthDate, in)
		}
	})
}

func (s *PatientSuite) TestNewPatient() {
	birth := time.Date(1990, 8, 15, 0, 0, 0, 0, time.UTC)

	s.Run("valid patient", func() {
		p, err := models.NewPatient("  Ana López ", "12345678", birth, referenceNow)
		s.Require().NoError(err)
		s.Equal("Ana López", p.Name())
		s.Equal("12345678", p.NationalID().String())
		s.Equal(birth, p.BirthDate())
		s.Equal("Ana López, 12345678, 15/08/1990", p.String())
	})

	s.Run("blank name", func() {
		_, err := models.NewPatient("   ", "12345678", birth, referenceNow)
		s.ErrorIs(err, models.ErrInvalidName)
	})

	s.Run("national id must be exactly eight digits", func() {
		for _, nid := range []string{"", "1234567", "123456789", "1234567a", " 12345678", "12 45678"} {
			_, err := models.NewPatient("Ana", nid, birth, referenceNow)
			s.ErrorIs(err, models.ErrInvalidNationalID, nid)
		}
	})

	s.Run("birth date today is accepted", func() {
		_, err := models.NewPatient("Ana", "12345678", referenceNow, referenceNow)
		s.NoError(err)
	})

	s.Run("future birth date is rejected", func() {
		_, err := models.NewPatient("Ana", "12345678", referenceNow.AddDate(0, 0, 1), referenceNow)
		s.ErrorIs(err, models.ErrInvalidBirthDate)
	})

	s.Run("born today east of UTC", func() {
		sydney := time.FixedZone("AEDT", 11*60*60)
		now := time.Date(2026, 10, 17, 8, 0, 0, 0, sydney)

		today, err := models.ParseBirthDate("17/10/2026", sydney)
		s.Require().NoError(err)
		_, err = models.NewPatient("Ana", "12345678", today, now)
		s.NoError(err)

		tomorrow, err := models.ParseBirthDate("18/10/2026", sydney)
		s.Require().NoError(err)
		_, err = models.NewPatient("Ana", "12345678", tomorrow, now)
		s.ErrorIs(err, models.ErrInvalidBirthDate)
	})

	s.Run("now in another zone is read on the birth date's calendar", func() {
		sydney := time.FixedZone("AEDT", 11*60*60)
		today, err := models.ParseBirthDate("17/10/2026", sydney)
		s.Require().NoError(err)
		// 2026-10-16 22:00 UTC is already the 17th in Sydney.
		_, err = models.NewPatient("Ana", "12345678", today, time.Date(2026, 10, 16, 22, 0, 0, 0, time.UTC))
		s.NoError(err)
	})

	s.Run("zero birth date is rejected", func() {
		_, err := models.NewPatient("Ana", "12345678", time.Time{}, referenceNow)
		s.ErrorIs(err, models.ErrInvalidBirthDate)
	})
}
