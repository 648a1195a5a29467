package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"clinic/internal/audit"
	auditmemory "clinic/internal/audit/store/memory"
	"clinic/internal/clinic/models"
	"clinic/internal/clinic/service"
	appointmentstore "clinic/internal/clinic/store/appointment"
	doctorstore "clinic/internal/clinic/store/doctor"
	patientstore "clinic/internal/clinic/store/patient"
	recordstore "clinic/internal/clinic/store/record"
	"clinic/internal/clinic/testfixtures"
	"clinic/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.router = newRouter(models.LanguageES, time.UTC)
}

func newRouter(lang models.Language, loc *time.Location) chi.Router {
	publisher := audit.NewPublisher(auditmemory.NewInMemoryStore())
	svc := service.New(service.Stores{
		Patients:     patientstore.NewInMemoryStore(),
		Doctors:      doctorstore.NewInMemoryStore(),
		Appointments: appointmentstore.NewInMemoryStore(),
		Records:      recordstore.NewInMemoryStore(),
	}, service.WithAuditPublisher(publisher))

	r := chi.NewRouter()
	New(svc, publisher, nil, lang, loc).Register(r)
	return r
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	req := testutil.AtTime(testutil.NewJSONRequest(s.T(), method, path, body), testfixtures.Now)
	return testutil.Do(s.router, req)
}

func (s *HandlerSuite) seed() {
	rr := s.do(http.MethodPost, "/patients", map[string]string{
		"name": "juan pérez", "national_id": "12345678", "birth_date": "15/08/1990",
	})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(http.MethodPost, "/doctors", map[string]any{
		"name":    "dra. gómez",
		"license": "MP-1001",
		"specialties": []map[string]any{
			{"name": "pediatría", "days": []string{"Lunes", "miercoles"}},
		},
	})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
}

func (s *HandlerSuite) TestRegisterPatient() {
	s.Run("created and readable", func() {
		rr := s.do(http.MethodPost, "/patients", map[string]string{
			"name": "  ana  ", "national_id": "87654321", "birth_date": "1/2/1985",
		})
		s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
		body := testutil.Decode[patientResponse](s.T(), rr)
		s.Equal("ana", body.Name)
		s.Equal("01/02/1985", body.BirthDate)

		got := testutil.Decode[patientResponse](s.T(), s.do(http.MethodGet, "/patients/87654321", nil))
		s.Equal(body, got)
	})

	s.Run("duplicate national id is a conflict", func() {
		rr := s.do(http.MethodPost, "/patients", map[string]string{
			"name": "otra", "national_id": "87654321", "birth_date": "01/01/2000",
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})

	s.Run("future birth date rejected", func() {
		rr := s.do(http.MethodPost, "/patients", map[string]string{
			"name": "bebé", "national_id": "11112222", "birth_date": "01/01/2030",
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("malformed national id rejected", func() {
		rr := s.do(http.MethodPost, "/patients", map[string]string{
			"name": "x", "national_id": "1234", "birth_date": "01/01/2000",
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("body problems", func() {
		req := testutil.NewRawRequest(s.T(), http.MethodPost, "/patients", `{"name":`)
		testutil.AssertStatusAndError(s.T(), testutil.Do(s.router, req), http.StatusBadRequest, "bad_request")

		req = testutil.NewRawRequest(s.T(), http.MethodPost, "/patients", `{"unknown":"field"}`)
		testutil.AssertStatusAndError(s.T(), testutil.Do(s.router, req), http.StatusBadRequest, "bad_request")

		req = testutil.NewRawRequest(s.T(), http.MethodPost, "/patients", "")
		rr := testutil.Do(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
		s.Contains(rr.Body.String(), "request body is required")
	})

	s.Run("unknown patient", func() {
		rr := s.do(http.MethodGet, "/patients/99999999", nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *HandlerSuite) TestDoctors() {
	s.seed()

	s.Run("registered doctor is normalized", func() {
		body := testutil.Decode[doctorResponse](s.T(), s.do(http.MethodGet, "/doctors/MP-1001", nil))
		s.Equal("dra. gómez", body.Name)
		s.Require().Len(body.Specialties, 1)
		s.Equal("Pediatría", body.Specialties[0].Name)
		s.Equal([]string{"Lunes", "Miércoles"}, body.Specialties[0].Days)
		s.Equal("Pediatría (Días: Lunes, Miércoles)", body.Specialties[0].Display)
	})

	s.Run("duplicate license", func() {
		rr := s.do(http.MethodPost, "/doctors", map[string]any{
			"name": "otro", "license": "MP-1001",
			"specialties": []map[string]any{{"name": "clínica", "days": []string{"martes"}}},
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})

	s.Run("doctor without specialties", func() {
		rr := s.do(http.MethodPost, "/doctors", map[string]any{
			"name": "sin", "license": "MP-2", "specialties": []map[string]any{},
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("unknown weekday token", func() {
		rr := s.do(http.MethodPost, "/doctors", map[string]any{
			"name": "x", "license": "MP-3",
			"specialties": []map[string]any{{"name": "clínica", "days": []string{"funday"}}},
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("identity problems are reported before specialty problems", func() {
		rr := s.do(http.MethodPost, "/doctors", map[string]any{
			"name": "  ", "license": "MP-4",
			"specialties": []map[string]any{{"name": "clínica", "days": []string{"funday"}}},
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
		s.Contains(rr.Body.String(), "name cannot be empty")

		rr = s.do(http.MethodPost, "/doctors", map[string]any{
			"name": "x", "license": " ",
			"specialties": []map[string]any{{"name": "", "days": []string{"lunes"}}},
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
		s.Contains(rr.Body.String(), "license cannot be empty")
	})

	s.Run("add specialty", func() {
		rr := s.do(http.MethodPost, "/doctors/MP-1001/specialties", map[string]any{
			"name": "cardiología", "days": []string{"martes"},
		})
		s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
		body := testutil.Decode[doctorResponse](s.T(), rr)
		s.Len(body.Specialties, 2)

		rr = s.do(http.MethodPost, "/doctors/MP-1001/specialties", map[string]any{
			"name": "PEDIATRÍA", "days": []string{"viernes"},
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")

		rr = s.do(http.MethodPost, "/doctors/NOPE/specialties", map[string]any{
			"name": "cardiología", "days": []string{"martes"},
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("list", func() {
		body := testutil.Decode[[]doctorResponse](s.T(), s.do(http.MethodGet, "/doctors", nil))
		s.Len(body, 1)
	})
}

func (s *HandlerSuite) TestScheduleAppointmentRoundTrip() {
	s.seed()

	rr := s.do(http.MethodPost, "/appointments", map[string]string{
		"national_id": "12345678", "license": "MP-1001",
		"specialty": "pediatría", "scheduled_at": "2025-06-16 10:00",
	})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	appt := testutil.Decode[appointmentResponse](s.T(), rr)
	s.NotEmpty(appt.ID)
	s.Equal("Lunes", appt.Weekday)
	s.Equal("2025-06-16 10:00", appt.ScheduledAt)
	s.Equal("dra. gómez", appt.DoctorName)

	rx := s.do(http.MethodPost, "/prescriptions", map[string]any{
		"national_id": "12345678", "license": "MP-1001",
		"medications": []string{" ibuprofeno ", "paracetamol "},
	})
	s.Require().Equal(http.StatusCreated, rx.Code, rx.Body.String())

	rec := testutil.Decode[recordResponse](s.T(), s.do(http.MethodGet, "/patients/12345678/record", nil))
	s.Equal("12345678", rec.Patient.NationalID)
	s.Require().Len(rec.Appointments, 1)
	s.Equal(appt.ID, rec.Appointments[0].ID)
	s.Require().Len(rec.Prescriptions, 1)
	s.Equal([]string{"ibuprofeno", "paracetamol"}, rec.Prescriptions[0].Medications)

	byID := testutil.Decode[appointmentResponse](s.T(), s.do(http.MethodGet, "/appointments/"+appt.ID, nil))
	s.Equal(appt, byID)

	issued := testutil.Decode[prescriptionResponse](s.T(), rx)
	gotRx := testutil.Decode[prescriptionResponse](s.T(), s.do(http.MethodGet, "/patients/12345678/prescriptions/"+issued.ID, nil))
	s.Equal(issued.ID, gotRx.ID)
	s.Equal(issued.Medications, gotRx.Medications)

	doctorAppts := testutil.Decode[[]appointmentResponse](s.T(), s.do(http.MethodGet, "/doctors/MP-1001/appointments", nil))
	s.Len(doctorAppts, 1)

	summary := testutil.Decode[models.Summary](s.T(), s.do(http.MethodGet, "/summary", nil))
	s.Equal(models.Summary{Patients: 1, Doctors: 1, Appointments: 1, ClinicalRecords: 1}, summary)

	events := testutil.Decode[[]auditEventResponse](s.T(), s.do(http.MethodGet, "/patients/12345678/audit", nil))
	actions := make([]string, len(events))
	for i, e := range events {
		actions[i] = e.Action
	}
	s.Equal([]string{
		string(audit.ActionPatientRegistered),
		string(audit.ActionAppointmentScheduled),
		string(audit.ActionPrescriptionIssued),
	}, actions)
}

func (s *HandlerSuite) TestScheduleAppointmentRejections() {
	s.seed()
	base := func(overrides map[string]string) map[string]string {
		body := map[string]string{
			"national_id": "12345678", "license": "MP-1001",
			"specialty": "Pediatría", "scheduled_at": "2025-06-16 10:00",
		}
		for k, v := range overrides {
			body[k] = v
		}
		return body
	}
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/appointments", base(nil)).Code)

	cases := []struct {
		name      string
		overrides map[string]string
		status    int
		code      string
	}{
		{"same doctor same instant", nil, http.StatusConflict, "conflict"},
		{"doctor off that day", map[string]string{"scheduled_at": "2025-06-17 10:00"}, http.StatusUnprocessableEntity, "scheduling_conflict"},
		{"specialty not offered", map[string]string{"specialty": "Cardiología", "scheduled_at": "2025-06-18 10:00"}, http.StatusUnprocessableEntity, "scheduling_conflict"},
		{"unknown patient", map[string]string{"national_id": "00000000"}, http.StatusNotFound, "not_found"},
		{"unknown doctor", map[string]string{"license": "MP-9"}, http.StatusNotFound, "not_found"},
		{"blank specialty", map[string]string{"specialty": "  "}, http.StatusBadRequest, "invalid_input"},
		{"bad timestamp", map[string]string{"scheduled_at": "16/06/2025 10:00"}, http.StatusBadRequest, "invalid_input"},
		{"missing timestamp", map[string]string{"scheduled_at": ""}, http.StatusBadRequest, "validation_error"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rr := s.do(http.MethodPost, "/appointments", base(tc.overrides))
			testutil.AssertStatusAndError(s.T(), rr, tc.status, tc.code)
		})
	}

	appts := testutil.Decode[[]appointmentResponse](s.T(), s.do(http.MethodGet, "/appointments", nil))
	s.Len(appts, 1)
}

func (s *HandlerSuite) TestPrescriptionRejections() {
	s.seed()

	rr := s.do(http.MethodPost, "/prescriptions", map[string]any{
		"national_id": "12345678", "license": "MP-1001", "medications": []string{" ", ""},
	})
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")

	rr = s.do(http.MethodPost, "/prescriptions", map[string]any{
		"national_id": "12345678", "license": "MP-404", "medications": []string{"ibuprofeno"},
	})
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *HandlerSuite) TestEnglishDisplayAndLocalZone() {
	loc := time.FixedZone("ART", -3*60*60)
	s.router = newRouter(models.LanguageEN, loc)
	s.seed()

	rr := s.do(http.MethodPost, "/appointments", map[string]string{
		"national_id": "12345678", "license": "MP-1001",
		"specialty": "Pediatría", "scheduled_at": "2025-06-16 22:30",
	})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	appt := testutil.Decode[appointmentResponse](s.T(), rr)
	s.Equal("Monday", appt.Weekday)
	s.Equal("2025-06-16 22:30", appt.ScheduledAt)

	doctor := testutil.Decode[doctorResponse](s.T(), s.do(http.MethodGet, "/doctors/MP-1001", nil))
	s.Equal([]string{"Monday", "Wednesday"}, doctor.Specialties[0].Days)
	s.Equal("Pediatría (Days: Monday, Wednesday)", doctor.Specialties[0].Display)
}

func (s *HandlerSuite) TestLookupsByIDRejections() {
	s.seed()

	cases := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"unknown appointment", "/appointments/6f1c2a52-58f4-4a4e-9c44-0e1f5b7a9d10", http.StatusNotFound, "not_found"},
		{"malformed appointment id", "/appointments/not-a-uuid", http.StatusBadRequest, "invalid_input"},
		{"unknown prescription", "/patients/12345678/prescriptions/6f1c2a52-58f4-4a4e-9c44-0e1f5b7a9d10", http.StatusNotFound, "not_found"},
		{"malformed prescription id", "/patients/12345678/prescriptions/nope", http.StatusBadRequest, "invalid_input"},
		{"prescription of unknown patient", "/patients/99999999/prescriptions/6f1c2a52-58f4-4a4e-9c44-0e1f5b7a9d10", http.StatusNotFound, "not_found"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			testutil.AssertStatusAndError(s.T(), s.do(http.MethodGet, tc.path, nil), tc.status, tc.code)
		})
	}
}

func (s *HandlerSuite) TestBirthDateReadInClinicZone() {
	s.router = newRouter(models.LanguageES, time.FixedZone("AEDT", 11*60*60))
	// 08:00 on 17/10/2026 in the clinic, still the 16th in UTC.
	now := time.Date(2026, 10, 16, 21, 0, 0, 0, time.UTC)
	post := func(nid, birth string) *httptest.ResponseRecorder {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/patients", map[string]string{
			"name": "recién nacido", "national_id": nid, "birth_date": birth,
		})
		return testutil.Do(s.router, testutil.AtTime(req, now))
	}

	rr := post("20261017", "17/10/2026")
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	s.Equal("17/10/2026", testutil.Decode[patientResponse](s.T(), rr).BirthDate)

	testutil.AssertStatusAndError(s.T(), post("20261018", "18/10/2026"), http.StatusBadRequest, "invalid_input")
}

func (s *HandlerSuite) TestAuditForUnknownPatient() {
	rr := s.do(http.MethodGet, "/patients/12345678/audit", nil)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *HandlerSuite) TestInternalErrorsHideDetail() {
	r := chi.NewRouter()
	New(failingService{}, nil, nil, models.LanguageES, time.UTC).Register(r)

	rr := testutil.Do(r, testutil.NewJSONRequest(s.T(), http.MethodGet, "/summary", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
	s.NotContains(rr.Body.String(), "disk on fire")
}

// failingService fails every call it implements; the rest are unreachable.
type failingService struct {
	Service
}

func (failingService) Summary(context.Context) (models.Summary, error) {
	return models.Summary{}, errors.New("disk on fire")
}
