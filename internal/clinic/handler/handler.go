package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"clinic/internal/audit"
	"clinic/internal/clinic/models"
	id "clinic/pkg/domain"
	dErrors "clinic/pkg/domain-errors"
	"clinic/pkg/platform/httputil"
	"clinic/pkg/requestcontext"
)

// Service is the registry surface the HTTP layer drives.
type Service interface {
	RegisterPatient(ctx context.Context, p *models.Patient) error
	RegisterDoctor(ctx context.Context, d *models.Doctor) error
	AddDoctorSpecialty(ctx context.Context, license string, sp *models.Specialty) (*models.Doctor, error)
	ScheduleAppointment(ctx context.Context, patientID, license, requestedSpecialty string, scheduledAt time.Time) (*models.Appointment, error)
	IssuePrescription(ctx context.Context, patientID, license string, medications []string) (*models.Prescription, error)
	ListPatients(ctx context.Context) ([]*models.Patient, error)
	ListDoctors(ctx context.Context) ([]*models.Doctor, error)
	ListAppointments(ctx context.Context) ([]*models.Appointment, error)
	ListDoctorAppointments(ctx context.Context, license string) ([]*models.Appointment, error)
	DoctorByLicense(ctx context.Context, license string) (*models.Doctor, error)
	PatientByID(ctx context.Context, nationalID string) (*models.Patient, error)
	ClinicalRecordFor(ctx context.Context, nationalID string) (*models.ClinicalRecord, error)
	AppointmentByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	PrescriptionFor(ctx context.Context, nationalID, prescriptionID string) (*models.Prescription, error)
	Summary(ctx context.Context) (models.Summary, error)
}

// AuditReader lists recorded audit events for a patient.
type AuditReader interface {
	ListByPatient(ctx context.Context, patientID id.NationalID) ([]audit.Event, error)
}

// Handler wires clinic endpoints to the registry service.
type Handler struct {
	service Service
	audit   AuditReader
	logger  *zap.Logger
	present presenter
}

// New constructs a clinic handler. Weekday names are rendered in lang and
// timestamps are read and written in loc.
func New(service Service, auditReader AuditReader, logger *zap.Logger, lang models.Language, loc *time.Location) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		service: service,
		audit:   auditReader,
		logger:  logger,
		present: presenter{lang: lang, loc: loc},
	}
}

// Register mounts clinic endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/patients", func(r chi.Router) {
		r.Post("/", h.HandleRegisterPatient)
		r.Get("/", h.HandleListPatients)
		r.Get("/{nationalID}", h.HandleGetPatient)
		r.Get("/{nationalID}/record", h.HandleGetRecord)
		r.Get("/{nationalID}/prescriptions/{prescriptionID}", h.HandleGetPrescription)
		r.Get("/{nationalID}/audit", h.HandleGetAudit)
	})
	r.Route("/doctors", func(r chi.Router) {
		r.Post("/", h.HandleRegisterDoctor)
		r.Get("/", h.HandleListDoctors)
		r.Get("/{license}", h.HandleGetDoctor)
		r.Get("/{license}/appointments", h.HandleListDoctorAppointments)
		r.Post("/{license}/specialties", h.HandleAddSpecialty)
	})
	r.Post("/appointments", h.HandleScheduleAppointment)
	r.Get("/appointments", h.HandleListAppointments)
	r.Get("/appointments/{appointmentID}", h.HandleGetAppointment)
	r.Post("/prescriptions", h.HandleIssuePrescription)
	r.Get("/summary", h.HandleSummary)
}

// HandleRegisterPatient handles POST /patients.
func (h *Handler) HandleRegisterPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[registerPatientRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	birthDate, err := models.ParseBirthDate(req.BirthDate, h.present.loc)
	if err != nil {
		h.fail(ctx, w, "invalid birth date", err)
		return
	}
	patient, err := models.NewPatient(req.Name, req.NationalID, birthDate, requestcontext.Now(ctx))
	if err != nil {
		h.fail(ctx, w, "invalid patient", err)
		return
	}
	if err := h.service.RegisterPatient(ctx, patient); err != nil {
		h.fail(ctx, w, "patient registration failed", err)
		return
	}

	h.logger.Info("patient registered",
		zap.String("request_id", requestID),
		zap.String("national_id", patient.NationalID().String()))
	httputil.WriteJSON(w, http.StatusCreated, h.present.patient(patient))
}

// HandleListPatients handles GET /patients.
func (h *Handler) HandleListPatients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patients, err := h.service.ListPatients(ctx)
	if err != nil {
		h.fail(ctx, w, "list patients failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.present.patients(patients))
}

// HandleGetPatient handles GET /patients/{nationalID}.
func (h *Handler) HandleGetPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patient, err := h.service.PatientByID(ctx, chi.URLParam(r, "nationalID"))
	if err != nil {
		h.fail(ctx, w, "get patient failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.present.patient(patient))
}

// HandleGetRecord handles GET /patients/{nationalID}/record.
func (h *Handler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := h.service.ClinicalRecordFor(ctx, chi.URLParam(r, "nationalID"))
	if err != nil {
		h.fail(ctx, w, "get clinical record failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.present.record(rec))
}

// HandleGetPrescription handles GET /patients/{nationalID}/prescriptions/{prescriptionID}.
func (h *Handler) HandleGetPrescription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rx, err := h.service.PrescriptionFor(ctx, chi.URLParam(r, "nationalID"), chi.URLParam(r, "prescriptionID"))
	if err != nil {
		h.fail(ctx, w, "get prescription failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.present.prescription(rx))
}

// HandleGetAudit handles GET /patients/{nationalID}/audit. Events are
// persisted by the audit worker after the mutation returns, so the trail may
// briefly lag the registry.
func (h *Handler) HandleGetAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patient, err := h.service.PatientByID(ctx, chi.URLParam(r, "nationalID"))
	if err != nil {
		h.fail(ctx, w, "get audit trail failed", err)
		return
	}
	if h.audit == nil {
		httputil.WriteJSON(w, http.StatusOK, []auditEventResponse{})
		return
	}
	events, err := h.audit.ListByPatient(ctx, patient.NationalID())
	if err != nil {
		h.fail(ctx, w, "get audit trail failed", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit trail"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.present.auditEvents(events))
}

// HandleRegisterDoctor handles POST /doctors.
func (h *Handler) HandleRegisterDoctor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[registerDoctorRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	doctor, err := req.toModel()
	if err != nil {
		h.fail(ctx, w, "invalid doctor", err)
		return
	}
	if err := h.service.RegisterDoctor(ctx, doctor); err != nil {
		h.fail(ctx, w, "doctor registration failed", err)
		return
	}

	h.logger.Info("doctor registered",
		zap.String("request_id", requestID),
		zap.String("license", doctor.License().String()))
	httputil.WriteJSON(w, http.StatusCreated, h.present.doctor(doctor))
}

// HandleListDoctors handles GET /doctors.
func (h *Handler) HandleListDoctors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doctors, err := h.service.ListDoctors(ctx)
	if err != nil {
		h.fail(ctx, w, "list doctors failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.present.doctors(doctors))
}

// HandleGetDoctor handles GET /doctors/{license}.
func (h *Handler) HandleGetDoctor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doctor, err := h.service.DoctorByLicense(ctx, chi.URLParam(r, "license"))
	if err != nil {
		h.fail(ctx, w, "get doctor failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.present.doctor(doctor))
}

// HandleListDoctorAppointments handles GET /doctors/{license}/appointments.
func (h *Handler) HandleListDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appts, err := h.service.ListDoctorAppointments(ctx, chi.URLParam(r, "license"))
	if err != nil {
		h.fail(ctx, w, "list doctor appointments failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.present.appointments(appts))
}

// HandleAddSpecialty handles POST /doctors/{license}/specialties.
func (h *Handler) HandleAddSpecialty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	license := chi.URLParam(r, "license")

	req, ok := httputil.DecodeAndPrepare[specialtyRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	sp, err := req.toModel()
	if err != nil {
		h.fail(ctx, w, "invalid specialty", err)
		return
	}
	doctor, err := h.service.AddDoctorSpecialty(ctx, license, sp)
	if err != nil {
		h.fail(ctx, w, "add specialty failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, h.present.doctor(doctor))
}

// HandleScheduleAppointment handles POST /appointments.
func (h *Handler) HandleScheduleAppointment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[scheduleAppointmentRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	at, err := req.scheduledAt(h.present.loc)
	if err != nil {
		h.fail(ctx, w, "invalid appointment time", err)
		return
	}

	appt, err := h.service.ScheduleAppointment(ctx, req.NationalID, req.License, req.Specialty, at)
	if err != nil {
		h.fail(ctx, w, "appointment scheduling failed", err)
		return
	}

	h.logger.Info("appointment scheduled",
		zap.String("request_id", requestID),
		zap.String("appointment_id", appt.ID().String()),
		zap.String("license", req.License),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	httputil.WriteJSON(w, http.StatusCreated, h.present.appointment(appt))
}

// HandleListAppointments handles GET /appointments.
func (h *Handler) HandleListAppointments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appts, err := h.service.ListAppointments(ctx)
	if err != nil {
		h.fail(ctx, w, "list appointments failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.present.appointments(appts))
}

// HandleGetAppointment handles GET /appointments/{appointmentID}.
func (h *Handler) HandleGetAppointment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appt, err := h.service.AppointmentByID(ctx, chi.URLParam(r, "appointmentID"))
	if err != nil {
		h.fail(ctx, w, "get appointment failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.present.appointment(appt))
}

// HandleIssuePrescription handles POST /prescriptions.
func (h *Handler) HandleIssuePrescription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[issuePrescriptionRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	rx, err := h.service.IssuePrescription(ctx, req.NationalID, req.License, req.Medications)
	if err != nil {
		h.fail(ctx, w, "prescription failed", err)
		return
	}

	h.logger.Info("prescription issued",
		zap.String("request_id", requestID),
		zap.String("prescription_id", rx.ID().String()))
	httputil.WriteJSON(w, http.StatusCreated, h.present.prescription(rx))
}

// HandleSummary handles GET /summary.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary, err := h.service.Summary(ctx)
	if err != nil {
		h.fail(ctx, w, "summary failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

// fail logs err at a level matching its class and writes the error envelope.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	fields := []zap.Field{
		zap.String("request_id", requestcontext.RequestID(ctx)),
		zap.String("code", string(dErrors.CodeOf(err))),
		zap.Error(err),
	}
	if httputil.StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.Error(msg, fields...)
	} else {
		h.logger.Warn(msg, fields...)
	}
	httputil.WriteError(w, err)
}
