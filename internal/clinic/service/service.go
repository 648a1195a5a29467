package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"clinic/internal/clinic/metrics"
	"clinic/internal/clinic/models"
	id "clinic/pkg/domain"
)

type PatientStore interface {
	Create(ctx context.Context, p *models.Patient) error
	FindByID(ctx context.Context, nationalID id.NationalID) (*models.Patient, error)
	List(ctx context.Context) ([]*models.Patient, error)
	Count(ctx context.Context) (int, error)
}

type DoctorStore interface {
	Create(ctx context.Context, d *models.Doctor) error
	FindByLicense(ctx context.Context, license id.License) (*models.Doctor, error)
	List(ctx context.Context) ([]*models.Doctor, error)
	Count(ctx context.Context) (int, error)
}

type AppointmentStore interface {
	CreateIfSlotAvailable(ctx context.Context, a *models.Appointment) error
	HasSlot(ctx context.Context, license id.License, at time.Time) (bool, error)
	FindByID(ctx context.Context, appointmentID id.AppointmentID) (*models.Appointment, error)
	List(ctx context.Context) ([]*models.Appointment, error)
	ListByLicense(ctx context.Context, license id.License) ([]*models.Appointment, error)
	Count(ctx context.Context) (int, error)
}

type RecordStore interface {
	Create(ctx context.Context, r *models.ClinicalRecord) error
	FindByPatient(ctx context.Context, nationalID id.NationalID) (*models.ClinicalRecord, error)
	Count(ctx context.Context) (int, error)
}

// Stores groups the persistence ports the registry owns.
type Stores struct {
	Patients     PatientStore
	Doctors      DoctorStore
	Appointments AppointmentStore
	Records      RecordStore
}

// Service is the clinic registry. It owns patients, doctors, clinical records
// and the global appointment list, and runs every check-then-act sequence
// inside one RegistryTx.
type Service struct {
	patients       PatientStore
	doctors        DoctorStore
	appointments   AppointmentStore
	records        RecordStore
	tx             RegistryTx
	logger         *zap.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTx(tx RegistryTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// New constructs a Service. Without WithTx an in-memory tx is used.
func New(stores Stores, opts ...Option) *Service {
	s := &Service{
		patients:     stores.Patients,
		doctors:      stores.Doctors,
		appointments: stores.Appointments,
		records:      stores.Records,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewInMemoryTx(0)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("clinic/registry")
	}
	return s
}
