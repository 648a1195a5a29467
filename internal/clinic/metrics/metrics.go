package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the clinic registry.
// Tracks successful mutations, rejected scheduling attempts by reason, and
// operation durations.
type Metrics struct {
	PatientsRegistered    prometheus.Counter
	DoctorsRegistered     prometheus.Counter
	SpecialtiesAdded      prometheus.Counter
	AppointmentsScheduled prometheus.Counter
	PrescriptionsIssued   prometheus.Counter
	SchedulingRejections  *prometheus.CounterVec
	OperationDuration     *prometheus.HistogramVec
}

// New registers the clinic metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PatientsRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "clinic_patients_registered_total",
			Help: "Total number of patients registered",
		}),
		DoctorsRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "clinic_doctors_registered_total",
			Help: "Total number of doctors registered",
		}),
		SpecialtiesAdded: f.NewCounter(prometheus.CounterOpts{
			Name: "clinic_specialties_added_total",
			Help: "Total number of specialties added to existing doctors",
		}),
		AppointmentsScheduled: f.NewCounter(prometheus.CounterOpts{
			Name: "clinic_appointments_scheduled_total",
			Help: "Total number of appointments scheduled",
		}),
		PrescriptionsIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "clinic_prescriptions_issued_total",
			Help: "Total number of prescriptions issued",
		}),
		SchedulingRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_scheduling_rejections_total",
			Help: "Scheduling attempts rejected, by reason",
		}, []string{"reason"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clinic_operation_duration_seconds",
			Help:    "Duration of registry operations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementPatientsRegistered() {
	m.PatientsRegistered.Inc()
}

func (m *Metrics) IncrementDoctorsRegistered() {
	m.DoctorsRegistered.Inc()
}

func (m *Metrics) IncrementSpecialtiesAdded() {
	m.SpecialtiesAdded.Inc()
}

func (m *Metrics) IncrementAppointmentsScheduled() {
	m.AppointmentsScheduled.Inc()
}

func (m *Metrics) IncrementPrescriptionsIssued() {
	m.PrescriptionsIssued.Inc()
}

// IncrementSchedulingRejection records a rejected ScheduleAppointment call.
func (m *Metrics) IncrementSchedulingRejection(reason string) {
	m.SchedulingRejections.WithLabelValues(reason).Inc()
}

// ObserveOperation records the duration of a registry operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
