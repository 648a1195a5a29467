package handler

import (
	"time"

	"clinic/internal/audit"
	"clinic/internal/clinic/models"
)

type patientResponse struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
	BirthDate  string `json:"birth_date"`
}

type specialtyResponse struct {
	Name    string   `json:"name"`
	Days    []string `json:"days"`
	Display string   `json:"display"`
}

type doctorResponse struct {
	Name        string              `json:"name"`
	License     string              `json:"license"`
	Specialties []specialtyResponse `json:"specialties"`
}

type appointmentResponse struct {
	ID          string `json:"id"`
	NationalID  string `json:"national_id"`
	PatientName string `json:"patient_name"`
	License     string `json:"license"`
	DoctorName  string `json:"doctor_name"`
	Specialty   string `json:"specialty"`
	ScheduledAt string `json:"scheduled_at"`
	Weekday     string `json:"weekday"`
}

type prescriptionResponse struct {
	ID          string    `json:"id"`
	NationalID  string    `json:"national_id"`
	License     string    `json:"license"`
	DoctorName  string    `json:"doctor_name"`
	Medications []string  `json:"medications"`
	IssuedAt    time.Time `json:"issued_at"`
}

type recordResponse struct {
	Patient       patientResponse        `json:"patient"`
	Appointments  []appointmentResponse  `json:"appointments"`
	Prescriptions []prescriptionResponse `json:"prescriptions"`
}

type auditEventResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	License   string    `json:"license,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// presenter renders models with the configured display language and zone.
type presenter struct {
	lang models.Language
	loc  *time.Location
}

func (p presenter) patient(m *models.Patient) patientResponse {
	return patientResponse{
		Name:       m.Name(),
		NationalID: m.NationalID().String(),
		BirthDate:  m.BirthDate().Format(models.BirthDateLayout),
	}
}

func (p presenter) patients(ms []*models.Patient) []patientResponse {
	out := make([]patientResponse, len(ms))
	for i, m := range ms {
		out[i] = p.patient(m)
	}
	return out
}

func (p presenter) specialty(s *models.Specialty) specialtyResponse {
	days := s.Days()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.Display(p.lang)
	}
	return specialtyResponse{Name: s.Type(), Days: names, Display: s.Format(p.lang)}
}

func (p presenter) doctor(d *models.Doctor) doctorResponse {
	specs := d.Specialties()
	out := doctorResponse{Name: d.Name(), License: d.License().String(), Specialties: make([]specialtyResponse, len(specs))}
	for i, s := range specs {
		out.Specialties[i] = p.specialty(s)
	}
	return out
}

func (p presenter) doctors(ds []*models.Doctor) []doctorResponse {
	out := make([]doctorResponse, len(ds))
	for i, d := range ds {
		out[i] = p.doctor(d)
	}
	return out
}

func (p presenter) appointment(a *models.Appointment) appointmentResponse {
	at := a.ScheduledAt().In(p.loc)
	return appointmentResponse{
		ID:          a.ID().String(),
		NationalID:  a.Patient().NationalID().String(),
		PatientName: a.Patient().Name(),
		License:     a.Doctor().License().String(),
		DoctorName:  a.Doctor().Name(),
		Specialty:   a.Specialty(),
		ScheduledAt: at.Format(models.TimestampLayout),
		Weekday:     a.Weekday().Display(p.lang),
	}
}

func (p presenter) appointments(as []*models.Appointment) []appointmentResponse {
	out := make([]appointmentResponse, len(as))
	for i, a := range as {
		out[i] = p.appointment(a)
	}
	return out
}

func (p presenter) prescription(rx *models.Prescription) prescriptionResponse {
	return prescriptionResponse{
		ID:          rx.ID().String(),
		NationalID:  rx.Patient().NationalID().String(),
		License:     rx.Doctor().License().String(),
		DoctorName:  rx.Doctor().Name(),
		Medications: rx.Medications(),
		IssuedAt:    rx.IssuedAt().In(p.loc),
	}
}

func (p presenter) record(r *models.ClinicalRecord) recordResponse {
	appts := r.Appointments()
	rxs := r.Prescriptions()
	out := recordResponse{
		Patient:       p.patient(r.Patient()),
		Appointments:  p.appointments(appts),
		Prescriptions: make([]prescriptionResponse, len(rxs)),
	}
	for i, rx := range rxs {
		out.Prescriptions[i] = p.prescription(rx)
	}
	return out
}

func (p presenter) auditEvents(events []audit.Event) []auditEventResponse {
	out := make([]auditEventResponse, len(events))
	for i, e := range events {
		out[i] = auditEventResponse{
			Timestamp: e.Timestamp,
			Action:    string(e.Action),
			License:   e.License.String(),
			Subject:   e.Subject,
			RequestID: e.RequestID,
		}
	}
	return out
}
