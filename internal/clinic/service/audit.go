package service

import (
	"context"

	"go.uber.org/zap"

	"clinic/internal/audit"
	id "clinic/pkg/domain"
	"clinic/pkg/requestcontext"
)

//go:generate mockgen -source=audit.go -destination=mocks/mocks.go -package=mocks

// AuditPublisher receives one event per successful registry mutation.
type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// logAudit logs the event and forwards it to the publisher. Publishing
// failures are logged, never returned: the mutation has already happened.
func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)

	fields := []zap.Field{
		zap.String("event", string(event.Action)),
		zap.String("log_type", "audit"),
	}
	if event.PatientID != "" {
		fields = append(fields, zap.String("patient_id", event.PatientID.String()))
	}
	if event.License != "" {
		fields = append(fields, zap.String("license", event.License.String()))
	}
	if event.Subject != "" {
		fields = append(fields, zap.String("subject", event.Subject))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	s.logger.Info(string(event.Action), fields...)

	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.Warn("failed to publish audit event",
			zap.String("event", string(event.Action)),
			zap.Error(err))
	}
}

func patientEvent(action audit.Action, patientID id.NationalID, license id.License, subject string) audit.Event {
	return audit.Event{Action: action, PatientID: patientID, License: license, Subject: subject}
}
