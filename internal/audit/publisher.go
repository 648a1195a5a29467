package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	id "clinic/pkg/domain"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	return p.store.Append(ctx, base)
}

func (p *Publisher) ListByPatient(ctx context.Context, patientID id.NationalID) ([]Event, error) {
	return p.store.ListByPatient(ctx, patientID)
}

func (p *Publisher) ListAll(ctx context.Context) ([]Event, error) {
	return p.store.ListAll(ctx)
}

// QueuePublisher hands events to a buffered channel drained by a Worker, so
// readers see an event shortly after the mutation that produced it rather
// than immediately. A full queue makes Emit wait for room, which keeps events
// in emit order. If ctx ends first the event is appended synchronously and
// may land ahead of events still queued.
type QueuePublisher struct {
	store  Store
	queue  chan Event
	logger *zap.Logger
}

// NewQueuePublisher returns a publisher and the channel its Worker must drain.
func NewQueuePublisher(store Store, buffer int, logger *zap.Logger) (*QueuePublisher, <-chan Event) {
	if buffer < 1 {
		buffer = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	q := make(chan Event, buffer)
	return &QueuePublisher{store: store, queue: q, logger: logger}, q
}

func (p *QueuePublisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	select {
	case p.queue <- base:
		return nil
	default:
	}

	select {
	case p.queue <- base:
		return nil
	case <-ctx.Done():
		p.logger.Warn("audit queue full until caller gave up, appending synchronously",
			zap.String("action", string(base.Action)),
			zap.Error(ctx.Err()))
		return p.store.Append(context.WithoutCancel(ctx), base)
	}
}

func (p *QueuePublisher) ListByPatient(ctx context.Context, patientID id.NationalID) ([]Event, error) {
	return p.store.ListByPatient(ctx, patientID)
}

func (p *QueuePublisher) ListAll(ctx context.Context) ([]Event, error) {
	return p.store.ListAll(ctx)
}
