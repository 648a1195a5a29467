package audit

import (
	"context"

	"go.uber.org/zap"
)

// Worker consumes audit events from a channel and persists them.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *zap.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run appends events until ctx is done, then drains what is already queued
// so a graceful shutdown does not lose accepted events. A failed append is
// logged and skipped.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.append(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	for {
		select {
		case event := <-w.inbox:
			w.append(context.Background(), event)
		default:
			return
		}
	}
}

func (w *Worker) append(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.Error("failed to persist audit event",
			zap.String("action", string(event.Action)),
			zap.Error(err))
	}
}
