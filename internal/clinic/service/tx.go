package service

import (
	"context"
	"time"

	dErrors "clinic/pkg/domain-errors"
)

// RegistryTx provides a transactional boundary for registry check-then-act
// sequences. Implementations may wrap a database transaction or, in memory,
// a coarse lock.
type RegistryTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// defaultRegistryTxTimeout is the maximum duration for a registry transaction.
const defaultRegistryTxTimeout = 5 * time.Second

// InMemoryTx serializes every transaction behind a single-slot semaphore.
// Waiting for the slot honours the caller's context.
type InMemoryTx struct {
	sem     chan struct{}
	timeout time.Duration
}

// NewInMemoryTx returns a tx that bounds each transaction, including the wait
// for the slot, by timeout; zero selects the default. An earlier deadline on
// the caller's context still wins.
func NewInMemoryTx(timeout time.Duration) *InMemoryTx {
	if timeout <= 0 {
		timeout = defaultRegistryTxTimeout
	}
	return &InMemoryTx{sem: make(chan struct{}, 1), timeout: timeout}
}

func (t *InMemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return aborted(err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	select {
	case t.sem <- struct{}{}:
	case <-ctx.Done():
		return aborted(ctx.Err())
	}
	defer func() { <-t.sem }()

	// select picks randomly when both are ready
	if err := ctx.Err(); err != nil {
		return aborted(err)
	}

	return fn(ctx)
}

func aborted(err error) error {
	return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
}
