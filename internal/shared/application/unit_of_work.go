package application

import (
	"context"

	"github.com/felixgeelhaar/strand/internal/shared/resilience"
)

// UnitOfWork provides transactional support for aggregating multiple operations.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWorkFunc is a function that executes within a unit of work.
type UnitOfWorkFunc func(ctx context.Context) error

// WithUnitOfWork executes the given function within a unit of work.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn UnitOfWorkFunc) error {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(txCtx); err != nil {
		_ = uow.Rollback(txCtx)
		return err
	}

	return uow.Commit(txCtx)
}

// WithRetriedUnitOfWork runs fn in a fresh unit of work per attempt. Only
// errors accepted by isRetryable trigger another attempt, so fn must not keep
// state between attempts.
func WithRetriedUnitOfWork(ctx context.Context, uow UnitOfWork, policy resilience.Policy, isRetryable func(error) bool, fn UnitOfWorkFunc) error {
	return resilience.Retry(ctx, policy, isRetryable, func(ctx context.Context) error {
		return WithUnitOfWork(ctx, uow, fn)
	})
}
