package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/strand/internal/plans/domain"
	sharedApplication "github.com/felixgeelhaar/strand/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/strand/internal/shared/resilience"
	"github.com/google/uuid"
)

// ErrMissingUser is returned for commands without a user id.
var ErrMissingUser = errors.New("user id is required")

// planWriter replaces the current plan atomically. It is shared by the
// generate and regenerate handlers.
type planWriter struct {
	plans      domain.PlanRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	policy     resilience.Policy
}

// replace archives the user's current plan, if any, and stores next as
// current. The old plan is written first so the one-current index holds.
func (w planWriter) replace(ctx context.Context, userID uuid.UUID, next *domain.Plan) error {
	return sharedApplication.WithRetriedUnitOfWork(ctx, w.uow, w.policy, database.IsTransient, func(txCtx context.Context) error {
		var events []sharedDomain.DomainEvent

		previous, err := w.plans.FindCurrentForUpdate(txCtx, userID)
		if err != nil {
			return fmt.Errorf("load current plan: %w", err)
		}
		if previous != nil {
			if err := previous.Archive(next.ID()); err != nil {
				return err
			}
			if err := w.plans.Save(txCtx, previous); err != nil {
				return fmt.Errorf("archive plan: %w", err)
			}
			events = append(events, previous.DomainEvents()...)
		}

		if err := w.plans.Save(txCtx, next); err != nil {
			return fmt.Errorf("save plan: %w", err)
		}
		events = append(events, next.DomainEvents()...)

		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(txCtx, userID))
		return outbox.SaveEvents(txCtx, w.outboxRepo, events)
	})
}
