package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/strand/internal/plans/domain"
	sharedApplication "github.com/felixgeelhaar/strand/internal/shared/application"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// SubmitFeedbackCommand stores a weekly check-in.
type SubmitFeedbackCommand struct {
	UserID   uuid.UUID
	HairFeel string
	Notes    string
}

// SubmitFeedbackResult contains the new check-in id.
type SubmitFeedbackResult struct {
	FeedbackID uuid.UUID
}

// SubmitFeedbackHandler handles the SubmitFeedbackCommand.
type SubmitFeedbackHandler struct {
	feedback   domain.FeedbackRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewSubmitFeedbackHandler creates a new SubmitFeedbackHandler.
func NewSubmitFeedbackHandler(feedback domain.FeedbackRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *SubmitFeedbackHandler {
	return &SubmitFeedbackHandler{feedback: feedback, outboxRepo: outboxRepo, uow: uow}
}

// Handle validates hairFeel and stages plans.feedback.submitted, which the
// worker turns into a regeneration.
func (h *SubmitFeedbackHandler) Handle(ctx context.Context, cmd SubmitFeedbackCommand) (*SubmitFeedbackResult, error) {
	if cmd.UserID == uuid.Nil {
		return nil, ErrMissingUser
	}
	f, err := domain.NewWeeklyFeedback(cmd.UserID, cmd.HairFeel, cmd.Notes)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.feedback.Save(txCtx, f); err != nil {
			return fmt.Errorf("save feedback: %w", err)
		}
		events := f.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(txCtx, cmd.UserID))
		return outbox.SaveEvents(txCtx, h.outboxRepo, events)
	})
	if err != nil {
		return nil, err
	}
	return &SubmitFeedbackResult{FeedbackID: f.ID()}, nil
}
