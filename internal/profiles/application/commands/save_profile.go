package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/strand/internal/profiles/domain"
	sharedApplication "github.com/felixgeelhaar/strand/internal/shared/application"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// SaveProfileCommand creates or replaces a hair profile.
type SaveProfileCommand struct {
	UserID  uuid.UUID
	Details domain.Details
}

// SaveProfileHandler handles the SaveProfileCommand.
type SaveProfileHandler struct {
	repo       domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewSaveProfileHandler creates a new SaveProfileHandler.
func NewSaveProfileHandler(repo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *SaveProfileHandler {
	return &SaveProfileHandler{repo: repo, outboxRepo: outboxRepo, uow: uow}
}

// Handle upserts the profile and stages profiles.profile.saved.
func (h *SaveProfileHandler) Handle(ctx context.Context, cmd SaveProfileCommand) error {
	if cmd.UserID == uuid.Nil {
		return domain.ErrMissingUserID
	}
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		profile, err := h.repo.FindByUserID(txCtx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		if profile == nil {
			profile, err = domain.NewProfile(cmd.UserID, cmd.Details)
		} else {
			err = profile.Update(cmd.Details)
		}
		if err != nil {
			return err
		}

		if err := h.repo.Save(txCtx, profile); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		events := profile.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(txCtx, cmd.UserID))
		if err := outbox.SaveEvents(txCtx, h.outboxRepo, events); err != nil {
			return err
		}
		profile.ClearDomainEvents()
		return nil
	})
}
