package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/strand/internal/plans/application/ports"
	"github.com/felixgeelhaar/strand/internal/plans/application/queries"
	"github.com/felixgeelhaar/strand/internal/plans/domain"
	sharedApplication "github.com/felixgeelhaar/strand/internal/shared/application"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/strand/internal/shared/resilience"
	"github.com/google/uuid"
)

// GeneratePlanCommand creates a four-week plan. When Profile is set it is
// saved first; otherwise the stored profile is used.
type GeneratePlanCommand struct {
	UserID  uuid.UUID
	Profile *ports.Profile
}

// GeneratePlanResult contains the stored plan.
type GeneratePlanResult struct {
	Plan *queries.PlanDTO
}

// GeneratePlanHandler handles the GeneratePlanCommand.
type GeneratePlanHandler struct {
	profiles  ports.ProfileStore
	generator ports.Generator
	writer    planWriter
}

// NewGeneratePlanHandler creates a new GeneratePlanHandler.
func NewGeneratePlanHandler(
	plans domain.PlanRepository,
	profiles ports.ProfileStore,
	generator ports.Generator,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	policy resilience.Policy,
) *GeneratePlanHandler {
	return &GeneratePlanHandler{
		profiles:  profiles,
		generator: generator,
		writer:    planWriter{plans: plans, outboxRepo: outboxRepo, uow: uow, policy: policy},
	}
}

// Handle calls the generator outside any transaction. Nothing is stored
// unless the generator returns a valid draft.
func (h *GeneratePlanHandler) Handle(ctx context.Context, cmd GeneratePlanCommand) (*GeneratePlanResult, error) {
	if cmd.UserID == uuid.Nil {
		return nil, ErrMissingUser
	}

	profile, err := h.resolveProfile(ctx, cmd)
	if err != nil {
		return nil, err
	}

	draft, err := h.generator.Generate(ctx, ports.Request{Kind: domain.KindInitial, Profile: *profile})
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	plan, err := domain.NewPlan(cmd.UserID, draft, domain.KindInitial, h.generator.Name())
	if err != nil {
		return nil, err
	}
	if err := h.writer.replace(ctx, cmd.UserID, plan); err != nil {
		return nil, err
	}
	return &GeneratePlanResult{Plan: queries.NewPlanDTO(plan)}, nil
}

func (h *GeneratePlanHandler) resolveProfile(ctx context.Context, cmd GeneratePlanCommand) (*ports.Profile, error) {
	if cmd.Profile != nil {
		profile := *cmd.Profile
		profile.UID = cmd.UserID
		if err := h.profiles.SaveProfile(ctx, profile); err != nil {
			return nil, fmt.Errorf("save profile: %w", err)
		}
		return &profile, nil
	}
	return h.profiles.LoadProfile(ctx, cmd.UserID)
}
