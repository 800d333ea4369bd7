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

// RegeneratePlanCommand rebuilds a one-week plan from the latest feedback.
type RegeneratePlanCommand struct {
	UserID uuid.UUID
}

// RegeneratePlanResult contains the stored plan and the feedback it used.
type RegeneratePlanResult struct {
	Plan       *queries.PlanDTO
	FeedbackID uuid.UUID
}

// RegeneratePlanHandler handles the RegeneratePlanCommand.
type RegeneratePlanHandler struct {
	plans     domain.PlanRepository
	feedback  domain.FeedbackRepository
	profiles  ports.ProfileStore
	generator ports.Generator
	writer    planWriter
}

// NewRegeneratePlanHandler creates a new RegeneratePlanHandler.
func NewRegeneratePlanHandler(
	plans domain.PlanRepository,
	feedback domain.FeedbackRepository,
	profiles ports.ProfileStore,
	generator ports.Generator,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	policy resilience.Policy,
) *RegeneratePlanHandler {
	return &RegeneratePlanHandler{
		plans:     plans,
		feedback:  feedback,
		profiles:  profiles,
		generator: generator,
		writer:    planWriter{plans: plans, outboxRepo: outboxRepo, uow: uow, policy: policy},
	}
}

// Handle requires a current plan, a check-in and a profile. Any missing
// input aborts before the generator is called.
func (h *RegeneratePlanHandler) Handle(ctx context.Context, cmd RegeneratePlanCommand) (*RegeneratePlanResult, error) {
	if cmd.UserID == uuid.Nil {
		return nil, ErrMissingUser
	}

	current, err := h.plans.FindCurrent(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load current plan: %w", err)
	}
	if current == nil {
		return nil, domain.ErrNoCurrentPlan
	}

	latest, err := h.feedback.FindLatest(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load feedback: %w", err)
	}
	if latest == nil {
		return nil, domain.ErrNoFeedback
	}

	profile, err := h.profiles.LoadProfile(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	draft, err := h.generator.Generate(ctx, ports.Request{
		Kind:     domain.KindFeedback,
		Profile:  *profile,
		Previous: ports.PreviousPlanOf(current),
		Feedback: ports.FeedbackOf(latest),
	})
	if err != nil {
		return nil, fmt.Errorf("regenerate plan: %w", err)
	}

	plan, err := domain.NewPlan(cmd.UserID, draft, domain.KindFeedback, h.generator.Name())
	if err != nil {
		return nil, err
	}
	if err := h.writer.replace(ctx, cmd.UserID, plan); err != nil {
		return nil, err
	}
	return &RegeneratePlanResult{Plan: queries.NewPlanDTO(plan), FeedbackID: latest.ID()}, nil
}
