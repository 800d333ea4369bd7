package queries

import (
	"context"

	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/google/uuid"
)

// GetCurrentPlanQuery asks for users/{uid}/plan/current.
type GetCurrentPlanQuery struct {
	UserID uuid.UUID
}

// GetCurrentPlanHandler handles the GetCurrentPlanQuery.
type GetCurrentPlanHandler struct {
	plans domain.PlanRepository
}

// NewGetCurrentPlanHandler creates a new GetCurrentPlanHandler.
func NewGetCurrentPlanHandler(plans domain.PlanRepository) *GetCurrentPlanHandler {
	return &GetCurrentPlanHandler{plans: plans}
}

// Handle returns domain.ErrNoCurrentPlan when the user has no plan.
func (h *GetCurrentPlanHandler) Handle(ctx context.Context, query GetCurrentPlanQuery) (*PlanDTO, error) {
	plan, err := h.plans.FindCurrent(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNoCurrentPlan
	}
	return NewPlanDTO(plan), nil
}
