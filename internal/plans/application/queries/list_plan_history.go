package queries

import (
	"context"

	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/google/uuid"
)

// ListPlanHistoryQuery asks for users/{uid}/plan/history.
type ListPlanHistoryQuery struct {
	UserID uuid.UUID
	Limit  int
}

// ListPlanHistoryHandler handles the ListPlanHistoryQuery.
type ListPlanHistoryHandler struct {
	plans domain.PlanRepository
}

// NewListPlanHistoryHandler creates a new ListPlanHistoryHandler.
func NewListPlanHistoryHandler(plans domain.PlanRepository) *ListPlanHistoryHandler {
	return &ListPlanHistoryHandler{plans: plans}
}

// Handle returns archived plans, newest first.
func (h *ListPlanHistoryHandler) Handle(ctx context.Context, query ListPlanHistoryQuery) ([]*PlanDTO, error) {
	plans, err := h.plans.ListHistory(ctx, query.UserID, query.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]*PlanDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, NewPlanDTO(p))
	}
	return out, nil
}
