package queries

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/strand/internal/routines/application/ports"
	"github.com/felixgeelhaar/strand/internal/routines/domain"
	"github.com/google/uuid"
)

// GetCalendarQuery asks for the whole projected routine.
type GetCalendarQuery struct {
	UserID uuid.UUID
}

// CalendarDTO maps date keys to tasks.
type CalendarDTO struct {
	Anchor   string            `json:"anchor,omitempty"`
	Days     domain.TaskMap    `json:"days"`
	Dates    []string          `json:"dates"`
	Rejected []RejectedTaskDTO `json:"rejected,omitempty"`
}

// GetCalendarHandler handles the GetCalendarQuery.
type GetCalendarHandler struct {
	routines ports.RoutineSource
}

// NewGetCalendarHandler creates a new GetCalendarHandler.
func NewGetCalendarHandler(routines ports.RoutineSource) *GetCalendarHandler {
	return &GetCalendarHandler{routines: routines}
}

// Handle returns an empty calendar for users without a plan.
func (h *GetCalendarHandler) Handle(ctx context.Context, query GetCalendarQuery) (*CalendarDTO, error) {
	routine, err := h.routines.CurrentRoutine(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("load routine: %w", err)
	}
	if routine == nil {
		return &CalendarDTO{Days: domain.TaskMap{}, Dates: []string{}}, nil
	}

	m, rejected := domain.BuildTaskMap(routine.Tasks, routine.Anchor)
	return &CalendarDTO{
		Anchor:   routine.Anchor.String(),
		Days:     m,
		Dates:    m.Dates(),
		Rejected: RejectedDTOs(rejected),
	}, nil
}
