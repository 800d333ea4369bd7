package queries

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/strand/internal/routines/application/ports"
	"github.com/felixgeelhaar/strand/internal/routines/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

// GetTodayQuery asks for the routine view of a date.
type GetTodayQuery struct {
	UserID uuid.UUID
	Date   sharedDomain.Date
}

// TaskDTO is a task with its completion state.
type TaskDTO struct {
	domain.Task
	Completed bool `json:"completed"`
}

// RejectedTaskDTO describes a task that could not be projected.
type RejectedTaskDTO struct {
	Index  int    `json:"index"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// TodayDTO is the routine view for one day.
type TodayDTO struct {
	Date             string            `json:"date"`
	Tasks            []TaskDTO         `json:"tasks"`
	CompletedActions []string          `json:"completedActions"`
	AutoCompleted    bool              `json:"autoCompleted"`
	AllDone          bool              `json:"allDone"`
	HasPlan          bool              `json:"hasPlan"`
	Rejected         []RejectedTaskDTO `json:"rejected,omitempty"`
}

// GetTodayHandler handles the GetTodayQuery.
type GetTodayHandler struct {
	routines    ports.RoutineSource
	completions domain.CompletionRepository
}

// NewGetTodayHandler creates a new GetTodayHandler.
func NewGetTodayHandler(routines ports.RoutineSource, completions domain.CompletionRepository) *GetTodayHandler {
	return &GetTodayHandler{routines: routines, completions: completions}
}

// Handle builds the view from the current plan and the day's record.
func (h *GetTodayHandler) Handle(ctx context.Context, query GetTodayQuery) (*TodayDTO, error) {
	if query.Date.IsZero() {
		return nil, sharedDomain.ErrInvalidDate
	}

	routine, err := h.routines.CurrentRoutine(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("load routine: %w", err)
	}
	completion, err := h.completions.Find(ctx, query.UserID, query.Date)
	if err != nil {
		return nil, fmt.Errorf("load completion: %w", err)
	}
	if completion == nil {
		completion = domain.NewDailyCompletion(query.UserID, query.Date)
	}

	tasks, rejected := ports.TasksOn(routine, query.Date)
	dto := &TodayDTO{
		Date:             query.Date.String(),
		Tasks:            make([]TaskDTO, 0, len(tasks)),
		CompletedActions: completion.CompletedActions(),
		AutoCompleted:    completion.AutoCompleted(),
		AllDone:          completion.IsComplete(tasks),
		HasPlan:          routine != nil,
		Rejected:         RejectedDTOs(rejected),
	}
	if dto.CompletedActions == nil {
		dto.CompletedActions = []string{}
	}
	for _, t := range tasks {
		dto.Tasks = append(dto.Tasks, TaskDTO{Task: t, Completed: completion.IsActionCompleted(t.Action)})
	}
	return dto, nil
}

// RejectedDTOs converts projection errors for the wire.
func RejectedDTOs(errs []domain.TaskError) []RejectedTaskDTO {
	if len(errs) == 0 {
		return nil
	}
	out := make([]RejectedTaskDTO, 0, len(errs))
	for _, e := range errs {
		out = append(out, RejectedTaskDTO{Index: e.Index, Action: e.Action, Reason: e.Err.Error()})
	}
	return out
}
