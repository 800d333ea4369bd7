// Package ports declares what the routines context needs from plans and
// streaks.
package ports

import (
	"context"

	"github.com/felixgeelhaar/strand/internal/routines/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

// Routine is the projection input taken from the current plan.
type Routine struct {
	Tasks  []domain.Task
	Anchor sharedDomain.Date
}

// RoutineSource loads the user's current routine. It returns nil, nil when
// the user has no plan.
type RoutineSource interface {
	CurrentRoutine(ctx context.Context, userID uuid.UUID) (*Routine, error)
}

// StreakRecorder records a completed day inside the transaction in ctx and
// returns the new current streak.
type StreakRecorder interface {
	RecordDay(ctx context.Context, userID uuid.UUID, day sharedDomain.Date) (int, error)
}

// TasksOn projects a routine and returns the tasks of day together with any
// rejected tasks. A nil routine has no tasks.
func TasksOn(r *Routine, day sharedDomain.Date) ([]domain.Task, []domain.TaskError) {
	if r == nil {
		return []domain.Task{}, nil
	}
	m, rejected := domain.BuildTaskMap(r.Tasks, r.Anchor)
	return m.On(day), rejected
}
