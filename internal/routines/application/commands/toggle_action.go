package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/strand/internal/routines/application/ports"
	"github.com/felixgeelhaar/strand/internal/routines/domain"
	sharedApplication "github.com/felixgeelhaar/strand/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/strand/internal/shared/resilience"
	streaksDomain "github.com/felixgeelhaar/strand/internal/streaks/domain"
	"github.com/google/uuid"
)

// ToggleActionCommand checks or unchecks one of the day's tasks.
type ToggleActionCommand struct {
	UserID uuid.UUID
	Date   sharedDomain.Date
	Action string
}

// ToggleActionResult is the state after commit.
type ToggleActionResult struct {
	Action           string
	Completed        bool
	CompletedActions []string
	AllDone          bool
	// StreakRecorded is set when this toggle completed the day and the
	// streak moved. Completing a day older than the last recorded one
	// keeps the completion but leaves the streak alone.
	StreakRecorded bool
	CurrentStreak  int
}

// ToggleActionHandler handles the ToggleActionCommand.
type ToggleActionHandler struct {
	routines    ports.RoutineSource
	completions domain.CompletionRepository
	streaks     ports.StreakRecorder
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	policy      resilience.Policy
	clock       clock
}

// NewToggleActionHandler creates a new ToggleActionHandler.
func NewToggleActionHandler(
	routines ports.RoutineSource,
	completions domain.CompletionRepository,
	streaks ports.StreakRecorder,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	policy resilience.Policy,
) *ToggleActionHandler {
	return &ToggleActionHandler{
		routines:    routines,
		completions: completions,
		streaks:     streaks,
		outboxRepo:  outboxRepo,
		uow:         uow,
		policy:      policy,
		clock:       systemClock(),
	}
}

// WithClock sets the time source and location that decide which day is
// today. Dates after today are rejected.
func (h *ToggleActionHandler) WithClock(now func() time.Time, loc *time.Location) *ToggleActionHandler {
	h.clock = newClock(now, loc)
	return h
}

// Handle merges the toggle into the day's record. Completing the last task
// records the streak in the same unit of work.
func (h *ToggleActionHandler) Handle(ctx context.Context, cmd ToggleActionCommand) (*ToggleActionResult, error) {
	cmd.Action = strings.TrimSpace(cmd.Action)
	if cmd.Date.IsZero() {
		return nil, sharedDomain.ErrInvalidDate
	}
	if cmd.Action == "" {
		return nil, domain.ErrEmptyAction
	}
	if err := h.clock.notFuture(cmd.Date); err != nil {
		return nil, err
	}

	var result *ToggleActionResult
	err := sharedApplication.WithRetriedUnitOfWork(ctx, h.uow, h.policy, database.IsTransient, func(txCtx context.Context) error {
		routine, err := h.routines.CurrentRoutine(txCtx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("load routine: %w", err)
		}
		tasks, _ := ports.TasksOn(routine, cmd.Date)

		completion, err := h.completions.FindForUpdate(txCtx, cmd.UserID, cmd.Date)
		if err != nil {
			return fmt.Errorf("load completion: %w", err)
		}
		if completion == nil {
			completion = domain.NewDailyCompletion(cmd.UserID, cmd.Date)
		}

		wasDone := completion.IsComplete(tasks)
		done, err := completion.Toggle(cmd.Action, tasks)
		if err != nil {
			return err
		}

		res := &ToggleActionResult{Action: cmd.Action, Completed: done}
		if !wasDone && completion.IsComplete(tasks) {
			streak, err := h.streaks.RecordDay(txCtx, cmd.UserID, cmd.Date)
			switch {
			case errors.Is(err, streaksDomain.ErrDayBeforeLastCompletion):
			case err != nil:
				return fmt.Errorf("record streak: %w", err)
			default:
				completion.MarkDayCompleted(streak)
				res.StreakRecorded = true
				res.CurrentStreak = streak
			}
		}

		if err := h.completions.Save(txCtx, completion); err != nil {
			return fmt.Errorf("save completion: %w", err)
		}
		events := completion.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(txCtx, cmd.UserID))
		if err := outbox.SaveEvents(txCtx, h.outboxRepo, events); err != nil {
			return err
		}

		res.CompletedActions = completion.CompletedActions()
		res.AllDone = completion.IsComplete(tasks)
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
