package commands

import (
	"context"
	"errors"
	"fmt"
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

// SettleDayCommand auto-completes a day that has no tasks.
type SettleDayCommand struct {
	UserID uuid.UUID
	Date   sharedDomain.Date
}

// SettleDayResult reports whether anything was written.
type SettleDayResult struct {
	Settled bool
	// StreakRecorded is false when the settled day precedes the last
	// recorded completion.
	StreakRecorded bool
	CurrentStreak  int
}

// SettleDayHandler handles the SettleDayCommand.
type SettleDayHandler struct {
	routines    ports.RoutineSource
	completions domain.CompletionRepository
	streaks     ports.StreakRecorder
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	policy      resilience.Policy
	clock       clock
}

// NewSettleDayHandler creates a new SettleDayHandler.
func NewSettleDayHandler(
	routines ports.RoutineSource,
	completions domain.CompletionRepository,
	streaks ports.StreakRecorder,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	policy resilience.Policy,
) *SettleDayHandler {
	return &SettleDayHandler{
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
// today.
func (h *SettleDayHandler) WithClock(now func() time.Time, loc *time.Location) *SettleDayHandler {
	h.clock = newClock(now, loc)
	return h
}

// Handle writes {autoCompleted: true} and records the streak when the day
// has zero tasks and no record yet. Otherwise it does nothing.
func (h *SettleDayHandler) Handle(ctx context.Context, cmd SettleDayCommand) (*SettleDayResult, error) {
	if cmd.Date.IsZero() {
		return nil, sharedDomain.ErrInvalidDate
	}
	if err := h.clock.notFuture(cmd.Date); err != nil {
		return nil, err
	}

	var result *SettleDayResult
	err := sharedApplication.WithRetriedUnitOfWork(ctx, h.uow, h.policy, database.IsTransient, func(txCtx context.Context) error {
		result = &SettleDayResult{}

		routine, err := h.routines.CurrentRoutine(txCtx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("load routine: %w", err)
		}
		if tasks, _ := ports.TasksOn(routine, cmd.Date); len(tasks) > 0 {
			return nil
		}

		existing, err := h.completions.FindForUpdate(txCtx, cmd.UserID, cmd.Date)
		if err != nil {
			return fmt.Errorf("load completion: %w", err)
		}
		if existing != nil {
			return nil
		}

		completion := domain.NewDailyCompletion(cmd.UserID, cmd.Date)
		completion.MarkAutoCompleted()

		recorded := true
		streak, err := h.streaks.RecordDay(txCtx, cmd.UserID, cmd.Date)
		switch {
		case errors.Is(err, streaksDomain.ErrDayBeforeLastCompletion):
			recorded = false
		case err != nil:
			return fmt.Errorf("record streak: %w", err)
		}
		if err := h.completions.Save(txCtx, completion); err != nil {
			return fmt.Errorf("save completion: %w", err)
		}

		events := completion.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(txCtx, cmd.UserID))
		if err := outbox.SaveEvents(txCtx, h.outboxRepo, events); err != nil {
			return err
		}

		result = &SettleDayResult{Settled: true, StreakRecorded: recorded, CurrentStreak: streak}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
