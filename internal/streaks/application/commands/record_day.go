package commands

import (
	"context"
	"fmt"

	sharedApplication "github.com/felixgeelhaar/strand/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/strand/internal/shared/resilience"
	"github.com/felixgeelhaar/strand/internal/streaks/domain"
	"github.com/google/uuid"
)

// RecordDayCommand marks Date as a fully completed routine day.
type RecordDayCommand struct {
	UserID uuid.UUID
	Date   sharedDomain.Date
}

// RecordDayResult is the streak state after commit.
type RecordDayResult struct {
	CurrentStreak     int
	LongestStreak     int
	LastCompletedDate sharedDomain.Date
	Outcome           domain.Outcome
}

// RecordDayHandler handles the RecordDayCommand.
type RecordDayHandler struct {
	streakRepo domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	policy     resilience.Policy
}

// NewRecordDayHandler creates a new RecordDayHandler.
func NewRecordDayHandler(streakRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, policy resilience.Policy) *RecordDayHandler {
	return &RecordDayHandler{
		streakRepo: streakRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		policy:     policy,
	}
}

// Handle records the day in its own unit of work, retrying transient
// database errors. The result is only returned after commit.
func (h *RecordDayHandler) Handle(ctx context.Context, cmd RecordDayCommand) (*RecordDayResult, error) {
	var result *RecordDayResult
	err := sharedApplication.WithRetriedUnitOfWork(ctx, h.uow, h.policy, database.IsTransient, func(txCtx context.Context) error {
		var err error
		result, err = h.Apply(txCtx, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Apply updates the streak inside the transaction already carried by ctx.
// Commands in other contexts call it to record the streak atomically with
// their own writes.
func (h *RecordDayHandler) Apply(txCtx context.Context, cmd RecordDayCommand) (*RecordDayResult, error) {
	if cmd.Date.IsZero() {
		return nil, sharedDomain.ErrInvalidDate
	}

	streak, err := h.streakRepo.FindByUserIDForUpdate(txCtx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	if streak == nil {
		streak = domain.NewStreak(cmd.UserID)
	}

	outcome, err := streak.RecordDay(cmd.Date)
	if err != nil {
		return nil, err
	}

	result := &RecordDayResult{
		CurrentStreak:     streak.Current(),
		LongestStreak:     streak.Longest(),
		LastCompletedDate: *streak.LastCompletedDate(),
		Outcome:           outcome,
	}
	if outcome == domain.OutcomeUnchanged {
		return result, nil
	}

	if err := h.streakRepo.Save(txCtx, streak); err != nil {
		return nil, fmt.Errorf("save streak: %w", err)
	}

	events := streak.DomainEvents()
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(txCtx, cmd.UserID))
	if err := outbox.SaveEvents(txCtx, h.outboxRepo, events); err != nil {
		return nil, err
	}
	streak.ClearDomainEvents()
	return result, nil
}

// RecordDay adapts Apply for callers that only need the new streak value.
func (h *RecordDayHandler) RecordDay(txCtx context.Context, userID uuid.UUID, day sharedDomain.Date) (int, error) {
	result, err := h.Apply(txCtx, RecordDayCommand{UserID: userID, Date: day})
	if err != nil {
		return 0, err
	}
	return result.CurrentStreak, nil
}
