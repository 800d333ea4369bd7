package commands

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/strand/internal/routines/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/outbox"
	streaksDomain "github.com/felixgeelhaar/strand/internal/streaks/domain"
)

func TestSettleDayHandler_Handle(t *testing.T) {
	userID := uuid.New()
	tuesday := sharedDomain.NewDate(2024, 1, 2)

	setup := func() (*mockRoutineSource, *mockCompletionRepo, *mockStreakRecorder, *mockUnitOfWork, *outbox.InMemoryRepository, *SettleDayHandler) {
		routines := new(mockRoutineSource)
		completions := new(mockCompletionRepo)
		streaks := new(mockStreakRecorder)
		uow := new(mockUnitOfWork)
		box := outbox.NewInMemoryRepository()
		h := NewSettleDayHandler(routines, completions, streaks, box, uow, fastPolicy())
		return routines, completions, streaks, uow, box, h
	}

	t.Run("task-free day is auto-completed and counts for the streak", func(t *testing.T) {
		routines, completions, streaks, uow, box, h := setup()
		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		routines.On("CurrentRoutine", txCtx, userID).Return(mondayRoutine("Wash"), nil)
		completions.On("FindForUpdate", txCtx, userID, tuesday).Return(nil, nil)
		completions.On("Save", txCtx, mock.MatchedBy(func(c *domain.DailyCompletion) bool {
			return c.AutoCompleted() && len(c.CompletedActions()) == 0
		})).Return(nil)
		streaks.On("RecordDay", txCtx, userID, tuesday).Return(2, nil)

		res, err := h.Handle(ctx, SettleDayCommand{UserID: userID, Date: tuesday})
		require.NoError(t, err)
		assert.True(t, res.Settled)
		assert.Equal(t, 2, res.CurrentStreak)

		msgs := box.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, domain.RoutingKeyDayAutoCompleted, msgs[0].RoutingKey)
	})

	t.Run("user without a plan has no tasks", func(t *testing.T) {
		routines, completions, streaks, uow, _, h := setup()
		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		routines.On("CurrentRoutine", txCtx, userID).Return(nil, nil)
		completions.On("FindForUpdate", txCtx, userID, tuesday).Return(nil, nil)
		completions.On("Save", txCtx, mock.Anything).Return(nil)
		streaks.On("RecordDay", txCtx, userID, tuesday).Return(1, nil)

		res, err := h.Handle(ctx, SettleDayCommand{UserID: userID, Date: tuesday})
		require.NoError(t, err)
		assert.True(t, res.Settled)
	})

	t.Run("existing record is left alone", func(t *testing.T) {
		routines, completions, streaks, uow, box, h := setup()
		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")
		existing := domain.RehydrateDailyCompletion(sharedDomain.NewBaseAggregateRoot(), userID, tuesday, nil, true)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		routines.On("CurrentRoutine", txCtx, userID).Return(mondayRoutine("Wash"), nil)
		completions.On("FindForUpdate", txCtx, userID, tuesday).Return(existing, nil)

		res, err := h.Handle(ctx, SettleDayCommand{UserID: userID, Date: tuesday})
		require.NoError(t, err)
		assert.False(t, res.Settled)
		streaks.AssertNotCalled(t, "RecordDay", mock.Anything, mock.Anything, mock.Anything)
		completions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, box.Messages())
	})

	t.Run("day with tasks is not settled", func(t *testing.T) {
		routines, completions, _, uow, _, h := setup()
		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")
		monday := sharedDomain.NewDate(2024, 1, 1)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		routines.On("CurrentRoutine", txCtx, userID).Return(mondayRoutine("Wash"), nil)

		res, err := h.Handle(ctx, SettleDayCommand{UserID: userID, Date: monday})
		require.NoError(t, err)
		assert.False(t, res.Settled)
		completions.AssertNotCalled(t, "FindForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("settling a day before the last completion still writes the record", func(t *testing.T) {
		routines, completions, streaks, uow, _, h := setup()
		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		routines.On("CurrentRoutine", txCtx, userID).Return(mondayRoutine("Wash"), nil)
		completions.On("FindForUpdate", txCtx, userID, tuesday).Return(nil, nil)
		completions.On("Save", txCtx, mock.MatchedBy(func(c *domain.DailyCompletion) bool {
			return c.AutoCompleted()
		})).Return(nil)
		streaks.On("RecordDay", txCtx, userID, tuesday).Return(0, streaksDomain.ErrDayBeforeLastCompletion)

		res, err := h.Handle(ctx, SettleDayCommand{UserID: userID, Date: tuesday})
		require.NoError(t, err)
		assert.True(t, res.Settled)
		assert.False(t, res.StreakRecorded)
		completions.AssertExpectations(t)
	})

	t.Run("rejects a date after today", func(t *testing.T) {
		_, _, _, uow, _, h := setup()
		h.WithClock(func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }, time.UTC)

		_, err := h.Handle(context.Background(), SettleDayCommand{UserID: userID, Date: tuesday})
		require.ErrorIs(t, err, domain.ErrFutureDate)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})
}
