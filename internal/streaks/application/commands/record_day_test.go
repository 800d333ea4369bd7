package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/strand/internal/shared/resilience"
	"github.com/felixgeelhaar/strand/internal/streaks/domain"
)

type mockStreakRepo struct {
	mock.Mock
}

func (m *mockStreakRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Streak, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*domain.Streak)
	return s, args.Error(1)
}

func (m *mockStreakRepo) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Streak, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*domain.Streak)
	return s, args.Error(1)
}

func (m *mockStreakRepo) Save(ctx context.Context, streak *domain.Streak) error {
	return m.Called(ctx, streak).Error(0)
}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type txKey struct{}

func fastPolicy() resilience.Policy {
	return resilience.Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, Multiplier: 1}
}

func TestRecordDayHandler_Handle(t *testing.T) {
	userID := uuid.New()
	day := sharedDomain.NewDate(2024, 1, 2)

	t.Run("extends an existing streak and stages the event", func(t *testing.T) {
		repo := new(mockStreakRepo)
		box := outbox.NewInMemoryRepository()
		uow := new(mockUnitOfWork)
		handler := NewRecordDayHandler(repo, box, uow, fastPolicy())

		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")
		last := sharedDomain.NewDate(2024, 1, 1)
		existing := domain.RehydrateStreak(sharedDomain.NewBaseAggregateRoot(), userID, 5, 5, &last)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByUserIDForUpdate", txCtx, userID).Return(existing, nil)
		repo.On("Save", txCtx, existing).Return(nil)

		result, err := handler.Handle(ctx, RecordDayCommand{UserID: userID, Date: day})

		require.NoError(t, err)
		assert.Equal(t, 6, result.CurrentStreak)
		assert.Equal(t, 6, result.LongestStreak)
		assert.Equal(t, domain.OutcomeExtended, result.Outcome)

		msgs := box.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, domain.RoutingKeyExtended, msgs[0].RoutingKey)
		assert.Contains(t, string(msgs[0].Metadata), userID.String())
		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("same day writes nothing", func(t *testing.T) {
		repo := new(mockStreakRepo)
		box := outbox.NewInMemoryRepository()
		uow := new(mockUnitOfWork)
		handler := NewRecordDayHandler(repo, box, uow, fastPolicy())

		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")
		existing := domain.RehydrateStreak(sharedDomain.NewBaseAggregateRoot(), userID, 3, 4, &day)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByUserIDForUpdate", txCtx, userID).Return(existing, nil)

		result, err := handler.Handle(ctx, RecordDayCommand{UserID: userID, Date: day})

		require.NoError(t, err)
		assert.Equal(t, 3, result.CurrentStreak)
		assert.Equal(t, domain.OutcomeUnchanged, result.Outcome)
		assert.Empty(t, box.Messages())
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("transient save error is retried", func(t *testing.T) {
		repo := new(mockStreakRepo)
		box := outbox.NewInMemoryRepository()
		uow := new(mockUnitOfWork)
		handler := NewRecordDayHandler(repo, box, uow, fastPolicy())

		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")
		deadlock := &pgconn.PgError{Code: "40P01"}

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil).Once()
		uow.On("Commit", txCtx).Return(nil).Once()
		repo.On("FindByUserIDForUpdate", txCtx, userID).Return(nil, nil)
		repo.On("Save", txCtx, mock.Anything).Return(deadlock).Once()
		repo.On("Save", txCtx, mock.Anything).Return(nil).Once()

		result, err := handler.Handle(ctx, RecordDayCommand{UserID: userID, Date: day})

		require.NoError(t, err)
		assert.Equal(t, 1, result.CurrentStreak)
		assert.Len(t, box.Messages(), 1, "the failed attempt staged nothing")
		uow.AssertNumberOfCalls(t, "Begin", 2)
	})

	t.Run("earlier day fails without retry", func(t *testing.T) {
		repo := new(mockStreakRepo)
		uow := new(mockUnitOfWork)
		handler := NewRecordDayHandler(repo, outbox.NewInMemoryRepository(), uow, fastPolicy())

		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")
		later := sharedDomain.NewDate(2024, 1, 5)
		existing := domain.RehydrateStreak(sharedDomain.NewBaseAggregateRoot(), userID, 1, 1, &later)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByUserIDForUpdate", txCtx, userID).Return(existing, nil)

		result, err := handler.Handle(ctx, RecordDayCommand{UserID: userID, Date: day})

		assert.ErrorIs(t, err, domain.ErrDayBeforeLastCompletion)
		assert.Nil(t, result)
		uow.AssertNumberOfCalls(t, "Begin", 1)
	})

	t.Run("load error is wrapped", func(t *testing.T) {
		repo := new(mockStreakRepo)
		uow := new(mockUnitOfWork)
		handler := NewRecordDayHandler(repo, outbox.NewInMemoryRepository(), uow, resilience.NoRetry())

		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")
		boom := errors.New("disk full")

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByUserIDForUpdate", txCtx, userID).Return(nil, boom)

		_, err := handler.Handle(ctx, RecordDayCommand{UserID: userID, Date: day})

		assert.ErrorIs(t, err, boom)
	})

	t.Run("zero date is rejected", func(t *testing.T) {
		repo := new(mockStreakRepo)
		_, err := NewRecordDayHandler(repo, outbox.NewInMemoryRepository(), nil, resilience.NoRetry()).
			Apply(context.Background(), RecordDayCommand{UserID: userID})
		assert.ErrorIs(t, err, sharedDomain.ErrInvalidDate)
	})
}
