package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/felixgeelhaar/strand/internal/routines/application/ports"
	"github.com/felixgeelhaar/strand/internal/routines/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/internal/shared/resilience"
)

type mockRoutineSource struct {
	mock.Mock
}

func (m *mockRoutineSource) CurrentRoutine(ctx context.Context, userID uuid.UUID) (*ports.Routine, error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).(*ports.Routine)
	return r, args.Error(1)
}

type mockCompletionRepo struct {
	mock.Mock
}

func (m *mockCompletionRepo) Find(ctx context.Context, userID uuid.UUID, date sharedDomain.Date) (*domain.DailyCompletion, error) {
	args := m.Called(ctx, userID, date)
	c, _ := args.Get(0).(*domain.DailyCompletion)
	return c, args.Error(1)
}

func (m *mockCompletionRepo) FindForUpdate(ctx context.Context, userID uuid.UUID, date sharedDomain.Date) (*domain.DailyCompletion, error) {
	args := m.Called(ctx, userID, date)
	c, _ := args.Get(0).(*domain.DailyCompletion)
	return c, args.Error(1)
}

func (m *mockCompletionRepo) Save(ctx context.Context, c *domain.DailyCompletion) error {
	return m.Called(ctx, c).Error(0)
}

type mockStreakRecorder struct {
	mock.Mock
}

func (m *mockStreakRecorder) RecordDay(ctx context.Context, userID uuid.UUID, day sharedDomain.Date) (int, error) {
	args := m.Called(ctx, userID, day)
	return args.Int(0), args.Error(1)
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

// mondayRoutine anchors on Sunday 2023-12-31 so "Monday" lands on 2024-01-01.
func mondayRoutine(actions ...string) *ports.Routine {
	r := &ports.Routine{Anchor: sharedDomain.NewDate(2023, 12, 31)}
	for _, a := range actions {
		r.Tasks = append(r.Tasks, domain.Task{Day: "Monday", Action: a})
	}
	return r
}
