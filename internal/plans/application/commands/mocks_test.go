package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/felixgeelhaar/strand/internal/plans/application/ports"
	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/felixgeelhaar/strand/internal/shared/resilience"
)

type mockPlanRepo struct {
	mock.Mock
}

func (m *mockPlanRepo) FindCurrent(ctx context.Context, userID uuid.UUID) (*domain.Plan, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*domain.Plan)
	return p, args.Error(1)
}

func (m *mockPlanRepo) FindCurrentForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Plan, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*domain.Plan)
	return p, args.Error(1)
}

func (m *mockPlanRepo) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Plan, error) {
	args := m.Called(ctx, userID, limit)
	p, _ := args.Get(0).([]*domain.Plan)
	return p, args.Error(1)
}

func (m *mockPlanRepo) Save(ctx context.Context, plan *domain.Plan) error {
	return m.Called(ctx, plan).Error(0)
}

type mockFeedbackRepo struct {
	mock.Mock
}

func (m *mockFeedbackRepo) Save(ctx context.Context, f *domain.WeeklyFeedback) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockFeedbackRepo) FindLatest(ctx context.Context, userID uuid.UUID) (*domain.WeeklyFeedback, error) {
	args := m.Called(ctx, userID)
	f, _ := args.Get(0).(*domain.WeeklyFeedback)
	return f, args.Error(1)
}

type mockProfileStore struct {
	mock.Mock
}

func (m *mockProfileStore) LoadProfile(ctx context.Context, userID uuid.UUID) (*ports.Profile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*ports.Profile)
	return p, args.Error(1)
}

func (m *mockProfileStore) SaveProfile(ctx context.Context, profile ports.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Name() string { return "mock" }

func (m *mockGenerator) Generate(ctx context.Context, req ports.Request) (*domain.Draft, error) {
	args := m.Called(ctx, req)
	d, _ := args.Get(0).(*domain.Draft)
	return d, args.Error(1)
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
	return resilience.Policy{MaxAttempts: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, Multiplier: 1}
}

func draft() *domain.Draft {
	return &domain.Draft{
		Tasks:               []domain.Task{{Day: "Monday", Action: "Wash", Details: "Gentle shampoo"}},
		Tips:                []string{"Use a satin pillowcase"},
		RecommendedProducts: []string{"Leave-in conditioner"},
	}
}

func storedPlan(userID uuid.UUID) *domain.Plan {
	p, err := domain.NewPlan(userID, draft(), domain.KindInitial, "mock")
	if err != nil {
		panic(err)
	}
	p.ClearDomainEvents()
	return p
}
