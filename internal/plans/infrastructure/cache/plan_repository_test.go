package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/felixgeelhaar/strand/pkg/observability"
)

type countingRepo struct {
	mu    sync.Mutex
	plans map[uuid.UUID]*domain.Plan
	loads atomic.Int32
	gate  chan struct{}
}

func newCountingRepo() *countingRepo {
	return &countingRepo{plans: make(map[uuid.UUID]*domain.Plan)}
}

func (r *countingRepo) FindCurrent(_ context.Context, userID uuid.UUID) (*domain.Plan, error) {
	r.loads.Add(1)
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.plans[userID], nil
}

func (r *countingRepo) FindCurrentForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Plan, error) {
	return r.FindCurrent(ctx, userID)
}

func (r *countingRepo) ListHistory(context.Context, uuid.UUID, int) ([]*domain.Plan, error) {
	return nil, nil
}

func (r *countingRepo) Save(_ context.Context, p *domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[p.UserID()] = p
	return nil
}

func samplePlan(t *testing.T, userID uuid.UUID) *domain.Plan {
	t.Helper()
	p, err := domain.NewPlan(userID, &domain.Draft{
		Tasks: []domain.Task{{Day: "Tuesday", Action: "Scalp massage", Time: "19:00"}},
		Tips:  []string{"Be gentle"},
	}, domain.KindInitial, "template")
	require.NoError(t, err)
	return p
}

func TestPlanRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	inner := newCountingRepo()
	store := NewMemoryStore()
	metrics := observability.NewInMemoryMetrics()
	repo := NewPlanRepository(inner, store, time.Minute, observability.DiscardLogger(), metrics)
	userID := uuid.New()
	plan := samplePlan(t, userID)
	require.NoError(t, repo.Save(ctx, plan))

	first, err := repo.FindCurrent(ctx, userID)
	require.NoError(t, err)
	second, err := repo.FindCurrent(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, int32(1), inner.loads.Load())
	assert.Equal(t, plan.ID(), second.ID())
	assert.Equal(t, first.Tasks(), second.Tasks())
	assert.Equal(t, plan.CreatedAt().UTC(), second.CreatedAt().UTC())
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricPlanCacheHits))
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricPlanCacheMisses))

	cached, err := store.Get(ctx, CurrentPlanKey(userID))
	require.NoError(t, err)
	assert.NotEmpty(t, cached)
}

func TestPlanRepository_SaveInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := newCountingRepo()
	store := NewMemoryStore()
	repo := NewPlanRepository(inner, store, 0, observability.DiscardLogger(), nil)
	userID := uuid.New()

	require.NoError(t, repo.Save(ctx, samplePlan(t, userID)))
	_, err := repo.FindCurrent(ctx, userID)
	require.NoError(t, err)

	next := samplePlan(t, userID)
	require.NoError(t, repo.Save(ctx, next))
	_, err = store.Get(ctx, CurrentPlanKey(userID))
	assert.ErrorIs(t, err, ErrMiss)

	got, err := repo.FindCurrent(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, next.ID(), got.ID())
}

func TestPlanRepository_NoPlanIsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := newCountingRepo()
	store := NewMemoryStore()
	repo := NewPlanRepository(inner, store, time.Minute, observability.DiscardLogger(), nil)
	userID := uuid.New()

	got, err := repo.FindCurrent(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)
	_, err = store.Get(ctx, CurrentPlanKey(userID))
	assert.ErrorIs(t, err, ErrMiss)
}

func TestPlanRepository_CollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	inner := newCountingRepo()
	userID := uuid.New()
	require.NoError(t, inner.Save(ctx, samplePlan(t, userID)))
	inner.gate = make(chan struct{})
	repo := NewPlanRepository(inner, NewMemoryStore(), time.Minute, observability.DiscardLogger(), nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := repo.FindCurrent(ctx, userID)
			assert.NoError(t, err)
			assert.NotNil(t, p)
		}()
	}
	require.Eventually(t, func() bool { return inner.loads.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(inner.gate)
	wg.Wait()

	assert.Equal(t, int32(1), inner.loads.Load())
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}
