package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/felixgeelhaar/strand/internal/plans/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/pkg/observability"
	"github.com/google/uuid"
)

// DefaultTTL bounds how stale a cached current plan can be.
const DefaultTTL = 10 * time.Minute

// CurrentPlanKey is the cache key of a user's current plan.
func CurrentPlanKey(userID uuid.UUID) string {
	return "strand:plan:current:" + userID.String()
}

// PlanRepository serves FindCurrent from the cache and passes everything
// else to the wrapped repository. Saves invalidate the user's entry.
type PlanRepository struct {
	inner   domain.PlanRepository
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewPlanRepository decorates inner. A ttl <= 0 uses DefaultTTL.
func NewPlanRepository(inner domain.PlanRepository, store Store, ttl time.Duration, logger *slog.Logger, metrics observability.Metrics) *PlanRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &PlanRepository{inner: inner, store: store, ttl: ttl, logger: logger, metrics: metrics}
}

// FindCurrent reads through the cache. Concurrent misses for one user share
// a single load. Cache errors fall back to the database.
func (r *PlanRepository) FindCurrent(ctx context.Context, userID uuid.UUID) (*domain.Plan, error) {
	key := CurrentPlanKey(userID)

	data, err := r.store.Get(ctx, key)
	switch {
	case err == nil:
		plan, decodeErr := decodePlan(data)
		if decodeErr == nil {
			r.metrics.Counter(observability.MetricPlanCacheHits, 1)
			return plan, nil
		}
		r.logger.Warn("discarding unreadable cached plan", "key", key, "error", decodeErr)
	case !errors.Is(err, ErrMiss):
		r.logger.Warn("plan cache read failed", "key", key, "error", err)
	}
	r.metrics.Counter(observability.MetricPlanCacheMisses, 1)

	v, err, _ := r.group.Do(key, func() (any, error) {
		plan, err := r.inner.FindCurrent(ctx, userID)
		if err != nil || plan == nil {
			return plan, err
		}
		if encoded, err := encodePlan(plan); err == nil {
			if err := r.store.Set(ctx, key, encoded, r.ttl); err != nil {
				r.logger.Warn("plan cache write failed", "key", key, "error", err)
			}
		}
		return plan, nil
	})
	if err != nil {
		return nil, err
	}
	plan, _ := v.(*domain.Plan)
	return plan, nil
}

// FindCurrentForUpdate always hits the database.
func (r *PlanRepository) FindCurrentForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Plan, error) {
	return r.inner.FindCurrentForUpdate(ctx, userID)
}

func (r *PlanRepository) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Plan, error) {
	return r.inner.ListHistory(ctx, userID, limit)
}

// Save writes through and drops the cached entry. A failed write leaves the
// cache untouched.
func (r *PlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	if err := r.inner.Save(ctx, plan); err != nil {
		return err
	}
	key := CurrentPlanKey(plan.UserID())
	if err := r.store.Del(ctx, key); err != nil {
		r.logger.Warn("plan cache invalidation failed", "key", key, "error", err)
	}
	return nil
}

type cachedPlan struct {
	ID                      uuid.UUID     `json:"id"`
	UserID                  uuid.UUID     `json:"user_id"`
	Tasks                   []domain.Task `json:"tasks"`
	Tips                    []string      `json:"tips"`
	RecommendedProducts     []string      `json:"recommended_products"`
	CycleLength             int           `json:"cycle_length"`
	RegeneratedFromFeedback bool          `json:"regenerated_from_feedback"`
	Source                  string        `json:"source"`
	Version                 int           `json:"version"`
	CreatedAt               time.Time     `json:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at"`
}

func encodePlan(p *domain.Plan) ([]byte, error) {
	return json.Marshal(cachedPlan{
		ID:                      p.ID(),
		UserID:                  p.UserID(),
		Tasks:                   p.Tasks(),
		Tips:                    p.Tips(),
		RecommendedProducts:     p.RecommendedProducts(),
		CycleLength:             p.CycleLength(),
		RegeneratedFromFeedback: p.RegeneratedFromFeedback(),
		Source:                  p.Source(),
		Version:                 p.Version(),
		CreatedAt:               p.CreatedAt(),
		UpdatedAt:               p.UpdatedAt(),
	})
}

func decodePlan(data []byte) (*domain.Plan, error) {
	var c cachedPlan
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode cached plan: %w", err)
	}
	if c.ID == uuid.Nil || len(c.Tasks) == 0 {
		return nil, errors.New("cached plan is incomplete")
	}
	base := sharedDomain.RehydrateBaseAggregateRoot(c.ID, c.CreatedAt, c.UpdatedAt, c.Version)
	return domain.RehydratePlan(base, c.UserID, c.Tasks, c.Tips, c.RecommendedProducts,
		c.CycleLength, c.RegeneratedFromFeedback, c.Source, true, nil), nil
}
