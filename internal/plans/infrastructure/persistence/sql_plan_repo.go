package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/strand/internal/plans/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLPlanRepository stores current and archived plans in one table. The
// current flag maps users/{uid}/plan/current, archived rows the history.
type SQLPlanRepository struct {
	conn database.Connection
}

// NewSQLPlanRepository creates a new plan repository.
func NewSQLPlanRepository(conn database.Connection) *SQLPlanRepository {
	return &SQLPlanRepository{conn: conn}
}

const planColumns = `
	id, user_id, tasks, tips, recommended_products, cycle_length,
	regenerated_from_feedback, source, current, version,
	created_at, updated_at, archived_at`

// FindCurrent returns the current plan or nil.
func (r *SQLPlanRepository) FindCurrent(ctx context.Context, userID uuid.UUID) (*domain.Plan, error) {
	return r.findCurrent(ctx, "", userID)
}

// FindCurrentForUpdate locks the current row on postgres.
func (r *SQLPlanRepository) FindCurrentForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Plan, error) {
	return r.findCurrent(ctx, database.ForUpdate(r.conn.Driver()), userID)
}

func (r *SQLPlanRepository) findCurrent(ctx context.Context, suffix string, userID uuid.UUID) (*domain.Plan, error) {
	query := `SELECT` + planColumns + ` FROM plans WHERE user_id = ? AND current = ?` + suffix
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, query, userID, true)
	plan, err := scanPlan(row)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select current plan: %w", err)
	}
	return plan, nil
}

// ListHistory returns archived plans, newest first.
func (r *SQLPlanRepository) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Plan, error) {
	query := `SELECT` + planColumns + ` FROM plans
		WHERE user_id = ? AND current = ?
		ORDER BY archived_at DESC, created_at DESC`
	args := []any{userID, false}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select plan history: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// Save upserts the plan by id.
func (r *SQLPlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	tasks, err := json.Marshal(plan.Tasks())
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	tips, err := json.Marshal(plan.Tips())
	if err != nil {
		return fmt.Errorf("marshal tips: %w", err)
	}
	products, err := json.Marshal(plan.RecommendedProducts())
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}

	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO plans (`+planColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			current = excluded.current,
			archived_at = excluded.archived_at,
			version = excluded.version,
			updated_at = excluded.updated_at`,
		plan.ID(),
		plan.UserID(),
		string(tasks),
		string(tips),
		string(products),
		plan.CycleLength(),
		plan.RegeneratedFromFeedback(),
		plan.Source(),
		plan.IsCurrent(),
		plan.Version(),
		plan.CreatedAt().UTC(),
		plan.UpdatedAt().UTC(),
		database.NullTime(plan.ArchivedAt()),
	)
	if err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	return nil
}

func scanPlan(row database.Row) (*domain.Plan, error) {
	var (
		id, userID                    uuid.UUID
		tasksJSON, tipsJSON, prodJSON string
		cycleLength, version          int
		regenerated, current          bool
		source                        string
		createdAt, updatedAt          database.Timestamp
		archivedAt                    database.Timestamp
	)
	if err := row.Scan(
		&id, &userID, &tasksJSON, &tipsJSON, &prodJSON, &cycleLength,
		&regenerated, &source, &current, &version,
		&createdAt, &updatedAt, &archivedAt,
	); err != nil {
		return nil, err
	}

	var (
		tasks          []domain.Task
		tips, products []string
	)
	if err := json.Unmarshal([]byte(tasksJSON), &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if err := json.Unmarshal([]byte(tipsJSON), &tips); err != nil {
		return nil, fmt.Errorf("decode tips: %w", err)
	}
	if err := json.Unmarshal([]byte(prodJSON), &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(id, createdAt.Time, updatedAt.Time, version)
	return domain.RehydratePlan(base, userID, tasks, tips, products, cycleLength, regenerated, source, current, archivedAt.Ptr()), nil
}
