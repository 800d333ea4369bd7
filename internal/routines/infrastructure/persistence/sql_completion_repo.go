package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/felixgeelhaar/strand/internal/routines/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLCompletionRepository stores daily_completions rows. Postgres keeps the
// completed actions in a text[] column, SQLite in a JSON array.
type SQLCompletionRepository struct {
	conn database.Connection
}

// NewSQLCompletionRepository creates a new completion repository.
func NewSQLCompletionRepository(conn database.Connection) *SQLCompletionRepository {
	return &SQLCompletionRepository{conn: conn}
}

const selectCompletion = `
	SELECT completed_actions, auto_completed, created_at, updated_at
	FROM daily_completions
	WHERE user_id = ? AND date = ?`

// Find returns the record or nil when none exists.
func (r *SQLCompletionRepository) Find(ctx context.Context, userID uuid.UUID, date sharedDomain.Date) (*domain.DailyCompletion, error) {
	return r.find(ctx, selectCompletion, userID, date)
}

// FindForUpdate locks the (user, date) key on postgres, including when the
// row does not exist yet.
func (r *SQLCompletionRepository) FindForUpdate(ctx context.Context, userID uuid.UUID, date sharedDomain.Date) (*domain.DailyCompletion, error) {
	key := "daily_completions:" + userID.String() + ":" + date.String()
	if err := database.LockKey(ctx, database.ExecutorFromContext(ctx, r.conn), r.conn.Driver(), key); err != nil {
		return nil, err
	}
	return r.find(ctx, selectCompletion+database.ForUpdate(r.conn.Driver()), userID, date)
}

func (r *SQLCompletionRepository) find(ctx context.Context, query string, userID uuid.UUID, date sharedDomain.Date) (*domain.DailyCompletion, error) {
	var (
		actions              actionList
		auto                 bool
		createdAt, updatedAt database.Timestamp
	)
	actions.driver = r.conn.Driver()

	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, query, userID, date.String()).
		Scan(&actions, &auto, &createdAt, &updatedAt)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select completion: %w", err)
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(domain.CompletionID(userID, date), createdAt.Time, updatedAt.Time, 0)
	return domain.RehydrateDailyCompletion(base, userID, date, actions.values, auto), nil
}

// Save upserts the record.
func (r *SQLCompletionRepository) Save(ctx context.Context, c *domain.DailyCompletion) error {
	actions, err := r.actionsParam(c.CompletedActions())
	if err != nil {
		return err
	}
	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO daily_completions (
			user_id, date, completed_actions, auto_completed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			completed_actions = excluded.completed_actions,
			auto_completed = excluded.auto_completed,
			updated_at = excluded.updated_at`,
		c.UserID(),
		c.Date().String(),
		actions,
		c.AutoCompleted(),
		c.CreatedAt().UTC(),
		c.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert completion: %w", err)
	}
	return nil
}

func (r *SQLCompletionRepository) actionsParam(actions []string) (any, error) {
	if actions == nil {
		actions = []string{}
	}
	if r.conn.Driver() == database.DriverPostgres {
		return pq.Array(actions), nil
	}
	data, err := json.Marshal(actions)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// actionList scans completed_actions from either representation.
type actionList struct {
	driver database.Driver
	values []string
}

func (a *actionList) Scan(src any) error {
	if src == nil {
		a.values = nil
		return nil
	}
	if a.driver == database.DriverPostgres {
		var arr pq.StringArray
		if err := arr.Scan(src); err != nil {
			return fmt.Errorf("scan completed_actions: %w", err)
		}
		a.values = []string(arr)
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scan completed_actions: unsupported type %T", src)
	}
	return json.Unmarshal(raw, &a.values)
}
