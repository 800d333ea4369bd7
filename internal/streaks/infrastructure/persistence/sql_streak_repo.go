package persistence

import (
	"context"
	"fmt"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/strand/internal/streaks/domain"
	"github.com/google/uuid"
)

// SQLStreakRepository stores streaks in the streaks table of either driver.
type SQLStreakRepository struct {
	conn database.Connection
}

// NewSQLStreakRepository creates a new streak repository.
func NewSQLStreakRepository(conn database.Connection) *SQLStreakRepository {
	return &SQLStreakRepository{conn: conn}
}

const selectStreak = `
	SELECT id, user_id, current_streak, longest_streak, last_completed_date,
	       version, created_at, updated_at
	FROM streaks
	WHERE user_id = ?`

// FindByUserID returns the streak or nil when none is stored.
func (r *SQLStreakRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Streak, error) {
	return r.find(ctx, selectStreak, userID)
}

// FindByUserIDForUpdate locks the user's streak key on postgres, so a first
// completion serialises too. SQLite has a single writer connection, so the
// transaction already excludes other writers.
func (r *SQLStreakRepository) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Streak, error) {
	if err := database.LockKey(ctx, database.ExecutorFromContext(ctx, r.conn), r.conn.Driver(), "streaks:"+userID.String()); err != nil {
		return nil, err
	}
	return r.find(ctx, selectStreak+database.ForUpdate(r.conn.Driver()), userID)
}

func (r *SQLStreakRepository) find(ctx context.Context, query string, userID uuid.UUID) (*domain.Streak, error) {
	var (
		id, owner            uuid.UUID
		current, longest     int
		last                 database.NullDate
		version              int
		createdAt, updatedAt database.Timestamp
	)
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, query, userID).Scan(
		&id, &owner, &current, &longest, &last, &version, &createdAt, &updatedAt,
	)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select streak: %w", err)
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(id, createdAt.Time, updatedAt.Time, version)
	return domain.RehydrateStreak(base, owner, current, longest, last.Ptr()), nil
}

// Save upserts the streak keyed by user.
func (r *SQLStreakRepository) Save(ctx context.Context, streak *domain.Streak) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO streaks (
			user_id, id, current_streak, longest_streak, last_completed_date,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_completed_date = excluded.last_completed_date,
			version = excluded.version,
			updated_at = excluded.updated_at`,
		streak.UserID(),
		streak.ID(),
		streak.Current(),
		streak.Longest(),
		database.DateParam(streak.LastCompletedDate()),
		streak.Version(),
		streak.CreatedAt().UTC(),
		streak.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert streak: %w", err)
	}
	return nil
}
