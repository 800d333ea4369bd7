package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/strand/internal/academy/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLLearnerRepository stores learners in the learners table.
type SQLLearnerRepository struct {
	conn database.Connection
}

// NewSQLLearnerRepository creates a new learner repository.
func NewSQLLearnerRepository(conn database.Connection) *SQLLearnerRepository {
	return &SQLLearnerRepository{conn: conn}
}

const selectLearner = `
	SELECT xp, completed_lessons, badges, version, created_at, updated_at
	FROM learners
	WHERE user_id = ?`

func (r *SQLLearnerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Learner, error) {
	return r.find(ctx, selectLearner, userID)
}

func (r *SQLLearnerRepository) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Learner, error) {
	return r.find(ctx, selectLearner+database.ForUpdate(r.conn.Driver()), userID)
}

func (r *SQLLearnerRepository) find(ctx context.Context, query string, userID uuid.UUID) (*domain.Learner, error) {
	var (
		xp, version          int
		completed, badges    string
		createdAt, updatedAt database.Timestamp
	)
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, query, userID).
		Scan(&xp, &completed, &badges, &version, &createdAt, &updatedAt)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select learner: %w", err)
	}

	var lessonIDs, badgeNames []string
	if err := json.Unmarshal([]byte(completed), &lessonIDs); err != nil {
		return nil, fmt.Errorf("decode completed lessons: %w", err)
	}
	if err := json.Unmarshal([]byte(badges), &badgeNames); err != nil {
		return nil, fmt.Errorf("decode badges: %w", err)
	}
	base := sharedDomain.RehydrateBaseAggregateRoot(userID, createdAt.Time, updatedAt.Time, version)
	return domain.RehydrateLearner(base, xp, lessonIDs, badgeNames), nil
}

func (r *SQLLearnerRepository) Save(ctx context.Context, l *domain.Learner) error {
	completed, err := json.Marshal(nonNil(l.CompletedLessons()))
	if err != nil {
		return err
	}
	badges, err := json.Marshal(nonNil(l.Badges()))
	if err != nil {
		return err
	}
	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO learners (
			user_id, xp, completed_lessons, badges, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			xp = excluded.xp,
			completed_lessons = excluded.completed_lessons,
			badges = excluded.badges,
			version = excluded.version,
			updated_at = excluded.updated_at`,
		l.UserID(),
		l.XP(),
		string(completed),
		string(badges),
		l.Version(),
		l.CreatedAt().UTC(),
		l.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert learner: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
