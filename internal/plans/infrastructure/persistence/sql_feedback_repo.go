package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/strand/internal/plans/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLFeedbackRepository stores weekly check-ins.
type SQLFeedbackRepository struct {
	conn database.Connection
}

// NewSQLFeedbackRepository creates a new feedback repository.
func NewSQLFeedbackRepository(conn database.Connection) *SQLFeedbackRepository {
	return &SQLFeedbackRepository{conn: conn}
}

// Save inserts a check-in. Check-ins are never updated.
func (r *SQLFeedbackRepository) Save(ctx context.Context, f *domain.WeeklyFeedback) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO weekly_feedback (id, user_id, hair_feel, notes, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		f.ID(), f.UserID(), string(f.HairFeel()), f.Notes(), f.CreatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// FindLatest returns the newest check-in or nil.
func (r *SQLFeedbackRepository) FindLatest(ctx context.Context, userID uuid.UUID) (*domain.WeeklyFeedback, error) {
	var (
		id        uuid.UUID
		feel      string
		notes     string
		createdAt database.Timestamp
	)
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		SELECT id, hair_feel, notes, created_at
		FROM weekly_feedback
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 1`, userID,
	).Scan(&id, &feel, &notes, &createdAt)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select latest feedback: %w", err)
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(id, createdAt.Time, createdAt.Time, 0)
	return domain.RehydrateWeeklyFeedback(base, userID, domain.HairFeel(feel), notes), nil
}
