package domain

import (
	"context"

	"github.com/google/uuid"
)

// LearnerRepository stores learners.
type LearnerRepository interface {
	// FindByUserID returns nil when the user has no progress yet.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Learner, error)
	FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*Learner, error)
	Save(ctx context.Context, learner *Learner) error
}
