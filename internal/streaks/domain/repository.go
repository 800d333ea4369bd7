package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for streak persistence.
type Repository interface {
	// FindByUserID returns the streak or nil when none is stored.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Streak, error)

	// FindByUserIDForUpdate is FindByUserID holding a write lock until the
	// transaction in ctx ends.
	FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*Streak, error)

	// Save upserts the streak.
	Save(ctx context.Context, streak *Streak) error
}
