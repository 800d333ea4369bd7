package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores profiles.
type Repository interface {
	// FindByUserID returns nil when the user has no profile.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Save(ctx context.Context, profile *Profile) error
}
