package domain

import (
	"context"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

// CompletionRepository persists daily completion records.
type CompletionRepository interface {
	// Find returns the record or nil when none exists.
	Find(ctx context.Context, userID uuid.UUID, date sharedDomain.Date) (*DailyCompletion, error)

	// FindForUpdate is Find holding a write lock until the transaction in
	// ctx ends.
	FindForUpdate(ctx context.Context, userID uuid.UUID, date sharedDomain.Date) (*DailyCompletion, error)

	// Save upserts the record, merging into an existing row.
	Save(ctx context.Context, completion *DailyCompletion) error
}
