package domain

import (
	"context"

	"github.com/google/uuid"
)

// PlanRepository stores current and archived plans.
type PlanRepository interface {
	// FindCurrent returns nil, nil when the user has no plan.
	FindCurrent(ctx context.Context, userID uuid.UUID) (*Plan, error)
	FindCurrentForUpdate(ctx context.Context, userID uuid.UUID) (*Plan, error)
	// ListHistory returns archived plans, newest first. limit <= 0 means all.
	ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*Plan, error)
	Save(ctx context.Context, plan *Plan) error
}

// FeedbackRepository stores weekly check-ins.
type FeedbackRepository interface {
	Save(ctx context.Context, feedback *WeeklyFeedback) error
	// FindLatest returns the newest check-in by creation time, or nil.
	FindLatest(ctx context.Context, userID uuid.UUID) (*WeeklyFeedback, error)
}
