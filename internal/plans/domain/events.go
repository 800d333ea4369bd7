package domain

import (
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	planAggregateType     = "Plan"
	feedbackAggregateType = "WeeklyFeedback"
)

// Routing keys.
const (
	RoutingKeyPlanGenerated     = "plans.plan.generated"
	RoutingKeyPlanRegenerated   = "plans.plan.regenerated"
	RoutingKeyPlanArchived      = "plans.plan.archived"
	RoutingKeyFeedbackSubmitted = "plans.feedback.submitted"
)

// PlanCreated carries the fields shared by generated and regenerated plans.
type PlanCreated struct {
	sharedDomain.BaseEvent
	PlanID      uuid.UUID `json:"plan_id"`
	UserID      uuid.UUID `json:"user_id"`
	TaskCount   int       `json:"task_count"`
	CycleLength int       `json:"cycle_length"`
	Source      string    `json:"source"`
}

func newPlanCreated(p *Plan, routingKey string) PlanCreated {
	return PlanCreated{
		BaseEvent:   sharedDomain.NewBaseEvent(p.ID(), planAggregateType, routingKey),
		PlanID:      p.ID(),
		UserID:      p.userID,
		TaskCount:   len(p.tasks),
		CycleLength: p.cycleLength,
		Source:      p.source,
	}
}

// PlanGenerated is emitted when a first or replacement plan is stored.
type PlanGenerated struct {
	PlanCreated
}

func NewPlanGenerated(p *Plan) *PlanGenerated {
	return &PlanGenerated{PlanCreated: newPlanCreated(p, RoutingKeyPlanGenerated)}
}

// PlanRegenerated is emitted when a plan is rebuilt from feedback.
type PlanRegenerated struct {
	PlanCreated
}

func NewPlanRegenerated(p *Plan) *PlanRegenerated {
	return &PlanRegenerated{PlanCreated: newPlanCreated(p, RoutingKeyPlanRegenerated)}
}

// PlanArchived is emitted when a plan moves to history.
type PlanArchived struct {
	sharedDomain.BaseEvent
	PlanID       uuid.UUID `json:"plan_id"`
	UserID       uuid.UUID `json:"user_id"`
	SupersededBy uuid.UUID `json:"superseded_by"`
}

func NewPlanArchived(p *Plan, supersededBy uuid.UUID) *PlanArchived {
	return &PlanArchived{
		BaseEvent:    sharedDomain.NewBaseEvent(p.ID(), planAggregateType, RoutingKeyPlanArchived),
		PlanID:       p.ID(),
		UserID:       p.userID,
		SupersededBy: supersededBy,
	}
}

// FeedbackSubmitted triggers regeneration in the worker.
type FeedbackSubmitted struct {
	sharedDomain.BaseEvent
	FeedbackID uuid.UUID `json:"feedback_id"`
	UserID     uuid.UUID `json:"user_id"`
	HairFeel   HairFeel  `json:"hair_feel"`
	Notes      string    `json:"notes"`
}

func NewFeedbackSubmitted(f *WeeklyFeedback) *FeedbackSubmitted {
	return &FeedbackSubmitted{
		BaseEvent:  sharedDomain.NewBaseEvent(f.ID(), feedbackAggregateType, RoutingKeyFeedbackSubmitted),
		FeedbackID: f.ID(),
		UserID:     f.userID,
		HairFeel:   f.hairFeel,
		Notes:      f.notes,
	}
}
