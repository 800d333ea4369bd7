package domain

import (
	"errors"
	"slices"
	"time"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

// Cycle lengths in days.
const (
	InitialCycleLength     = 28
	RegeneratedCycleLength = 7
)

var (
	ErrNoCurrentPlan   = errors.New("no existing plan found")
	ErrEmptyDraft      = errors.New("plan draft has no tasks")
	ErrAlreadyArchived = errors.New("plan is already archived")
)

// Kind says how a plan was produced.
type Kind string

const (
	KindInitial  Kind = "initial"
	KindFeedback Kind = "feedback"
)

// Plan is a generated routine. A user has at most one current plan; older
// ones are archived to history.
type Plan struct {
	sharedDomain.BaseAggregateRoot
	userID                  uuid.UUID
	tasks                   []Task
	tips                    []string
	recommendedProducts     []string
	cycleLength             int
	regeneratedFromFeedback bool
	source                  string
	current                 bool
	archivedAt              *time.Time
}

// NewPlan creates the current plan from a validated draft.
func NewPlan(userID uuid.UUID, draft *Draft, kind Kind, source string) (*Plan, error) {
	if draft == nil || len(draft.Tasks) == 0 {
		return nil, ErrEmptyDraft
	}

	p := &Plan{
		BaseAggregateRoot:   sharedDomain.NewBaseAggregateRoot(),
		userID:              userID,
		tasks:               slices.Clone(draft.Tasks),
		tips:                nonNil(draft.Tips),
		recommendedProducts: nonNil(draft.RecommendedProducts),
		source:              source,
		current:             true,
	}
	switch kind {
	case KindFeedback:
		p.cycleLength = RegeneratedCycleLength
		p.regeneratedFromFeedback = true
		p.Record(NewPlanRegenerated(p))
	default:
		p.cycleLength = InitialCycleLength
		p.Record(NewPlanGenerated(p))
	}
	return p, nil
}

func (p *Plan) UserID() uuid.UUID             { return p.userID }
func (p *Plan) Tasks() []Task                 { return slices.Clone(p.tasks) }
func (p *Plan) Tips() []string                { return slices.Clone(p.tips) }
func (p *Plan) RecommendedProducts() []string { return slices.Clone(p.recommendedProducts) }
func (p *Plan) CycleLength() int              { return p.cycleLength }
func (p *Plan) RegeneratedFromFeedback() bool { return p.regeneratedFromFeedback }
func (p *Plan) Source() string                { return p.source }
func (p *Plan) IsCurrent() bool               { return p.current }
func (p *Plan) ArchivedAt() *time.Time        { return copyTime(p.archivedAt) }

// Anchor is the projection start date: the plan's creation date in loc.
func (p *Plan) Anchor(loc *time.Location) sharedDomain.Date {
	if loc == nil {
		loc = time.Local
	}
	return sharedDomain.DateOf(p.CreatedAt().In(loc))
}

// Archive moves the plan to history.
func (p *Plan) Archive(supersededBy uuid.UUID) error {
	if !p.current {
		return ErrAlreadyArchived
	}
	now := time.Now().UTC()
	p.current = false
	p.archivedAt = &now
	p.Record(NewPlanArchived(p, supersededBy))
	return nil
}

// RehydratePlan recreates a stored plan without events.
func RehydratePlan(
	base sharedDomain.BaseAggregateRoot,
	userID uuid.UUID,
	tasks []Task,
	tips, recommendedProducts []string,
	cycleLength int,
	regeneratedFromFeedback bool,
	source string,
	current bool,
	archivedAt *time.Time,
) *Plan {
	return &Plan{
		BaseAggregateRoot:       base,
		userID:                  userID,
		tasks:                   slices.Clone(tasks),
		tips:                    nonNil(tips),
		recommendedProducts:     nonNil(recommendedProducts),
		cycleLength:             cycleLength,
		regeneratedFromFeedback: regeneratedFromFeedback,
		source:                  source,
		current:                 current,
		archivedAt:              copyTime(archivedAt),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
