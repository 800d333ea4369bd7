package domain

import (
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Learner"

// Routing keys.
const (
	RoutingKeyLessonCompleted = "academy.lesson.completed"
	RoutingKeyBadgeAwarded    = "academy.badge.awarded"
)

// LessonCompleted is emitted the first time a lesson is passed.
type LessonCompleted struct {
	sharedDomain.BaseEvent
	UserID   uuid.UUID `json:"user_id"`
	LessonID string    `json:"lesson_id"`
	XP       int       `json:"xp"`
	TotalXP  int       `json:"total_xp"`
}

// NewLessonCompleted creates a LessonCompleted event.
func NewLessonCompleted(l *Learner, lessonID string, xp int) *LessonCompleted {
	return &LessonCompleted{
		BaseEvent: sharedDomain.NewBaseEvent(l.ID(), aggregateType, RoutingKeyLessonCompleted),
		UserID:    l.ID(),
		LessonID:  lessonID,
		XP:        xp,
		TotalXP:   l.xp,
	}
}

// BadgeAwarded is emitted once per badge.
type BadgeAwarded struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
	Badge  string    `json:"badge"`
}

// NewBadgeAwarded creates a BadgeAwarded event.
func NewBadgeAwarded(l *Learner, badge string) *BadgeAwarded {
	return &BadgeAwarded{
		BaseEvent: sharedDomain.NewBaseEvent(l.ID(), aggregateType, RoutingKeyBadgeAwarded),
		UserID:    l.ID(),
		Badge:     badge,
	}
}
