package domain

import (
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "DailyCompletion"

// Routing keys.
const (
	RoutingKeyActionToggled    = "routines.completion.toggled"
	RoutingKeyDayCompleted     = "routines.completion.completed"
	RoutingKeyDayAutoCompleted = "routines.completion.auto_completed"
)

// ActionToggled is emitted when an action is checked or unchecked.
type ActionToggled struct {
	sharedDomain.BaseEvent
	UserID    uuid.UUID         `json:"user_id"`
	Date      sharedDomain.Date `json:"date"`
	Action    string            `json:"action"`
	Completed bool              `json:"completed"`
}

// NewActionToggled creates an ActionToggled event.
func NewActionToggled(c *DailyCompletion, action string, completed bool) *ActionToggled {
	return &ActionToggled{
		BaseEvent: sharedDomain.NewBaseEvent(c.ID(), aggregateType, RoutingKeyActionToggled),
		UserID:    c.userID,
		Date:      c.date,
		Action:    action,
		Completed: completed,
	}
}

// DayCompleted is emitted when every task of a day is done.
type DayCompleted struct {
	sharedDomain.BaseEvent
	UserID        uuid.UUID         `json:"user_id"`
	Date          sharedDomain.Date `json:"date"`
	Actions       []string          `json:"actions"`
	CurrentStreak int               `json:"current_streak"`
}

// NewDayCompleted creates a DayCompleted event.
func NewDayCompleted(c *DailyCompletion, streak int) *DayCompleted {
	return &DayCompleted{
		BaseEvent:     sharedDomain.NewBaseEvent(c.ID(), aggregateType, RoutingKeyDayCompleted),
		UserID:        c.userID,
		Date:          c.date,
		Actions:       c.CompletedActions(),
		CurrentStreak: streak,
	}
}

// DayAutoCompleted is emitted when a task-free day is settled.
type DayAutoCompleted struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID         `json:"user_id"`
	Date   sharedDomain.Date `json:"date"`
}

// NewDayAutoCompleted creates a DayAutoCompleted event.
func NewDayAutoCompleted(c *DailyCompletion) *DayAutoCompleted {
	return &DayAutoCompleted{
		BaseEvent: sharedDomain.NewBaseEvent(c.ID(), aggregateType, RoutingKeyDayAutoCompleted),
		UserID:    c.userID,
		Date:      c.date,
	}
}
