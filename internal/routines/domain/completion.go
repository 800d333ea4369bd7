package domain

import (
	"errors"
	"slices"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

// ErrUnknownAction is returned when toggling an action that is not one of
// the day's tasks.
var ErrUnknownAction = errors.New("action is not scheduled for this day")

// ErrFutureDate is returned when a day after today is toggled or settled.
var ErrFutureDate = errors.New("date is in the future")

// completionNamespace derives stable aggregate IDs from (user, date).
var completionNamespace = uuid.MustParse("5c1d0f0e-8a43-4b53-9a59-7f3c1b2d6e10")

// CompletionID returns the aggregate ID of a user's record for a date.
func CompletionID(userID uuid.UUID, date sharedDomain.Date) uuid.UUID {
	return uuid.NewSHA1(completionNamespace, []byte(userID.String()+"/"+date.String()))
}

// DailyCompletion is the record at users/{uid}/dailyCompletions/{date}.
type DailyCompletion struct {
	sharedDomain.BaseAggregateRoot
	userID        uuid.UUID
	date          sharedDomain.Date
	completed     []string
	autoCompleted bool
	isNew         bool
}

// NewDailyCompletion creates an empty record. It is persisted on first save.
func NewDailyCompletion(userID uuid.UUID, date sharedDomain.Date) *DailyCompletion {
	return &DailyCompletion{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRootWithID(CompletionID(userID, date)),
		userID:            userID,
		date:              date,
		isNew:             true,
	}
}

func (c *DailyCompletion) UserID() uuid.UUID       { return c.userID }
func (c *DailyCompletion) Date() sharedDomain.Date { return c.date }
func (c *DailyCompletion) AutoCompleted() bool     { return c.autoCompleted }
func (c *DailyCompletion) IsNew() bool             { return c.isNew }

// CompletedActions returns the completed actions in completion order.
func (c *DailyCompletion) CompletedActions() []string {
	return slices.Clone(c.completed)
}

// IsActionCompleted reports whether action is in the completed set.
func (c *DailyCompletion) IsActionCompleted(action string) bool {
	return slices.Contains(c.completed, action)
}

// Toggle flips action against the day's tasks and returns whether it is now
// completed.
func (c *DailyCompletion) Toggle(action string, tasks []Task) (bool, error) {
	if !slices.ContainsFunc(tasks, func(t Task) bool { return t.Action == action }) {
		return false, ErrUnknownAction
	}

	done := !c.IsActionCompleted(action)
	if done {
		c.completed = append(c.completed, action)
	} else {
		c.completed = slices.DeleteFunc(c.completed, func(a string) bool { return a == action })
	}
	c.Record(NewActionToggled(c, action, done))
	return done, nil
}

// IsComplete reports whether every task of the day is completed. A day
// without tasks counts as complete only when it was auto-completed.
func (c *DailyCompletion) IsComplete(tasks []Task) bool {
	if len(tasks) == 0 {
		return c.autoCompleted
	}
	for _, t := range tasks {
		if !c.IsActionCompleted(t.Action) {
			return false
		}
	}
	return true
}

// MarkAutoCompleted flags a task-free day as completed.
func (c *DailyCompletion) MarkAutoCompleted() {
	if c.autoCompleted {
		return
	}
	c.autoCompleted = true
	c.Record(NewDayAutoCompleted(c))
}

// MarkDayCompleted records that the last task of the day was completed.
func (c *DailyCompletion) MarkDayCompleted(streak int) {
	c.Record(NewDayCompleted(c, streak))
}

// RehydrateDailyCompletion recreates a stored record without events.
func RehydrateDailyCompletion(base sharedDomain.BaseAggregateRoot, userID uuid.UUID, date sharedDomain.Date, completed []string, autoCompleted bool) *DailyCompletion {
	return &DailyCompletion{
		BaseAggregateRoot: base,
		userID:            userID,
		date:              date,
		completed:         slices.Clone(completed),
		autoCompleted:     autoCompleted,
	}
}
