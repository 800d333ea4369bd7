// Package domain expands a routine into dated calendar occurrences.
package domain

import (
	"errors"
	"fmt"
	"time"

	routinesDomain "github.com/felixgeelhaar/strand/internal/routines/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	// SlotLength is the duration of a timed routine event.
	SlotLength = 30 * time.Minute
	// MaxWeeks caps one export run.
	MaxWeeks = 12
)

var (
	ErrInvalidWeeks = fmt.Errorf("weeks must be between 1 and %d", MaxWeeks)
	// ErrNoRoutine is returned when the user has no current plan.
	ErrNoRoutine = errors.New("no routine to export")
)

var occurrenceNamespace = uuid.MustParse("6f1c2a7e-5b8d-4c3a-9e21-0d4b7a9c1e55")

// Occurrence is one dated instance of a routine task.
type Occurrence struct {
	UID     string
	Date    sharedDomain.Date
	Action  string
	Details string
	// Start and End are zero for all-day occurrences.
	Start time.Time
	End   time.Time
}

// AllDay reports whether the occurrence has no time of day.
func (o Occurrence) AllDay() bool { return o.Start.IsZero() }

// OccurrenceUID is stable for a user, date and action, so re-exports
// overwrite earlier events instead of duplicating them.
func OccurrenceUID(userID uuid.UUID, date sharedDomain.Date, action string) string {
	return uuid.NewSHA1(occurrenceNamespace, []byte(userID.String()+"|"+date.String()+"|"+action)).String() + "@strand"
}

// Expand projects tasks from anchor. Tasks without a plan week repeat every
// seven days for weeks cycles; tasks pinned to a plan week occur once.
// Rejected tasks are reported and skipped.
func Expand(userID uuid.UUID, tasks []routinesDomain.Task, anchor sharedDomain.Date, weeks int, loc *time.Location) ([]Occurrence, []routinesDomain.TaskError, error) {
	if weeks < 1 || weeks > MaxWeeks {
		return nil, nil, ErrInvalidWeeks
	}
	if loc == nil {
		loc = time.Local
	}

	var (
		out      []Occurrence
		rejected []routinesDomain.TaskError
	)
	for i, task := range tasks {
		first, err := routinesDomain.ProjectTask(task, anchor)
		if err == nil {
			err = task.Validate()
		}
		if err != nil {
			rejected = append(rejected, routinesDomain.TaskError{Index: i, Action: task.Action, Err: err})
			continue
		}

		cycles := weeks
		if task.Week >= 1 {
			cycles = 1
		}
		for c := 0; c < cycles; c++ {
			out = append(out, occurrence(userID, task, first.AddDays(7*c), loc))
		}
	}
	return out, rejected, nil
}

func occurrence(userID uuid.UUID, task routinesDomain.Task, day sharedDomain.Date, loc *time.Location) Occurrence {
	o := Occurrence{
		UID:     OccurrenceUID(userID, day, task.Action),
		Date:    day,
		Action:  task.Action,
		Details: task.Details,
	}
	if task.Time != "" {
		var hh, mm int
		_, _ = fmt.Sscanf(task.Time, "%d:%d", &hh, &mm)
		o.Start = time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, loc)
		o.End = o.Start.Add(SlotLength)
	}
	return o
}
