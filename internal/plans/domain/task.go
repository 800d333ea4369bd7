package domain

import (
	"fmt"

	routinesDomain "github.com/felixgeelhaar/strand/internal/routines/domain"
)

// Task is one routine step of a plan. It shares its shape and rules with the
// projector's task.
type Task = routinesDomain.Task

func taskKey(t Task) string {
	return fmt.Sprintf("%d|%s|%s", t.WeekIndex(), canonicalDay(t.Day), t.Action)
}

func canonicalDay(day string) string {
	wd, err := routinesDomain.ParseWeekday(day)
	if err != nil {
		return day
	}
	return wd.String()
}
