package domain

import (
	"fmt"
	"sort"
	"time"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
)

// ProjectDate returns the next date strictly after start that falls on the
// named weekday. A start that already falls on it yields start + 7 days.
func ProjectDate(weekday string, start sharedDomain.Date) (sharedDomain.Date, error) {
	wd, err := ParseWeekday(weekday)
	if err != nil {
		return sharedDomain.Date{}, err
	}
	return nextOccurrence(wd, start), nil
}

func nextOccurrence(wd time.Weekday, start sharedDomain.Date) sharedDomain.Date {
	offset := (int(wd) - int(start.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return start.AddDays(offset)
}

// ProjectTask projects a task, shifting later weeks of a multi-week plan by
// seven days per week.
func ProjectTask(task Task, start sharedDomain.Date) (sharedDomain.Date, error) {
	d, err := ProjectDate(task.Day, start)
	if err != nil {
		return sharedDomain.Date{}, err
	}
	return d.AddDays(7 * (task.WeekIndex() - 1)), nil
}

// TaskError reports a task that could not be projected.
type TaskError struct {
	Index  int
	Action string
	Err    error
}

func (e TaskError) Error() string {
	return fmt.Sprintf("task %d (%s): %v", e.Index, e.Action, e.Err)
}

func (e TaskError) Unwrap() error { return e.Err }

// TaskMap groups projected tasks by YYYY-MM-DD date key.
type TaskMap map[string][]Task

// On returns the tasks for d, or an empty slice.
func (m TaskMap) On(d sharedDomain.Date) []Task {
	if tasks, ok := m[d.String()]; ok {
		return tasks
	}
	return []Task{}
}

// Dates returns the keys in calendar order.
func (m TaskMap) Dates() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BuildTaskMap projects every task from start. Tasks with an invalid weekday
// are left out and reported; the rest keep their input order per date.
func BuildTaskMap(tasks []Task, start sharedDomain.Date) (TaskMap, []TaskError) {
	m := make(TaskMap)
	var rejected []TaskError
	for i, task := range tasks {
		d, err := ProjectTask(task, start)
		if err != nil {
			rejected = append(rejected, TaskError{Index: i, Action: task.Action, Err: err})
			continue
		}
		key := d.String()
		m[key] = append(m[key], task)
	}
	return m, rejected
}
