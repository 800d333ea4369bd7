package domain

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrEmptyAction = errors.New("task action cannot be empty")
	ErrInvalidTime = errors.New("task time must be HH:MM")
	ErrInvalidWeek = errors.New("task week must be at least 1")
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Task is one weekday-tagged routine step produced by a plan generator.
// Action is unique within a day.
type Task struct {
	Day     string `json:"day"`
	Action  string `json:"action"`
	Details string `json:"details"`
	Time    string `json:"time,omitempty"`
	Week    int    `json:"week,omitempty"`
}

// Validate checks the fields that can be checked without projecting.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Action) == "" {
		return ErrEmptyAction
	}
	if _, err := ParseWeekday(t.Day); err != nil {
		return err
	}
	if t.Time != "" && !clockPattern.MatchString(t.Time) {
		return ErrInvalidTime
	}
	if t.Week < 0 {
		return ErrInvalidWeek
	}
	return nil
}

// IsClockTime reports whether s is a valid HH:MM value.
func IsClockTime(s string) bool {
	return clockPattern.MatchString(s)
}

// WeekIndex returns the 1-based week, treating an unset week as week 1.
func (t Task) WeekIndex() int {
	if t.Week < 1 {
		return 1
	}
	return t.Week
}
