package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidWeekday is returned for names that are not one of the
// seven weekdays.
var ErrInvalidWeekday = errors.New("invalid weekday")

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full English weekday names or their three-letter
// abbreviations in any case.
func ParseWeekday(name string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if wd, ok := weekdays[key]; ok {
		return wd, nil
	}
	if len(key) == 3 {
		for full, wd := range weekdays {
			if strings.HasPrefix(full, key) {
				return wd, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
}
