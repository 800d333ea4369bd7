package domain

import (
	"errors"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

// ErrDayBeforeLastCompletion is returned when a day older than the last
// recorded completion is submitted.
var ErrDayBeforeLastCompletion = errors.New("day is before the last completed date")

// NextStreak returns the streak after completing today.
//
// With no previous completion the streak starts at 1. Completing the same day
// again keeps the current value, the following day extends it and any other
// gap (including a negative one) resets it to 1.
func NextStreak(last *sharedDomain.Date, today sharedDomain.Date, current int) int {
	if last == nil || last.IsZero() {
		return 1
	}
	switch today.DaysSince(*last) {
	case 0:
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}

// Outcome classifies what RecordDay did to the streak.
type Outcome string

const (
	OutcomeStarted   Outcome = "started"
	OutcomeExtended  Outcome = "extended"
	OutcomeReset     Outcome = "reset"
	OutcomeUnchanged Outcome = "unchanged"
)

// Streak is the per-user streak state stored at users/{uid}/stats/streak.
type Streak struct {
	sharedDomain.BaseAggregateRoot
	userID  uuid.UUID
	current int
	longest int
	last    *sharedDomain.Date
}

// NewStreak creates an empty streak for a user.
func NewStreak(userID uuid.UUID) *Streak {
	return &Streak{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
	}
}

func (s *Streak) UserID() uuid.UUID { return s.userID }
func (s *Streak) Current() int      { return s.current }
func (s *Streak) Longest() int      { return s.longest }

// LastCompletedDate returns a copy of the last completed day, or nil.
func (s *Streak) LastCompletedDate() *sharedDomain.Date {
	if s.last == nil {
		return nil
	}
	d := *s.last
	return &d
}

// RecordDay applies a fully completed day. The state is left untouched when
// today precedes the last completion.
func (s *Streak) RecordDay(today sharedDomain.Date) (Outcome, error) {
	if s.last != nil && today.Before(*s.last) {
		return "", ErrDayBeforeLastCompletion
	}

	previous := s.current
	next := NextStreak(s.last, today, s.current)

	var outcome Outcome
	switch {
	case s.last == nil:
		outcome = OutcomeStarted
	case today.Equals(*s.last):
		return OutcomeUnchanged, nil
	case today.DaysSince(*s.last) == 1:
		outcome = OutcomeExtended
	default:
		outcome = OutcomeReset
	}

	s.current = next
	s.longest = max(s.longest, next)
	s.last = &today

	switch outcome {
	case OutcomeStarted:
		s.Record(NewStreakStarted(s))
	case OutcomeExtended:
		s.Record(NewStreakExtended(s))
	case OutcomeReset:
		s.Record(NewStreakReset(s, previous))
	}
	return outcome, nil
}

// RehydrateStreak recreates a streak from persisted state without events.
func RehydrateStreak(base sharedDomain.BaseAggregateRoot, userID uuid.UUID, current, longest int, last *sharedDomain.Date) *Streak {
	if last != nil && last.IsZero() {
		last = nil
	}
	return &Streak{
		BaseAggregateRoot: base,
		userID:            userID,
		current:           current,
		longest:           max(longest, current),
		last:              last,
	}
}
