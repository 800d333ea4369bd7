package domain

import (
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Streak"

// Routing keys.
const (
	RoutingKeyStarted  = "streaks.streak.started"
	RoutingKeyExtended = "streaks.streak.extended"
	RoutingKeyReset    = "streaks.streak.reset"
)

// StreakChanged carries the streak state after a recorded day.
type StreakChanged struct {
	sharedDomain.BaseEvent
	UserID        uuid.UUID         `json:"user_id"`
	Day           sharedDomain.Date `json:"day"`
	CurrentStreak int               `json:"current_streak"`
	LongestStreak int               `json:"longest_streak"`
}

func newStreakChanged(s *Streak, routingKey string) StreakChanged {
	return StreakChanged{
		BaseEvent:     sharedDomain.NewBaseEvent(s.ID(), aggregateType, routingKey),
		UserID:        s.userID,
		Day:           *s.last,
		CurrentStreak: s.current,
		LongestStreak: s.longest,
	}
}

// StreakStarted is emitted for a user's first completed day.
type StreakStarted struct {
	StreakChanged
}

// NewStreakStarted creates a StreakStarted event.
func NewStreakStarted(s *Streak) *StreakStarted {
	return &StreakStarted{StreakChanged: newStreakChanged(s, RoutingKeyStarted)}
}

// StreakExtended is emitted when a consecutive day is completed.
type StreakExtended struct {
	StreakChanged
}

// NewStreakExtended creates a StreakExtended event.
func NewStreakExtended(s *Streak) *StreakExtended {
	return &StreakExtended{StreakChanged: newStreakChanged(s, RoutingKeyExtended)}
}

// StreakReset is emitted when a gap restarts the streak at 1.
type StreakReset struct {
	StreakChanged
	PreviousStreak int `json:"previous_streak"`
}

// NewStreakReset creates a StreakReset event.
func NewStreakReset(s *Streak, previous int) *StreakReset {
	return &StreakReset{StreakChanged: newStreakChanged(s, RoutingKeyReset), PreviousStreak: previous}
}
