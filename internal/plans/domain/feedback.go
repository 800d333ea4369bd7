package domain

import (
	"errors"
	"fmt"
	"strings"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrNoFeedback      = errors.New("no feedback found")
	ErrInvalidHairFeel = errors.New("hair feel must be Better, Same or Worse")
)

// HairFeel is the user's weekly verdict.
type HairFeel string

const (
	HairFeelBetter HairFeel = "Better"
	HairFeelSame   HairFeel = "Same"
	HairFeelWorse  HairFeel = "Worse"
)

// ParseHairFeel accepts the three values in any case.
func ParseHairFeel(s string) (HairFeel, error) {
	for _, f := range []HairFeel{HairFeelBetter, HairFeelSame, HairFeelWorse} {
		if strings.EqualFold(strings.TrimSpace(s), string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidHairFeel, s)
}

// Guidance is the adjustment rule handed to the generator.
func (f HairFeel) Guidance() string {
	switch f {
	case HairFeelWorse:
		return "Hair feels worse: simplify the routine and increase moisture."
	case HairFeelBetter:
		return "Hair feels better: progress slightly."
	default:
		return "Hair feels the same: change strategy."
	}
}

// WeeklyFeedback is one check-in.
type WeeklyFeedback struct {
	sharedDomain.BaseAggregateRoot
	userID   uuid.UUID
	hairFeel HairFeel
	notes    string
}

// NewWeeklyFeedback validates and records a check-in.
func NewWeeklyFeedback(userID uuid.UUID, hairFeel, notes string) (*WeeklyFeedback, error) {
	feel, err := ParseHairFeel(hairFeel)
	if err != nil {
		return nil, err
	}
	f := &WeeklyFeedback{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		hairFeel:          feel,
		notes:             strings.TrimSpace(notes),
	}
	f.Record(NewFeedbackSubmitted(f))
	return f, nil
}

func (f *WeeklyFeedback) UserID() uuid.UUID  { return f.userID }
func (f *WeeklyFeedback) HairFeel() HairFeel { return f.hairFeel }
func (f *WeeklyFeedback) Notes() string      { return f.notes }

// RehydrateWeeklyFeedback recreates a stored check-in.
func RehydrateWeeklyFeedback(base sharedDomain.BaseAggregateRoot, userID uuid.UUID, hairFeel HairFeel, notes string) *WeeklyFeedback {
	return &WeeklyFeedback{BaseAggregateRoot: base, userID: userID, hairFeel: hairFeel, notes: notes}
}
