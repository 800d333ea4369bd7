// Package ports declares the collaborators plan commands depend on.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/google/uuid"
)

var (
	// ErrGeneratorUnavailable is returned while the generator breaker is open
	// or when no generator is configured.
	ErrGeneratorUnavailable = errors.New("plan generator unavailable")
	// ErrGeneratorTimeout is returned when a generation call runs out of time.
	ErrGeneratorTimeout = errors.New("plan generation timed out")
	// ErrProfileNotFound is returned when a plan is requested for a user
	// without a hair profile.
	ErrProfileNotFound = errors.New("user profile not found")
	// ErrTransient marks generator failures worth retrying, such as rate
	// limits, upstream 5xx responses and dropped connections.
	ErrTransient = errors.New("transient generator failure")
)

// CurrentRoutine is the hair-care routine the user follows today.
type CurrentRoutine struct {
	WashFrequency string   `json:"washFrequency"`
	Products      []string `json:"products"`
}

// Profile is the part of the hair profile a generator sees.
type Profile struct {
	UID            uuid.UUID      `json:"uid"`
	HairType       string         `json:"hairType"`
	HairGoals      []string       `json:"hairGoals"`
	CurrentRoutine CurrentRoutine `json:"currentRoutine"`
	Products       []string       `json:"products"`
	DateOfBirth    string         `json:"dateOfBirth,omitempty"`
}

// PreviousPlan is the plan a feedback request replaces.
type PreviousPlan struct {
	Routine             []domain.Task `json:"routine"`
	Tips                []string      `json:"tips"`
	RecommendedProducts []string      `json:"recommendedProducts"`
	CreatedAt           time.Time     `json:"createdAt"`
}

// Feedback is the check-in a feedback request reacts to.
type Feedback struct {
	HairFeel  domain.HairFeel `json:"hairFeel"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Request is one generation call. Previous and Feedback are set only for
// KindFeedback.
type Request struct {
	Kind     domain.Kind
	Profile  Profile
	Previous *PreviousPlan
	Feedback *Feedback
}

// Temperature is the sampling temperature for the request kind.
func (r Request) Temperature() float64 {
	if r.Kind == domain.KindFeedback {
		return 0.8
	}
	return 0.7
}

// Generator turns a request into a validated draft. Implementations must
// return a *domain.ValidationError for unusable output.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (*domain.Draft, error)
}

// ProfileStore loads and saves the hair profile owned by the profiles
// context.
type ProfileStore interface {
	// LoadProfile returns ErrProfileNotFound when the user has no profile.
	LoadProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	SaveProfile(ctx context.Context, profile Profile) error
}

// PreviousPlanOf converts a stored plan for a feedback request.
func PreviousPlanOf(p *domain.Plan) *PreviousPlan {
	return &PreviousPlan{
		Routine:             p.Tasks(),
		Tips:                p.Tips(),
		RecommendedProducts: p.RecommendedProducts(),
		CreatedAt:           p.CreatedAt(),
	}
}

// FeedbackOf converts a stored check-in for a feedback request.
func FeedbackOf(f *domain.WeeklyFeedback) *Feedback {
	return &Feedback{HairFeel: f.HairFeel(), Notes: f.Notes(), CreatedAt: f.CreatedAt()}
}
