package domain

import (
	"slices"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

// ScholarBadge is awarded once a learner reaches ScholarXP.
const (
	ScholarBadge = "Hair Scholar"
	ScholarXP    = 50
)

// Learner is a user's academy progress. Its ID is the user ID.
type Learner struct {
	sharedDomain.BaseAggregateRoot
	xp        int
	completed []string
	badges    []string
}

// Completion is the outcome of one attempt.
type Completion struct {
	LessonID         string
	Passed           bool
	Score            int
	Total            int
	AwardedXP        int
	AlreadyCompleted bool
	NewBadges        []string
}

// NewLearner starts a learner with no progress.
func NewLearner(userID uuid.UUID) *Learner {
	return &Learner{BaseAggregateRoot: sharedDomain.NewBaseAggregateRootWithID(userID)}
}

// RehydrateLearner rebuilds a stored learner.
func RehydrateLearner(base sharedDomain.BaseAggregateRoot, xp int, completed, badges []string) *Learner {
	return &Learner{BaseAggregateRoot: base, xp: xp, completed: completed, badges: badges}
}

func (l *Learner) UserID() uuid.UUID          { return l.ID() }
func (l *Learner) XP() int                    { return l.xp }
func (l *Learner) CompletedLessons() []string { return slices.Clone(l.completed) }
func (l *Learner) Badges() []string           { return slices.Clone(l.badges) }

// HasCompleted reports whether lessonID was already completed.
func (l *Learner) HasCompleted(lessonID string) bool {
	return slices.Contains(l.completed, lessonID)
}

// Complete records an attempt at lesson. Quizzes pass only when every answer
// is correct. A lesson completed before awards nothing.
func (l *Learner) Complete(lesson Lesson, answers []int) (Completion, error) {
	c := Completion{LessonID: lesson.ID, Passed: true}
	if lesson.Type == TypeQuiz {
		score, err := lesson.Score(answers)
		if err != nil {
			return Completion{}, err
		}
		c.Score, c.Total = score, len(lesson.Questions)
		c.Passed = score == c.Total
	}

	if l.HasCompleted(lesson.ID) {
		c.AlreadyCompleted = true
		return c, nil
	}
	if !c.Passed {
		return c, nil
	}

	c.AwardedXP = lesson.XPReward
	l.xp += lesson.XPReward
	l.completed = append(l.completed, lesson.ID)
	l.Record(NewLessonCompleted(l, lesson.ID, c.AwardedXP))

	if l.xp >= ScholarXP && !slices.Contains(l.badges, ScholarBadge) {
		l.badges = append(l.badges, ScholarBadge)
		c.NewBadges = append(c.NewBadges, ScholarBadge)
		l.Record(NewBadgeAwarded(l, ScholarBadge))
	}
	return c, nil
}
