// Package domain holds the hair academy: lessons, quizzes and learner progress.
package domain

import (
	"errors"
	"fmt"
)

const (
	DefaultEstimatedMinutes = 5
	DefaultXPReward         = 5
)

var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrAnswerCount    = errors.New("quiz needs one answer per question")
)

// LessonType distinguishes reading lessons from quizzes.
type LessonType string

const (
	TypeLesson LessonType = "lesson"
	TypeQuiz   LessonType = "quiz"
)

// Question is one multiple-choice quiz question. Answer is the index of the
// correct choice.
type Question struct {
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Choices []string `json:"choices" yaml:"choices"`
	Answer  int      `json:"-" yaml:"answer"`
}

// Lesson is a catalog entry.
type Lesson struct {
	ID               string     `json:"id" yaml:"id"`
	Title            string     `json:"title" yaml:"title"`
	Type             LessonType `json:"type" yaml:"type"`
	Content          string     `json:"content" yaml:"content"`
	EstimatedMinutes int        `json:"estimatedMinutes" yaml:"estimated_minutes"`
	XPReward         int        `json:"xpReward" yaml:"xp_reward"`
	Questions        []Question `json:"questions,omitempty" yaml:"questions"`
}

// Normalize fills defaults and checks the lesson shape.
func (l *Lesson) Normalize() error {
	if l.ID == "" {
		return errors.New("lesson id is required")
	}
	if l.Type == "" {
		l.Type = TypeLesson
	}
	if l.EstimatedMinutes <= 0 {
		l.EstimatedMinutes = DefaultEstimatedMinutes
	}
	if l.XPReward <= 0 {
		l.XPReward = DefaultXPReward
	}
	switch l.Type {
	case TypeLesson:
	case TypeQuiz:
		if len(l.Questions) == 0 {
			return fmt.Errorf("quiz %s has no questions", l.ID)
		}
		for i, q := range l.Questions {
			if q.Answer < 0 || q.Answer >= len(q.Choices) {
				return fmt.Errorf("quiz %s question %d: answer %d out of range", l.ID, i, q.Answer)
			}
		}
	default:
		return fmt.Errorf("lesson %s has unknown type %q", l.ID, l.Type)
	}
	return nil
}

// Score counts correct answers. answers[i] is the chosen index for question i.
func (l *Lesson) Score(answers []int) (int, error) {
	if len(answers) != len(l.Questions) {
		return 0, ErrAnswerCount
	}
	correct := 0
	for i, q := range l.Questions {
		if answers[i] == q.Answer {
			correct++
		}
	}
	return correct, nil
}

// Catalog is the set of lessons in display order.
type Catalog interface {
	List() []Lesson
	Get(id string) (Lesson, error)
}
