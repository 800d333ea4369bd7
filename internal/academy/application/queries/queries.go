package queries

import (
	"context"

	"github.com/felixgeelhaar/strand/internal/academy/domain"
	"github.com/google/uuid"
)

// LearnerDTO is a user's academy progress.
type LearnerDTO struct {
	XP               int      `json:"xp"`
	CompletedLessons []string `json:"completedLessons"`
	Badges           []string `json:"badges"`
}

// GetLearnerQuery asks for a user's progress.
type GetLearnerQuery struct {
	UserID uuid.UUID
}

// GetLearnerHandler handles the GetLearnerQuery.
type GetLearnerHandler struct {
	learners domain.LearnerRepository
}

// NewGetLearnerHandler creates a new GetLearnerHandler.
func NewGetLearnerHandler(learners domain.LearnerRepository) *GetLearnerHandler {
	return &GetLearnerHandler{learners: learners}
}

// Handle returns empty progress for users who have not started.
func (h *GetLearnerHandler) Handle(ctx context.Context, query GetLearnerQuery) (*LearnerDTO, error) {
	l, err := h.learners.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	dto := &LearnerDTO{CompletedLessons: []string{}, Badges: []string{}}
	if l == nil {
		return dto, nil
	}
	dto.XP = l.XP()
	dto.CompletedLessons = append(dto.CompletedLessons, l.CompletedLessons()...)
	dto.Badges = append(dto.Badges, l.Badges()...)
	return dto, nil
}

// LessonDTO is a catalog entry with the learner's status. Quiz answers are
// never exposed.
type LessonDTO struct {
	domain.Lesson
	Completed bool `json:"completed"`
}

// ListLessonsQuery lists the catalog, marking lessons the user completed
// when UserID is set.
type ListLessonsQuery struct {
	UserID uuid.UUID
}

// ListLessonsHandler handles the ListLessonsQuery.
type ListLessonsHandler struct {
	catalog  domain.Catalog
	learners domain.LearnerRepository
}

// NewListLessonsHandler creates a new ListLessonsHandler.
func NewListLessonsHandler(catalog domain.Catalog, learners domain.LearnerRepository) *ListLessonsHandler {
	return &ListLessonsHandler{catalog: catalog, learners: learners}
}

func (h *ListLessonsHandler) Handle(ctx context.Context, query ListLessonsQuery) ([]LessonDTO, error) {
	var learner *domain.Learner
	if query.UserID != uuid.Nil {
		var err error
		if learner, err = h.learners.FindByUserID(ctx, query.UserID); err != nil {
			return nil, err
		}
	}

	lessons := h.catalog.List()
	out := make([]LessonDTO, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, LessonDTO{Lesson: l, Completed: learner != nil && learner.HasCompleted(l.ID)})
	}
	return out, nil
}
