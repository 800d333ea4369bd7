package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/strand/internal/academy/domain"
	sharedApplication "github.com/felixgeelhaar/strand/internal/shared/application"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/strand/internal/shared/resilience"
	"github.com/google/uuid"
)

// CompleteLessonCommand records an attempt at a lesson or quiz.
type CompleteLessonCommand struct {
	UserID   uuid.UUID
	LessonID string
	Answers  []int
}

// CompleteLessonResult reports the attempt and the learner state after it.
type CompleteLessonResult struct {
	LessonID         string   `json:"lessonId"`
	Passed           bool     `json:"passed"`
	Score            int      `json:"score"`
	Total            int      `json:"total"`
	AwardedXP        int      `json:"awardedXp"`
	AlreadyCompleted bool     `json:"alreadyCompleted"`
	NewBadges        []string `json:"newBadges"`
	XP               int      `json:"xp"`
	Badges           []string `json:"badges"`
}

// CompleteLessonHandler handles the CompleteLessonCommand.
type CompleteLessonHandler struct {
	catalog    domain.Catalog
	learners   domain.LearnerRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	policy     resilience.Policy
}

// NewCompleteLessonHandler creates a new CompleteLessonHandler.
func NewCompleteLessonHandler(
	catalog domain.Catalog,
	learners domain.LearnerRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	policy resilience.Policy,
) *CompleteLessonHandler {
	return &CompleteLessonHandler{catalog: catalog, learners: learners, outboxRepo: outboxRepo, uow: uow, policy: policy}
}

// Handle scores the attempt and awards XP at most once per lesson.
func (h *CompleteLessonHandler) Handle(ctx context.Context, cmd CompleteLessonCommand) (*CompleteLessonResult, error) {
	lesson, err := h.catalog.Get(cmd.LessonID)
	if err != nil {
		return nil, err
	}

	var result *CompleteLessonResult
	err = sharedApplication.WithRetriedUnitOfWork(ctx, h.uow, h.policy, database.IsTransient, func(txCtx context.Context) error {
		learner, err := h.learners.FindByUserIDForUpdate(txCtx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("load learner: %w", err)
		}
		if learner == nil {
			learner = domain.NewLearner(cmd.UserID)
		}

		c, err := learner.Complete(lesson, cmd.Answers)
		if err != nil {
			return err
		}
		result = &CompleteLessonResult{
			LessonID:         c.LessonID,
			Passed:           c.Passed,
			Score:            c.Score,
			Total:            c.Total,
			AwardedXP:        c.AwardedXP,
			AlreadyCompleted: c.AlreadyCompleted,
			NewBadges:        c.NewBadges,
			XP:               learner.XP(),
			Badges:           learner.Badges(),
		}
		if c.AwardedXP == 0 {
			return nil
		}

		if err := h.learners.Save(txCtx, learner); err != nil {
			return fmt.Errorf("save learner: %w", err)
		}
		events := learner.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(txCtx, cmd.UserID))
		return outbox.SaveEvents(txCtx, h.outboxRepo, events)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
