package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/google/uuid"
)

// GetLatestFeedbackQuery asks for the newest weekly check-in.
type GetLatestFeedbackQuery struct {
	UserID uuid.UUID
}

// FeedbackDTO is the wire shape of a check-in.
type FeedbackDTO struct {
	ID        uuid.UUID `json:"id"`
	HairFeel  string    `json:"hairFeel"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewFeedbackDTO converts a check-in.
func NewFeedbackDTO(f *domain.WeeklyFeedback) *FeedbackDTO {
	return &FeedbackDTO{
		ID:        f.ID(),
		HairFeel:  string(f.HairFeel()),
		Notes:     f.Notes(),
		CreatedAt: f.CreatedAt(),
	}
}

// GetLatestFeedbackHandler handles the GetLatestFeedbackQuery.
type GetLatestFeedbackHandler struct {
	feedback domain.FeedbackRepository
}

// NewGetLatestFeedbackHandler creates a new GetLatestFeedbackHandler.
func NewGetLatestFeedbackHandler(feedback domain.FeedbackRepository) *GetLatestFeedbackHandler {
	return &GetLatestFeedbackHandler{feedback: feedback}
}

// Handle returns domain.ErrNoFeedback when nothing was submitted yet.
func (h *GetLatestFeedbackHandler) Handle(ctx context.Context, query GetLatestFeedbackQuery) (*FeedbackDTO, error) {
	f, err := h.feedback.FindLatest(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNoFeedback
	}
	return NewFeedbackDTO(f), nil
}
