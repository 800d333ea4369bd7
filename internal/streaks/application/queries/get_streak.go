package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/strand/internal/streaks/domain"
	"github.com/google/uuid"
)

// GetStreakQuery requests a user's streak.
type GetStreakQuery struct {
	UserID uuid.UUID
}

// StreakDTO is the StreakState read model.
type StreakDTO struct {
	CurrentStreak     int        `json:"currentStreak"`
	LongestStreak     int        `json:"longestStreak"`
	LastCompletedDate string     `json:"lastCompletedDate,omitempty"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

// GetStreakHandler handles the GetStreakQuery.
type GetStreakHandler struct {
	streakRepo domain.Repository
}

// NewGetStreakHandler creates a new GetStreakHandler.
func NewGetStreakHandler(streakRepo domain.Repository) *GetStreakHandler {
	return &GetStreakHandler{streakRepo: streakRepo}
}

// Handle returns the zero state when the user has no streak yet.
func (h *GetStreakHandler) Handle(ctx context.Context, query GetStreakQuery) (*StreakDTO, error) {
	streak, err := h.streakRepo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	if streak == nil {
		return &StreakDTO{}, nil
	}

	updated := streak.UpdatedAt()
	dto := &StreakDTO{
		CurrentStreak: streak.Current(),
		LongestStreak: streak.Longest(),
		UpdatedAt:     &updated,
	}
	if last := streak.LastCompletedDate(); last != nil {
		dto.LastCompletedDate = last.String()
	}
	return dto, nil
}
