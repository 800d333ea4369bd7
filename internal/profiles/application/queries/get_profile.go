package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/strand/internal/profiles/domain"
	"github.com/google/uuid"
)

// GetProfileQuery asks for a user's hair profile.
type GetProfileQuery struct {
	UserID uuid.UUID
}

// CurrentRoutineDTO is the nested routine block of a profile.
type CurrentRoutineDTO struct {
	WashFrequency string   `json:"washFrequency"`
	Products      []string `json:"products"`
}

// ProfileDTO is the wire shape of users/{uid}.
type ProfileDTO struct {
	UID            uuid.UUID         `json:"uid"`
	DateOfBirth    string            `json:"dateOfBirth,omitempty"`
	HairType       string            `json:"hairType"`
	HairGoals      []string          `json:"hairGoals"`
	CurrentRoutine CurrentRoutineDTO `json:"currentRoutine"`
	Products       []string          `json:"products"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// NewProfileDTO converts a profile. Lists are never nil.
func NewProfileDTO(p *domain.Profile) *ProfileDTO {
	return &ProfileDTO{
		UID:         p.UserID(),
		DateOfBirth: p.DateOfBirth(),
		HairType:    p.HairType(),
		HairGoals:   nonNil(p.HairGoals()),
		CurrentRoutine: CurrentRoutineDTO{
			WashFrequency: p.WashFrequency(),
			Products:      nonNil(p.RoutineProducts()),
		},
		Products:  nonNil(p.Products()),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// GetProfileHandler handles the GetProfileQuery.
type GetProfileHandler struct {
	repo domain.Repository
}

// NewGetProfileHandler creates a new GetProfileHandler.
func NewGetProfileHandler(repo domain.Repository) *GetProfileHandler {
	return &GetProfileHandler{repo: repo}
}

// Handle returns domain.ErrProfileNotFound for unknown users.
func (h *GetProfileHandler) Handle(ctx context.Context, query GetProfileQuery) (*ProfileDTO, error) {
	p, err := h.repo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}
	return NewProfileDTO(p), nil
}
