package queries

import (
	"time"

	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/google/uuid"
)

// PlanDTO is the wire shape of a plan. Routine keeps the generator's key.
type PlanDTO struct {
	ID                      uuid.UUID     `json:"id"`
	Routine                 []domain.Task `json:"routine"`
	Tips                    []string      `json:"tips"`
	RecommendedProducts     []string      `json:"recommendedProducts"`
	CycleLength             int           `json:"cycleLength"`
	RegeneratedFromFeedback bool          `json:"regeneratedFromFeedback"`
	Source                  string        `json:"source"`
	CreatedAt               time.Time     `json:"createdAt"`
	UpdatedAt               time.Time     `json:"updatedAt"`
	ArchivedAt              *time.Time    `json:"archivedAt,omitempty"`
}

// NewPlanDTO converts a plan.
func NewPlanDTO(p *domain.Plan) *PlanDTO {
	return &PlanDTO{
		ID:                      p.ID(),
		Routine:                 p.Tasks(),
		Tips:                    p.Tips(),
		RecommendedProducts:     p.RecommendedProducts(),
		CycleLength:             p.CycleLength(),
		RegeneratedFromFeedback: p.RegeneratedFromFeedback(),
		Source:                  p.Source(),
		CreatedAt:               p.CreatedAt(),
		UpdatedAt:               p.UpdatedAt(),
		ArchivedAt:              p.ArchivedAt(),
	}
}
