package domain

import (
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Profile"

// RoutingKeyProfileSaved is published whenever a profile is written.
const RoutingKeyProfileSaved = "profiles.profile.saved"

// ProfileSaved omits the date of birth.
type ProfileSaved struct {
	sharedDomain.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	HairType  string    `json:"hair_type"`
	HairGoals []string  `json:"hair_goals"`
}

// NewProfileSaved creates a ProfileSaved event.
func NewProfileSaved(p *Profile) *ProfileSaved {
	return &ProfileSaved{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), aggregateType, RoutingKeyProfileSaved),
		UserID:    p.ID(),
		HairType:  p.details.HairType,
		HairGoals: p.HairGoals(),
	}
}
