package app

import (
	"context"
	"errors"
	"time"

	planPorts "github.com/felixgeelhaar/strand/internal/plans/application/ports"
	plansDomain "github.com/felixgeelhaar/strand/internal/plans/domain"
	profileCommands "github.com/felixgeelhaar/strand/internal/profiles/application/commands"
	profileQueries "github.com/felixgeelhaar/strand/internal/profiles/application/queries"
	profilesDomain "github.com/felixgeelhaar/strand/internal/profiles/domain"
	routinePorts "github.com/felixgeelhaar/strand/internal/routines/application/ports"
	"github.com/google/uuid"
)

// routineSource feeds the current plan to the projector.
type routineSource struct {
	plans plansDomain.PlanRepository
	loc   *time.Location
}

func (s routineSource) CurrentRoutine(ctx context.Context, userID uuid.UUID) (*routinePorts.Routine, error) {
	plan, err := s.plans.FindCurrent(ctx, userID)
	if err != nil || plan == nil {
		return nil, err
	}
	return &routinePorts.Routine{Tasks: plan.Tasks(), Anchor: plan.Anchor(s.loc)}, nil
}

// profileStore lets plan commands read and write the hair profile through
// the profiles context.
type profileStore struct {
	get  *profileQueries.GetProfileHandler
	save *profileCommands.SaveProfileHandler
}

func (s profileStore) LoadProfile(ctx context.Context, userID uuid.UUID) (*planPorts.Profile, error) {
	dto, err := s.get.Handle(ctx, profileQueries.GetProfileQuery{UserID: userID})
	if errors.Is(err, profilesDomain.ErrProfileNotFound) {
		return nil, planPorts.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &planPorts.Profile{
		UID:       dto.UID,
		HairType:  dto.HairType,
		HairGoals: dto.HairGoals,
		CurrentRoutine: planPorts.CurrentRoutine{
			WashFrequency: dto.CurrentRoutine.WashFrequency,
			Products:      dto.CurrentRoutine.Products,
		},
		Products:    dto.Products,
		DateOfBirth: dto.DateOfBirth,
	}, nil
}

func (s profileStore) SaveProfile(ctx context.Context, p planPorts.Profile) error {
	return s.save.Handle(ctx, profileCommands.SaveProfileCommand{
		UserID: p.UID,
		Details: profilesDomain.Details{
			DateOfBirth:     p.DateOfBirth,
			HairType:        p.HairType,
			HairGoals:       p.HairGoals,
			WashFrequency:   p.CurrentRoutine.WashFrequency,
			RoutineProducts: p.CurrentRoutine.Products,
			Products:        p.Products,
		},
	})
}
