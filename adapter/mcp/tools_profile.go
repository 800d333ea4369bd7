package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/strand/adapter/cli"
	profileCommands "github.com/felixgeelhaar/strand/internal/profiles/application/commands"
	profileQueries "github.com/felixgeelhaar/strand/internal/profiles/application/queries"
	profilesDomain "github.com/felixgeelhaar/strand/internal/profiles/domain"
)

type profileSaveInput struct {
	HairType        string   `json:"hair_type" jsonschema:"required"`
	HairGoals       []string `json:"hair_goals,omitempty"`
	WashFrequency   string   `json:"wash_frequency,omitempty"`
	RoutineProducts []string `json:"routine_products,omitempty"`
	Products        []string `json:"products,omitempty"`
	DateOfBirth     string   `json:"date_of_birth,omitempty"`
}

func profileSave(app *cli.App) func(context.Context, profileSaveInput) (*profileQueries.ProfileDTO, error) {
	return func(ctx context.Context, input profileSaveInput) (*profileQueries.ProfileDTO, error) {
		if err := requireHandler(app.SaveProfileHandler != nil && app.GetProfileHandler != nil, "profile save"); err != nil {
			return nil, err
		}
		err := app.SaveProfileHandler.Handle(ctx, profileCommands.SaveProfileCommand{
			UserID: app.CurrentUserID,
			Details: profilesDomain.Details{
				DateOfBirth:     input.DateOfBirth,
				HairType:        input.HairType,
				HairGoals:       input.HairGoals,
				WashFrequency:   input.WashFrequency,
				RoutineProducts: input.RoutineProducts,
				Products:        input.Products,
			},
		})
		if err != nil {
			return nil, err
		}
		return app.GetProfileHandler.Handle(ctx, profileQueries.GetProfileQuery{UserID: app.CurrentUserID})
	}
}

func registerProfileTools(srv *mcp.Server, deps ToolDependencies) {
	app := deps.App

	srv.Tool("profile.get").
		Description("Get the hair profile").
		Handler(func(ctx context.Context, input struct{}) (*profileQueries.ProfileDTO, error) {
			if err := requireHandler(app.GetProfileHandler != nil, "profile lookup"); err != nil {
				return nil, err
			}
			return app.GetProfileHandler.Handle(ctx, profileQueries.GetProfileQuery{UserID: app.CurrentUserID})
		})

	srv.Tool("profile.save").
		Description("Replace the hair profile").
		Handler(profileSave(app))
}
