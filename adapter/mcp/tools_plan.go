package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/strand/adapter/cli"
	planCommands "github.com/felixgeelhaar/strand/internal/plans/application/commands"
	planPorts "github.com/felixgeelhaar/strand/internal/plans/application/ports"
	planQueries "github.com/felixgeelhaar/strand/internal/plans/application/queries"
)

type planGenerateInput struct {
	HairType        string   `json:"hair_type,omitempty"`
	HairGoals       []string `json:"hair_goals,omitempty"`
	WashFrequency   string   `json:"wash_frequency,omitempty"`
	RoutineProducts []string `json:"routine_products,omitempty"`
	Products        []string `json:"products,omitempty"`
	DateOfBirth     string   `json:"date_of_birth,omitempty"`
}

func (in planGenerateInput) profile() *planPorts.Profile {
	if in.HairType == "" && len(in.HairGoals) == 0 && in.WashFrequency == "" &&
		len(in.RoutineProducts) == 0 && len(in.Products) == 0 && in.DateOfBirth == "" {
		return nil
	}
	return &planPorts.Profile{
		HairType:  in.HairType,
		HairGoals: in.HairGoals,
		CurrentRoutine: planPorts.CurrentRoutine{
			WashFrequency: in.WashFrequency,
			Products:      in.RoutineProducts,
		},
		Products:    in.Products,
		DateOfBirth: in.DateOfBirth,
	}
}

type feedbackInput struct {
	HairFeel string `json:"hair_feel" jsonschema:"required"`
	Notes    string `json:"notes,omitempty"`
}

type feedbackOutput struct {
	FeedbackID string `json:"feedback_id"`
	Status     string `json:"status"`
}

// planGenerate saves the profile fields when any are given and generates
// from the stored profile otherwise.
func planGenerate(app *cli.App) func(context.Context, planGenerateInput) (*planQueries.PlanDTO, error) {
	return func(ctx context.Context, input planGenerateInput) (*planQueries.PlanDTO, error) {
		if err := requireHandler(app.GeneratePlanHandler != nil, "plan generation"); err != nil {
			return nil, err
		}
		res, err := app.GeneratePlanHandler.Handle(ctx, planCommands.GeneratePlanCommand{
			UserID:  app.CurrentUserID,
			Profile: input.profile(),
		})
		if err != nil {
			return nil, err
		}
		return res.Plan, nil
	}
}

func feedbackSubmit(app *cli.App) func(context.Context, feedbackInput) (*feedbackOutput, error) {
	return func(ctx context.Context, input feedbackInput) (*feedbackOutput, error) {
		if err := requireHandler(app.SubmitFeedbackHandler != nil, "feedback"); err != nil {
			return nil, err
		}
		res, err := app.SubmitFeedbackHandler.Handle(ctx, planCommands.SubmitFeedbackCommand{
			UserID:   app.CurrentUserID,
			HairFeel: input.HairFeel,
			Notes:    input.Notes,
		})
		if err != nil {
			return nil, err
		}
		return &feedbackOutput{FeedbackID: res.FeedbackID.String(), Status: "regeneration queued"}, nil
	}
}

func registerPlanTools(srv *mcp.Server, deps ToolDependencies) {
	app := deps.App

	srv.Tool("plan.generate").
		Description("Generate a four-week hair care plan; profile fields update the stored profile first").
		Handler(planGenerate(app))

	srv.Tool("plan.regenerate").
		Description("Regenerate the current plan from the latest weekly feedback").
		Handler(func(ctx context.Context, input struct{}) (*planQueries.PlanDTO, error) {
			if err := requireHandler(app.RegeneratePlanHandler != nil, "plan regeneration"); err != nil {
				return nil, err
			}
			res, err := app.RegeneratePlanHandler.Handle(ctx, planCommands.RegeneratePlanCommand{UserID: app.CurrentUserID})
			if err != nil {
				return nil, err
			}
			return res.Plan, nil
		})

	srv.Tool("plan.current").
		Description("Get the current plan").
		Handler(func(ctx context.Context, input struct{}) (*planQueries.PlanDTO, error) {
			if err := requireHandler(app.GetCurrentPlanHandler != nil, "plan lookup"); err != nil {
				return nil, err
			}
			return app.GetCurrentPlanHandler.Handle(ctx, planQueries.GetCurrentPlanQuery{UserID: app.CurrentUserID})
		})

	srv.Tool("feedback.submit").
		Description("Submit the weekly check-in (Better, Same or Worse); the plan is regenerated from it").
		Handler(feedbackSubmit(app))
}
