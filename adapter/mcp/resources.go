package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	planQueries "github.com/felixgeelhaar/strand/internal/plans/application/queries"
	routineQueries "github.com/felixgeelhaar/strand/internal/routines/application/queries"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	streakQueries "github.com/felixgeelhaar/strand/internal/streaks/application/queries"
)

// RegisterResources registers read-only views of the user's routine.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App
	if app == nil {
		return fmt.Errorf("app is required")
	}

	jsonResource(srv, "strand://plan/current", "Current Plan", "The active four-week plan",
		func(ctx context.Context) (any, error) {
			return app.GetCurrentPlanHandler.Handle(ctx, planQueries.GetCurrentPlanQuery{UserID: app.CurrentUserID})
		})

	jsonResource(srv, "strand://routine/today", "Today's Routine", "Tasks scheduled for today",
		func(ctx context.Context) (any, error) {
			return app.GetTodayHandler.Handle(ctx, routineQueries.GetTodayQuery{
				UserID: app.CurrentUserID,
				Date:   sharedDomain.Today(time.Local),
			})
		})

	jsonResource(srv, "strand://stats/streak", "Streak", "Current and longest streak",
		func(ctx context.Context) (any, error) {
			return app.GetStreakHandler.Handle(ctx, streakQueries.GetStreakQuery{UserID: app.CurrentUserID})
		})

	jsonResource(srv, "strand://feedback/latest", "Latest Feedback", "The most recent weekly check-in",
		func(ctx context.Context) (any, error) {
			return app.GetLatestFeedbackHandler.Handle(ctx, planQueries.GetLatestFeedbackQuery{UserID: app.CurrentUserID})
		})

	return nil
}

func jsonResource(srv *mcp.Server, uri, name, description string, load func(ctx context.Context) (any, error)) {
	srv.Resource(uri).
		Name(name).
		Description(description).
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			v, err := load(ctx)
			if err != nil {
				return nil, err
			}
			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return nil, err
			}
			return &mcp.ResourceContent{
				URI:      uri,
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}
