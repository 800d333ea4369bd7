package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/strand/adapter/cli"
	academyCommands "github.com/felixgeelhaar/strand/internal/academy/application/commands"
	academyQueries "github.com/felixgeelhaar/strand/internal/academy/application/queries"
)

type lessonCompleteInput struct {
	LessonID string `json:"lesson_id" jsonschema:"required"`
	Answers  []int  `json:"answers,omitempty"`
}

func academyComplete(app *cli.App) func(context.Context, lessonCompleteInput) (*academyCommands.CompleteLessonResult, error) {
	return func(ctx context.Context, input lessonCompleteInput) (*academyCommands.CompleteLessonResult, error) {
		if err := requireHandler(app.CompleteLessonHandler != nil, "lesson completion"); err != nil {
			return nil, err
		}
		if input.LessonID == "" {
			return nil, errors.New("lesson_id is required")
		}
		return app.CompleteLessonHandler.Handle(ctx, academyCommands.CompleteLessonCommand{
			UserID:   app.CurrentUserID,
			LessonID: input.LessonID,
			Answers:  input.Answers,
		})
	}
}

func registerAcademyTools(srv *mcp.Server, deps ToolDependencies) {
	app := deps.App

	srv.Tool("academy.lessons").
		Description("List academy lessons and quizzes with completion state").
		Handler(func(ctx context.Context, input struct{}) ([]academyQueries.LessonDTO, error) {
			if err := requireHandler(app.ListLessonsHandler != nil, "lesson listing"); err != nil {
				return nil, err
			}
			return app.ListLessonsHandler.Handle(ctx, academyQueries.ListLessonsQuery{UserID: app.CurrentUserID})
		})

	srv.Tool("academy.complete").
		Description("Complete a lesson or submit quiz answers (zero-based, one per question)").
		Handler(academyComplete(app))
}
