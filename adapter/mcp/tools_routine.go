package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/strand/adapter/cli"
	routineCommands "github.com/felixgeelhaar/strand/internal/routines/application/commands"
	routineQueries "github.com/felixgeelhaar/strand/internal/routines/application/queries"
	streakQueries "github.com/felixgeelhaar/strand/internal/streaks/application/queries"
)

type toggleInput struct {
	Action string `json:"action" jsonschema:"required"`
	Date   string `json:"date,omitempty"`
}

type toggleOutput struct {
	Action           string   `json:"action"`
	Completed        bool     `json:"completed"`
	CompletedActions []string `json:"completed_actions"`
	AllDone          bool     `json:"all_done"`
	StreakRecorded   bool     `json:"streak_recorded"`
	CurrentStreak    int      `json:"current_streak,omitempty"`
}

type settleOutput struct {
	Date          string `json:"date"`
	Settled       bool   `json:"settled"`
	CurrentStreak int    `json:"current_streak,omitempty"`
}

func routineToday(app *cli.App) func(context.Context, dateInput) (*routineQueries.TodayDTO, error) {
	return func(ctx context.Context, input dateInput) (*routineQueries.TodayDTO, error) {
		if err := requireHandler(app.GetTodayHandler != nil, "routine view"); err != nil {
			return nil, err
		}
		date, err := parseDate(input.Date)
		if err != nil {
			return nil, err
		}
		return app.GetTodayHandler.Handle(ctx, routineQueries.GetTodayQuery{UserID: app.CurrentUserID, Date: date})
	}
}

func routineToggle(app *cli.App) func(context.Context, toggleInput) (*toggleOutput, error) {
	return func(ctx context.Context, input toggleInput) (*toggleOutput, error) {
		if err := requireHandler(app.ToggleActionHandler != nil, "routine toggle"); err != nil {
			return nil, err
		}
		if input.Action == "" {
			return nil, errors.New("action is required")
		}
		date, err := parseDate(input.Date)
		if err != nil {
			return nil, err
		}
		res, err := app.ToggleActionHandler.Handle(ctx, routineCommands.ToggleActionCommand{
			UserID: app.CurrentUserID,
			Date:   date,
			Action: input.Action,
		})
		if err != nil {
			return nil, err
		}
		return &toggleOutput{
			Action:           res.Action,
			Completed:        res.Completed,
			CompletedActions: res.CompletedActions,
			AllDone:          res.AllDone,
			StreakRecorded:   res.StreakRecorded,
			CurrentStreak:    res.CurrentStreak,
		}, nil
	}
}

func routineSettle(app *cli.App) func(context.Context, dateInput) (*settleOutput, error) {
	return func(ctx context.Context, input dateInput) (*settleOutput, error) {
		if err := requireHandler(app.SettleDayHandler != nil, "routine settle"); err != nil {
			return nil, err
		}
		date, err := parseDate(input.Date)
		if err != nil {
			return nil, err
		}
		res, err := app.SettleDayHandler.Handle(ctx, routineCommands.SettleDayCommand{UserID: app.CurrentUserID, Date: date})
		if err != nil {
			return nil, err
		}
		return &settleOutput{Date: date.String(), Settled: res.Settled, CurrentStreak: res.CurrentStreak}, nil
	}
}

func registerRoutineTools(srv *mcp.Server, deps ToolDependencies) {
	app := deps.App

	srv.Tool("routine.today").
		Description("Show the routine tasks scheduled for a day and their completion state").
		Handler(routineToday(app))

	srv.Tool("routine.toggle").
		Description("Mark a routine task done or undone; completing the day extends the streak").
		Handler(routineToggle(app))

	srv.Tool("routine.settle").
		Description("Auto-complete a day that has no scheduled tasks").
		Handler(routineSettle(app))

	srv.Tool("routine.calendar").
		Description("Map every date of the current routine to its tasks").
		Handler(func(ctx context.Context, input struct{}) (*routineQueries.CalendarDTO, error) {
			if err := requireHandler(app.GetCalendarHandler != nil, "routine calendar"); err != nil {
				return nil, err
			}
			return app.GetCalendarHandler.Handle(ctx, routineQueries.GetCalendarQuery{UserID: app.CurrentUserID})
		})

	srv.Tool("streak.get").
		Description("Get the current and longest streak").
		Handler(func(ctx context.Context, input struct{}) (*streakQueries.StreakDTO, error) {
			if err := requireHandler(app.GetStreakHandler != nil, "streak"); err != nil {
				return nil, err
			}
			return app.GetStreakHandler.Handle(ctx, streakQueries.GetStreakQuery{UserID: app.CurrentUserID})
		})
}
