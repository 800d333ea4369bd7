package cli

import (
	"context"
	"errors"

	"github.com/google/uuid"

	academyCommands "github.com/felixgeelhaar/strand/internal/academy/application/commands"
	academyQueries "github.com/felixgeelhaar/strand/internal/academy/application/queries"
	internalApp "github.com/felixgeelhaar/strand/internal/app"
	calendarCommands "github.com/felixgeelhaar/strand/internal/calendar/application/commands"
	planCommands "github.com/felixgeelhaar/strand/internal/plans/application/commands"
	planQueries "github.com/felixgeelhaar/strand/internal/plans/application/queries"
	profileCommands "github.com/felixgeelhaar/strand/internal/profiles/application/commands"
	profileQueries "github.com/felixgeelhaar/strand/internal/profiles/application/queries"
	routineCommands "github.com/felixgeelhaar/strand/internal/routines/application/commands"
	routineQueries "github.com/felixgeelhaar/strand/internal/routines/application/queries"
	streakQueries "github.com/felixgeelhaar/strand/internal/streaks/application/queries"
	"github.com/felixgeelhaar/strand/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Routine and streak
	GetTodayHandler     *routineQueries.GetTodayHandler
	GetCalendarHandler  *routineQueries.GetCalendarHandler
	ToggleActionHandler *routineCommands.ToggleActionHandler
	SettleDayHandler    *routineCommands.SettleDayHandler
	GetStreakHandler    *streakQueries.GetStreakHandler

	// Plans
	GeneratePlanHandler      *planCommands.GeneratePlanHandler
	RegeneratePlanHandler    *planCommands.RegeneratePlanHandler
	SubmitFeedbackHandler    *planCommands.SubmitFeedbackHandler
	GetCurrentPlanHandler    *planQueries.GetCurrentPlanHandler
	ListPlanHistoryHandler   *planQueries.ListPlanHistoryHandler
	GetLatestFeedbackHandler *planQueries.GetLatestFeedbackHandler

	// Profile
	SaveProfileHandler *profileCommands.SaveProfileHandler
	GetProfileHandler  *profileQueries.GetProfileHandler

	// Academy
	ListLessonsHandler    *academyQueries.ListLessonsHandler
	GetLearnerHandler     *academyQueries.GetLearnerHandler
	CompleteLessonHandler *academyCommands.CompleteLessonHandler

	// Calendar export
	ExportRoutineHandler *calendarCommands.ExportRoutineHandler

	Health *observability.HealthRegistry

	// Current user (configured per environment)
	CurrentUserID uuid.UUID

	drain func(ctx context.Context) error
}

// NewApp creates a CLI application backed by the container.
func NewApp(c *internalApp.Container) *App {
	return &App{
		GetTodayHandler:          c.GetTodayHandler,
		GetCalendarHandler:       c.GetCalendarHandler,
		ToggleActionHandler:      c.ToggleActionHandler,
		SettleDayHandler:         c.SettleDayHandler,
		GetStreakHandler:         c.GetStreakHandler,
		GeneratePlanHandler:      c.GeneratePlanHandler,
		RegeneratePlanHandler:    c.RegeneratePlanHandler,
		SubmitFeedbackHandler:    c.SubmitFeedbackHandler,
		GetCurrentPlanHandler:    c.GetCurrentPlanHandler,
		ListPlanHistoryHandler:   c.ListPlanHistoryHandler,
		GetLatestFeedbackHandler: c.GetLatestFeedbackHandler,
		SaveProfileHandler:       c.SaveProfileHandler,
		GetProfileHandler:        c.GetProfileHandler,
		ListLessonsHandler:       c.ListLessonsHandler,
		GetLearnerHandler:        c.GetLearnerHandler,
		CompleteLessonHandler:    c.CompleteLessonHandler,
		ExportRoutineHandler:     c.ExportRoutineHandler,
		Health:                   c.Health,
		drain:                    c.DrainOutbox,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// DrainOutbox publishes the events the last command wrote. It is a no-op
// when the app was built without a container.
func (a *App) DrainOutbox(ctx context.Context) error {
	if a.drain == nil {
		return nil
	}
	return a.drain(ctx)
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// ErrNoApp is returned by commands run without a configured store.
var ErrNoApp = errors.New("strand is not initialized; check DATABASE_URL or SQLITE_PATH")
