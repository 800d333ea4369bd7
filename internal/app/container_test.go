package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	calendarCommands "github.com/felixgeelhaar/strand/internal/calendar/application/commands"
	planCommands "github.com/felixgeelhaar/strand/internal/plans/application/commands"
	planPorts "github.com/felixgeelhaar/strand/internal/plans/application/ports"
	planQueries "github.com/felixgeelhaar/strand/internal/plans/application/queries"
	profileQueries "github.com/felixgeelhaar/strand/internal/profiles/application/queries"
	routineCommands "github.com/felixgeelhaar/strand/internal/routines/application/commands"
	routineQueries "github.com/felixgeelhaar/strand/internal/routines/application/queries"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	streakQueries "github.com/felixgeelhaar/strand/internal/streaks/application/queries"
	"github.com/felixgeelhaar/strand/pkg/config"
	"github.com/felixgeelhaar/strand/pkg/observability"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	cfg := &config.Config{
		AppEnv:               "test",
		PlanGenerator:        config.GeneratorTemplate,
		PlanGeneratorTimeout: config.DefaultGeneratorTimeout,
		SQLitePath:           filepath.Join(t.TempDir(), "strand.db"),
	}
	c, err := NewLocalContainer(context.Background(), cfg, observability.DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	c.SetClock(func() time.Time { return time.Now().AddDate(0, 0, 60) })
	return c
}

func testProfile(userID uuid.UUID) *planPorts.Profile {
	return &planPorts.Profile{
		UID:       userID,
		HairType:  "curly",
		HairGoals: []string{"moisture"},
		CurrentRoutine: planPorts.CurrentRoutine{
			WashFrequency: "twice a week",
			Products:      []string{"shampoo"},
		},
	}
}

func TestLocalModeContainer(t *testing.T) {
	c := newTestContainer(t)

	assert.NotNil(t, c.DBConn)
	assert.Equal(t, "sqlite", string(c.DBDriver))
	assert.Nil(t, c.RedisClient)
	assert.NotNil(t, c.InProcessEventBus)
	assert.Equal(t, []string{"database"}, c.Health.Names())
	assert.NotNil(t, c.GeneratePlanHandler)
	assert.NotNil(t, c.FeedbackConsumer)
}

func TestLocalMode_RoutineWorkflow(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	userID := uuid.New()

	generated, err := c.GeneratePlanHandler.Handle(ctx, planCommands.GeneratePlanCommand{UserID: userID, Profile: testProfile(userID)})
	require.NoError(t, err)
	assert.Equal(t, "template", generated.Plan.Source)
	assert.NotEmpty(t, generated.Plan.Routine)

	profile, err := c.GetProfileHandler.Handle(ctx, profileQueries.GetProfileQuery{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, "curly", profile.HairType)

	cal, err := c.GetCalendarHandler.Handle(ctx, routineQueries.GetCalendarQuery{UserID: userID})
	require.NoError(t, err)
	require.NotEmpty(t, cal.Dates)

	day, err := sharedDomain.ParseDate(cal.Dates[0])
	require.NoError(t, err)
	today, err := c.GetTodayHandler.Handle(ctx, routineQueries.GetTodayQuery{UserID: userID, Date: day})
	require.NoError(t, err)
	require.NotEmpty(t, today.Tasks)

	var last *routineCommands.ToggleActionResult
	for _, task := range today.Tasks {
		last, err = c.ToggleActionHandler.Handle(ctx, routineCommands.ToggleActionCommand{UserID: userID, Date: day, Action: task.Action})
		require.NoError(t, err)
	}
	assert.True(t, last.AllDone)
	assert.True(t, last.StreakRecorded)

	streak, err := c.GetStreakHandler.Handle(ctx, streakQueries.GetStreakQuery{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, day.String(), streak.LastCompletedDate)
}

func scheduledDays(t *testing.T, c *Container, userID uuid.UUID) []sharedDomain.Date {
	t.Helper()
	ctx := context.Background()
	_, err := c.GeneratePlanHandler.Handle(ctx, planCommands.GeneratePlanCommand{UserID: userID, Profile: testProfile(userID)})
	require.NoError(t, err)
	cal, err := c.GetCalendarHandler.Handle(ctx, routineQueries.GetCalendarQuery{UserID: userID})
	require.NoError(t, err)

	days := make([]sharedDomain.Date, 0, len(cal.Dates))
	for _, raw := range cal.Dates {
		day, err := sharedDomain.ParseDate(raw)
		require.NoError(t, err)
		days = append(days, day)
	}
	return days
}

func TestLocalMode_BackfillKeepsCompletion(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	userID := uuid.New()
	days := scheduledDays(t, c, userID)
	require.GreaterOrEqual(t, len(days), 2)
	earlier, later := days[0], days[1]

	laterTasks, err := c.GetTodayHandler.Handle(ctx, routineQueries.GetTodayQuery{UserID: userID, Date: later})
	require.NoError(t, err)
	for _, task := range laterTasks.Tasks {
		_, err = c.ToggleActionHandler.Handle(ctx, routineCommands.ToggleActionCommand{UserID: userID, Date: later, Action: task.Action})
		require.NoError(t, err)
	}

	earlierTasks, err := c.GetTodayHandler.Handle(ctx, routineQueries.GetTodayQuery{UserID: userID, Date: earlier})
	require.NoError(t, err)
	require.NotEmpty(t, earlierTasks.Tasks)

	var last *routineCommands.ToggleActionResult
	for _, task := range earlierTasks.Tasks {
		last, err = c.ToggleActionHandler.Handle(ctx, routineCommands.ToggleActionCommand{UserID: userID, Date: earlier, Action: task.Action})
		require.NoError(t, err)
	}
	assert.True(t, last.AllDone)
	assert.False(t, last.StreakRecorded)

	stored, err := c.GetTodayHandler.Handle(ctx, routineQueries.GetTodayQuery{UserID: userID, Date: earlier})
	require.NoError(t, err)
	assert.True(t, stored.AllDone)
	assert.Len(t, stored.CompletedActions, len(earlierTasks.Tasks))

	streak, err := c.GetStreakHandler.Handle(ctx, streakQueries.GetStreakQuery{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, later.String(), streak.LastCompletedDate)
}

func TestLocalMode_ConcurrentTogglesOnFreshDay(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	userID := uuid.New()
	days := scheduledDays(t, c, userID)
	require.NotEmpty(t, days)
	day := days[0]

	today, err := c.GetTodayHandler.Handle(ctx, routineQueries.GetTodayQuery{UserID: userID, Date: day})
	require.NoError(t, err)
	require.NotEmpty(t, today.Tasks)
	action := today.Tasks[0].Action

	// Each action is toggled an even number of times, so a lost update
	// leaves it checked.
	const toggles = 4
	var g errgroup.Group
	for range toggles {
		g.Go(func() error {
			_, err := c.ToggleActionHandler.Handle(ctx, routineCommands.ToggleActionCommand{UserID: userID, Date: day, Action: action})
			return err
		})
	}
	require.NoError(t, g.Wait())

	stored, err := c.GetTodayHandler.Handle(ctx, routineQueries.GetTodayQuery{UserID: userID, Date: day})
	require.NoError(t, err)
	assert.NotContains(t, stored.CompletedActions, action)
}

func TestLocalMode_FeedbackRegeneratesThroughOutbox(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := c.GeneratePlanHandler.Handle(ctx, planCommands.GeneratePlanCommand{UserID: userID, Profile: testProfile(userID)})
	require.NoError(t, err)
	_, err = c.SubmitFeedbackHandler.Handle(ctx, planCommands.SubmitFeedbackCommand{UserID: userID, HairFeel: "Worse"})
	require.NoError(t, err)

	require.NoError(t, c.DrainOutbox(ctx))

	current, err := c.GetCurrentPlanHandler.Handle(ctx, planQueries.GetCurrentPlanQuery{UserID: userID})
	require.NoError(t, err)
	assert.True(t, current.RegeneratedFromFeedback)
	assert.Equal(t, 7, current.CycleLength)

	history, err := c.ListPlanHistoryHandler.Handle(ctx, planQueries.ListPlanHistoryQuery{UserID: userID})
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestLocalMode_ExportWithoutCalendar(t *testing.T) {
	c := newTestContainer(t)
	_, err := c.ExportRoutineHandler.Handle(context.Background(), calendarCommands.ExportRoutineCommand{UserID: uuid.New()})
	assert.ErrorIs(t, err, calendarCommands.ErrExporterNotConfigured)
}

func TestProfileStore_MapsNotFound(t *testing.T) {
	c := newTestContainer(t)
	store := profileStore{get: c.GetProfileHandler, save: c.SaveProfileHandler}

	_, err := store.LoadProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, planPorts.ErrProfileNotFound)
}

func TestGenerationPolicy(t *testing.T) {
	assert.Equal(t, 1, generationPolicy(0).MaxAttempts)
	assert.Equal(t, 3, generationPolicy(2).MaxAttempts)
}
