package api

import (
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/strand/internal/app"
	academyCommands "github.com/felixgeelhaar/strand/internal/academy/application/commands"
	academyQueries "github.com/felixgeelhaar/strand/internal/academy/application/queries"
	calendarCommands "github.com/felixgeelhaar/strand/internal/calendar/application/commands"
	planCommands "github.com/felixgeelhaar/strand/internal/plans/application/commands"
	planPorts "github.com/felixgeelhaar/strand/internal/plans/application/ports"
	planQueries "github.com/felixgeelhaar/strand/internal/plans/application/queries"
	profileCommands "github.com/felixgeelhaar/strand/internal/profiles/application/commands"
	profileQueries "github.com/felixgeelhaar/strand/internal/profiles/application/queries"
	profilesDomain "github.com/felixgeelhaar/strand/internal/profiles/domain"
	routineCommands "github.com/felixgeelhaar/strand/internal/routines/application/commands"
	routineQueries "github.com/felixgeelhaar/strand/internal/routines/application/queries"
	streakQueries "github.com/felixgeelhaar/strand/internal/streaks/application/queries"
	"github.com/felixgeelhaar/strand/pkg/observability"
)

// Handler serves the user-facing routes.
type Handler struct {
	c      *app.Container
	logger *slog.Logger
}

// NewHandler creates a handler over the container's command and query
// handlers.
func NewHandler(c *app.Container) *Handler {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{c: c, logger: logger}
}

type currentRoutineBody struct {
	WashFrequency string   `json:"washFrequency"`
	Products      []string `json:"products"`
}

type profileBody struct {
	UID            string             `json:"uid"`
	HairType       string             `json:"hairType"`
	HairGoals      []string           `json:"hairGoals"`
	CurrentRoutine currentRoutineBody `json:"currentRoutine"`
	Products       []string           `json:"products"`
	DateOfBirth    string             `json:"dateOfBirth,omitempty"`
}

func (b profileBody) details() profilesDomain.Details {
	return profilesDomain.Details{
		DateOfBirth:     b.DateOfBirth,
		HairType:        b.HairType,
		HairGoals:       b.HairGoals,
		WashFrequency:   b.CurrentRoutine.WashFrequency,
		RoutineProducts: b.CurrentRoutine.Products,
		Products:        b.Products,
	}
}

func (b profileBody) generatorProfile() *planPorts.Profile {
	return &planPorts.Profile{
		HairType:  b.HairType,
		HairGoals: b.HairGoals,
		CurrentRoutine: planPorts.CurrentRoutine{
			WashFrequency: b.CurrentRoutine.WashFrequency,
			Products:      b.CurrentRoutine.Products,
		},
		Products:    b.Products,
		DateOfBirth: b.DateOfBirth,
	}
}

type planResponse struct {
	Success bool                 `json:"success"`
	Plan    *planQueries.PlanDTO `json:"plan"`
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	apiErr := writeError(w, err)
	log := observability.LogOperation(h.logger, op)
	if apiErr.Status >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed", "status", apiErr.Status, "error", err)
		return
	}
	log.DebugContext(r.Context(), "request rejected", "status", apiErr.Status, "error", err)
}

// GeneratePlan handles POST /api/v1/plans.
func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Profile *profileBody `json:"profile"`
	}
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, r, "plan.generate", err)
		return
	}
	var bodyUID string
	if body.Profile != nil {
		bodyUID = body.Profile.UID
	}
	userID, err := callerID(r, bodyUID)
	if err != nil {
		h.fail(w, r, "plan.generate", err)
		return
	}

	cmd := planCommands.GeneratePlanCommand{UserID: userID}
	if body.Profile != nil {
		cmd.Profile = body.Profile.generatorProfile()
	}
	result, err := h.c.GeneratePlanHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, "plan.generate", err)
		return
	}
	writeJSON(w, http.StatusOK, planResponse{Success: true, Plan: result.Plan})
}

// RegeneratePlan handles POST /api/v1/plans/regenerate.
func (h *Handler) RegeneratePlan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UID string `json:"uid"`
	}
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, r, "plan.regenerate", err)
		return
	}
	userID, err := callerID(r, body.UID)
	if err != nil {
		h.fail(w, r, "plan.regenerate", err)
		return
	}
	result, err := h.c.RegeneratePlanHandler.Handle(r.Context(), planCommands.RegeneratePlanCommand{UserID: userID})
	if err != nil {
		h.fail(w, r, "plan.regenerate", err)
		return
	}
	writeJSON(w, http.StatusOK, planResponse{Success: true, Plan: result.Plan})
}

// GetCurrentPlan handles GET /api/v1/users/{uid}/plan/current.
func (h *Handler) GetCurrentPlan(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "plan.current", err)
		return
	}
	plan, err := h.c.GetCurrentPlanHandler.Handle(r.Context(), planQueries.GetCurrentPlanQuery{UserID: userID})
	if err != nil {
		h.fail(w, r, "plan.current", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// ListPlanHistory handles GET /api/v1/users/{uid}/plan/history.
func (h *Handler) ListPlanHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "plan.history", err)
		return
	}
	plans, err := h.c.ListPlanHistoryHandler.Handle(r.Context(), planQueries.ListPlanHistoryQuery{
		UserID: userID,
		Limit:  queryInt(r, "limit", 20),
	})
	if err != nil {
		h.fail(w, r, "plan.history", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

// SubmitFeedback handles POST /api/v1/users/{uid}/weeklyFeedback.
// Regeneration follows asynchronously from the outbox.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "feedback.submit", err)
		return
	}
	var body struct {
		HairFeel string `json:"hairFeel"`
		Notes    string `json:"notes"`
	}
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, r, "feedback.submit", err)
		return
	}
	result, err := h.c.SubmitFeedbackHandler.Handle(r.Context(), planCommands.SubmitFeedbackCommand{
		UserID:   userID,
		HairFeel: body.HairFeel,
		Notes:    body.Notes,
	})
	if err != nil {
		h.fail(w, r, "feedback.submit", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"success": true, "feedbackId": result.FeedbackID})
}

// GetLatestFeedback handles GET /api/v1/users/{uid}/weeklyFeedback/latest.
func (h *Handler) GetLatestFeedback(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "feedback.latest", err)
		return
	}
	fb, err := h.c.GetLatestFeedbackHandler.Handle(r.Context(), planQueries.GetLatestFeedbackQuery{UserID: userID})
	if err != nil {
		h.fail(w, r, "feedback.latest", err)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

// GetStreak handles GET /api/v1/users/{uid}/stats/streak.
func (h *Handler) GetStreak(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "streak.get", err)
		return
	}
	streak, err := h.c.GetStreakHandler.Handle(r.Context(), streakQueries.GetStreakQuery{UserID: userID})
	if err != nil {
		h.fail(w, r, "streak.get", err)
		return
	}
	writeJSON(w, http.StatusOK, streak)
}

// GetToday handles GET /api/v1/users/{uid}/dailyCompletions/{date}.
func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "routine.today", err)
		return
	}
	date, err := pathDate(r)
	if err != nil {
		h.fail(w, r, "routine.today", err)
		return
	}
	today, err := h.c.GetTodayHandler.Handle(r.Context(), routineQueries.GetTodayQuery{UserID: userID, Date: date})
	if err != nil {
		h.fail(w, r, "routine.today", err)
		return
	}
	writeJSON(w, http.StatusOK, today)
}

type toggleResponse struct {
	Action           string   `json:"action"`
	Completed        bool     `json:"completed"`
	CompletedActions []string `json:"completedActions"`
	AllDone          bool     `json:"allDone"`
	StreakRecorded   bool     `json:"streakRecorded"`
	CurrentStreak    int      `json:"currentStreak,omitempty"`
}

// ToggleAction handles POST /api/v1/users/{uid}/dailyCompletions/{date}/toggle.
func (h *Handler) ToggleAction(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "routine.toggle", err)
		return
	}
	date, err := pathDate(r)
	if err != nil {
		h.fail(w, r, "routine.toggle", err)
		return
	}
	var body struct {
		Action string `json:"action"`
	}
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, r, "routine.toggle", err)
		return
	}
	res, err := h.c.ToggleActionHandler.Handle(r.Context(), routineCommands.ToggleActionCommand{
		UserID: userID,
		Date:   date,
		Action: body.Action,
	})
	if err != nil {
		h.fail(w, r, "routine.toggle", err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{
		Action:           res.Action,
		Completed:        res.Completed,
		CompletedActions: res.CompletedActions,
		AllDone:          res.AllDone,
		StreakRecorded:   res.StreakRecorded,
		CurrentStreak:    res.CurrentStreak,
	})
}

// SettleDay handles POST /api/v1/users/{uid}/dailyCompletions/{date}/settle.
func (h *Handler) SettleDay(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "routine.settle", err)
		return
	}
	date, err := pathDate(r)
	if err != nil {
		h.fail(w, r, "routine.settle", err)
		return
	}
	res, err := h.c.SettleDayHandler.Handle(r.Context(), routineCommands.SettleDayCommand{UserID: userID, Date: date})
	if err != nil {
		h.fail(w, r, "routine.settle", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settled": res.Settled, "currentStreak": res.CurrentStreak})
}

// GetCalendar handles GET /api/v1/users/{uid}/calendar.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "routine.calendar", err)
		return
	}
	cal, err := h.c.GetCalendarHandler.Handle(r.Context(), routineQueries.GetCalendarQuery{UserID: userID})
	if err != nil {
		h.fail(w, r, "routine.calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

// ExportCalendar handles POST /api/v1/users/{uid}/calendar/export.
func (h *Handler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "calendar.export", err)
		return
	}
	var body struct {
		Weeks int `json:"weeks"`
	}
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, r, "calendar.export", err)
		return
	}
	res, err := h.c.ExportRoutineHandler.Handle(r.Context(), calendarCommands.ExportRoutineCommand{UserID: userID, Weeks: body.Weeks})
	if err != nil {
		h.fail(w, r, "calendar.export", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetProfile handles GET /api/v1/users/{uid}.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "profile.get", err)
		return
	}
	profile, err := h.c.GetProfileHandler.Handle(r.Context(), profileQueries.GetProfileQuery{UserID: userID})
	if err != nil {
		h.fail(w, r, "profile.get", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// SaveProfile handles PUT /api/v1/users/{uid}.
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "profile.save", err)
		return
	}
	var body profileBody
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, r, "profile.save", err)
		return
	}
	if err := h.c.SaveProfileHandler.Handle(r.Context(), profileCommands.SaveProfileCommand{UserID: userID, Details: body.details()}); err != nil {
		h.fail(w, r, "profile.save", err)
		return
	}
	profile, err := h.c.GetProfileHandler.Handle(r.Context(), profileQueries.GetProfileQuery{UserID: userID})
	if err != nil {
		h.fail(w, r, "profile.save", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// ListLessons handles GET /api/v1/lessons. X-User-ID is optional and
// marks completed lessons.
func (h *Handler) ListLessons(w http.ResponseWriter, r *http.Request) {
	query := academyQueries.ListLessonsQuery{}
	if r.Header.Get(UserHeader) != "" {
		userID, err := callerID(r, "")
		if err != nil {
			h.fail(w, r, "academy.lessons", err)
			return
		}
		query.UserID = userID
	}
	lessons, err := h.c.ListLessonsHandler.Handle(r.Context(), query)
	if err != nil {
		h.fail(w, r, "academy.lessons", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lessons": lessons})
}

// GetLearner handles GET /api/v1/users/{uid}/academy.
func (h *Handler) GetLearner(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "academy.learner", err)
		return
	}
	learner, err := h.c.GetLearnerHandler.Handle(r.Context(), academyQueries.GetLearnerQuery{UserID: userID})
	if err != nil {
		h.fail(w, r, "academy.learner", err)
		return
	}
	writeJSON(w, http.StatusOK, learner)
}

// CompleteLesson handles POST /api/v1/users/{uid}/academy/lessons/{id}.
func (h *Handler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.fail(w, r, "academy.complete", err)
		return
	}
	var body struct {
		Answers []int `json:"answers"`
	}
	if err := decodeBody(r, &body); err != nil {
		h.fail(w, r, "academy.complete", err)
		return
	}
	res, err := h.c.CompleteLessonHandler.Handle(r.Context(), academyCommands.CompleteLessonCommand{
		UserID:   userID,
		LessonID: r.PathValue("id"),
		Answers:  body.Answers,
	})
	if err != nil {
		h.fail(w, r, "academy.complete", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
