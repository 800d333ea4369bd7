package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	academyDomain "github.com/felixgeelhaar/strand/internal/academy/domain"
	calendarCommands "github.com/felixgeelhaar/strand/internal/calendar/application/commands"
	calendarDomain "github.com/felixgeelhaar/strand/internal/calendar/domain"
	planCommands "github.com/felixgeelhaar/strand/internal/plans/application/commands"
	planPorts "github.com/felixgeelhaar/strand/internal/plans/application/ports"
	plansDomain "github.com/felixgeelhaar/strand/internal/plans/domain"
	profilesDomain "github.com/felixgeelhaar/strand/internal/profiles/domain"
	routinesDomain "github.com/felixgeelhaar/strand/internal/routines/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	streaksDomain "github.com/felixgeelhaar/strand/internal/streaks/domain"
)

// APIError represents an API error.
type APIError struct {
	Status   int                      `json:"-"`
	Code     string                   `json:"error"`
	Message  string                   `json:"message"`
	Problems []plansDomain.FieldError `json:"problems,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	errUnauthenticated = errors.New("missing or invalid user id")
	errBadBody         = errors.New("malformed request body")
)

var badRequest = []error{
	errBadBody,
	sharedDomain.ErrInvalidDate,
	routinesDomain.ErrInvalidWeekday,
	routinesDomain.ErrEmptyAction,
	routinesDomain.ErrInvalidTime,
	routinesDomain.ErrInvalidWeek,
	plansDomain.ErrInvalidHairFeel,
	profilesDomain.ErrInvalidBirthDate,
	profilesDomain.ErrMissingUserID,
	planCommands.ErrMissingUser,
	calendarDomain.ErrInvalidWeeks,
	academyDomain.ErrAnswerCount,
}

var notFound = []error{
	plansDomain.ErrNoCurrentPlan,
	plansDomain.ErrNoFeedback,
	planPorts.ErrProfileNotFound,
	profilesDomain.ErrProfileNotFound,
	academyDomain.ErrLessonNotFound,
	calendarDomain.ErrNoRoutine,
}

var unprocessable = []error{
	routinesDomain.ErrUnknownAction,
	routinesDomain.ErrFutureDate,
	streaksDomain.ErrDayBeforeLastCompletion,
	plansDomain.ErrEmptyDraft,
	plansDomain.ErrEmptyResponse,
}

// toAPIError maps an application error onto a status code.
func toAPIError(err error) *APIError {
	var validation *plansDomain.ValidationError
	switch {
	case errors.Is(err, errUnauthenticated):
		return &APIError{Status: http.StatusUnauthorized, Code: "unauthenticated", Message: err.Error()}
	case errors.As(err, &validation):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "invalid_plan", Message: err.Error(), Problems: validation.Problems}
	case isAny(err, badRequest):
		return &APIError{Status: http.StatusBadRequest, Code: "bad_request", Message: err.Error()}
	case isAny(err, notFound):
		return &APIError{Status: http.StatusNotFound, Code: "not_found", Message: err.Error()}
	case isAny(err, unprocessable):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "unprocessable", Message: err.Error()}
	case errors.Is(err, planPorts.ErrGeneratorTimeout), errors.Is(err, context.DeadlineExceeded):
		return &APIError{Status: http.StatusGatewayTimeout, Code: "timeout", Message: err.Error()}
	case errors.Is(err, planPorts.ErrGeneratorUnavailable), errors.Is(err, calendarCommands.ErrExporterNotConfigured):
		return &APIError{Status: http.StatusServiceUnavailable, Code: "unavailable", Message: err.Error()}
	default:
		return &APIError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "Internal server error"}
	}
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, err error) *APIError {
	apiErr := toAPIError(err)
	writeJSON(w, apiErr.Status, apiErr)
	return apiErr
}
