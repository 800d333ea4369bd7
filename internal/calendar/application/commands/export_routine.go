package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/strand/internal/calendar/application/ports"
	"github.com/felixgeelhaar/strand/internal/calendar/domain"
	routinePorts "github.com/felixgeelhaar/strand/internal/routines/application/ports"
	"github.com/google/uuid"
)

// DefaultWeeks is used when the command leaves Weeks unset.
const DefaultWeeks = 4

// ErrExporterNotConfigured is returned when no calendar is connected.
var ErrExporterNotConfigured = errors.New("calendar export not configured")

// ExportRoutineCommand pushes the current routine to the connected calendar.
type ExportRoutineCommand struct {
	UserID uuid.UUID
	Weeks  int
}

// ExportRoutineResult extends the exporter counts with skipped tasks.
type ExportRoutineResult struct {
	ports.ExportResult
	Occurrences int `json:"occurrences"`
	Rejected    int `json:"rejected"`
}

// ExportRoutineHandler handles the ExportRoutineCommand.
type ExportRoutineHandler struct {
	routines routinePorts.RoutineSource
	exporter ports.Exporter
	loc      *time.Location
	logger   *slog.Logger
}

// NewExportRoutineHandler creates a new ExportRoutineHandler. Timed tasks
// are placed in loc.
func NewExportRoutineHandler(routines routinePorts.RoutineSource, exporter ports.Exporter, loc *time.Location, logger *slog.Logger) *ExportRoutineHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportRoutineHandler{routines: routines, exporter: exporter, loc: loc, logger: logger}
}

// Handle expands the routine and exports every occurrence.
func (h *ExportRoutineHandler) Handle(ctx context.Context, cmd ExportRoutineCommand) (*ExportRoutineResult, error) {
	if h.exporter == nil {
		return nil, ErrExporterNotConfigured
	}
	weeks := cmd.Weeks
	if weeks == 0 {
		weeks = DefaultWeeks
	}

	routine, err := h.routines.CurrentRoutine(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load routine: %w", err)
	}
	if routine == nil || len(routine.Tasks) == 0 {
		return nil, domain.ErrNoRoutine
	}

	occurrences, rejected, err := domain.Expand(cmd.UserID, routine.Tasks, routine.Anchor, weeks, h.loc)
	if err != nil {
		return nil, err
	}
	for _, r := range rejected {
		h.logger.Warn("task skipped in export", "index", r.Index, "action", r.Action, "error", r.Err)
	}

	exported, err := h.exporter.Export(ctx, occurrences)
	if err != nil {
		return nil, fmt.Errorf("export routine: %w", err)
	}

	h.logger.Info("routine exported",
		"user_id", cmd.UserID,
		"created", exported.Created,
		"updated", exported.Updated,
		"failed", exported.Failed,
	)
	return &ExportRoutineResult{
		ExportResult: *exported,
		Occurrences:  len(occurrences),
		Rejected:     len(rejected),
	}, nil
}
