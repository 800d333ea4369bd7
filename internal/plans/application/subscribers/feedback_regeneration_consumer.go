// Package subscribers reacts to plan events delivered by the worker.
package subscribers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/strand/internal/plans/application/commands"
	"github.com/felixgeelhaar/strand/internal/plans/application/ports"
	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// Regenerator is the slice of RegeneratePlanHandler the consumer needs.
type Regenerator interface {
	Handle(ctx context.Context, cmd commands.RegeneratePlanCommand) (*commands.RegeneratePlanResult, error)
}

// FeedbackRegenerationConsumer regenerates the plan after each weekly
// check-in.
type FeedbackRegenerationConsumer struct {
	regenerator Regenerator
	logger      *slog.Logger
}

// NewFeedbackRegenerationConsumer creates the consumer.
func NewFeedbackRegenerationConsumer(regenerator Regenerator, logger *slog.Logger) *FeedbackRegenerationConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedbackRegenerationConsumer{regenerator: regenerator, logger: logger}
}

// EventTypes returns the event types this consumer handles.
func (c *FeedbackRegenerationConsumer) EventTypes() []string {
	return []string{domain.RoutingKeyFeedbackSubmitted}
}

type feedbackSubmittedPayload struct {
	FeedbackID uuid.UUID `json:"feedback_id"`
	UserID     uuid.UUID `json:"user_id"`
}

// Handle runs the regeneration. Missing inputs are logged and acknowledged;
// other errors are returned so the broker redelivers.
func (c *FeedbackRegenerationConsumer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload feedbackSubmittedPayload
	if err := event.Decode(&payload); err != nil {
		c.logger.Error("dropping undecodable feedback event", "event_id", event.EventID, "error", err)
		return nil
	}
	userID := payload.UserID
	if userID == uuid.Nil {
		userID = event.Metadata.UserID
	}

	res, err := c.regenerator.Handle(ctx, commands.RegeneratePlanCommand{UserID: userID})
	switch {
	case errors.Is(err, domain.ErrNoCurrentPlan),
		errors.Is(err, domain.ErrNoFeedback),
		errors.Is(err, ports.ErrProfileNotFound),
		errors.Is(err, commands.ErrMissingUser):
		c.logger.Warn("skipping plan regeneration",
			"user_id", userID,
			"feedback_id", payload.FeedbackID,
			"reason", err.Error(),
		)
		return nil
	case err != nil:
		c.logger.Error("plan regeneration failed",
			"user_id", userID,
			"feedback_id", payload.FeedbackID,
			"error", err,
		)
		return err
	}

	c.logger.Info("plan regenerated from feedback",
		"user_id", userID,
		"feedback_id", payload.FeedbackID,
		"plan_id", res.Plan.ID,
	)
	return nil
}
