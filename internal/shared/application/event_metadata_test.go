package application

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	domain.BaseEvent
}

func TestNewEventMetadata(t *testing.T) {
	t.Run("generates ids without request context", func(t *testing.T) {
		userID := uuid.New()

		first := NewEventMetadata(context.Background(), userID)
		second := NewEventMetadata(context.Background(), userID)

		assert.Equal(t, userID, first.UserID)
		assert.NotEqual(t, uuid.Nil, first.CorrelationID)
		assert.NotEqual(t, first.CorrelationID, second.CorrelationID)
		assert.NotEqual(t, first.CausationID, second.CausationID)
	})

	t.Run("reuses the request correlation id", func(t *testing.T) {
		correlationID := uuid.New()
		ctx := observability.WithCorrelationID(context.Background(), correlationID.String())

		md := NewEventMetadata(ctx, uuid.New())

		assert.Equal(t, correlationID, md.CorrelationID)
	})

	t.Run("ignores non uuid correlation ids", func(t *testing.T) {
		ctx := observability.WithCorrelationID(context.Background(), "cli-123")

		md := NewEventMetadata(ctx, uuid.New())

		assert.NotEqual(t, uuid.Nil, md.CorrelationID)
	})
}

func TestApplyEventMetadata(t *testing.T) {
	md := NewEventMetadata(context.Background(), uuid.New())
	first := &testEvent{BaseEvent: domain.NewBaseEvent(uuid.New(), "test", "test.first")}
	second := &testEvent{BaseEvent: domain.NewBaseEvent(uuid.New(), "test", "test.second")}

	ApplyEventMetadata([]domain.DomainEvent{first, second}, md)

	assert.Equal(t, md, first.Metadata())
	assert.Equal(t, md, second.Metadata())
	require.NotPanics(t, func() { ApplyEventMetadata(nil, md) })
}
