package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessEventBus_Publish(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(slog.Default())
	consumer := &mockConsumer{eventTypes: []string{"plans.feedback.submitted"}}
	bus.RegisterConsumer(consumer)

	userID := uuid.New()
	envelope := eventbus.ConsumedEvent{
		EventID:       uuid.New(),
		AggregateID:   uuid.New(),
		AggregateType: "WeeklyFeedback",
		RoutingKey:    "plans.feedback.submitted",
		OccurredAt:    time.Now().UTC(),
		Payload:       json.RawMessage(`{"hair_feel":"Worse"}`),
		Metadata:      domain.EventMetadata{UserID: userID},
	}
	body, err := json.Marshal(envelope)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), envelope.RoutingKey, body))

	require.Equal(t, 1, consumer.received())
	got := consumer.events[0]
	assert.Equal(t, envelope.EventID, got.EventID)
	assert.Equal(t, userID, got.Metadata.UserID)

	var payload struct {
		HairFeel string `json:"hair_feel"`
	}
	require.NoError(t, got.Decode(&payload))
	assert.Equal(t, "Worse", payload.HairFeel)
}

func TestInProcessEventBus_RoutingKeyFallback(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	consumer := &mockConsumer{eventTypes: []string{"profiles.profile.saved"}}
	bus.RegisterConsumer(consumer)

	require.NoError(t, bus.Publish(context.Background(), "profiles.profile.saved", []byte(`{"event_id":"`+uuid.NewString()+`"}`)))
	assert.Equal(t, 1, consumer.received())
}

func TestInProcessEventBus_ConsumerErrorIsReturned(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(slog.Default())
	consumerErr := errors.New("regeneration failed")
	bus.RegisterConsumer(&mockConsumer{eventTypes: []string{"k"}, err: consumerErr})

	err := bus.Dispatch(context.Background(), &eventbus.ConsumedEvent{RoutingKey: "k"})

	assert.ErrorIs(t, err, consumerErr)
}

func TestInProcessEventBus_InvalidPayloadDropped(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(slog.Default())
	consumer := &mockConsumer{eventTypes: []string{"k"}}
	bus.RegisterConsumer(consumer)

	require.NoError(t, bus.Publish(context.Background(), "k", []byte("invalid json")))
	assert.Zero(t, consumer.received())
	assert.NoError(t, bus.Close())
}

func TestConsumedEvent_DecodeWithoutPayload(t *testing.T) {
	var v map[string]any
	err := (&eventbus.ConsumedEvent{RoutingKey: "k"}).Decode(&v)
	assert.Error(t, err)
}
