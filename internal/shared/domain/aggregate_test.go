package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type testAggregate struct {
	domain.BaseAggregateRoot
	Name string
}

func newTestAggregate(name string) *testAggregate {
	return &testAggregate{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		Name:              name,
	}
}

type testAggregateEvent struct {
	domain.BaseEvent
}

func newTestAggregateEvent(aggregateID uuid.UUID) testAggregateEvent {
	return testAggregateEvent{
		BaseEvent: domain.NewBaseEvent(aggregateID, "TestAggregate", "test.aggregate.created"),
	}
}

func TestNewBaseAggregateRoot(t *testing.T) {
	agg := domain.NewBaseAggregateRoot()

	assert.NotEqual(t, uuid.Nil, agg.ID())
	assert.Equal(t, 0, agg.Version())
	assert.Empty(t, agg.DomainEvents())
	assert.Equal(t, agg.CreatedAt(), agg.UpdatedAt())
}

func TestNewBaseAggregateRootWithID(t *testing.T) {
	id := uuid.New()
	agg := domain.NewBaseAggregateRootWithID(id)

	assert.Equal(t, id, agg.ID())
}

func TestRehydrateBaseAggregateRoot(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	agg := domain.RehydrateBaseAggregateRoot(id, created, updated, 4)

	assert.Equal(t, id, agg.ID())
	assert.Equal(t, created, agg.CreatedAt())
	assert.Equal(t, updated, agg.UpdatedAt())
	assert.Equal(t, 4, agg.Version())
	assert.Empty(t, agg.DomainEvents())
}

func TestBaseAggregateRoot_Record(t *testing.T) {
	agg := newTestAggregate("Test")
	created := agg.CreatedAt()
	event := newTestAggregateEvent(agg.ID())

	agg.Record(event)

	events := agg.DomainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, event.EventID(), events[0].EventID())
	assert.Equal(t, 1, agg.Version())
	assert.False(t, agg.UpdatedAt().Before(created))
}

func TestBaseAggregateRoot_ClearDomainEvents(t *testing.T) {
	agg := newTestAggregate("Test")
	agg.Record(newTestAggregateEvent(agg.ID()))
	agg.Record(newTestAggregateEvent(agg.ID()))

	assert.Len(t, agg.DomainEvents(), 2)

	agg.ClearDomainEvents()

	assert.Empty(t, agg.DomainEvents())
	assert.Equal(t, 2, agg.Version())
}

func TestBaseAggregateRoot_Equals(t *testing.T) {
	a := newTestAggregate("a")
	b := newTestAggregate("b")
	same := domain.NewBaseAggregateRootWithID(a.ID())

	assert.True(t, a.Equals(&same))
	assert.False(t, a.Equals(b))
	assert.False(t, a.Equals(nil))
}
