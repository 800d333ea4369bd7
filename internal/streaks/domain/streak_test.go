package domain

import (
	"testing"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) sharedDomain.Date {
	t.Helper()
	d, err := sharedDomain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func datePtr(t *testing.T, s string) *sharedDomain.Date {
	d := date(t, s)
	return &d
}

func TestNextStreak(t *testing.T) {
	tests := []struct {
		name    string
		last    *sharedDomain.Date
		today   string
		current int
		want    int
	}{
		{"no previous completion", nil, "2024-01-01", 0, 1},
		{"same day keeps streak", datePtr(t, "2024-01-01"), "2024-01-01", 5, 5},
		{"next day extends", datePtr(t, "2024-01-01"), "2024-01-02", 5, 6},
		{"gap resets", datePtr(t, "2024-01-01"), "2024-01-04", 5, 1},
		{"across month boundary", datePtr(t, "2024-01-31"), "2024-02-01", 2, 3},
		{"across leap day", datePtr(t, "2024-02-28"), "2024-02-29", 2, 3},
		{"negative gap resets", datePtr(t, "2024-01-05"), "2024-01-03", 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.last, date(t, tt.today), tt.current))
		})
	}
}

func TestStreak_RecordDay(t *testing.T) {
	t.Run("first day starts the streak", func(t *testing.T) {
		s := NewStreak(uuid.New())

		outcome, err := s.RecordDay(date(t, "2024-03-01"))

		require.NoError(t, err)
		assert.Equal(t, OutcomeStarted, outcome)
		assert.Equal(t, 1, s.Current())
		assert.Equal(t, 1, s.Longest())
		require.Len(t, s.DomainEvents(), 1)
		assert.Equal(t, RoutingKeyStarted, s.DomainEvents()[0].RoutingKey())
	})

	t.Run("consecutive days extend and raise longest", func(t *testing.T) {
		s := NewStreak(uuid.New())
		for _, d := range []string{"2024-03-01", "2024-03-02", "2024-03-03"} {
			_, err := s.RecordDay(date(t, d))
			require.NoError(t, err)
		}
		assert.Equal(t, 3, s.Current())
		assert.Equal(t, 3, s.Longest())
		assert.Equal(t, RoutingKeyExtended, s.DomainEvents()[2].RoutingKey())
	})

	t.Run("same day is a silent no-op", func(t *testing.T) {
		s := NewStreak(uuid.New())
		_, err := s.RecordDay(date(t, "2024-03-01"))
		require.NoError(t, err)
		s.ClearDomainEvents()

		outcome, err := s.RecordDay(date(t, "2024-03-01"))

		require.NoError(t, err)
		assert.Equal(t, OutcomeUnchanged, outcome)
		assert.Empty(t, s.DomainEvents())
		assert.Equal(t, 1, s.Current())
	})

	t.Run("gap resets but longest is kept", func(t *testing.T) {
		s := RehydrateStreak(sharedDomain.NewBaseAggregateRoot(), uuid.New(), 4, 7, datePtr(t, "2024-03-01"))

		outcome, err := s.RecordDay(date(t, "2024-03-05"))

		require.NoError(t, err)
		assert.Equal(t, OutcomeReset, outcome)
		assert.Equal(t, 1, s.Current())
		assert.Equal(t, 7, s.Longest())
		reset, ok := s.DomainEvents()[0].(*StreakReset)
		require.True(t, ok)
		assert.Equal(t, 4, reset.PreviousStreak)
	})

	t.Run("earlier day is rejected without change", func(t *testing.T) {
		s := RehydrateStreak(sharedDomain.NewBaseAggregateRoot(), uuid.New(), 2, 2, datePtr(t, "2024-03-05"))

		_, err := s.RecordDay(date(t, "2024-03-04"))

		assert.ErrorIs(t, err, ErrDayBeforeLastCompletion)
		assert.Equal(t, 2, s.Current())
		assert.Equal(t, "2024-03-05", s.LastCompletedDate().String())
		assert.Empty(t, s.DomainEvents())
	})

	t.Run("current never exceeds longest", func(t *testing.T) {
		s := RehydrateStreak(sharedDomain.NewBaseAggregateRoot(), uuid.New(), 5, 3, nil)
		assert.Equal(t, 5, s.Longest())
	})

	t.Run("zero last date is treated as never completed", func(t *testing.T) {
		zero := sharedDomain.Date{}
		s := RehydrateStreak(sharedDomain.NewBaseAggregateRoot(), uuid.New(), 0, 2, &zero)
		assert.Nil(t, s.LastCompletedDate())

		outcome, err := s.RecordDay(date(t, "2024-03-05"))
		require.NoError(t, err)
		assert.Equal(t, OutcomeStarted, outcome)
		assert.Equal(t, 1, s.Current())
		assert.Equal(t, 2, s.Longest())
	})
}
