package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{"Monday", time.Monday, false},
		{"  sunday ", time.Sunday, false},
		{"WEDNESDAY", time.Wednesday, false},
		{"thu", time.Thursday, false},
		{"Sat", time.Saturday, false},
		{"Funday", 0, true},
		{"", 0, true},
		{"mo", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWeekday)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectDate(t *testing.T) {
	monday := sharedDomain.NewDate(2024, 1, 1)

	t.Run("anchor weekday moves a full week", func(t *testing.T) {
		got, err := ProjectDate("Monday", monday)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-08", got.String())
	})

	t.Run("next day", func(t *testing.T) {
		got, err := ProjectDate("Tuesday", monday)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-02", got.String())
	})

	t.Run("invalid weekday", func(t *testing.T) {
		_, err := ProjectDate("Someday", monday)
		assert.ErrorIs(t, err, ErrInvalidWeekday)
	})

	t.Run("always within the next seven days on the named weekday", func(t *testing.T) {
		start := sharedDomain.NewDate(2023, 12, 25)
		for i := 0; i < 14; i++ {
			anchor := start.AddDays(i)
			for name, wd := range weekdays {
				got, err := ProjectDate(name, anchor)
				require.NoError(t, err)
				gap := got.DaysSince(anchor)
				assert.True(t, gap >= 1 && gap <= 7, "%s from %s gave %s", name, anchor, got)
				assert.Equal(t, wd, got.Weekday())
			}
		}
	})
}

func TestProjectTask_LaterWeeks(t *testing.T) {
	sunday := sharedDomain.NewDate(2023, 12, 31)

	got, err := ProjectTask(Task{Day: "Monday", Action: "Wash", Week: 3}, sunday)

	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", got.String())
}

func TestBuildTaskMap(t *testing.T) {
	sunday := sharedDomain.NewDate(2023, 12, 31)

	t.Run("empty input", func(t *testing.T) {
		m, rejected := BuildTaskMap(nil, sunday)
		assert.Empty(t, m)
		assert.Empty(t, rejected)
	})

	t.Run("two weekdays give two keys", func(t *testing.T) {
		tasks := []Task{
			{Day: "Monday", Action: "Wash"},
			{Day: "Wednesday", Action: "Oil"},
		}
		m, rejected := BuildTaskMap(tasks, sunday)

		want := TaskMap{
			"2024-01-01": {{Day: "Monday", Action: "Wash"}},
			"2024-01-03": {{Day: "Wednesday", Action: "Oil"}},
		}
		assert.Empty(t, rejected)
		if diff := cmp.Diff(want, m); diff != "" {
			t.Errorf("task map mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, []string{"2024-01-01", "2024-01-03"}, m.Dates())
	})

	t.Run("same weekday keeps input order", func(t *testing.T) {
		tasks := []Task{
			{Day: "Friday", Action: "Detangle"},
			{Day: "friday", Action: "Deep condition"},
			{Day: "Fri", Action: "Silk wrap"},
		}
		m, _ := BuildTaskMap(tasks, sunday)

		require.Len(t, m, 1)
		got := m.On(sharedDomain.NewDate(2024, 1, 5))
		if diff := cmp.Diff(tasks, got); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid weekday rejects only that task", func(t *testing.T) {
		tasks := []Task{
			{Day: "Monday", Action: "Wash"},
			{Day: "Caturday", Action: "Nap"},
			{Day: "Tuesday", Action: "Mask"},
		}
		m, rejected := BuildTaskMap(tasks, sunday)

		assert.Len(t, m, 2)
		require.Len(t, rejected, 1)
		assert.Equal(t, 1, rejected[0].Index)
		assert.Equal(t, "Nap", rejected[0].Action)
		assert.True(t, errors.Is(rejected[0], ErrInvalidWeekday))
	})

	t.Run("missing date yields empty slice", func(t *testing.T) {
		m, _ := BuildTaskMap([]Task{{Day: "Monday", Action: "Wash"}}, sunday)
		got := m.On(sharedDomain.NewDate(2024, 6, 1))
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestTask_Validate(t *testing.T) {
	assert.NoError(t, Task{Day: "Monday", Action: "Wash", Time: "07:30", Week: 2}.Validate())
	assert.ErrorIs(t, Task{Day: "Monday", Action: " "}.Validate(), ErrEmptyAction)
	assert.ErrorIs(t, Task{Day: "Moonday", Action: "Wash"}.Validate(), ErrInvalidWeekday)
	assert.ErrorIs(t, Task{Day: "Monday", Action: "Wash", Time: "7pm"}.Validate(), ErrInvalidTime)
	assert.ErrorIs(t, Task{Day: "Monday", Action: "Wash", Time: "24:00"}.Validate(), ErrInvalidTime)
	assert.ErrorIs(t, Task{Day: "Monday", Action: "Wash", Week: -1}.Validate(), ErrInvalidWeek)
}
