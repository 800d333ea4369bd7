package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	routinesDomain "github.com/felixgeelhaar/strand/internal/routines/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
)

var anchor = sharedDomain.NewDate(2023, time.December, 31) // Sunday

func dates(occ []Occurrence) []string {
	out := make([]string, 0, len(occ))
	for _, o := range occ {
		out = append(out, o.Date.String()+" "+o.Action)
	}
	return out
}

func TestExpand_RepeatsWeeklessTasks(t *testing.T) {
	uid := uuid.New()
	tasks := []routinesDomain.Task{
		{Day: "Monday", Action: "Wash", Time: "08:15"},
		{Day: "Wednesday", Action: "Oil"},
	}

	occ, rejected, err := Expand(uid, tasks, anchor, 2, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, rejected)

	want := []string{"2024-01-01 Wash", "2024-01-08 Wash", "2024-01-03 Oil", "2024-01-10 Oil"}
	if diff := cmp.Diff(want, dates(occ)); diff != "" {
		t.Errorf("occurrences mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, time.Date(2024, 1, 1, 8, 15, 0, 0, time.UTC), occ[0].Start)
	assert.Equal(t, 30*time.Minute, occ[0].End.Sub(occ[0].Start))
	assert.True(t, occ[2].AllDay())
}

func TestExpand_PinnedWeeksOccurOnce(t *testing.T) {
	tasks := []routinesDomain.Task{
		{Day: "Monday", Action: "Clarify", Week: 1},
		{Day: "Monday", Action: "Protein", Week: 3},
	}
	occ, _, err := Expand(uuid.New(), tasks, anchor, 4, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01 Clarify", "2024-01-15 Protein"}, dates(occ))
}

func TestExpand_RejectsBadTasks(t *testing.T) {
	tasks := []routinesDomain.Task{
		{Day: "Someday", Action: "Wash"},
		{Day: "Friday", Action: "Mask", Time: "25:00"},
		{Day: "Friday", Action: "Rinse"},
	}
	occ, rejected, err := Expand(uuid.New(), tasks, anchor, 1, time.UTC)
	require.NoError(t, err)
	require.Len(t, rejected, 2)
	assert.ErrorIs(t, rejected[0], routinesDomain.ErrInvalidWeekday)
	assert.ErrorIs(t, rejected[1], routinesDomain.ErrInvalidTime)
	assert.Equal(t, []string{"2024-01-05 Rinse"}, dates(occ))
}

func TestExpand_WeeksBounds(t *testing.T) {
	for _, weeks := range []int{0, MaxWeeks + 1} {
		_, _, err := Expand(uuid.New(), nil, anchor, weeks, nil)
		assert.ErrorIs(t, err, ErrInvalidWeeks)
	}
}

func TestOccurrenceUID_Deterministic(t *testing.T) {
	uid := uuid.New()
	d := sharedDomain.NewDate(2024, 1, 1)
	assert.Equal(t, OccurrenceUID(uid, d, "Wash"), OccurrenceUID(uid, d, "Wash"))
	assert.NotEqual(t, OccurrenceUID(uid, d, "Wash"), OccurrenceUID(uid, d.AddDays(7), "Wash"))
	assert.NotEqual(t, OccurrenceUID(uid, d, "Wash"), OccurrenceUID(uuid.New(), d, "Wash"))
}
