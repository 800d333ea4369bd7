package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/strand/internal/academy/domain"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	lessons := c.List()
	require.NotEmpty(t, lessons)
	assert.Equal(t, "hair-types-101", lessons[0].ID)

	quiz, err := c.Get("porosity-quiz")
	require.NoError(t, err)
	assert.Equal(t, domain.TypeQuiz, quiz.Type)
	assert.Len(t, quiz.Questions, 2)

	_, err = c.Get("missing")
	assert.ErrorIs(t, err, domain.ErrLessonNotFound)
}

func TestParse_Defaults(t *testing.T) {
	c, err := Parse([]byte("lessons:\n  - id: short\n    title: Short\n"))
	require.NoError(t, err)
	l, err := c.Get("short")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultXPReward, l.XPReward)
	assert.Equal(t, domain.DefaultEstimatedMinutes, l.EstimatedMinutes)
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse([]byte("lessons:\n  - id: a\n  - id: a\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = Parse([]byte("lessons: ["))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/lessons.yaml")
	assert.Error(t, err)
}
