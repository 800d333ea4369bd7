package persistence_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/strand/internal/academy/domain"
	"github.com/felixgeelhaar/strand/internal/academy/infrastructure/persistence"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database/dbtest"
)

func TestSQLLearnerRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewSQLLearnerRepository(dbtest.NewSQLite(t))
	uid := uuid.New()

	missing, err := repo.FindByUserID(ctx, uid)
	require.NoError(t, err)
	assert.Nil(t, missing)

	learner := domain.NewLearner(uid)
	_, err = learner.Complete(domain.Lesson{ID: "big", Type: domain.TypeLesson, XPReward: 50}, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, learner))

	loaded, err := repo.FindByUserIDForUpdate(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 50, loaded.XP())
	assert.Equal(t, []string{"big"}, loaded.CompletedLessons())
	assert.Equal(t, []string{domain.ScholarBadge}, loaded.Badges())
	assert.Equal(t, learner.Version(), loaded.Version())

	_, err = loaded.Complete(domain.Lesson{ID: "next", Type: domain.TypeLesson, XPReward: 5}, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, loaded))

	again, err := repo.FindByUserID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 55, again.XP())
	assert.True(t, again.HasCompleted("next"))
}
