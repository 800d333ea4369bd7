package persistence_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/strand/internal/profiles/domain"
	"github.com/felixgeelhaar/strand/internal/profiles/infrastructure/persistence"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/crypto"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database/dbtest"
)

func cipher(t *testing.T) *crypto.FieldCipher {
	t.Helper()
	enc, err := crypto.NewAESGCMFromBase64Key(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32))))
	require.NoError(t, err)
	return crypto.NewFieldCipher(enc)
}

func TestSQLProfileRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	repo := persistence.NewSQLProfileRepository(conn, cipher(t))
	uid := uuid.New()

	missing, err := repo.FindByUserID(ctx, uid)
	require.NoError(t, err)
	assert.Nil(t, missing)

	p, err := domain.NewProfile(uid, domain.Details{
		DateOfBirth:     "1992-07-30",
		HairType:        "coily",
		HairGoals:       []string{"moisture"},
		WashFrequency:   "weekly",
		RoutineProducts: []string{"Shea butter"},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	var stored string
	require.NoError(t, conn.QueryRow(ctx, `SELECT date_of_birth FROM profiles WHERE user_id = ?`, uid).Scan(&stored))
	assert.NotContains(t, stored, "1992")

	loaded, err := repo.FindByUserID(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "1992-07-30", loaded.DateOfBirth())
	assert.Equal(t, []string{"moisture"}, loaded.HairGoals())
	assert.Equal(t, []string{"Shea butter"}, loaded.RoutineProducts())
	assert.Empty(t, loaded.Products())

	require.NoError(t, loaded.Update(domain.Details{HairType: "curly"}))
	require.NoError(t, repo.Save(ctx, loaded))
	again, err := repo.FindByUserID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "curly", again.HairType())
	assert.Empty(t, again.DateOfBirth())
}

func TestSQLProfileRepository_Plaintext(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	repo := persistence.NewSQLProfileRepository(conn, nil)
	uid := uuid.New()

	p, err := domain.NewProfile(uid, domain.Details{DateOfBirth: "2000-01-01"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	loaded, err := repo.FindByUserID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "2000-01-01", loaded.DateOfBirth())
}
