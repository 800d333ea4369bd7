package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/strand/internal/profiles/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/crypto"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLProfileRepository stores profiles. The date of birth goes through the
// field cipher, so it is encrypted whenever a key is configured.
type SQLProfileRepository struct {
	conn   database.Connection
	cipher *crypto.FieldCipher
}

// NewSQLProfileRepository creates a new profile repository. cipher may be nil.
func NewSQLProfileRepository(conn database.Connection, cipher *crypto.FieldCipher) *SQLProfileRepository {
	return &SQLProfileRepository{conn: conn, cipher: cipher}
}

// FindByUserID returns nil when no profile is stored.
func (r *SQLProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var (
		sealedDOB, hairType, washFrequency string
		goals, routineProducts, products   string
		createdAt, updatedAt               database.Timestamp
	)
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		SELECT date_of_birth, hair_type, hair_goals, wash_frequency,
		       routine_products, products, created_at, updated_at
		FROM profiles
		WHERE user_id = ?`, userID,
	).Scan(&sealedDOB, &hairType, &goals, &washFrequency, &routineProducts, &products, &createdAt, &updatedAt)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select profile: %w", err)
	}

	dob, err := r.cipher.Open(sealedDOB)
	if err != nil {
		return nil, err
	}
	details := domain.Details{DateOfBirth: dob, HairType: hairType, WashFrequency: washFrequency}
	for _, col := range []struct {
		raw  string
		dest *[]string
	}{
		{goals, &details.HairGoals},
		{routineProducts, &details.RoutineProducts},
		{products, &details.Products},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dest); err != nil {
			return nil, fmt.Errorf("decode profile list: %w", err)
		}
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(userID, createdAt.Time, updatedAt.Time, 0)
	return domain.RehydrateProfile(base, details), nil
}

// Save upserts the profile keyed by user.
func (r *SQLProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	dob, err := r.cipher.Seal(p.DateOfBirth())
	if err != nil {
		return err
	}
	goals, err := jsonList(p.HairGoals())
	if err != nil {
		return err
	}
	routineProducts, err := jsonList(p.RoutineProducts())
	if err != nil {
		return err
	}
	products, err := jsonList(p.Products())
	if err != nil {
		return err
	}

	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO profiles (
			user_id, date_of_birth, hair_type, hair_goals, wash_frequency,
			routine_products, products, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			date_of_birth = excluded.date_of_birth,
			hair_type = excluded.hair_type,
			hair_goals = excluded.hair_goals,
			wash_frequency = excluded.wash_frequency,
			routine_products = excluded.routine_products,
			products = excluded.products,
			updated_at = excluded.updated_at`,
		p.UserID(),
		dob,
		p.HairType(),
		goals,
		p.WashFrequency(),
		routineProducts,
		products,
		p.CreatedAt().UTC(),
		p.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func jsonList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode profile list: %w", err)
	}
	return string(data), nil
}
