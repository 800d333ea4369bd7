package app

import (
	academyDomain "github.com/felixgeelhaar/strand/internal/academy/domain"
	academyPersistence "github.com/felixgeelhaar/strand/internal/academy/infrastructure/persistence"
	plansDomain "github.com/felixgeelhaar/strand/internal/plans/domain"
	plansPersistence "github.com/felixgeelhaar/strand/internal/plans/infrastructure/persistence"
	profilesDomain "github.com/felixgeelhaar/strand/internal/profiles/domain"
	profilesPersistence "github.com/felixgeelhaar/strand/internal/profiles/infrastructure/persistence"
	routinesDomain "github.com/felixgeelhaar/strand/internal/routines/domain"
	routinesPersistence "github.com/felixgeelhaar/strand/internal/routines/infrastructure/persistence"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/crypto"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/outbox"
	streaksDomain "github.com/felixgeelhaar/strand/internal/streaks/domain"
	streaksPersistence "github.com/felixgeelhaar/strand/internal/streaks/infrastructure/persistence"
)

// RepositoryFactory creates repositories over one connection. The SQL
// repositories rebind placeholders per driver, so the same constructors
// serve SQLite and PostgreSQL.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
	cipher *crypto.FieldCipher
}

// NewRepositoryFactory creates a new repository factory. A nil cipher
// stores profile fields in plaintext.
func NewRepositoryFactory(conn database.Connection, cipher *crypto.FieldCipher) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
		cipher: cipher,
	}
}

// StreakRepository creates the users/{uid}/stats/streak repository.
func (f *RepositoryFactory) StreakRepository() streaksDomain.Repository {
	return streaksPersistence.NewSQLStreakRepository(f.conn)
}

// CompletionRepository creates the users/{uid}/dailyCompletions repository.
func (f *RepositoryFactory) CompletionRepository() routinesDomain.CompletionRepository {
	return routinesPersistence.NewSQLCompletionRepository(f.conn)
}

// PlanRepository creates the uncached plan repository.
func (f *RepositoryFactory) PlanRepository() plansDomain.PlanRepository {
	return plansPersistence.NewSQLPlanRepository(f.conn)
}

// FeedbackRepository creates the users/{uid}/weeklyFeedback repository.
func (f *RepositoryFactory) FeedbackRepository() plansDomain.FeedbackRepository {
	return plansPersistence.NewSQLFeedbackRepository(f.conn)
}

// ProfileRepository creates the users/{uid} repository.
func (f *RepositoryFactory) ProfileRepository() profilesDomain.Repository {
	return profilesPersistence.NewSQLProfileRepository(f.conn, f.cipher)
}

// LearnerRepository creates the academy progress repository.
func (f *RepositoryFactory) LearnerRepository() academyDomain.LearnerRepository {
	return academyPersistence.NewSQLLearnerRepository(f.conn)
}

// OutboxRepository creates the outbox repository.
func (f *RepositoryFactory) OutboxRepository() outbox.Repository {
	return outbox.NewSQLRepository(f.conn)
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// Connection returns the underlying database connection.
func (f *RepositoryFactory) Connection() database.Connection {
	return f.conn
}
