// Package app wires the bounded contexts into one explicit container that
// every binary builds once and hands to its adapters.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	academyCommands "github.com/felixgeelhaar/strand/internal/academy/application/commands"
	academyQueries "github.com/felixgeelhaar/strand/internal/academy/application/queries"
	academyDomain "github.com/felixgeelhaar/strand/internal/academy/domain"
	"github.com/felixgeelhaar/strand/internal/academy/infrastructure/catalog"
	calendarCommands "github.com/felixgeelhaar/strand/internal/calendar/application/commands"
	calendarPorts "github.com/felixgeelhaar/strand/internal/calendar/application/ports"
	"github.com/felixgeelhaar/strand/internal/calendar/infrastructure/caldav"
	planCommands "github.com/felixgeelhaar/strand/internal/plans/application/commands"
	planQueries "github.com/felixgeelhaar/strand/internal/plans/application/queries"
	planSubscribers "github.com/felixgeelhaar/strand/internal/plans/application/subscribers"
	plansDomain "github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/felixgeelhaar/strand/internal/plans/infrastructure/cache"
	"github.com/felixgeelhaar/strand/internal/plans/infrastructure/generator"
	profileCommands "github.com/felixgeelhaar/strand/internal/profiles/application/commands"
	profileQueries "github.com/felixgeelhaar/strand/internal/profiles/application/queries"
	profilesDomain "github.com/felixgeelhaar/strand/internal/profiles/domain"
	routineCommands "github.com/felixgeelhaar/strand/internal/routines/application/commands"
	routineQueries "github.com/felixgeelhaar/strand/internal/routines/application/queries"
	routinesDomain "github.com/felixgeelhaar/strand/internal/routines/domain"
	sharedApplication "github.com/felixgeelhaar/strand/internal/shared/application"
	sharedCrypto "github.com/felixgeelhaar/strand/internal/shared/infrastructure/crypto"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/strand/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/strand/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/strand/internal/shared/resilience"
	streakCommands "github.com/felixgeelhaar/strand/internal/streaks/application/commands"
	streakQueries "github.com/felixgeelhaar/strand/internal/streaks/application/queries"
	streaksDomain "github.com/felixgeelhaar/strand/internal/streaks/domain"
	"github.com/felixgeelhaar/strand/pkg/config"
	"github.com/felixgeelhaar/strand/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis backs the current plan cache when configured.
	RedisClient *redis.Client

	// Repositories
	StreakRepo     streaksDomain.Repository
	CompletionRepo routinesDomain.CompletionRepository
	PlanRepo       plansDomain.PlanRepository
	FeedbackRepo   plansDomain.FeedbackRepository
	ProfileRepo    profilesDomain.Repository
	LearnerRepo    academyDomain.LearnerRepository
	OutboxRepo     outbox.Repository
	Lessons        academyDomain.Catalog

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Messaging. InProcessEventBus is set in local mode, where it doubles as
	// the publisher.
	EventPublisher    eventbus.Publisher
	InProcessEventBus *eventbus.InProcessEventBus
	OutboxProcessor   *outbox.Processor

	// Plan generation
	Generator *generator.ResilientGenerator

	// Streak handlers
	RecordDayHandler *streakCommands.RecordDayHandler
	GetStreakHandler *streakQueries.GetStreakHandler

	// Routine handlers
	ToggleActionHandler *routineCommands.ToggleActionHandler
	SettleDayHandler    *routineCommands.SettleDayHandler
	GetTodayHandler     *routineQueries.GetTodayHandler
	GetCalendarHandler  *routineQueries.GetCalendarHandler

	// Plan handlers
	GeneratePlanHandler      *planCommands.GeneratePlanHandler
	RegeneratePlanHandler    *planCommands.RegeneratePlanHandler
	SubmitFeedbackHandler    *planCommands.SubmitFeedbackHandler
	GetCurrentPlanHandler    *planQueries.GetCurrentPlanHandler
	ListPlanHistoryHandler   *planQueries.ListPlanHistoryHandler
	GetLatestFeedbackHandler *planQueries.GetLatestFeedbackHandler
	FeedbackConsumer         *planSubscribers.FeedbackRegenerationConsumer

	// Profile handlers
	SaveProfileHandler *profileCommands.SaveProfileHandler
	GetProfileHandler  *profileQueries.GetProfileHandler

	// Academy handlers
	CompleteLessonHandler *academyCommands.CompleteLessonHandler
	GetLearnerHandler     *academyQueries.GetLearnerHandler
	ListLessonsHandler    *academyQueries.ListLessonsHandler

	// Calendar export
	ExportRoutineHandler *calendarCommands.ExportRoutineHandler

	closeGenerator func() error
}

// NewLocalContainer creates a container for local mode with SQLite.
// It needs no PostgreSQL, Redis or RabbitMQ.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	local := *cfg
	local.LocalMode = true
	local.DatabaseDriver = string(database.DriverSQLite)
	return NewContainer(ctx, &local, logger)
}

// NewContainer connects to the configured stores and builds every handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:         cfg,
		Logger:         logger,
		Metrics:        observability.NewInMemoryMetrics(),
		Health:         observability.NewHealthRegistry(),
		closeGenerator: func() error { return nil },
	}

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}

	cipher, err := newFieldCipher(cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	factory := NewRepositoryFactory(c.DBConn, cipher)
	c.StreakRepo = factory.StreakRepository()
	c.CompletionRepo = factory.CompletionRepository()
	c.FeedbackRepo = factory.FeedbackRepository()
	c.ProfileRepo = factory.ProfileRepository()
	c.LearnerRepo = factory.LearnerRepository()
	c.OutboxRepo = factory.OutboxRepository()
	c.UnitOfWork = database.NewUnitOfWork(c.DBConn)

	c.PlanRepo = factory.PlanRepository()
	if c.initRedis(ctx) {
		c.PlanRepo = cache.NewPlanRepository(c.PlanRepo, cache.NewRedisStore(c.RedisClient), cfg.PlanCacheTTL, logger, c.Metrics)
	}

	lessons, err := catalog.Load(cfg.LessonCatalogPath)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("load lesson catalog: %w", err)
	}
	c.Lessons = lessons

	inner, closeGen, err := newPlanGenerator(ctx, cfg, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("create plan generator: %w", err)
	}
	c.closeGenerator = closeGen
	c.Generator = generator.NewResilient(inner, generator.Options{
		Timeout: cfg.PlanGeneratorTimeout,
		Retry:   generationPolicy(cfg.PlanGeneratorRetries),
	}, logger, c.Metrics)
	logger.Info("plan generator configured", "generator", inner.Name(), "timeout", cfg.PlanGeneratorTimeout)

	c.wireHandlers()

	if err := c.initMessaging(); err != nil {
		c.Close()
		return nil, err
	}

	logger.Info("container initialized",
		"driver", c.DBDriver,
		"local_mode", cfg.IsLocalMode(),
		"plan_cache", c.RedisClient != nil,
	)
	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	dbCfg := database.Config{
		Driver:     database.Driver(c.Config.DatabaseDriver),
		URL:        c.Config.DatabaseURL,
		SQLitePath: c.Config.SQLitePath,
	}
	if c.Config.IsLocalMode() {
		dbCfg.Driver = database.DriverSQLite
		if dbCfg.SQLitePath == "" {
			dbCfg.SQLitePath = database.DefaultSQLitePath()
		}
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()

	applied, err := migrations.Run(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		c.Logger.Info("applied migrations", "versions", applied)
	}

	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	c.Logger.Info("connected to database", "driver", c.DBDriver)
	return nil
}

// initRedis reports whether the plan cache can be used. Without Redis the
// plan repository is used directly, since a per-process cache would go
// stale when the worker regenerates a plan.
func (c *Container) initRedis(ctx context.Context) bool {
	if c.Config.RedisURL == "" {
		return false
	}
	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		c.Logger.Warn("invalid Redis URL, plan cache disabled", "error", err)
		return false
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		c.Logger.Warn("Redis not available, plan cache disabled", "error", err)
		_ = client.Close()
		return false
	}
	c.RedisClient = client
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return true
}

// initMessaging picks RabbitMQ when configured and an in-process bus
// otherwise. The in-process bus delivers feedback events straight to the
// regeneration consumer when the outbox is drained.
func (c *Container) initMessaging() error {
	cfg := c.Config
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger)
		switch {
		case err == nil:
			c.EventPublisher = publisher
			c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(publisher.Ping))
		case cfg.IsProduction():
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		default:
			c.Logger.Warn("RabbitMQ not available, using in-process event bus", "error", err)
		}
	}
	if c.EventPublisher == nil {
		c.InProcessEventBus = eventbus.NewInProcessEventBus(c.Logger)
		c.InProcessEventBus.RegisterConsumer(c.FeedbackConsumer)
		c.EventPublisher = c.InProcessEventBus
	}

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		MaxRetries:   cfg.OutboxMaxRetries,
	}, c.Logger)
	return nil
}

func (c *Container) wireHandlers() {
	writes := resilience.DefaultPolicy()
	loc := time.Local

	c.RecordDayHandler = streakCommands.NewRecordDayHandler(c.StreakRepo, c.OutboxRepo, c.UnitOfWork, writes)
	c.GetStreakHandler = streakQueries.NewGetStreakHandler(c.StreakRepo)

	routines := routineSource{plans: c.PlanRepo, loc: loc}
	c.ToggleActionHandler = routineCommands.NewToggleActionHandler(routines, c.CompletionRepo, c.RecordDayHandler, c.OutboxRepo, c.UnitOfWork, writes)
	c.SettleDayHandler = routineCommands.NewSettleDayHandler(routines, c.CompletionRepo, c.RecordDayHandler, c.OutboxRepo, c.UnitOfWork, writes)
	c.GetTodayHandler = routineQueries.NewGetTodayHandler(routines, c.CompletionRepo)
	c.GetCalendarHandler = routineQueries.NewGetCalendarHandler(routines)

	c.SaveProfileHandler = profileCommands.NewSaveProfileHandler(c.ProfileRepo, c.OutboxRepo, c.UnitOfWork)
	c.GetProfileHandler = profileQueries.NewGetProfileHandler(c.ProfileRepo)
	profiles := profileStore{get: c.GetProfileHandler, save: c.SaveProfileHandler}

	c.GeneratePlanHandler = planCommands.NewGeneratePlanHandler(c.PlanRepo, profiles, c.Generator, c.OutboxRepo, c.UnitOfWork, writes)
	c.RegeneratePlanHandler = planCommands.NewRegeneratePlanHandler(c.PlanRepo, c.FeedbackRepo, profiles, c.Generator, c.OutboxRepo, c.UnitOfWork, writes)
	c.SubmitFeedbackHandler = planCommands.NewSubmitFeedbackHandler(c.FeedbackRepo, c.OutboxRepo, c.UnitOfWork)
	c.GetCurrentPlanHandler = planQueries.NewGetCurrentPlanHandler(c.PlanRepo)
	c.ListPlanHistoryHandler = planQueries.NewListPlanHistoryHandler(c.PlanRepo)
	c.GetLatestFeedbackHandler = planQueries.NewGetLatestFeedbackHandler(c.FeedbackRepo)
	c.FeedbackConsumer = planSubscribers.NewFeedbackRegenerationConsumer(c.RegeneratePlanHandler, c.Logger)

	c.CompleteLessonHandler = academyCommands.NewCompleteLessonHandler(c.Lessons, c.LearnerRepo, c.OutboxRepo, c.UnitOfWork, writes)
	c.GetLearnerHandler = academyQueries.NewGetLearnerHandler(c.LearnerRepo)
	c.ListLessonsHandler = academyQueries.NewListLessonsHandler(c.Lessons, c.LearnerRepo)

	var exporter calendarPorts.Exporter
	if c.Config.CalDAVURL != "" {
		exporter = caldav.NewExporter(c.Config.CalDAVURL, caldav.Credentials{
			Username: c.Config.CalDAVUsername,
			Password: c.Config.CalDAVPassword,
			Token:    c.Config.CalDAVToken,
		}, c.Logger).WithCalendarPath(c.Config.CalDAVCalendarPath)
	}
	c.ExportRoutineHandler = calendarCommands.NewExportRoutineHandler(routines, exporter, loc, c.Logger)
}

// newFieldCipher returns nil when no key is configured, which keeps
// profile fields in plaintext. A malformed key is an error.
func newFieldCipher(cfg *config.Config, logger *slog.Logger) (*sharedCrypto.FieldCipher, error) {
	if cfg.EncryptionKey == "" {
		if cfg.IsProduction() {
			logger.Warn("STRAND_ENCRYPTION_KEY not set, profile fields stored in plaintext")
		}
		return nil, nil
	}
	enc, err := sharedCrypto.NewAESGCMFromBase64Key(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid STRAND_ENCRYPTION_KEY: %w", err)
	}
	return sharedCrypto.NewFieldCipher(enc), nil
}

// generationPolicy turns PLAN_GENERATOR_RETRIES into a policy. Zero
// retries runs each generation once.
func generationPolicy(retries int) resilience.Policy {
	if retries <= 0 {
		return resilience.NoRetry()
	}
	p := resilience.DefaultPolicy()
	p.MaxAttempts = retries + 1
	p.InitialBackoff = time.Second
	p.MaxBackoff = 10 * time.Second
	return p
}

// SetClock overrides the time source that decides which day is today for
// toggling and settling.
func (c *Container) SetClock(now func() time.Time) {
	c.ToggleActionHandler.WithClock(now, nil)
	c.SettleDayHandler.WithClock(now, nil)
}

// DrainOutbox publishes pending events synchronously. Local mode calls it
// after each command in place of a worker.
func (c *Container) DrainOutbox(ctx context.Context) error {
	if c.OutboxProcessor == nil {
		return nil
	}
	return c.OutboxProcessor.Drain(ctx, 10)
}

// Close releases every resource the container opened.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if err := c.closeGenerator(); err != nil {
		c.Logger.Warn("error stopping plan generator", "error", err)
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		}
	}
}
