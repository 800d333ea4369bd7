package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Generator names accepted by PLAN_GENERATOR.
const (
	GeneratorOpenAI   = "openai"
	GeneratorGemini   = "gemini"
	GeneratorTemplate = "template"
	GeneratorPlugin   = "plugin"
)

// Plan generation timeout bounds.
const (
	MinGeneratorTimeout     = 60 * time.Second
	MaxGeneratorTimeout     = 120 * time.Second
	DefaultGeneratorTimeout = 90 * time.Second
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv        string
	LogLevel      string
	LogFormat     string
	UserID        string
	EncryptionKey string

	// Database
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string
	LocalMode      bool

	// Redis
	RedisURL     string
	PlanCacheTTL time.Duration

	// RabbitMQ
	RabbitMQURL string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxStatsInterval    time.Duration
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Servers
	WorkerHealthAddr string
	APIAddr          string
	MCPAddr          string
	MCPAuthToken     string

	// Plan generation
	PlanGenerator        string
	OpenAIAPIKey         string
	OpenAIBaseURL        string
	OpenAIModel          string
	GeminiAPIKey         string
	GeminiModel          string
	PlanGeneratorTimeout time.Duration
	PlanGeneratorRetries int
	PlanPluginPath       string
	PlanKnowledgePath    string

	// Academy
	LessonCatalogPath string

	// CalDAV export
	CalDAVURL          string
	CalDAVUsername     string
	CalDAVPassword     string
	CalDAVToken        string
	CalDAVCalendarPath string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		UserID:        getEnv("STRAND_USER_ID", "00000000-0000-0000-0000-000000000001"),
		EncryptionKey: getEnv("STRAND_ENCRYPTION_KEY", ""),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DatabaseDriver: getEnv("DATABASE_DRIVER", ""),
		SQLitePath:     getEnv("SQLITE_PATH", ""),

		RedisURL:     getEnv("REDIS_URL", ""),
		PlanCacheTTL: getDurationEnv("PLAN_CACHE_TTL", 10*time.Minute),
		RabbitMQURL:  getEnv("RABBITMQ_URL", ""),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 100*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxStatsInterval:    getDurationEnv("OUTBOX_STATS_INTERVAL", 30*time.Second),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
		APIAddr:          getEnv("API_ADDR", "0.0.0.0:8080"),
		MCPAddr:          getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken:     getEnv("MCP_AUTH_TOKEN", ""),

		PlanGenerator:        strings.ToLower(getEnv("PLAN_GENERATOR", "")),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		PlanGeneratorTimeout: ClampGeneratorTimeout(getDurationEnv("PLAN_GENERATOR_TIMEOUT", DefaultGeneratorTimeout)),
		PlanGeneratorRetries: getIntEnv("PLAN_GENERATOR_RETRIES", 0),
		PlanPluginPath:       getEnv("PLAN_PLUGIN_PATH", ""),
		PlanKnowledgePath:    getEnv("PLAN_KNOWLEDGE_PATH", ""),

		LessonCatalogPath: getEnv("LESSON_CATALOG_PATH", ""),

		CalDAVURL:          getEnv("CALDAV_URL", ""),
		CalDAVUsername:     getEnv("CALDAV_USERNAME", ""),
		CalDAVPassword:     getEnv("CALDAV_PASSWORD", ""),
		CalDAVToken:        getEnv("CALDAV_TOKEN", ""),
		CalDAVCalendarPath: getEnv("CALDAV_CALENDAR_PATH", ""),
	}

	// Local mode is the default unless a database URL is configured.
	cfg.LocalMode = getBoolEnv("STRAND_LOCAL_MODE", cfg.DatabaseURL == "")
	if cfg.LocalMode {
		cfg.DatabaseDriver = "sqlite"
	} else if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = "postgres"
	}

	if cfg.PlanGenerator == "" {
		cfg.PlanGenerator = defaultGenerator(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error
	switch c.PlanGenerator {
	case GeneratorOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai generator"))
		}
	case GeneratorGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini generator"))
		}
	case GeneratorPlugin:
		if c.PlanPluginPath == "" {
			errs = append(errs, errors.New("PLAN_PLUGIN_PATH is required for the plugin generator"))
		}
	case GeneratorTemplate:
	default:
		errs = append(errs, fmt.Errorf("unknown PLAN_GENERATOR %q", c.PlanGenerator))
	}
	if !c.LocalMode && c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required outside local mode"))
	}
	if c.PlanGeneratorRetries < 0 {
		errs = append(errs, errors.New("PLAN_GENERATOR_RETRIES must not be negative"))
	}
	return errors.Join(errs...)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsLocalMode returns true when running against the embedded SQLite store.
func (c *Config) IsLocalMode() bool {
	return c.LocalMode
}

// IsSQLite returns true if the SQLite driver is selected.
func (c *Config) IsSQLite() bool {
	return c.DatabaseDriver == "sqlite"
}

// IsPostgres returns true if the Postgres driver is selected.
func (c *Config) IsPostgres() bool {
	return c.DatabaseDriver == "postgres"
}

// ClampGeneratorTimeout bounds d to the allowed generation window.
// Non-positive values fall back to the default.
func ClampGeneratorTimeout(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return DefaultGeneratorTimeout
	case d < MinGeneratorTimeout:
		return MinGeneratorTimeout
	case d > MaxGeneratorTimeout:
		return MaxGeneratorTimeout
	}
	return d
}

// defaultGenerator picks a model-backed generator when a key is present and
// falls back to the offline template generator.
func defaultGenerator(c *Config) string {
	switch {
	case c.OpenAIAPIKey != "":
		return GeneratorOpenAI
	case c.GeminiAPIKey != "":
		return GeneratorGemini
	case c.PlanPluginPath != "":
		return GeneratorPlugin
	}
	return GeneratorTemplate
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
