package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Retention    RetentionConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines admin token parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// NotificationConfig holds notification endpoints for review reminders.
type NotificationConfig struct {
	EmailFrom      string
	EmailTo        string
	WebhookURL     string
	WebhookTimeout time.Duration
}

// RetentionConfig holds the data retention policy and its schedule.
type RetentionConfig struct {
	InactiveUsersDays int
	DeletedUsersDays  int
	CleanupHour       int
	ReviewHour        int
	Timezone          string
	AuditLogCapacity  int
	SchedulerEnabled  bool
	ReviewDeduplicate bool
	ReviewContact     string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "account-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "4100"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		Notification: NotificationConfig{
			EmailFrom:      getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			EmailTo:        getEnv("NOTIFY_EMAIL_TO", ""),
			WebhookURL:     getEnv("NOTIFY_WEBHOOK_URL", ""),
			WebhookTimeout: time.Duration(getEnvAsInt("NOTIFY_WEBHOOK_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Retention: RetentionConfig{
			InactiveUsersDays: getEnvAsInt("RETENTION_INACTIVE_USERS_DAYS", 1095),
			DeletedUsersDays:  getEnvAsInt("RETENTION_DELETED_USERS_DAYS", 30),
			CleanupHour:       getEnvAsInt("RETENTION_CLEANUP_HOUR", 2),
			ReviewHour:        getEnvAsInt("RETENTION_REVIEW_HOUR", 9),
			Timezone:          getEnv("RETENTION_TIMEZONE", "Local"),
			AuditLogCapacity:  getEnvAsInt("RETENTION_AUDIT_LOG_CAPACITY", 1000),
			SchedulerEnabled:  getEnvAsBool("RETENTION_SCHEDULER_ENABLED", true),
			ReviewDeduplicate: getEnvAsBool("REVIEW_DEDUPLICATE", true),
			ReviewContact:     getEnv("REVIEW_CONTACT_EMAIL", "privacy@example.com"),
		},
	}

	if err := cfg.Retention.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Validate checks schedule hours and the timezone name.
func (r RetentionConfig) Validate() error {
	if r.CleanupHour < 0 || r.CleanupHour > 23 {
		return fmt.Errorf("invalid RETENTION_CLEANUP_HOUR %d: must be 0-23", r.CleanupHour)
	}
	if r.ReviewHour < 0 || r.ReviewHour > 23 {
		return fmt.Errorf("invalid RETENTION_REVIEW_HOUR %d: must be 0-23", r.ReviewHour)
	}
	if _, err := r.Location(); err != nil {
		return fmt.Errorf("invalid RETENTION_TIMEZONE %q: %w", r.Timezone, err)
	}
	return nil
}

// Location resolves the scheduler timezone.
func (r RetentionConfig) Location() (*time.Location, error) {
	if r.Timezone == "" || r.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(r.Timezone)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
