package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Auth      AuthConfig
	Provider  ProviderConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Polish    PolishConfig
	Policy    PolicyConfig
	Templates TemplatesConfig
	Review    ReviewConfig
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

// AuthConfig gates the suggest endpoint. All values empty disables auth.
type AuthConfig struct {
	APIKey     string
	APIKeyHash string
	JWTSecret  string
	JWTIssuer  string
}

// Enabled reports whether any credential is configured.
func (a AuthConfig) Enabled() bool {
	return a.APIKey != "" || a.APIKeyHash != "" || a.JWTSecret != ""
}

// ProviderConfig selects the order/voucher data source.
type ProviderConfig struct {
	// Kind is "http", "postgres" or "none".
	Kind           string
	BaseURL        string
	TimeoutSeconds int
	CacheTTLSec    int
}

// Timeout returns the backend request timeout.
func (p ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long lookups stay cached; zero disables the cache.
func (p ProviderConfig) CacheTTL() time.Duration {
	if p.CacheTTLSec <= 0 {
		return 0
	}
	return time.Duration(p.CacheTTLSec) * time.Second
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. Empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// PolishConfig configures the optional LLM rewrite of drafts.
type PolishConfig struct {
	Enabled        bool
	OllamaURL      string
	Model          string
	Temperature    float64
	TimeoutSeconds int
}

// Timeout returns the generation timeout.
func (p PolishConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 90 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// PolicyConfig parameterizes the rule engine and guardrails.
type PolicyConfig struct {
	RefundWindowDays int
	MaxWords         int
	TimeZone         string
}

// Location resolves the time zone used to derive "today".
func (p PolicyConfig) Location() *time.Location {
	if p.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TemplatesConfig locates the reply templates file.
type TemplatesConfig struct {
	Path string
}

// ReviewConfig controls notifications for replies that need a human.
type ReviewConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	temperature, err := strconv.ParseFloat(getEnv("POLISH_TEMPERATURE", "0.2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid POLISH_TEMPERATURE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-agent"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "0.2.1"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 120),
		},
		Auth: AuthConfig{
			APIKey:     os.Getenv("API_KEY"),
			APIKeyHash: os.Getenv("API_KEY_HASH"),
			JWTSecret:  os.Getenv("AUTH_JWT_SECRET"),
			JWTIssuer:  getEnv("AUTH_JWT_ISSUER", "helpdesk"),
		},
		Provider: ProviderConfig{
			Kind:           strings.ToLower(getEnv("CORE_PROVIDER", "http")),
			BaseURL:        strings.TrimRight(getEnv("CORE_BASE_URL", "http://127.0.0.1:9000"), "/"),
			TimeoutSeconds: getEnvAsInt("CORE_TIMEOUT_SECONDS", 5),
			CacheTTLSec:    getEnvAsInt("CORE_CACHE_TTL_SECONDS", 60),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", false),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Polish: PolishConfig{
			Enabled:        getEnvAsBool("USE_OLLAMA_POLISH", true),
			OllamaURL:      strings.TrimRight(getEnv("OLLAMA_URL", "http://localhost:11434"), "/"),
			Model:          getEnv("GEN_MODEL", "llama3.1"),
			Temperature:    temperature,
			TimeoutSeconds: getEnvAsInt("POLISH_TIMEOUT_SECONDS", 90),
		},
		Policy: PolicyConfig{
			RefundWindowDays: getEnvAsInt("REFUND_WINDOW_DAYS", 14),
			MaxWords:         getEnvAsInt("MAX_WORDS", 180),
			TimeZone:         getEnv("POLICY_TIME_ZONE", "Europe/Berlin"),
		},
		Templates: TemplatesConfig{
			Path: getEnv("TEMPLATES_PATH", "policies/templates.de.toml"),
		},
		Review: ReviewConfig{
			WebhookURL: os.Getenv("REVIEW_WEBHOOK_URL"),
		},
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
	parsed, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvAsBool accepts strconv.ParseBool forms plus yes/no.
func getEnvAsBool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	switch strings.ToLower(val) {
	case "yes", "y", "on":
		return true
	case "no", "n", "off":
		return false
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
