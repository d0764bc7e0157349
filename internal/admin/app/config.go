package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	JWTSecret string        // Required: shared secret for HS256 tokens
	Issuer    string        // Optional: issuer claim for tokens (default: rag-admin)
	AccessTTL time.Duration // Optional: access token lifetime (default: 24h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./admin.db)

	TenantCacheTTL time.Duration // Optional: tenant context cache TTL (default: 60s)
	StoreTimeout   time.Duration // Optional: tenant resolution store deadline (default: 10s)
	BotTimeout     time.Duration // Optional: bot round-trip deadline (default: 30s)

	// Base endpoints used to derive per-tenant resource bundles.
	TenantDatabaseBaseURI string
	BotBaseURL            string
	SchedulerBaseURL      string
	ScraperBaseURL        string
	VectorStoreRoot       string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// Local development convenience; in production the environment is the
	// source of truth and no .env file exists.
	_ = godotenv.Load()

	return Config{
		JWTSecret: os.Getenv("JWT_SECRET"),
		Issuer:    getEnvOrDefault("JWT_ISSUER", "rag-admin"),
		AccessTTL: getEnvDurationOrDefault("JWT_EXPIRATION", 24*time.Hour),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "admin.db"),

		TenantCacheTTL: getEnvDurationOrDefault("TENANT_CACHE_TTL", 60*time.Second),
		StoreTimeout:   getEnvDurationOrDefault("STORE_TIMEOUT", 10*time.Second),
		BotTimeout:     getEnvDurationOrDefault("BOT_REQUEST_TIMEOUT", 30*time.Second),

		TenantDatabaseBaseURI: getEnvOrDefault("TENANT_DATABASE_BASE_URI", "postgres://localhost:5432/tenants"),
		BotBaseURL:            getEnvOrDefault("BOT_BASE_URL", "http://localhost:8100"),
		SchedulerBaseURL:      getEnvOrDefault("SCHEDULER_BASE_URL", "http://localhost:8200"),
		ScraperBaseURL:        getEnvOrDefault("SCRAPER_BASE_URL", "http://localhost:8300"),
		VectorStoreRoot:       getEnvOrDefault("VECTOR_STORE_ROOT", "/var/lib/rag/vectors"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
