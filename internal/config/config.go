package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Gateway backends.
const (
	BackendSQLite    = "sqlite"
	BackendPostgres  = "postgres"
	BackendPostgREST = "postgrest"
)

// Session cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Addr      string
	LogLevel  string
	LogFormat string

	GatewayBackend  string
	GatewayTimeout  time.Duration
	DBPath          string
	DatabaseURL     string
	PostgRESTURL    string
	PostgRESTAPIKey string

	JWTSecret   string
	JWTAudience string

	SessionCache  string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NotifyWorkerCount int
	NotifyQueueSize   int
	InboxLimit        int

	DashboardRoute string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:      envOr("ADDR", ":8080"),
		LogLevel:  envOr("LOG_LEVEL", "INFO"),
		LogFormat: envOr("LOG_FORMAT", "text"),

		GatewayBackend:  strings.ToLower(envOr("GATEWAY_BACKEND", BackendSQLite)),
		GatewayTimeout:  envDurationOr("GATEWAY_TIMEOUT", 10*time.Second),
		DBPath:          envOr("DB_PATH", "file:talentscout.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		PostgRESTURL:    os.Getenv("POSTGREST_URL"),
		PostgRESTAPIKey: os.Getenv("POSTGREST_API_KEY"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTAudience: envOr("JWT_AUDIENCE", "authenticated"),

		SessionCache:  strings.ToLower(envOr("SESSION_CACHE", CacheMemory)),
		SessionTTL:    envDurationOr("SESSION_TTL", time.Hour),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envIntOr("REDIS_DB", 0),

		NotifyWorkerCount: envIntOr("NOTIFY_WORKER_COUNT", 2),
		NotifyQueueSize:   envIntOr("NOTIFY_QUEUE_SIZE", 128),
		InboxLimit:        envIntOr("INBOX_LIMIT", 50),

		DashboardRoute: envOr("DASHBOARD_ROUTE", "/dashboard"),
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	switch c.GatewayBackend {
	case BackendSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			return fmt.Errorf("DB_PATH cannot be empty when GATEWAY_BACKEND=%s", BackendSQLite)
		}
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when GATEWAY_BACKEND=%s", BackendPostgres)
		}
	case BackendPostgREST:
		if strings.TrimSpace(c.PostgRESTURL) == "" {
			return fmt.Errorf("POSTGREST_URL is required when GATEWAY_BACKEND=%s", BackendPostgREST)
		}
	default:
		return fmt.Errorf("GATEWAY_BACKEND must be one of %s, %s, %s (got %q)",
			BackendSQLite, BackendPostgres, BackendPostgREST, c.GatewayBackend)
	}
	if c.GatewayTimeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be positive")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	switch c.SessionCache {
	case CacheMemory:
	case CacheRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required when SESSION_CACHE=%s", CacheRedis)
		}
		if c.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB cannot be negative")
		}
	default:
		return fmt.Errorf("SESSION_CACHE must be %s or %s (got %q)", CacheMemory, CacheRedis, c.SessionCache)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.NotifyWorkerCount < 1 || c.NotifyWorkerCount > 64 {
		return fmt.Errorf("NOTIFY_WORKER_COUNT must be between 1 and 64")
	}
	if c.NotifyQueueSize < 1 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be at least 1")
	}
	if c.InboxLimit < 1 {
		return fmt.Errorf("INBOX_LIMIT must be at least 1")
	}
	if !strings.HasPrefix(c.DashboardRoute, "/") {
		return fmt.Errorf("DASHBOARD_ROUTE must start with /")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid duration for %s=%q, using default %s", key, v, def)
	}
	return def
}
