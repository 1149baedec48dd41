package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends.
const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
	// LogFormat is "text" for coloured console output or "json".
	LogFormat       string
	ShutdownTimeout time.Duration

	Session     SessionConfig
	Journey     JourneyConfig
	Redis       RedisConfig
	Postgres    PostgresConfig
	ContactsAPI ContactsAPIConfig
}

// SessionConfig controls the signed session cookie and where session
// entries are kept.
type SessionConfig struct {
	Store      string
	CookieName string
	SigningKey string
	TTL        time.Duration
}

// JourneyConfig bounds how long a journey survives in a session.
type JourneyConfig struct {
	MaxAge time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type PostgresConfig struct {
	URL      string
	MaxConns int32
}

type ContactsAPIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() Server {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	return Server{
		Addr:            envString("CONTACTS_ADDR", ":8080"),
		LogFormat:       envString("LOG_FORMAT", "text"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Session: SessionConfig{
			Store:      envString("SESSION_STORE", SessionStoreMemory),
			CookieName: envString("SESSION_COOKIE_NAME", "contacts.session"),
			// Use a default for development - should be overridden in production
			SigningKey: envString("SESSION_SIGNING_KEY", "dev-secret-key-change-in-production"),
			TTL:        envDuration("SESSION_TTL", 8*time.Hour),
		},
		Journey: JourneyConfig{
			MaxAge: envDuration("JOURNEY_MAX_AGE", 24*time.Hour),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL:      os.Getenv("DATABASE_URL"),
			MaxConns: int32(envInt("DATABASE_MAX_CONNS", 10)),
		},
		ContactsAPI: ContactsAPIConfig{
			BaseURL: envString("CONTACTS_API_URL", "http://localhost:8081"),
			Token:   os.Getenv("CONTACTS_API_TOKEN"),
			Timeout: envDuration("CONTACTS_API_TIMEOUT", 10*time.Second),
		},
	}
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring invalid integer setting", "name", name, "value", v)
		return fallback
	}
	return n
}

func envDuration(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("ignoring invalid duration setting", "name", name, "value", v)
		return fallback
	}
	return d
}
