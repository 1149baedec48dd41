package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("CONTACTS_ADDR", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("JOURNEY_MAX_AGE", "")

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, 24*time.Hour, cfg.Journey.MaxAge)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CONTACTS_ADDR", ":9090")
	t.Setenv("SESSION_STORE", SessionStoreRedis)
	t.Setenv("JOURNEY_MAX_AGE", "90m")
	t.Setenv("REDIS_POOL_SIZE", "25")
	t.Setenv("DATABASE_MAX_CONNS", "4")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, 90*time.Minute, cfg.Journey.MaxAge)
	assert.Equal(t, 25, cfg.Redis.PoolSize)
	assert.Equal(t, int32(4), cfg.Postgres.MaxConns)
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("JOURNEY_MAX_AGE", "a day")
	t.Setenv("REDIS_POOL_SIZE", "many")

	cfg := FromEnv()

	assert.Equal(t, 24*time.Hour, cfg.Journey.MaxAge)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}
