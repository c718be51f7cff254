package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "postgres", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 30, cfg.DB.ConnMaxLifeTime)
	assert.Equal(t, "Europe/London", cfg.App.TimeZone)
	assert.Equal(t, ":50051", cfg.GRPC.Addr)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowOrigins)
	assert.Equal(t, 30*time.Second, cfg.Redis.SlotsTTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "booking.events", cfg.AMQP.Queue)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/test.db")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_SLOTS_TTL", "1m")
	t.Setenv("GRPC_ADDR", ":6000")
	t.Setenv("HTTP_ALLOW_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.DB.SQLitePath)
	assert.Equal(t, 3, cfg.DB.MaxOpenConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.SlotsTTL)
	assert.Equal(t, ":6000", cfg.GRPC.Addr)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.AllowOrigins)

	loc, err := cfg.App.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
}
