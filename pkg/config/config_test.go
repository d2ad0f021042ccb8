package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, time.Hour, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.JWT.Enabled)
	assert.Equal(t, ResponseTimeElapsed, cfg.Metrics.ResponseTimeMode)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/vendors.db")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("METRICS_RESPONSE_TIME_MODE", "legacy")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/vendors.db", cfg.DB.GetDSN())
	assert.Equal(t, 7, cfg.DB.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, logger.Silent, cfg.DB.LogLevel)
	assert.True(t, cfg.JWT.Enabled)
	assert.Equal(t, ResponseTimeLegacy, cfg.Metrics.ResponseTimeMode)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_IDLE_CONNS", "many")
	t.Setenv("AUTH_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.DB.MaxIdleConns)
	assert.False(t, cfg.JWT.Enabled)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_DRIVER")
}

func TestLoad_RejectsUnknownResponseTimeMode(t *testing.T) {
	t.Setenv("METRICS_RESPONSE_TIME_MODE", "weekly")

	_, err := Load()
	assert.ErrorContains(t, err, "METRICS_RESPONSE_TIME_MODE")
}

func TestGetDSN_Postgres(t *testing.T) {
	c := DBConfig{Driver: DriverPostgres, Host: "db", Port: "5433", User: "u", Password: "p", DBName: "vendors", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=vendors sslmode=require", c.GetDSN())
}
