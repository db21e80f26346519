package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"TRAVEL_PRIMARY__ENV":                 "development",
		"TRAVEL_SERVER__PORT":                 "8080",
		"TRAVEL_SERVER__READ_TIMEOUT":         "30",
		"TRAVEL_SERVER__WRITE_TIMEOUT":        "30",
		"TRAVEL_SERVER__IDLE_TIMEOUT":         "60",
		"TRAVEL_SERVER__CORS_ALLOWED_ORIGINS": "http://localhost:3000, https://muslimahtravel.id",
		"TRAVEL_DATABASE__HOST":               "localhost",
		"TRAVEL_DATABASE__PORT":               "5432",
		"TRAVEL_DATABASE__USER":               "travel",
		"TRAVEL_DATABASE__PASSWORD":           "p@ss:word",
		"TRAVEL_DATABASE__NAME":               "travel",
		"TRAVEL_DATABASE__SSL_MODE":           "disable",
		"TRAVEL_DATABASE__MAX_OPEN_CONNS":     "10",
		"TRAVEL_DATABASE__MAX_IDLE_CONNS":     "5",
		"TRAVEL_DATABASE__CONN_MAX_LIFETIME":  "300",
		"TRAVEL_DATABASE__CONN_MAX_IDLE_TIME": "60",
		"TRAVEL_REDIS__ADDRESS":               "localhost:6379",
		"TRAVEL_AUTH__JWT_SECRET":             "0123456789abcdef0123456789abcdef",
		"TRAVEL_INTEGRATION__RESEND_API_KEY":  "re_test",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.port", envKey("TRAVEL_SERVER__PORT"))
	assert.Equal(t, "database.max_open_conns", envKey("TRAVEL_DATABASE__MAX_OPEN_CONNS"))
	assert.Equal(t, "observability.new_relic.license_key", envKey("TRAVEL_OBSERVABILITY__NEW_RELIC__LICENSE_KEY"))
}

func TestEnvValueSplitsLists(t *testing.T) {
	key, value := envValue("TRAVEL_SERVER__CORS_ALLOWED_ORIGINS", "a, b,,c")
	assert.Equal(t, "server.cors_allowed_origins", key)
	assert.Equal(t, []string{"a", "b", "c"}, value)

	key, value = envValue("TRAVEL_SERVER__PORT", "8080")
	assert.Equal(t, "server.port", key)
	assert.Equal(t, "8080", value)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://muslimahtravel.id"}, cfg.Server.CORSAllowedOrigins)

	assert.Equal(t, ServiceName, cfg.Auth.Issuer)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 6*time.Hour, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)

	require.NotNil(t, cfg.Media)
	assert.EqualValues(t, 3<<20, cfg.Media.MaxImageBytes)

	require.NotNil(t, cfg.RateLimit)
	assert.Equal(t, 5, cfg.RateLimit.Auth.Max)
	assert.Equal(t, time.Minute, cfg.RateLimit.Search.Window)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
}

func TestLoadConfigRejectsShortSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TRAVEL_AUTH__JWT_SECRET", "short")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestDatabaseDSNEscapesPassword(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss:word", Name: "travel", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%3Aword@db:5432/travel?sslmode=disable", d.DSN())
}

func TestRateLimitValidate(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	require.NoError(t, cfg.Validate())

	cfg.Upload.Max = 0
	assert.Error(t, cfg.Validate())

	cfg.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestObservabilityValidate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}
