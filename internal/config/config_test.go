package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "DATABASE_URL", "MONGODB_URI", "DB_NAME", "ADMIN_JWT_SECRET", "CORS_ALLOWED_ORIGINS",
	"RESEND_API_KEY", "FROM_EMAIL", "NOTIFY_EMAIL_TO", "NOTIFY_MAX_RATING", "APP_ENV", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "advisormetric", cfg.DBName)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 2, cfg.NotifyMaxRating)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.NotifyEmailTo)
	assert.Equal(t, StorageMemory, cfg.Storage())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_EnvVarOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RESEND_API_KEY", "re_123")
	t.Setenv("FROM_EMAIL", "feedback@example.com")
	t.Setenv("NOTIFY_EMAIL_TO", "ops@example.com,lead@example.com")
	t.Setenv("NOTIFY_MAX_RATING", "3")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"ops@example.com", "lead@example.com"}, cfg.NotifyEmailTo)
	assert.Equal(t, 3, cfg.NotifyMaxRating)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{"non numeric port", map[string]string{"PORT": "http"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"max rating too high", map[string]string{"NOTIFY_MAX_RATING": "6"}},
		{"max rating not a number", map[string]string{"NOTIFY_MAX_RATING": "low"}},
		{"resend without sender", map[string]string{"RESEND_API_KEY": "re_123"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestConfig_Storage(t *testing.T) {
	assert.Equal(t, StorageSQL, (&Config{DatabaseURL: "postgres://x", MongoURI: "mongodb://y"}).Storage())
	assert.Equal(t, StorageMongo, (&Config{MongoURI: "mongodb://y"}).Storage())
	assert.Equal(t, StorageMemory, (&Config{}).Storage())
}
