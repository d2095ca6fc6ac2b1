// Package config reads server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends, chosen once at startup.
const (
	StorageMemory = "memory"
	StorageSQL    = "sql"
	StorageMongo  = "mongo"
)

type Config struct {
	Port string
	// DatabaseURL selects the relational store when set (postgres:// or sqlite:).
	DatabaseURL string
	// MongoURI selects the document store when DatabaseURL is empty.
	MongoURI string
	DBName   string

	// AdminJWTSecret guards the read endpoints when non-empty.
	AdminJWTSecret string
	CORSOrigins    []string

	ResendAPIKey    string
	FromEmail       string
	NotifyEmailTo   []string
	NotifyMaxRating int

	Env      string
	LogLevel string
}

// Load reads .env if present (env vars already set win) and builds Config.
func Load() (*Config, error) {
	// Ignore a missing .env; in production env vars are set directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MongoURI:       getEnv("MONGODB_URI", ""),
		DBName:         getEnv("DB_NAME", "advisormetric"),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		CORSOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
		FromEmail:      getEnv("FROM_EMAIL", ""),
		NotifyEmailTo:  splitList(getEnv("NOTIFY_EMAIL_TO", "")),
		Env:            getEnv("APP_ENV", "production"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		return nil, fmt.Errorf("config: PORT must be a port number, got %q", cfg.Port)
	}

	maxRating, err := strconv.Atoi(getEnv("NOTIFY_MAX_RATING", "2"))
	if err != nil || maxRating < 1 || maxRating > 5 {
		return nil, errors.New("config: NOTIFY_MAX_RATING must be between 1 and 5")
	}
	cfg.NotifyMaxRating = maxRating

	if cfg.ResendAPIKey != "" && cfg.FromEmail == "" {
		return nil, errors.New("config: FROM_EMAIL is required when RESEND_API_KEY is set")
	}

	return cfg, nil
}

// Storage reports which backing store the configuration selects.
func (c *Config) Storage() string {
	switch {
	case c.DatabaseURL != "":
		return StorageSQL
	case c.MongoURI != "":
		return StorageMongo
	default:
		return StorageMemory
	}
}

// IsDevelopment is true when APP_ENV is development or dev.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
