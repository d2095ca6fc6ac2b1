// Command admintoken prints a bearer token for the analytics endpoints.
//
//	ADMIN_JWT_SECRET=... go run ./cmd/admintoken -sub dashboard -ttl 720h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"advisormetric/internal/config"
	"advisormetric/internal/middleware"

	"go.uber.org/zap"
)

func main() {
	subject := flag.String("sub", "dashboard", "token subject")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	logger := zap.NewExample()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.AdminJWTSecret == "" {
		logger.Fatal("ADMIN_JWT_SECRET is required")
	}
	if *ttl <= 0 {
		logger.Fatal("ttl must be positive", zap.Duration("ttl", *ttl))
	}

	token, err := middleware.IssueAdminToken(cfg.AdminJWTSecret, *subject, *ttl)
	if err != nil {
		logger.Fatal("Failed to sign token", zap.Error(err))
	}
	fmt.Fprintln(os.Stdout, token)
}
