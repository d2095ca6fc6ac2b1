package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"advisormetric/internal/config"
	"advisormetric/internal/database"
	"advisormetric/internal/handlers"
	"advisormetric/internal/notify"
	"advisormetric/internal/repository"
	"advisormetric/internal/server"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("Failed to load configuration", zap.Error(err))
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, storageName, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open feedback storage", zap.String("storage", cfg.Storage()), zap.Error(err))
	}
	defer closeStore()

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.ResendAPIKey != "" && len(cfg.NotifyEmailTo) > 0 {
		notifier = notify.NewResendNotifier(cfg.ResendAPIKey, cfg.FromEmail, cfg.NotifyEmailTo, cfg.NotifyMaxRating)
		logger.Info("Email notifications enabled", zap.Int("maxRating", cfg.NotifyMaxRating))
	}

	feedbackHandler := handlers.NewFeedbackHandler(store, notifier, logger)
	router := server.NewRouter(server.Options{
		Feedback:       feedbackHandler,
		StorageName:    storageName,
		AdminJWTSecret: cfg.AdminJWTSecret,
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         logger,
	})
	if cfg.AdminJWTSecret == "" {
		logger.Warn("ADMIN_JWT_SECRET not set, analytics endpoints are public")
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr), zap.String("storage", storageName))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	s := <-sigCh
	logger.Info("Received signal, attempting graceful shutdown", zap.Any("signal", s))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// openStorage picks the backing store from configuration: a SQL database
// when DATABASE_URL is set, MongoDB when MONGODB_URI is set, memory otherwise.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Storage, string, func(), error) {
	switch cfg.Storage() {
	case config.StorageSQL:
		if database.Engine(cfg.DatabaseURL) == database.EngineSQLite {
			path := database.SQLitePath(cfg.DatabaseURL)
			db, err := database.OpenSQLite(ctx, path)
			if err != nil {
				return nil, "", nil, err
			}
			store, err := repository.NewSQLStore(ctx, db, repository.DialectSQLite, nil)
			if err != nil {
				_ = db.Close()
				return nil, "", nil, err
			}
			logger.Info("Using SQLite feedback storage", zap.String("path", path))
			return store, database.EngineSQLite, func() { _ = db.Close() }, nil
		}

		if err := database.Migrate(cfg.DatabaseURL, "up"); err != nil {
			return nil, "", nil, err
		}
		db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, "", nil, err
		}
		store, err := repository.NewSQLStore(ctx, db, repository.DialectPostgres, nil)
		if err != nil {
			_ = db.Close()
			return nil, "", nil, err
		}
		logger.Info("Connected to Postgres")
		return store, database.EnginePostgres, func() { _ = db.Close() }, nil

	case config.StorageMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.DBName)
		if err != nil {
			return nil, "", nil, err
		}
		store := repository.NewMongoStore(db, nil)
		if err := store.EnsureIndexes(ctx); err != nil {
			logger.Warn("Failed to create feedback indexes", zap.Error(err))
		}
		logger.Info("Connected to MongoDB", zap.String("database", cfg.DBName))
		return store, config.StorageMongo, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		logger.Warn("No DATABASE_URL or MONGODB_URI configured, feedback is kept in memory only")
		return repository.NewMemoryStore(nil), config.StorageMemory, func() {}, nil
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	if lvl, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewExample()
	}
	return logger
}
