package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/class-forum/backend/internal/repositories"
	"github.com/anonto42/class-forum/backend/internal/router"
	"github.com/anonto42/class-forum/backend/internal/session"
	"github.com/anonto42/class-forum/backend/internal/validators"
	"github.com/anonto42/class-forum/backend/pkg/config"
	"github.com/anonto42/class-forum/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := config.NewLogger(cfg)
	if !cfg.EnvFileLoaded {
		log.Info("No .env file found, assuming environment variables are set")
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("Server exited")
		os.Exit(1)
	}
}

// run owns every resource it opens, so all cleanup happens before it returns.
func run(cfg *config.Config, log *logrus.Logger) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	// Initialize database connections
	db, err := config.InitDB(cfg, log)
	if err != nil {
		return errors.Wrap(err, "initialize databases")
	}
	defer db.CloseDB()

	ctx := context.Background()

	store, err := newStorage(cfg, db)
	if err != nil {
		return errors.Wrap(err, "initialize storage")
	}
	sessions, err := newSessionStore(ctx, cfg, db, log)
	if err != nil {
		return errors.Wrap(err, "initialize session store")
	}
	defer sessions.Close()

	deps := router.Dependencies{
		Storage:       store,
		Sessions:      sessions,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		Log:           log,
	}

	// Firebase login is optional
	if cfg.FirebaseCredentialsPath != "" {
		authClient, err := firebase.NewAuthClient(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseProjectID)
		if err != nil {
			return errors.Wrap(err, "initialize firebase")
		}
		deps.Firebase = authClient
		log.Info("Firebase auth client initialized")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	config.SetupMiddleware(e, log)
	router.SetupRoutes(e, deps)

	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"port":           cfg.Port,
			"storage_driver": cfg.StorageDriver,
			"session_driver": cfg.SessionDriver,
		}).Info("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return errors.Wrap(err, "server stopped")
	case <-quit:
	}

	log.Info("Gracefully shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server shutdown")
	}
	return nil
}

func newStorage(cfg *config.Config, db *config.DB) (repositories.Storage, error) {
	if cfg.StorageDriver != config.DriverPostgres {
		return repositories.NewMemStorage(), nil
	}
	pg := repositories.NewPostgresStorage(db.Postgres)
	if err := pg.AutoMigrate(); err != nil {
		return nil, errors.Wrap(err, "auto migrate")
	}
	return pg, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config, db *config.DB, log logrus.FieldLogger) (session.Store, error) {
	if cfg.SessionDriver != config.DriverMongo {
		return session.NewMemoryStore(cfg.SessionCheckPeriod, log), nil
	}
	return session.NewMongoStore(ctx, db.Mongo.Database(cfg.MongoDatabase))
}
