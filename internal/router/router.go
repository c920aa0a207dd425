package router

import (
	"time"

	"github.com/anonto42/class-forum/backend/internal/handlers"
	"github.com/anonto42/class-forum/backend/internal/middleware"
	"github.com/anonto42/class-forum/backend/internal/repositories"
	"github.com/anonto42/class-forum/backend/internal/session"
	"github.com/anonto42/class-forum/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Dependencies are the collaborators the route layer is built from
type Dependencies struct {
	Storage  repositories.Storage
	Sessions session.Store

	// Firebase enables POST /api/auth/firebase when set
	Firebase firebase.TokenVerifier

	SessionSecret string
	SessionTTL    time.Duration
	Log           logrus.FieldLogger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	log := deps.Log

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	requireAuth := middleware.SessionAuth(deps.SessionSecret, deps.Sessions)
	optionalAuth := middleware.OptionalSessionAuth(deps.SessionSecret, deps.Sessions)

	api := e.Group("/api")

	authHandler := handlers.NewAuthHandler(deps.Storage, deps.Sessions, deps.Firebase, deps.SessionSecret, deps.SessionTTL, log)
	authHandler.RegisterAuthRoutes(api, requireAuth)
	log.WithField("firebase", deps.Firebase != nil).Debug("Auth routes configured")

	userHandler := handlers.NewUserHandler(deps.Storage, deps.Storage)
	userHandler.RegisterProfileRoutes(api, requireAuth)
	log.Debug("User profile routes configured")

	postHandler := handlers.NewPostHandler(deps.Storage)
	postHandler.RegisterPostRoutes(api, requireAuth, optionalAuth)
	log.Debug("Post routes configured")

	commentHandler := handlers.NewCommentHandler(deps.Storage, deps.Storage)
	commentHandler.RegisterCommentRoutes(api, requireAuth, optionalAuth)
	log.Debug("Comment routes configured")

	followHandler := handlers.NewFollowHandler(deps.Storage, deps.Storage, log)
	followHandler.RegisterFollowRoutes(api, requireAuth)
	log.Debug("Follow routes configured")

	feedHandler := handlers.NewFeedHandler(deps.Storage)
	feedHandler.RegisterFeedRoutes(api, requireAuth)
	log.Debug("Feed routes configured")

	log.Info("All routes configured")
}
