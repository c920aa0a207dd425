package handlers

import (
	"net/http"

	"github.com/anonto42/class-forum/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	log              logrus.FieldLogger
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, log logrus.FieldLogger) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		log:              log,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
	g.GET("/users/:id/follow", h.FollowStatus, requireAuth)
	g.POST("/users/:id/follow", h.FollowUser, requireAuth)
	g.POST("/users/:id/unfollow", h.UnfollowUser, requireAuth)
	g.DELETE("/users/:id/follow", h.UnfollowUser, requireAuth)
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	id, err := parseID(c, "id", "user")
	if err != nil {
		return err
	}
	users, err := h.followRepository.GetFollowers(c.Request().Context(), id)
	if err != nil {
		return storageError(err, "")
	}
	return c.JSON(http.StatusOK, users)
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	id, err := parseID(c, "id", "user")
	if err != nil {
		return err
	}
	users, err := h.followRepository.GetFollowing(c.Request().Context(), id)
	if err != nil {
		return storageError(err, "")
	}
	return c.JSON(http.StatusOK, users)
}

// FollowStatus reports whether the current user follows :id
func (h *FollowHandler) FollowStatus(c echo.Context) error {
	targetID, err := parseID(c, "id", "user")
	if err != nil {
		return err
	}
	return h.respondStatus(c, getUserIDFromContext(c), targetID)
}

// FollowUser follows a user. Following yourself or someone already followed changes nothing.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	targetID, err := parseID(c, "id", "user")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUser(ctx, targetID); err != nil {
		return storageError(err, "User not found")
	}

	if err := h.followRepository.FollowUser(ctx, currentUserID, targetID); err != nil {
		return storageError(err, "")
	}
	h.log.WithFields(logrus.Fields{"follower_id": currentUserID, "following_id": targetID}).Debug("follow")
	return h.respondStatus(c, currentUserID, targetID)
}

// UnfollowUser unfollows a user. Unfollowing someone not followed changes nothing.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	targetID, err := parseID(c, "id", "user")
	if err != nil {
		return err
	}

	if err := h.followRepository.UnfollowUser(c.Request().Context(), currentUserID, targetID); err != nil {
		return storageError(err, "")
	}
	h.log.WithFields(logrus.Fields{"follower_id": currentUserID, "following_id": targetID}).Debug("unfollow")
	return h.respondStatus(c, currentUserID, targetID)
}

func (h *FollowHandler) respondStatus(c echo.Context, followerID, followingID uint) error {
	following, err := h.followRepository.IsFollowing(c.Request().Context(), followerID, followingID)
	if err != nil {
		return storageError(err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": following}})
}
