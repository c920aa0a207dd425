package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anonto42/class-forum/backend/internal/models"
	"github.com/anonto42/class-forum/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		postRepository: postRepo,
	}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/users/:id", h.GetUser)
	g.PATCH("/users/:id", h.UpdateUser, requireAuth)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id", "user")
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUser(c.Request().Context(), id)
	if err != nil {
		return storageError(err, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser updates the authenticated user's own profile. Only the fields of
// models.UserUpdate are accepted; any other key is rejected.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c, "id", "user")
	if err != nil {
		return err
	}
	if getUserIDFromContext(c) != id {
		return echo.NewHTTPError(http.StatusForbidden, "You can only update your own profile")
	}

	var req models.UserUpdate
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.UpdateUser(c.Request().Context(), id, req)
	if err != nil {
		return storageError(err, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

// GetUserPosts lists every post of a user, private ones included.
// TODO: restrict private posts to the author once the product decides who may see them.
func (h *UserHandler) GetUserPosts(c echo.Context) error {
	id, err := parseID(c, "id", "user")
	if err != nil {
		return err
	}
	posts, err := h.postRepository.GetPostsByUser(c.Request().Context(), id)
	if err != nil {
		return storageError(err, "")
	}
	return c.JSON(http.StatusOK, posts)
}
