package handlers

import (
	"net/http"

	"github.com/anonto42/class-forum/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository repositories.PostRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository) *FeedHandler {
	return &FeedHandler{postRepository: postRepo}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/feed", h.GetFeed, requireAuth)
}

// GetFeed returns the current user's public posts and those of the users they follow, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	posts, err := h.postRepository.GetFeedPosts(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return storageError(err, "")
	}
	return c.JSON(http.StatusOK, posts)
}
