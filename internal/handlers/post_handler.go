package handlers

import (
	"net/http"

	"github.com/anonto42/class-forum/backend/internal/models"
	"github.com/anonto42/class-forum/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository) *PostHandler {
	return &PostHandler{postRepository: postRepo}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/search", h.SearchPosts)
	g.GET("/posts/category/:category", h.GetPostsByCategory)
	g.GET("/posts/:id", h.GetPost, optionalAuth)
	g.POST("/posts", h.CreatePost, requireAuth)
}

// GetPosts lists every public post, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.postRepository.GetPosts(c.Request().Context())
	if err != nil {
		return storageError(err, "")
	}
	return c.JSON(http.StatusOK, posts)
}

// SearchPosts matches ?q= against public post titles and contents. An empty query matches nothing.
func (h *PostHandler) SearchPosts(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusOK, []models.Post{})
	}
	posts, err := h.postRepository.SearchPosts(c.Request().Context(), query)
	if err != nil {
		return storageError(err, "")
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPostsByCategory lists the public posts of one category
func (h *PostHandler) GetPostsByCategory(c echo.Context) error {
	category := c.Param("category")
	if !models.IsValidCategory(category) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown category: "+category)
	}
	posts, err := h.postRepository.GetPostsByCategory(c.Request().Context(), category)
	if err != nil {
		return storageError(err, "")
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost retrieves a post by ID. Private posts are reported missing to everyone but their author.
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return storageError(err, "Post not found")
	}
	if !visibleTo(post, getUserIDFromContext(c)) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return c.JSON(http.StatusOK, post)
}

// CreatePost creates a new post authored by the current user
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		AuthorID:    getUserIDFromContext(c),
		Title:       req.Title,
		Content:     req.Content,
		Category:    req.Category,
		Privacy:     req.Privacy,
		Attachments: req.Attachments,
	}
	if post.Attachments == nil {
		post.Attachments = []string{}
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return storageError(err, "")
	}
	return c.JSON(http.StatusCreated, post)
}
