package handlers

import (
	"net/http"

	"github.com/anonto42/class-forum/backend/internal/models"
	"github.com/anonto42/class-forum/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository // To check the post exists and is visible
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("/posts/:id/comments", h.GetCommentsByPostID, optionalAuth)
	g.POST("/posts/:id/comments", h.CreateComment, requireAuth)
}

// GetCommentsByPostID lists the comments of a post, oldest first
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID, err := h.visiblePostID(c)
	if err != nil {
		return err
	}

	comments, err := h.commentRepository.GetCommentsByPostID(c.Request().Context(), postID)
	if err != nil {
		return storageError(err, "")
	}
	return c.JSON(http.StatusOK, comments)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := h.visiblePostID(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: getUserIDFromContext(c),
		Content:  req.Content,
	}
	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return storageError(err, "")
	}
	return c.JSON(http.StatusCreated, comment)
}

// visiblePostID parses :id and checks that the post exists and the viewer may see it
func (h *CommentHandler) visiblePostID(c echo.Context) (uint, error) {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return 0, err
	}
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return 0, storageError(err, "Post not found")
	}
	if !visibleTo(post, getUserIDFromContext(c)) {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return postID, nil
}
