package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/class-forum/backend/internal/middleware"
	"github.com/anonto42/class-forum/backend/internal/models"
	"github.com/anonto42/class-forum/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// getUserIDFromContext returns the authenticated user's ID, or 0 for anonymous requests
func getUserIDFromContext(c echo.Context) uint {
	if claims := middleware.CurrentUser(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// parseID reads a positive integer path parameter
func parseID(c echo.Context, name, label string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+label+" ID")
	}
	return uint(id), nil
}

// storageError maps repository errors to HTTP errors: ErrNotFound becomes a 404
func storageError(err error, notFoundMsg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
}

// visibleTo reports whether viewerID may read post. Private posts are visible to their author only.
func visibleTo(post *models.Post, viewerID uint) bool {
	return post.IsPublic() || (viewerID != 0 && post.AuthorID == viewerID)
}
