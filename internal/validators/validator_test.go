package validators

import (
	"net/http"
	"testing"

	"github.com/anonto42/class-forum/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	msg, ok := httpErr.Message.(string)
	require.True(t, ok)
	return msg
}

func TestValidatePost(t *testing.T) {
	v := NewValidator()

	valid := models.CreatePostRequest{
		Title:       "Midterm review",
		Content:     "Bring questions",
		Category:    models.CategoryAnnouncements,
		Privacy:     models.PrivacyPublic,
		Attachments: []string{"https://example.com/slides.pdf"},
	}
	assert.NoError(t, v.Validate(&valid))

	bad := valid
	bad.Category = "Gossip"
	assert.Contains(t, validationMessage(t, v.Validate(&bad)), "category must be one of")

	bad = valid
	bad.Privacy = "friends"
	assert.Contains(t, validationMessage(t, v.Validate(&bad)), "privacy must be one of")

	bad = valid
	bad.Attachments = []string{"not a url"}
	assert.Contains(t, validationMessage(t, v.Validate(&bad)), "must be a valid URL")

	msg := validationMessage(t, v.Validate(&models.CreatePostRequest{}))
	assert.Contains(t, msg, "title is required")
	assert.Contains(t, msg, "content is required")
}

func TestValidateUser(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.CreateUserRequest{Username: "alice", Password: "secret1"}))

	msg := validationMessage(t, v.Validate(&models.CreateUserRequest{Username: "al", Password: "123"}))
	assert.Contains(t, msg, "username length must be at least 3")
	assert.Contains(t, msg, "password length must be at least 6")
}

func TestValidateComment(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.CreateCommentRequest{Content: "Thanks!"}))
	assert.Contains(t, validationMessage(t, v.Validate(&models.CreateCommentRequest{})), "content is required")
}
