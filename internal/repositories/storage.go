package repositories

import (
	"context"

	"github.com/anonto42/class-forum/backend/internal/models"
	"github.com/pkg/errors"
)

// ErrNotFound is returned by every point lookup whose key does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, id uint, update models.UserUpdate) (*models.User, error)
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	GetPosts(ctx context.Context) ([]models.Post, error)
	GetPostsByCategory(ctx context.Context, category string) ([]models.Post, error)
	SearchPosts(ctx context.Context, query string) ([]models.Post, error)
	GetPostsByUser(ctx context.Context, userID uint) ([]models.Post, error)
	GetFeedPosts(ctx context.Context, userID uint) ([]models.Post, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error)
}

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	FollowUser(ctx context.Context, followerID, followingID uint) error
	UnfollowUser(ctx context.Context, followerID, followingID uint) error
	GetFollowers(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowing(ctx context.Context, userID uint) ([]models.User, error)
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
}

// Storage is the single data-access object behind the API routes.
type Storage interface {
	UserRepository
	PostRepository
	CommentRepository
	FollowRepository
}

// verifiedFor applies the verified-username rule used at user creation.
func verifiedFor(username string) bool {
	return username == models.VerifiedUsername
}
