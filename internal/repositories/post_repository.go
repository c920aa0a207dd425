package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/anonto42/class-forum/backend/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CreatePost creates a new post in PostgreSQL
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = 0
	post.CreatedAt = time.Now()
	return errors.Wrap(r.db.WithContext(ctx).Create(post).Error, "create post")
}

// GetPostByID retrieves a post by ID from PostgreSQL
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err, "get post")
	}
	return &post, nil
}

// GetPosts retrieves all public posts
func (r *PostgresPostRepository) GetPosts(ctx context.Context) ([]models.Post, error) {
	return r.findPosts(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("privacy = ?", models.PrivacyPublic)
	})
}

// GetPostsByCategory retrieves the public posts of a category
func (r *PostgresPostRepository) GetPostsByCategory(ctx context.Context, category string) ([]models.Post, error) {
	return r.findPosts(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("privacy = ? AND category = ?", models.PrivacyPublic, category)
	})
}

// SearchPosts searches public posts by title or content (case-insensitive)
func (r *PostgresPostRepository) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	return r.findPosts(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("privacy = ?", models.PrivacyPublic).
			Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	})
}

// GetPostsByUser retrieves every post of an author, private ones included
func (r *PostgresPostRepository) GetPostsByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	return r.findPosts(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("author_id = ?", userID)
	})
}

// GetFeedPosts retrieves public posts by userID and by the users userID follows
func (r *PostgresPostRepository) GetFeedPosts(ctx context.Context, userID uint) ([]models.Post, error) {
	following := r.db.Table("follows").Select("following_id").Where("follower_id = ?", userID)
	return r.findPosts(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("privacy = ?", models.PrivacyPublic).
			Where("author_id = ? OR author_id IN (?)", userID, following)
	})
}

func (r *PostgresPostRepository) findPosts(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	err := r.db.WithContext(ctx).Scopes(scope).Order("created_at DESC, id DESC").Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "find posts")
	}
	return posts, nil
}
