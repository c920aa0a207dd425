package repositories

import (
	"context"
	"time"

	"github.com/anonto42/class-forum/backend/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// FollowUser inserts a follow edge; the unique (follower, following) index makes repeats a no-op
func (r *PostgresFollowRepository) FollowUser(ctx context.Context, followerID, followingID uint) error {
	if followerID == followingID {
		return nil
	}
	follow := &models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error
	return errors.Wrap(err, "follow user")
}

func (r *PostgresFollowRepository) UnfollowUser(ctx context.Context, followerID, followingID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
	return errors.Wrap(err, "unfollow user")
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "is following")
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	return r.usersByEdge(ctx, "follows.follower_id", "follows.following_id = ?", userID)
}

func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	return r.usersByEdge(ctx, "follows.following_id", "follows.follower_id = ?", userID)
}

// usersByEdge joins users to follows on endpoint and orders by edge creation
func (r *PostgresFollowRepository) usersByEdge(ctx context.Context, endpoint, filter string, userID uint) ([]models.User, error) {
	users := make([]models.User, 0)
	err := r.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN follows ON users.id = "+endpoint).
		Where(filter, userID).
		Order("follows.id").
		Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "list follow users")
	}
	return users, nil
}
