package repositories

import (
	"github.com/anonto42/class-forum/backend/internal/models"
	"gorm.io/gorm"
)

// PostgresStorage implements Storage on top of the per-entity gorm repositories
type PostgresStorage struct {
	*PostgresUserRepository
	*PostgresPostRepository
	*PostgresCommentRepository
	*PostgresFollowRepository

	db *gorm.DB
}

var _ Storage = (*PostgresStorage)(nil)

// NewPostgresStorage creates a new PostgresStorage
func NewPostgresStorage(db *gorm.DB) *PostgresStorage {
	return &PostgresStorage{
		PostgresUserRepository:    NewPostgresUserRepository(db),
		PostgresPostRepository:    NewPostgresPostRepository(db),
		PostgresCommentRepository: NewPostgresCommentRepository(db),
		PostgresFollowRepository:  NewPostgresFollowRepository(db),
		db:                        db,
	}
}

// AutoMigrate creates or updates the forum tables
func (s *PostgresStorage) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
}
