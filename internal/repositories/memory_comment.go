package repositories

import (
	"context"
	"slices"

	"github.com/anonto42/class-forum/backend/internal/models"
)

// CreateComment assigns the next comment ID and the creation time, then stores the comment
func (s *MemStorage) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment.ID = s.currentCommentID
	s.currentCommentID++
	comment.CreatedAt = s.now()
	s.comments[comment.ID] = *comment
	return nil
}

// GetCommentsByPostID returns the comments of a post as a thread, oldest first
func (s *MemStorage) GetCommentsByPostID(_ context.Context, postID uint) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]models.Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	slices.SortFunc(comments, oldestFirst)
	return comments, nil
}
