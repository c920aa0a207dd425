package repositories

import (
	"context"
	"slices"
	"strings"

	"github.com/anonto42/class-forum/backend/internal/models"
)

// CreatePost assigns the next post ID and the creation time, then stores the post
func (s *MemStorage) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post.ID = s.currentPostID
	s.currentPostID++
	post.CreatedAt = s.now()
	s.posts[post.ID] = post.Clone()
	return nil
}

// GetPostByID retrieves a post by ID regardless of its privacy
func (s *MemStorage) GetPostByID(_ context.Context, id uint) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := post.Clone()
	return &clone, nil
}

// GetPosts returns every public post, newest first
func (s *MemStorage) GetPosts(_ context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterPosts(models.Post.IsPublic), nil
}

// GetPostsByCategory returns the public posts of one category, newest first
func (s *MemStorage) GetPostsByCategory(_ context.Context, category string) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterPosts(func(p models.Post) bool {
		return p.IsPublic() && p.Category == category
	}), nil
}

// SearchPosts matches query case-insensitively against title or content of public posts
func (s *MemStorage) SearchPosts(_ context.Context, query string) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	return s.filterPosts(func(p models.Post) bool {
		return p.IsPublic() && (strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Content), q))
	}), nil
}

// GetPostsByUser returns all posts of an author, private ones included
func (s *MemStorage) GetPostsByUser(_ context.Context, userID uint) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterPosts(func(p models.Post) bool { return p.AuthorID == userID }), nil
}

// GetFeedPosts returns public posts written by userID or by anyone userID follows
func (s *MemStorage) GetFeedPosts(_ context.Context, userID uint) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	authors := map[uint]bool{userID: true}
	for _, f := range s.followers {
		if f.FollowerID == userID {
			authors[f.FollowingID] = true
		}
	}
	return s.filterPosts(func(p models.Post) bool {
		return p.IsPublic() && authors[p.AuthorID]
	}), nil
}

// filterPosts returns copies of the matching posts, newest first. Callers hold mu.
func (s *MemStorage) filterPosts(match func(models.Post) bool) []models.Post {
	posts := make([]models.Post, 0)
	for _, p := range s.posts {
		if match(p) {
			posts = append(posts, p.Clone())
		}
	}
	slices.SortFunc(posts, newestFirst)
	return posts
}
