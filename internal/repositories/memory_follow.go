package repositories

import (
	"cmp"
	"context"
	"slices"

	"github.com/anonto42/class-forum/backend/internal/models"
)

// FollowUser creates a follow edge. Following yourself or an existing edge is a no-op.
func (s *MemStorage) FollowUser(_ context.Context, followerID, followingID uint) error {
	if followerID == followingID {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pair := followPair{followerID: followerID, followingID: followingID}
	if _, exists := s.edgeIDs[pair]; exists {
		return nil
	}

	follow := models.Follow{
		ID:          s.currentFollowerID,
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   s.now(),
	}
	s.currentFollowerID++
	s.followers[follow.ID] = follow
	s.edgeIDs[pair] = follow.ID
	return nil
}

// UnfollowUser removes a follow edge if it exists
func (s *MemStorage) UnfollowUser(_ context.Context, followerID, followingID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := followPair{followerID: followerID, followingID: followingID}
	if id, exists := s.edgeIDs[pair]; exists {
		delete(s.followers, id)
		delete(s.edgeIDs, pair)
	}
	return nil
}

// GetFollowers returns the users following userID, in the order they followed
func (s *MemStorage) GetFollowers(_ context.Context, userID uint) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.usersFromEdges(
		func(f models.Follow) bool { return f.FollowingID == userID },
		func(f models.Follow) uint { return f.FollowerID },
	), nil
}

// GetFollowing returns the users userID follows, in the order they were followed
func (s *MemStorage) GetFollowing(_ context.Context, userID uint) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.usersFromEdges(
		func(f models.Follow) bool { return f.FollowerID == userID },
		func(f models.Follow) uint { return f.FollowingID },
	), nil
}

// IsFollowing reports whether a follow edge exists
func (s *MemStorage) IsFollowing(_ context.Context, followerID, followingID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.edgeIDs[followPair{followerID: followerID, followingID: followingID}]
	return exists, nil
}

// usersFromEdges scans the edges in creation order and materializes the selected
// endpoint of every matching edge. Callers hold mu.
func (s *MemStorage) usersFromEdges(match func(models.Follow) bool, endpoint func(models.Follow) uint) []models.User {
	edges := make([]models.Follow, 0)
	for _, f := range s.followers {
		if match(f) {
			edges = append(edges, f)
		}
	}
	slices.SortFunc(edges, func(a, b models.Follow) int { return cmp.Compare(a.ID, b.ID) })

	users := make([]models.User, 0, len(edges))
	for _, f := range edges {
		if user, ok := s.users[endpoint(f)]; ok {
			users = append(users, user.Clone())
		}
	}
	return users
}
