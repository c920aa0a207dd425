package repositories

import (
	"context"

	"github.com/anonto42/class-forum/backend/internal/models"
)

// GetUser retrieves a user by ID
func (s *MemStorage) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := user.Clone()
	return &clone, nil
}

// GetUserByUsername returns the lowest-ID user with the given username
func (s *MemStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findUser(func(u models.User) bool { return u.Username == username })
}

// GetUserByFirebaseUID returns the user linked to a Firebase account
func (s *MemStorage) GetUserByFirebaseUID(_ context.Context, firebaseUID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findUser(func(u models.User) bool {
		return u.FirebaseUID != nil && *u.FirebaseUID == firebaseUID
	})
}

// findUser scans users in ID order. Callers hold mu.
func (s *MemStorage) findUser(match func(models.User) bool) (*models.User, error) {
	for id := uint(1); id < s.currentUserID; id++ {
		user, ok := s.users[id]
		if ok && match(user) {
			clone := user.Clone()
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

// CreateUser assigns the next user ID and stores the user.
// Username uniqueness is the caller's responsibility.
func (s *MemStorage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.currentUserID
	s.currentUserID++
	user.IsVerified = verifiedFor(user.Username)
	s.users[user.ID] = user.Clone()
	return nil
}

// UpdateUser applies the allowed profile fields to a stored user
func (s *MemStorage) UpdateUser(_ context.Context, id uint, update models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	update.Apply(&user)
	s.users[id] = user
	clone := user.Clone()
	return &clone, nil
}
