// Package session stores login sessions keyed by an opaque session ID.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get when the session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Session is one logged-in browser or client.
type Session struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    uint      `json:"user_id" bson:"user_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// New creates a session for userID that expires after ttl.
func New(userID uint, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session is no longer valid at t.
func (s *Session) Expired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// Store is the session-store capability the auth layer relies on.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, s *Session) error
	Destroy(ctx context.Context, id string) error
	// Prune removes expired sessions and returns how many were removed.
	Prune(ctx context.Context) (int, error)
	Close() error
}
