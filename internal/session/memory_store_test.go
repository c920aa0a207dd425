package session

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	log, _ := test.NewNullLogger()
	s := NewMemoryStore(0, log)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewSession(t *testing.T) {
	sess := New(7, time.Hour)
	other := New(7, time.Hour)

	assert.NotEmpty(t, sess.ID)
	assert.NotEqual(t, sess.ID, other.ID)
	assert.Equal(t, uint(7), sess.UserID)
	assert.Equal(t, time.Hour, sess.ExpiresAt.Sub(sess.CreatedAt))
	assert.False(t, sess.Expired(sess.CreatedAt))
	assert.True(t, sess.Expired(sess.ExpiresAt))
}

func TestMemoryStoreSetGetDestroy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess := New(1, time.Hour)
	require.NoError(t, s.Set(ctx, sess))

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)

	require.NoError(t, s.Destroy(ctx, sess.ID))
	_, err = s.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Destroy(ctx, "unknown"))
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	now := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	short := &Session{ID: "short", UserID: 1, CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	long := &Session{ID: "long", UserID: 2, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, s.Set(ctx, short))
	require.NoError(t, s.Set(ctx, long))

	now = now.Add(2 * time.Minute)
	_, err := s.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.Get(ctx, "long")
	assert.NoError(t, err)
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	s := NewMemoryStore(5*time.Millisecond, log)
	defer s.Close()

	require.NoError(t, s.Set(ctx, New(1, -time.Minute)))
	require.NoError(t, s.Set(ctx, New(2, time.Hour)))

	assert.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.sessions) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		entry := hook.LastEntry()
		return entry != nil && entry.Data["removed"] == 1
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryStoreCloseIsIdempotent(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := NewMemoryStore(time.Hour, log)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
