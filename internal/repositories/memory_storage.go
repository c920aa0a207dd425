package repositories

import (
	"cmp"
	"sync"
	"time"

	"github.com/anonto42/class-forum/backend/internal/models"
)

type followPair struct {
	followerID  uint
	followingID uint
}

// MemStorage implements Storage with in-process maps. State lives as long as the process.
// Every method holds mu for its whole read/modify/write sequence.
type MemStorage struct {
	mu sync.RWMutex

	users     map[uint]models.User
	posts     map[uint]models.Post
	comments  map[uint]models.Comment
	followers map[uint]models.Follow

	// edgeIDs maps a (follower, following) pair to its edge in followers.
	edgeIDs map[followPair]uint

	currentUserID     uint
	currentPostID     uint
	currentCommentID  uint
	currentFollowerID uint

	now func() time.Time
}

// NewMemStorage creates an empty MemStorage
func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:             make(map[uint]models.User),
		posts:             make(map[uint]models.Post),
		comments:          make(map[uint]models.Comment),
		followers:         make(map[uint]models.Follow),
		edgeIDs:           make(map[followPair]uint),
		currentUserID:     1,
		currentPostID:     1,
		currentCommentID:  1,
		currentFollowerID: 1,
		now:               time.Now,
	}
}

var _ Storage = (*MemStorage)(nil)

func newestFirst(a, b models.Post) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func oldestFirst(a, b models.Comment) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
